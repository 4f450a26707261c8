package deck

import (
	"errors"
	"reflect"
	"testing"

	"github.com/streakkeeper/streakkeeper/internal/apperr"
)

func sampleTable() *Table {
	return NewTable([]Deck{
		{ID: 1, Name: "Default"},
		{ID: 10, Name: "Vocabulary"},
		{ID: 11, Name: "Vocabulary::Verbs"},
		{ID: 12, Name: "Vocabulary::Nouns"},
		{ID: 13, Name: "Vocabulary::Nouns::Animals"},
		{ID: 20, Name: "Vocabulary Extra"},
		{ID: 30, Name: "Русский"},
		{ID: 31, Name: "Русский::Глаголы"},
		{ID: 40, Name: "Straße"},
	})
}

func TestResolveIncludesDescendantsRegardlessOfCase(t *testing.T) {
	table := sampleTable()
	want := []int64{10, 11, 12, 13}

	for _, name := range []string{"Vocabulary", "vocabulary", "VOCABULARY", "  vOcAbUlArY "} {
		t.Run(name, func(t *testing.T) {
			got, err := table.Resolve(name)
			if err != nil {
				t.Fatalf("Resolve returned error: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("expected %v, got %v", want, got)
			}
		})
	}
}

func TestResolveSubdeckOnly(t *testing.T) {
	got, err := sampleTable().Resolve("vocabulary::nouns")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if want := []int64{12, 13}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestResolveDoesNotMatchSiblingWithSharedPrefix(t *testing.T) {
	got, err := sampleTable().Resolve("Vocabulary")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	for _, id := range got {
		if id == 20 {
			t.Fatalf("did not expect %q to match", "Vocabulary Extra")
		}
	}
}

func TestResolveUnicodeCaseFolding(t *testing.T) {
	table := sampleTable()

	got, err := table.Resolve("РУССКИЙ")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if want := []int64{30, 31}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	got, err = table.Resolve("STRAßE")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if want := []int64{40}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestResolveEmptyNameSelectsWholeCollection(t *testing.T) {
	got, err := sampleTable().Resolve("")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(got) != 9 {
		t.Fatalf("expected all 9 decks, got %v", got)
	}
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Fatalf("expected ascending ids, got %v", got)
		}
	}
}

func TestResolveUnknownDeck(t *testing.T) {
	_, err := sampleTable().Resolve("Kanji")
	if !errors.Is(err, apperr.ErrDeckNotFound) {
		t.Fatalf("expected DeckNotFound, got %v", err)
	}
}

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Deck\x1fSubDeck", "Deck::SubDeck"},
		{"Deck\x1fSubDeck\x1fSubSubDeck", "Deck::SubDeck::SubSubDeck"},
		{"Deck::SubDeck", "Deck::SubDeck"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeName(tc.input); got != tc.want {
			t.Fatalf("NormalizeName(%q): expected %q, got %q", tc.input, tc.want, got)
		}
	}
}

func TestDeckParentAndDepth(t *testing.T) {
	d := Deck{ID: 13, Name: "Vocabulary::Nouns::Animals"}
	if got := d.Parent(); got != "Vocabulary::Nouns" {
		t.Fatalf("expected parent Vocabulary::Nouns, got %q", got)
	}
	if got := d.Depth(); got != 2 {
		t.Fatalf("expected depth 2, got %d", got)
	}
	if got := (Deck{Name: "Default"}).Parent(); got != "" {
		t.Fatalf("expected no parent, got %q", got)
	}
}

func TestTableNames(t *testing.T) {
	table := sampleTable()
	name, ok := table.Name(31)
	if !ok || name != "Русский::Глаголы" {
		t.Fatalf("unexpected name %q (ok=%v)", name, ok)
	}
	if _, ok := table.Name(999); ok {
		t.Fatalf("expected unknown id to be absent")
	}
	if got := len(table.Names()); got != 9 {
		t.Fatalf("expected 9 names, got %d", got)
	}
}
