// Package deck resolves deck names, including their subdecks, to deck ids.
package deck

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/streakkeeper/streakkeeper/internal/apperr"
)

// Separator delimits the levels of a deck path, e.g. "Languages::Japanese".
const Separator = "::"

// storeSeparator is the unit separator Anki uses between levels on disk.
const storeSeparator = "\x1f"

// Deck is a row of the collection's deck table.
type Deck struct {
	ID   int64
	Name string
}

// Parent returns the path of the enclosing deck, or "" for a top level deck.
func (d Deck) Parent() string {
	idx := strings.LastIndex(d.Name, Separator)
	if idx < 0 {
		return ""
	}
	return d.Name[:idx]
}

// Depth is the number of levels above the deck.
func (d Deck) Depth() int {
	return strings.Count(d.Name, Separator)
}

// NormalizeName converts a stored deck name into its "::" delimited path.
func NormalizeName(stored string) string {
	return strings.ReplaceAll(stored, storeSeparator, Separator)
}

// Table is a flat id -> path lookup over every deck in a collection.
type Table struct {
	decks []Deck
	names map[int64]string
	keys  map[int64]string
}

// NewTable indexes decks for name resolution.
func NewTable(decks []Deck) *Table {
	t := &Table{
		decks: make([]Deck, len(decks)),
		names: make(map[int64]string, len(decks)),
		keys:  make(map[int64]string, len(decks)),
	}
	copy(t.decks, decks)
	sort.Slice(t.decks, func(i, j int) bool { return t.decks[i].Name < t.decks[j].Name })

	caser := cases.Fold()
	for _, d := range t.decks {
		t.names[d.ID] = d.Name
		t.keys[d.ID] = foldKey(caser, d.Name)
	}
	return t
}

// Decks returns the indexed decks ordered by path.
func (t *Table) Decks() []Deck {
	out := make([]Deck, len(t.decks))
	copy(out, t.decks)
	return out
}

// Name returns the path of the deck with the given id.
func (t *Table) Name(id int64) (string, bool) {
	name, ok := t.names[id]
	return name, ok
}

// Names maps every deck id to its path.
func (t *Table) Names() map[int64]string {
	out := make(map[int64]string, len(t.names))
	for id, name := range t.names {
		out[id] = name
	}
	return out
}

// Resolve returns the ids of the deck called name and all of its descendants,
// sorted ascending. Matching ignores Unicode case. An empty name selects every
// deck in the collection.
func (t *Table) Resolve(name string) ([]int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		ids := make([]int64, 0, len(t.decks))
		for _, d := range t.decks {
			ids = append(ids, d.ID)
		}
		sortIDs(ids)
		return ids, nil
	}

	want := foldKey(cases.Fold(), name)
	prefix := want + Separator

	var ids []int64
	for id, key := range t.keys {
		if key == want || strings.HasPrefix(key, prefix) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, apperr.New(apperr.KindDeckNotFound, "no deck named %q", name)
	}
	sortIDs(ids)
	return ids, nil
}

// foldKey reduces a deck path to a form where case and composition
// differences compare equal. Whitespace around each level is ignored.
func foldKey(caser cases.Caser, name string) string {
	parts := strings.Split(NormalizeName(name), Separator)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	joined := norm.NFC.String(strings.Join(parts, Separator))
	caser.Reset()
	return caser.String(joined)
}

func sortIDs(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
