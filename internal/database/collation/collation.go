// Package collation registers the custom SQLite collations Anki declares in
// its schema, so the sqlite driver can read and write collections that use them.
package collation

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"modernc.org/sqlite"
)

// Unicase is the collation Anki attaches to deck and notetype names.
const Unicase = "unicase"

var (
	registerOnce sync.Once
	registerErr  error
)

// Register makes the Anki collations available to every sqlite connection.
// It is safe to call more than once.
func Register() error {
	registerOnce.Do(func() {
		registerErr = sqlite.RegisterCollationUtf8(Unicase, CompareUnicase)
	})
	return registerErr
}

// CompareUnicase orders two strings ignoring Unicode case.
func CompareUnicase(left, right string) int {
	caser := cases.Fold()
	return strings.Compare(caser.String(left), caser.String(right))
}
