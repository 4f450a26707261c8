package database

// DeckReviewCount is the number of reviews a deck received in a window.
// Cards sitting in a filtered deck are credited to their home deck.
type DeckReviewCount struct {
	DeckID int64
	Count  int64
}

// Move is a single revlog identifier change.
type Move struct {
	OldID int64
	NewID int64
}
