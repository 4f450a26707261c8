package sqldb

// Deck is a row of the decks table. Name uses \x1f between levels.
type Deck struct {
	ID   int64
	Name string
}

// ReviewWithCard is a revlog row joined with its card.
type ReviewWithCard struct {
	ID   int64
	Cid  int64
	Nid  int64
	Did  int64
	Odid int64
	Ease int64
	Type int64
}

// RevlogOwner pairs a revlog id with the card it belongs to.
type RevlogOwner struct {
	ID  int64
	Cid int64
}

// DeckReviewCount is the number of reviews credited to a deck.
type DeckReviewCount struct {
	Did   int64
	Count int64
}
