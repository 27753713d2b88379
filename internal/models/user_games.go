package models

type Relation string

const (
	RelationWishlist Relation = "wishlist"
	RelationOwned    Relation = "owned"
)

// LibraryState is the signed-in user's relationship to one game.
type LibraryState struct {
	GameID     int  `json:"gameId"`
	Wishlisted bool `json:"wishlisted"`
	Owned      bool `json:"owned"`
}

// Set applies a toggle result. Owning a game drops it from the wishlist.
func (s *LibraryState) Set(rel Relation, on bool) {
	switch rel {
	case RelationWishlist:
		s.Wishlisted = on
	case RelationOwned:
		s.Owned = on
		if on {
			s.Wishlisted = false
		}
	}
}

func (s LibraryState) Has(rel Relation) bool {
	if rel == RelationOwned {
		return s.Owned
	}
	return s.Wishlisted
}
