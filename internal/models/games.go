package models

import (
	"encoding/json"
	"time"
)

type Game struct {
	GameID           int       `json:"gameId"`
	Title            string    `json:"title"`
	GenreID          int       `json:"genreId"`
	CreationDate     time.Time `json:"creationDate"`
	CreatorID        int       `json:"creatorId"`
	CreatorFirstName string    `json:"creatorFirstName"`
	CreatorLastName  string    `json:"creatorLastName"`
	Price            int       `json:"price"`
	Rating           float64   `json:"rating"`
	PlatformIDs      []int     `json:"platformIds"`
}

func (g Game) CreatorName() string {
	if g.CreatorLastName == "" {
		return g.CreatorFirstName
	}
	return g.CreatorFirstName + " " + g.CreatorLastName
}

// GameDetail is the single game payload returned by GET /games/{id}.
type GameDetail struct {
	Game
	Description   string `json:"description"`
	NumWishlisted int    `json:"numWishlisted"`
	NumOwned      int    `json:"numOwned"`
	NumReviews    int    `json:"numReviews"`
}

// UnmarshalJSON reads numberOfWishlists and numberOfOwners only when the
// canonical numWishlisted and numOwned fields are missing.
func (d *GameDetail) UnmarshalJSON(data []byte) error {
	type detail GameDetail
	aux := struct {
		*detail
		NumWishlisted     *int `json:"numWishlisted"`
		NumOwned          *int `json:"numOwned"`
		NumberOfWishlists *int `json:"numberOfWishlists"`
		NumberOfOwners    *int `json:"numberOfOwners"`
	}{detail: (*detail)(d)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	switch {
	case aux.NumWishlisted != nil:
		d.NumWishlisted = *aux.NumWishlisted
	case aux.NumberOfWishlists != nil:
		d.NumWishlisted = *aux.NumberOfWishlists
	}

	switch {
	case aux.NumOwned != nil:
		d.NumOwned = *aux.NumOwned
	case aux.NumberOfOwners != nil:
		d.NumOwned = *aux.NumberOfOwners
	}

	return nil
}

// Deletable reports whether the server will accept a delete for this game.
func (d GameDetail) Deletable() bool {
	return d.NumReviews == 0 && d.NumWishlisted == 0 && d.NumOwned == 0
}

type GamesResponse struct {
	Games []Game `json:"games"`
	Count int    `json:"count"`
}

type Genre struct {
	GenreID int    `json:"genreId"`
	Name    string `json:"name"`
}

type Platform struct {
	PlatformID int    `json:"platformId"`
	Name       string `json:"name"`
}

type Review struct {
	ReviewID          int       `json:"reviewId"`
	GameID            int       `json:"gameId"`
	ReviewerID        int       `json:"reviewerId"`
	ReviewerFirstName string    `json:"reviewerFirstName"`
	ReviewerLastName  string    `json:"reviewerLastName"`
	Rating            int       `json:"rating"`
	Review            *string   `json:"review"`
	Timestamp         time.Time `json:"timestamp"`
}

type CreateGameRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	GenreID     int    `json:"genreId"`
	Price       int    `json:"price"`
	PlatformIDs []int  `json:"platformIds"`
}

type CreateGameResponse struct {
	GameID int `json:"gameId"`
}

// UpdateGameRequest is a partial update; nil fields are not sent.
type UpdateGameRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	GenreID     *int    `json:"genreId,omitempty"`
	Price       *int    `json:"price,omitempty"`
	PlatformIDs []int   `json:"platforms,omitempty"`
}

type ReviewRequest struct {
	Rating int     `json:"rating"`
	Review *string `json:"review,omitempty"`
}
