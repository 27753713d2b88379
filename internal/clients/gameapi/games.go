package gameapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"games_storefront/internal/models"
)

func (c *Client) ListGames(ctx context.Context, token string, query url.Values) (*models.GamesResponse, error) {
	var res models.GamesResponse
	err := c.do(ctx, request{
		op:     "gameapi.ListGames",
		method: http.MethodGet,
		path:   "/games",
		query:  query,
		token:  token,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) GetGame(ctx context.Context, id int) (*models.GameDetail, error) {
	var res models.GameDetail
	err := c.do(ctx, request{
		op:     "gameapi.GetGame",
		method: http.MethodGet,
		path:   fmt.Sprintf("/games/%d", id),
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) CreateGame(ctx context.Context, token string, game models.CreateGameRequest) (int, error) {
	var res models.CreateGameResponse
	err := c.do(ctx, request{
		op:     "gameapi.CreateGame",
		method: http.MethodPost,
		path:   "/games",
		token:  token,
		body:   game,
	}, &res)
	if err != nil {
		return 0, err
	}
	return res.GameID, nil
}

func (c *Client) UpdateGame(ctx context.Context, token string, id int, game models.UpdateGameRequest) error {
	return c.do(ctx, request{
		op:     "gameapi.UpdateGame",
		method: http.MethodPatch,
		path:   fmt.Sprintf("/games/%d", id),
		token:  token,
		body:   game,
	}, nil)
}

func (c *Client) DeleteGame(ctx context.Context, token string, id int) error {
	return c.do(ctx, request{
		op:     "gameapi.DeleteGame",
		method: http.MethodDelete,
		path:   fmt.Sprintf("/games/%d", id),
		token:  token,
	}, nil)
}

func (c *Client) GetReviews(ctx context.Context, id int) ([]models.Review, error) {
	var res []models.Review
	err := c.do(ctx, request{
		op:     "gameapi.GetReviews",
		method: http.MethodGet,
		path:   fmt.Sprintf("/games/%d/reviews", id),
	}, &res)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) CreateReview(ctx context.Context, token string, id int, review models.ReviewRequest) error {
	return c.do(ctx, request{
		op:     "gameapi.CreateReview",
		method: http.MethodPost,
		path:   fmt.Sprintf("/games/%d/reviews", id),
		token:  token,
		body:   review,
	}, nil)
}

// SetRelation adds (on) or removes the game from the user's wishlist or
// owned list.
func (c *Client) SetRelation(ctx context.Context, token string, id int, rel models.Relation, on bool) error {
	method := http.MethodDelete
	if on {
		method = http.MethodPost
	}
	return c.do(ctx, request{
		op:     "gameapi.SetRelation",
		method: method,
		path:   fmt.Sprintf("/games/%d/%s", id, rel),
		token:  token,
	}, nil)
}

func (c *Client) GetGenres(ctx context.Context) ([]models.Genre, error) {
	var res []models.Genre
	err := c.do(ctx, request{
		op:     "gameapi.GetGenres",
		method: http.MethodGet,
		path:   "/games/genres",
	}, &res)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) GetPlatforms(ctx context.Context) ([]models.Platform, error) {
	var res []models.Platform
	err := c.do(ctx, request{
		op:     "gameapi.GetPlatforms",
		method: http.MethodGet,
		path:   "/games/platforms",
	}, &res)
	if err != nil {
		return nil, err
	}
	return res, nil
}
