package services

import (
	"context"
	"net/url"

	"games_storefront/internal/clients/gameapi"
	"games_storefront/internal/models"
)

type ImagesAPI interface {
	PutImage(ctx context.Context, token string, owner gameapi.ImageOwner, id int, img models.Image) error
	DeleteImage(ctx context.Context, token string, owner gameapi.ImageOwner, id int) error
}

type GamesAPI interface {
	ImagesAPI
	ListGames(ctx context.Context, token string, query url.Values) (*models.GamesResponse, error)
	GetGame(ctx context.Context, id int) (*models.GameDetail, error)
	CreateGame(ctx context.Context, token string, game models.CreateGameRequest) (int, error)
	UpdateGame(ctx context.Context, token string, id int, game models.UpdateGameRequest) error
	DeleteGame(ctx context.Context, token string, id int) error
	GetReviews(ctx context.Context, id int) ([]models.Review, error)
	CreateReview(ctx context.Context, token string, id int, review models.ReviewRequest) error
	SetRelation(ctx context.Context, token string, id int, rel models.Relation, on bool) error
}

type ReferenceAPI interface {
	GetGenres(ctx context.Context) ([]models.Genre, error)
	GetPlatforms(ctx context.Context) ([]models.Platform, error)
}

type UsersAPI interface {
	ImagesAPI
	Register(ctx context.Context, user models.RegisterRequest) (int, error)
	Login(ctx context.Context, creds models.LoginRequest) (*models.LoginResponse, error)
	Logout(ctx context.Context, token string) error
	GetUser(ctx context.Context, token string, id int) (*models.User, error)
	UpdateUser(ctx context.Context, token string, id int, user models.UpdateUserRequest) error
}
