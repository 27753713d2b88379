package services

import (
	"context"
	"io"
	"log/slog"
	"net/url"

	"games_storefront/internal/clients/gameapi"
	"games_storefront/internal/models"

	"github.com/stretchr/testify/mock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockGamesAPI struct {
	mock.Mock
}

func (m *MockGamesAPI) ListGames(ctx context.Context, token string, query url.Values) (*models.GamesResponse, error) {
	args := m.Called(token, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GamesResponse), args.Error(1)
}

func (m *MockGamesAPI) GetGame(ctx context.Context, id int) (*models.GameDetail, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GameDetail), args.Error(1)
}

func (m *MockGamesAPI) CreateGame(ctx context.Context, token string, game models.CreateGameRequest) (int, error) {
	args := m.Called(token, game)
	return args.Int(0), args.Error(1)
}

func (m *MockGamesAPI) UpdateGame(ctx context.Context, token string, id int, game models.UpdateGameRequest) error {
	args := m.Called(token, id, game)
	return args.Error(0)
}

func (m *MockGamesAPI) DeleteGame(ctx context.Context, token string, id int) error {
	args := m.Called(token, id)
	return args.Error(0)
}

func (m *MockGamesAPI) GetReviews(ctx context.Context, id int) ([]models.Review, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *MockGamesAPI) CreateReview(ctx context.Context, token string, id int, review models.ReviewRequest) error {
	args := m.Called(token, id, review)
	return args.Error(0)
}

func (m *MockGamesAPI) SetRelation(ctx context.Context, token string, id int, rel models.Relation, on bool) error {
	args := m.Called(token, id, rel, on)
	return args.Error(0)
}

func (m *MockGamesAPI) PutImage(ctx context.Context, token string, owner gameapi.ImageOwner, id int, img models.Image) error {
	args := m.Called(token, owner, id, img)
	return args.Error(0)
}

func (m *MockGamesAPI) DeleteImage(ctx context.Context, token string, owner gameapi.ImageOwner, id int) error {
	args := m.Called(token, owner, id)
	return args.Error(0)
}

type MockUsersAPI struct {
	mock.Mock
}

func (m *MockUsersAPI) Register(ctx context.Context, user models.RegisterRequest) (int, error) {
	args := m.Called(user)
	return args.Int(0), args.Error(1)
}

func (m *MockUsersAPI) Login(ctx context.Context, creds models.LoginRequest) (*models.LoginResponse, error) {
	args := m.Called(creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LoginResponse), args.Error(1)
}

func (m *MockUsersAPI) Logout(ctx context.Context, token string) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *MockUsersAPI) GetUser(ctx context.Context, token string, id int) (*models.User, error) {
	args := m.Called(token, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUsersAPI) UpdateUser(ctx context.Context, token string, id int, user models.UpdateUserRequest) error {
	args := m.Called(token, id, user)
	return args.Error(0)
}

func (m *MockUsersAPI) PutImage(ctx context.Context, token string, owner gameapi.ImageOwner, id int, img models.Image) error {
	args := m.Called(token, owner, id, img)
	return args.Error(0)
}

func (m *MockUsersAPI) DeleteImage(ctx context.Context, token string, owner gameapi.ImageOwner, id int) error {
	args := m.Called(token, owner, id)
	return args.Error(0)
}

type MockReferenceAPI struct {
	mock.Mock
}

func (m *MockReferenceAPI) GetGenres(ctx context.Context) ([]models.Genre, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Genre), args.Error(1)
}

func (m *MockReferenceAPI) GetPlatforms(ctx context.Context) ([]models.Platform, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Platform), args.Error(1)
}

// hasParam matches a query containing key=value.
func hasParam(key, value string) interface{} {
	return mock.MatchedBy(func(v url.Values) bool { return v.Get(key) == value })
}

func apiError(status int, msg string) error {
	return &gameapi.APIError{Op: "test", Status: status, Message: msg}
}
