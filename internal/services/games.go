package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"games_storefront/internal/catalog"
	"games_storefront/internal/clients/gameapi"
	"games_storefront/internal/models"
	"games_storefront/internal/session"
	"games_storefront/internal/validation"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const (
	similarSample = 20
	similarLimit  = 6
	myGamesCount  = 100
)

const (
	msgGameLoadFailed   = "Failed to load game data"
	msgCreateFailed     = "Failed to create game. Please try again."
	msgUpdateFailed     = "Failed to update game. Please try again."
	msgDeleteFailed     = "Failed to delete game. Please try again."
	msgReviewFailed     = "Failed to submit review"
	msgMyGamesFailed    = "Failed to load your games. Please try again."
	msgNoEditPermission = "You do not have permission to edit this game"
)

// Details is everything the game page shows.
type Details struct {
	Game    models.GameDetail
	Reviews []models.Review
	Similar []models.Game
	Library models.LibraryState
	// Signed is false for anonymous visitors, Library is then empty.
	Signed    bool
	IsCreator bool
	Reviewed  bool
}

type MyGames struct {
	Created    []models.Game
	Reviewed   []models.Game
	Wishlisted []models.Game
	Owned      []models.Game
}

type GameService struct {
	api     GamesAPI
	library *LibraryService
	log     *slog.Logger
}

func NewGameService(api GamesAPI, library *LibraryService, log *slog.Logger) *GameService {
	return &GameService{
		api:     api,
		library: library,
		log:     log,
	}
}

func (s *GameService) load(ctx context.Context, op string, id int) (*models.GameDetail, error) {
	game, err := s.api.GetGame(ctx, id)
	if err != nil {
		if gameapi.StatusOf(err) != http.StatusNotFound {
			s.log.Error(msgGameLoadFailed,
				slog.String("operation", op),
				slog.Int("game_id", id),
				slog.String("error", err.Error()))
		}
		return nil, interpret(op, err, gameDetailMessages, msgGameLoadFailed)
	}
	return game, nil
}

// Details loads the game, then its reviews, similar games and the visitor's
// library state concurrently. Only the game and its reviews are required.
func (s *GameService) Details(ctx context.Context, id int, sess *session.Session) (*Details, error) {
	const op = "services.games.Details"

	game, err := s.load(ctx, op, id)
	if err != nil {
		return nil, err
	}

	d := &Details{
		Game:      *game,
		Signed:    sess.IsAuthenticated(),
		IsCreator: sess.IsAuthenticated() && sess.UserID == game.CreatorID,
	}

	errs, ectx := errgroup.WithContext(ctx)
	errs.Go(func() error {
		reviews, err := s.api.GetReviews(ectx, id)
		if err != nil {
			return err
		}
		d.Reviews = reviews
		return nil
	})
	errs.Go(func() error {
		similar, err := s.Similar(ectx, game.Game)
		if err != nil {
			s.log.Warn("failed to load similar games",
				slog.String("operation", op),
				slog.String("error", err.Error()))
			return nil
		}
		d.Similar = similar
		return nil
	})
	if d.Signed && !d.IsCreator {
		errs.Go(func() error {
			state, err := s.library.State(ectx, sess, id)
			if err != nil {
				s.log.Warn("failed to load library state",
					slog.String("operation", op),
					slog.String("error", err.Error()))
				state = models.LibraryState{GameID: id}
			}
			d.Library = state
			return nil
		})
	}

	if err := errs.Wait(); err != nil {
		s.log.Error(msgGameLoadFailed,
			slog.String("operation", op),
			slog.Int("game_id", id),
			slog.String("error", err.Error()))
		return nil, formError(op, err, validation.General, msgGameLoadFailed)
	}

	if sess.IsAuthenticated() {
		d.Reviewed = lo.ContainsBy(d.Reviews, func(r models.Review) bool { return r.ReviewerID == sess.UserID })
	}

	return d, nil
}

// Similar samples the first page of the catalog and keeps games sharing the
// genre or the creator of g.
func (s *GameService) Similar(ctx context.Context, g models.Game) ([]models.Game, error) {
	const op = "services.games.Similar"

	query := catalog.Query{SortBy: catalog.DefaultSort, Count: similarSample}
	resp, err := s.api.ListGames(ctx, "", query.Values())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	similar := lo.Filter(resp.Games, func(other models.Game, _ int) bool {
		return other.GameID != g.GameID && (other.GenreID == g.GenreID || other.CreatorID == g.CreatorID)
	})
	if len(similar) > similarLimit {
		similar = similar[:similarLimit]
	}

	return similar, nil
}

// Create validates the form, creates the game and uploads its image. A
// failed upload is logged; the game exists either way.
func (s *GameService) Create(ctx context.Context, sess *session.Session, form validation.GameForm, img *models.Image) (int, error) {
	const op = "services.games.Create"

	if !sess.IsAuthenticated() {
		return 0, fmt.Errorf("%s: %w", op, ErrNotAuthenticated)
	}

	if errs := form.Validate(img, true); !errs.Valid() {
		return 0, invalid(op, errs)
	}

	id, err := s.api.CreateGame(ctx, sess.Token, form.CreateRequest())
	if err != nil {
		s.log.Error(msgCreateFailed,
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return 0, interpret(op, err, createGameMessages, msgCreateFailed)
	}

	s.uploadImage(ctx, op, sess.Token, id, img)

	return id, nil
}

// Update is limited to the game's creator.
func (s *GameService) Update(ctx context.Context, sess *session.Session, id int, form validation.GameForm, img *models.Image) error {
	const op = "services.games.Update"

	if !sess.IsAuthenticated() {
		return fmt.Errorf("%s: %w", op, ErrNotAuthenticated)
	}

	game, err := s.load(ctx, op, id)
	if err != nil {
		return err
	}
	if game.CreatorID != sess.UserID {
		return formError(op, ErrForbidden, validation.General, msgNoEditPermission)
	}

	if errs := form.Validate(img, false); !errs.Valid() {
		return invalid(op, errs)
	}

	if err := s.api.UpdateGame(ctx, sess.Token, id, form.UpdateRequest()); err != nil {
		s.log.Error(msgUpdateFailed,
			slog.String("operation", op),
			slog.Int("game_id", id),
			slog.String("error", err.Error()))
		return interpret(op, err, editGameMessages, msgUpdateFailed)
	}

	s.uploadImage(ctx, op, sess.Token, id, img)

	return nil
}

// Editable loads a game for its edit form.
func (s *GameService) Editable(ctx context.Context, sess *session.Session, id int) (*models.GameDetail, error) {
	const op = "services.games.Editable"

	if !sess.IsAuthenticated() {
		return nil, fmt.Errorf("%s: %w", op, ErrNotAuthenticated)
	}

	game, err := s.load(ctx, op, id)
	if err != nil {
		return nil, err
	}
	if game.CreatorID != sess.UserID {
		return nil, formError(op, ErrForbidden, validation.General, msgNoEditPermission)
	}

	return game, nil
}

// Delete asks the API to remove a game. The API refuses games that have
// reviews, wishlists or owners, and its 403 text is shown as is.
func (s *GameService) Delete(ctx context.Context, sess *session.Session, id int) error {
	const op = "services.games.Delete"

	if _, err := s.Editable(ctx, sess, id); err != nil {
		return err
	}

	if err := s.api.DeleteGame(ctx, sess.Token, id); err != nil {
		s.log.Error(msgDeleteFailed,
			slog.String("operation", op),
			slog.Int("game_id", id),
			slog.String("error", err.Error()))
		return interpret(op, err, deleteGameMessages, msgDeleteFailed)
	}

	s.log.Info("game deleted", slog.String("operation", op), slog.Int("game_id", id))

	return nil
}

func (s *GameService) Review(ctx context.Context, sess *session.Session, id int, form validation.ReviewForm) error {
	const op = "services.games.Review"

	if !sess.IsAuthenticated() {
		return fmt.Errorf("%s: %w", op, ErrNotAuthenticated)
	}

	if errs := form.Validate(); !errs.Valid() {
		return invalid(op, errs)
	}

	if err := s.api.CreateReview(ctx, sess.Token, id, form.Request()); err != nil {
		s.log.Error(msgReviewFailed,
			slog.String("operation", op),
			slog.Int("game_id", id),
			slog.String("error", err.Error()))
		return interpret(op, err, reviewMessages, msgReviewFailed)
	}

	return nil
}

// MyGames fetches the four personal lists of the signed in user at once.
func (s *GameService) MyGames(ctx context.Context, sess *session.Session) (*MyGames, error) {
	const op = "services.games.MyGames"

	if !sess.IsAuthenticated() {
		return nil, fmt.Errorf("%s: %w", op, ErrNotAuthenticated)
	}

	base := catalog.Query{SortBy: catalog.DefaultSort, Count: myGamesCount}

	var my MyGames
	errs, ectx := errgroup.WithContext(ctx)
	errs.Go(func() error { return s.list(ectx, sess.Token, withCreator(base, sess.UserID), &my.Created) })
	errs.Go(func() error { return s.list(ectx, sess.Token, withReviewer(base, sess.UserID), &my.Reviewed) })
	errs.Go(func() error { return s.list(ectx, sess.Token, withWishlisted(base), &my.Wishlisted) })
	errs.Go(func() error { return s.list(ectx, sess.Token, withOwned(base), &my.Owned) })

	if err := errs.Wait(); err != nil {
		s.log.Error(msgMyGamesFailed,
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return nil, formError(op, err, validation.General, msgMyGamesFailed)
	}

	return &my, nil
}

func (s *GameService) list(ctx context.Context, token string, q catalog.Query, dst *[]models.Game) error {
	resp, err := s.api.ListGames(ctx, token, q.Values())
	if err != nil {
		return err
	}
	*dst = resp.Games
	return nil
}

func (s *GameService) uploadImage(ctx context.Context, op, token string, id int, img *models.Image) {
	if img == nil {
		return
	}
	if err := s.api.PutImage(ctx, token, gameapi.GameImage, id, *img); err != nil {
		s.log.Warn("failed to upload game image",
			slog.String("operation", op),
			slog.Int("game_id", id),
			slog.String("error", err.Error()))
	}
}

func withCreator(q catalog.Query, id int) catalog.Query {
	q.CreatorID = id
	return q
}

func withReviewer(q catalog.Query, id int) catalog.Query {
	q.ReviewerID = id
	return q
}

func withWishlisted(q catalog.Query) catalog.Query {
	q.WishlistedByMe = true
	return q
}

func withOwned(q catalog.Query) catalog.Query {
	q.OwnedByMe = true
	return q
}
