package services

import (
	"context"
	"fmt"
	"log/slog"

	"games_storefront/internal/catalog"
	"games_storefront/internal/models"
	"games_storefront/internal/session"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const (
	libraryPageSize  = 50
	msgLibraryFailed = "Failed to update your library. Please try again."
)

// LibraryService tracks which games the signed in user wishlisted or owns.
// The API has no per game lookup, so membership is read from the
// wishlistedByMe and ownedByMe listings.
type LibraryService struct {
	api GamesAPI
	log *slog.Logger
}

func NewLibraryService(api GamesAPI, log *slog.Logger) *LibraryService {
	return &LibraryService{api: api, log: log}
}

func (s *LibraryService) State(ctx context.Context, sess *session.Session, gameID int) (models.LibraryState, error) {
	const op = "services.library.State"

	state := models.LibraryState{GameID: gameID}
	if !sess.IsAuthenticated() {
		return state, fmt.Errorf("%s: %w", op, ErrNotAuthenticated)
	}

	errs, ectx := errgroup.WithContext(ctx)
	errs.Go(func() error {
		on, err := s.member(ectx, sess.Token, gameID, catalog.Query{WishlistedByMe: true})
		state.Wishlisted = on
		return err
	})
	errs.Go(func() error {
		on, err := s.member(ectx, sess.Token, gameID, catalog.Query{OwnedByMe: true})
		state.Owned = on
		return err
	})

	if err := errs.Wait(); err != nil {
		return models.LibraryState{GameID: gameID}, fmt.Errorf("%s: %w", op, err)
	}

	return state, nil
}

// member pages through the listing selected by q until gameID shows up or
// the listing is exhausted.
func (s *LibraryService) member(ctx context.Context, token string, gameID int, q catalog.Query) (bool, error) {
	q.SortBy = catalog.DefaultSort
	q.Count = libraryPageSize

	for q.StartIndex = 0; ; q.StartIndex += libraryPageSize {
		resp, err := s.api.ListGames(ctx, token, q.Values())
		if err != nil {
			return false, err
		}

		if lo.ContainsBy(resp.Games, func(g models.Game) bool { return g.GameID == gameID }) {
			return true, nil
		}

		if len(resp.Games) == 0 || q.StartIndex+len(resp.Games) >= resp.Count {
			return false, nil
		}
	}
}

// Toggle flips rel for gameID starting from current, the state the visitor
// was shown. The local result is returned when the resync fails.
func (s *LibraryService) Toggle(ctx context.Context, sess *session.Session, gameID int, rel models.Relation, current models.LibraryState) (models.LibraryState, error) {
	const op = "services.library.Toggle"

	if !sess.IsAuthenticated() {
		return current, fmt.Errorf("%s: %w", op, ErrNotAuthenticated)
	}

	on := !current.Has(rel)
	if err := s.api.SetRelation(ctx, sess.Token, gameID, rel, on); err != nil {
		s.log.Error(msgLibraryFailed,
			slog.String("operation", op),
			slog.Int("game_id", gameID),
			slog.String("relation", string(rel)),
			slog.String("error", err.Error()))
		return current, interpret(op, err, libraryMessages, msgLibraryFailed)
	}

	next := current
	next.GameID = gameID
	next.Set(rel, on)

	synced, err := s.State(ctx, sess, gameID)
	if err != nil {
		s.log.Warn("failed to resync library state",
			slog.String("operation", op),
			slog.Int("game_id", gameID),
			slog.String("error", err.Error()))
		return next, nil
	}

	return synced, nil
}
