package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"games_storefront/internal/catalog"

	"github.com/kofalt/go-memoize"
	"golang.org/x/sync/errgroup"
)

const referenceKey = "reference"

// ReferenceService serves the genre and platform lists. Both are fetched
// together and cached for the configured TTL; failures are not cached.
type ReferenceService struct {
	api   ReferenceAPI
	log   *slog.Logger
	cache *memoize.Memoizer
}

func NewReferenceService(api ReferenceAPI, log *slog.Logger, ttl time.Duration) *ReferenceService {
	return &ReferenceService{
		api:   api,
		log:   log,
		cache: memoize.NewMemoizer(ttl, 2*ttl),
	}
}

func (s *ReferenceService) Load(ctx context.Context) (catalog.Reference, error) {
	const op = "services.reference.Load"

	v, err, cached := s.cache.Memoize(referenceKey, func() (interface{}, error) {
		return s.fetch(ctx)
	})
	if err != nil {
		s.log.Error("failed to load reference data",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return catalog.Reference{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Debug("reference data loaded", slog.String("operation", op), slog.Bool("cached", cached))

	return v.(catalog.Reference), nil
}

func (s *ReferenceService) fetch(ctx context.Context) (catalog.Reference, error) {
	var ref catalog.Reference

	errs, ectx := errgroup.WithContext(ctx)
	errs.Go(func() error {
		genres, err := s.api.GetGenres(ectx)
		ref.Genres = genres
		return err
	})
	errs.Go(func() error {
		platforms, err := s.api.GetPlatforms(ectx)
		ref.Platforms = platforms
		return err
	})

	if err := errs.Wait(); err != nil {
		return catalog.Reference{}, err
	}

	return ref, nil
}
