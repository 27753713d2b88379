package catalog

import (
	"context"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"sync"

	"games_storefront/internal/models"
)

const ErrFetchGames = "Error fetching games. Please try again."

type Fetcher interface {
	FetchGames(ctx context.Context, query url.Values) (*models.GamesResponse, error)
}

type FetcherFunc func(ctx context.Context, query url.Values) (*models.GamesResponse, error)

func (f FetcherFunc) FetchGames(ctx context.Context, query url.Values) (*models.GamesResponse, error) {
	return f(ctx, query)
}

// State is the catalog list view: the request parameters plus the last
// page the server returned.
type State struct {
	Search   string
	Filters  Filters
	Sort     SortKey
	Page     int
	PageSize int

	Games   []models.Game
	Total   int
	Loading bool
	Error   string
}

func (s State) Query() Query {
	return BuildQuery(s.Search, s.Filters, s.Sort, s.Page, s.PageSize)
}

// Browser owns the fetch lifecycle of the catalog list. Every trigger issues
// exactly one request; answers to superseded requests are dropped.
type Browser struct {
	fetcher Fetcher
	log     *slog.Logger

	mu    sync.Mutex
	state State
	seq   uint64
}

func NewBrowser(f Fetcher, log *slog.Logger, initial State) *Browser {
	initial.Search = strings.TrimSpace(initial.Search)
	if !initial.Sort.Valid() {
		initial.Sort = DefaultSort
	}
	if initial.Page < 1 {
		initial.Page = 1
	}
	initial.PageSize = NormalizePageSize(initial.PageSize)

	return &Browser{
		fetcher: f,
		log:     log,
		state:   initial,
	}
}

func (b *Browser) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshot()
}

func (b *Browser) snapshot() State {
	s := b.state
	s.Games = slices.Clone(b.state.Games)
	s.Filters.GenreIDs = slices.Clone(b.state.Filters.GenreIDs)
	s.Filters.PlatformIDs = slices.Clone(b.state.Filters.PlatformIDs)
	return s
}

func (b *Browser) Load(ctx context.Context) State {
	return b.trigger(ctx, func(*State) {})
}

func (b *Browser) Search(ctx context.Context, text string) State {
	return b.trigger(ctx, func(s *State) {
		s.Search = strings.TrimSpace(text)
		s.Page = 1
	})
}

func (b *Browser) ApplyFilters(ctx context.Context, f Filters) State {
	return b.trigger(ctx, func(s *State) {
		s.Filters = Filters{
			GenreIDs:    slices.Clone(f.GenreIDs),
			PlatformIDs: slices.Clone(f.PlatformIDs),
			MaxPrice:    f.MaxPrice,
		}
		s.Page = 1
	})
}

func (b *Browser) ClearFilters(ctx context.Context) State {
	return b.trigger(ctx, func(s *State) {
		s.Filters = Filters{}
		s.Page = 1
	})
}

func (b *Browser) SetSort(ctx context.Context, key SortKey) State {
	return b.trigger(ctx, func(s *State) {
		s.Sort = ParseSortKey(string(key))
	})
}

func (b *Browser) SetPage(ctx context.Context, page int) State {
	return b.trigger(ctx, func(s *State) {
		s.Page = max(page, 1)
	})
}

func (b *Browser) SetPageSize(ctx context.Context, size int) State {
	return b.trigger(ctx, func(s *State) {
		size = NormalizePageSize(size)
		s.Page = RecomputePage(s.Page, s.PageSize, size)
		s.PageSize = size
	})
}

func (b *Browser) trigger(ctx context.Context, mutate func(*State)) State {
	const op = "catalog.browser.fetch"

	b.mu.Lock()
	mutate(&b.state)
	b.seq++
	seq := b.seq
	b.state.Loading = true
	b.state.Error = ""
	query := b.state.Query().Values()
	b.mu.Unlock()

	res, err := b.fetcher.FetchGames(ctx, query)

	b.mu.Lock()
	defer b.mu.Unlock()

	if seq != b.seq {
		b.log.Debug("discarding superseded catalog response",
			slog.String("operation", op),
			slog.Uint64("seq", seq),
			slog.Uint64("latest", b.seq))
		return b.snapshot()
	}

	b.state.Loading = false
	if err != nil {
		b.log.Error("failed to fetch games",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		b.state.Error = ErrFetchGames
		return b.snapshot()
	}

	if res == nil {
		res = &models.GamesResponse{}
	}
	b.state.Games = res.Games
	b.state.Total = res.Count
	return b.snapshot()
}
