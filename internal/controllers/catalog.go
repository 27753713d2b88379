package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"games_storefront/internal/catalog"
	"games_storefront/internal/services"
	"games_storefront/internal/validation"

	"github.com/gorilla/schema"
)

// Catalog form buttons. Each one maps to a single Browser trigger.
const (
	eventSearch = "search"
	eventFilter = "filter"
	eventClear  = "clear"
	eventSort   = "sort"
	eventSize   = "size"
)

var encoder = schema.NewEncoder()

type ReferenceLoader interface {
	Load(ctx context.Context) (catalog.Reference, error)
}

type catalogParams struct {
	Search       string `schema:"q,omitempty"`
	GenreIDs     []int  `schema:"genreIds,omitempty"`
	PlatformIDs  []int  `schema:"platformIds,omitempty"`
	MaxPrice     string `schema:"maxPrice,omitempty"`
	SortBy       string `schema:"sortBy,omitempty"`
	Page         int    `schema:"page,omitempty"`
	PageSize     int    `schema:"pageSize,omitempty"`
	PrevPageSize int    `schema:"prevPageSize,omitempty"`
	Event        string `schema:"event,omitempty"`

	// The list currently shown. Form inputs hold drafts until their own
	// button is pressed.
	AppliedSearch      string `schema:"appliedQ,omitempty"`
	AppliedGenreIDs    []int  `schema:"appliedGenreIds,omitempty"`
	AppliedPlatformIDs []int  `schema:"appliedPlatformIds,omitempty"`
	AppliedMaxPrice    string `schema:"appliedMaxPrice,omitempty"`
	AppliedSortBy      string `schema:"appliedSortBy,omitempty"`
}

type catalogView struct {
	State           catalog.State
	Ref             catalog.Reference
	MaxPrice        string
	AppliedMaxPrice string
	HasFilters      bool
	SortKeys        []catalog.SortKey
	PageSizes       []int
	Summary         string
	Empty           string
	Pager           catalog.Pager
	FirstURL        string
	PrevURL         string
	NextURL         string
	LastURL         string
}

type CatalogController struct {
	games     catalog.Fetcher
	reference ReferenceLoader
	render    *Renderer
	log       *slog.Logger
}

func NewCatalogController(games catalog.Fetcher, reference ReferenceLoader, render *Renderer, log *slog.Logger) *CatalogController {
	return &CatalogController{
		games:     games,
		reference: reference,
		render:    render,
		log:       log,
	}
}

func (c *CatalogController) Index(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.catalog.Index"

	ctx := r.Context()
	errs := validation.Errors{}

	var p catalogParams
	if err := decoder.Decode(&p, r.URL.Query()); err != nil {
		c.log.Debug("ignoring malformed catalog parameters",
			slog.String("operation", op),
			slog.String("error", err.Error()))
	}

	// Only the filter button and plain links read the price input.
	draftPrice := p.Event == eventFilter || p.Event == ""
	maxPrice, priceErr := validation.PriceFilter(p.MaxPrice)
	if priceErr != nil && draftPrice {
		errs.Add("maxPrice", "Price must be a positive number or zero")
	}

	initial := appliedState(p, maxPrice)

	ref, err := c.reference.Load(ctx)
	if err != nil {
		errs.Add(validation.General, services.MsgLoadFailed)
	}

	b := catalog.NewBrowser(c.games, c.log, initial)

	var st catalog.State
	switch p.Event {
	case eventSearch:
		st = b.Search(ctx, p.Search)
	case eventFilter:
		st = b.ApplyFilters(ctx, catalog.FiltersFromIDs(p.GenreIDs, p.PlatformIDs, maxPrice))
	case eventClear:
		st = b.ClearFilters(ctx)
	case eventSort:
		st = b.SetSort(ctx, catalog.ParseSortKey(p.SortBy))
	case eventSize:
		st = b.SetPageSize(ctx, p.PageSize)
	default:
		st = b.Load(ctx)
	}

	view := catalogView{
		State:      st,
		Ref:        ref,
		HasFilters: catalog.HasActiveFilters(st.Filters),
		SortKeys:   catalog.SortKeys,
		PageSizes:  catalog.PageSizes,
		Pager:      catalog.NewPager(st.Page, st.PageSize, st.Total),
	}
	if st.Filters.MaxPrice != nil {
		view.AppliedMaxPrice = catalog.FormatDollars(*st.Filters.MaxPrice)
	}
	view.MaxPrice = view.AppliedMaxPrice
	if priceErr != nil && draftPrice {
		view.MaxPrice = p.MaxPrice
	}
	if st.Error == "" && st.Total > 0 && len(st.Games) > 0 {
		view.Summary = catalog.Summary(st, ref)
	}
	if st.Error == "" {
		view.Empty = catalog.EmptyMessage(st.Search, st.Filters, st.Total)
	}

	view.FirstURL = pageURL(st, 1)
	view.PrevURL = pageURL(st, view.Pager.Prev)
	view.NextURL = pageURL(st, view.Pager.Next)
	view.LastURL = pageURL(st, view.Pager.TotalPages)

	c.render.Render(w, r, http.StatusOK, pageCatalog, Page{Title: "Browse games", Errors: errs, Data: view})
}

// appliedState is the list the visitor was looking at. Plain links carry it
// in the input names, form submissions in the hidden applied fields.
func appliedState(p catalogParams, linkPrice *int) catalog.State {
	if p.Event == "" {
		return catalog.State{
			Search:   p.Search,
			Filters:  catalog.FiltersFromIDs(p.GenreIDs, p.PlatformIDs, linkPrice),
			Sort:     catalog.ParseSortKey(p.SortBy),
			Page:     p.Page,
			PageSize: p.PageSize,
		}
	}

	// Applied prices are written back by pageURL and the form, so a bad
	// value means tampering and is dropped.
	applied, _ := validation.PriceFilter(p.AppliedMaxPrice)
	return catalog.State{
		Search:   p.AppliedSearch,
		Filters:  catalog.FiltersFromIDs(p.AppliedGenreIDs, p.AppliedPlatformIDs, applied),
		Sort:     catalog.ParseSortKey(p.AppliedSortBy),
		Page:     p.Page,
		PageSize: p.PrevPageSize,
	}
}

// pageURL links to page of the list st shows.
func pageURL(st catalog.State, page int) string {
	p := catalogParams{
		Search:      st.Search,
		GenreIDs:    st.Filters.GenreIDs,
		PlatformIDs: st.Filters.PlatformIDs,
		SortBy:      string(st.Sort),
		Page:        page,
		PageSize:    st.PageSize,
	}
	if st.Filters.MaxPrice != nil {
		p.MaxPrice = catalog.FormatDollars(*st.Filters.MaxPrice)
	}

	v := url.Values{}
	// catalogParams only holds strings and ints.
	_ = encoder.Encode(p, v)

	return "/?" + v.Encode()
}
