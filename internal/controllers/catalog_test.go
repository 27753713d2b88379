package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"games_storefront/internal/catalog"
	"games_storefront/internal/models"
	"games_storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingFetcher answers with res and keeps every query it was sent.
type recordingFetcher struct {
	res     *models.GamesResponse
	err     error
	queries []url.Values
}

func (f *recordingFetcher) FetchGames(ctx context.Context, query url.Values) (*models.GamesResponse, error) {
	f.queries = append(f.queries, query)
	return f.res, f.err
}

func someGames(n, total int) *models.GamesResponse {
	res := &models.GamesResponse{Count: total}
	for i := 1; i <= n; i++ {
		res.Games = append(res.Games, models.Game{GameID: i, Title: "Game", GenreID: 1, PlatformIDs: []int{1}, Price: 500})
	}
	return res
}

func setupCatalogController(t *testing.T, f catalog.Fetcher, ref ReferenceLoader) *CatalogController {
	return NewCatalogController(f, ref, newTestRenderer(t), discardLogger())
}

func TestCatalogController_Index(t *testing.T) {
	t.Run("first page with defaults", func(t *testing.T) {
		f := &recordingFetcher{res: someGames(10, 23)}
		c := setupCatalogController(t, f, reference())

		rec := httptest.NewRecorder()
		c.Index(rec, getRequest("/", nil, nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, f.queries, 1)
		assert.Equal(t, "CREATED_ASC", f.queries[0].Get("sortBy"))
		assert.Equal(t, "0", f.queries[0].Get("startIndex"))
		assert.Equal(t, "10", f.queries[0].Get("count"))

		doc := parseHTML(t, rec)
		assert.Equal(t, "All games (showing 1-10 of 23)", doc.Find("#summary").Text())
		assert.Equal(t, "Page 1 of 3", doc.Find("#page-of").Text())
		assert.Equal(t, 10, doc.Find(".game-card").Length())
		assert.Zero(t, doc.Find("#prev-page").Length())

		next, ok := doc.Find("#next-page").Attr("href")
		require.True(t, ok)
		u, err := url.Parse(next)
		require.NoError(t, err)
		assert.Equal(t, "2", u.Query().Get("page"))
		assert.Equal(t, "10", u.Query().Get("pageSize"))
	})

	t.Run("search goes back to the first page", func(t *testing.T) {
		f := &recordingFetcher{res: someGames(1, 1)}
		c := setupCatalogController(t, f, reference())

		rec := httptest.NewRecorder()
		c.Index(rec, getRequest("/?q=+portal+&page=3&event=search", nil, nil))

		require.Len(t, f.queries, 1)
		assert.Equal(t, "portal", f.queries[0].Get("q"))
		assert.Equal(t, "0", f.queries[0].Get("startIndex"))
		assert.Equal(t, `Found 1 game matching "portal" (showing 1-1 of 1)`, parseHTML(t, rec).Find("#summary").Text())
	})

	t.Run("page size change keeps the first visible item", func(t *testing.T) {
		f := &recordingFetcher{res: someGames(10, 40)}
		c := setupCatalogController(t, f, reference())

		rec := httptest.NewRecorder()
		c.Index(rec, getRequest("/?page=3&prevPageSize=5&pageSize=10&event=size", nil, nil))

		require.Len(t, f.queries, 1)
		assert.Equal(t, "10", f.queries[0].Get("startIndex"))
		assert.Equal(t, "10", f.queries[0].Get("count"))
		assert.Equal(t, "Page 2 of 4", parseHTML(t, rec).Find("#page-of").Text())
	})

	t.Run("filters are sent and described", func(t *testing.T) {
		f := &recordingFetcher{res: someGames(2, 2)}
		c := setupCatalogController(t, f, reference())

		rec := httptest.NewRecorder()
		c.Index(rec, getRequest("/?genreIds=2&platformIds=1&platformIds=2&maxPrice=9.99&event=filter", nil, nil))

		require.Len(t, f.queries, 1)
		q := f.queries[0]
		assert.Equal(t, []string{"2"}, q["genreIds"])
		assert.Equal(t, []string{"1", "2"}, q["platformIds"])
		assert.Equal(t, "999", q.Get("price"))

		doc := parseHTML(t, rec)
		assert.True(t, strings.HasPrefix(doc.Find("#summary").Text(), "Found 2 games with "))
		_, checked := doc.Find(`input[name="genreIds"][value="2"]`).Attr("checked")
		assert.True(t, checked)
		price, _ := doc.Find(`input[name="maxPrice"]`).Attr("value")
		assert.Equal(t, "9.99", price)
		assert.Equal(t, 1, doc.Find(`button[value="clear"]`).Length())
	})

	t.Run("clear drops every filter", func(t *testing.T) {
		f := &recordingFetcher{res: someGames(3, 3)}
		c := setupCatalogController(t, f, reference())

		rec := httptest.NewRecorder()
		c.Index(rec, getRequest("/?genreIds=2&maxPrice=abc&page=2&event=clear", nil, nil))

		require.Len(t, f.queries, 1)
		q := f.queries[0]
		assert.Empty(t, q["genreIds"])
		assert.Empty(t, q.Get("price"))
		assert.Equal(t, "0", q.Get("startIndex"))

		doc := parseHTML(t, rec)
		price, _ := doc.Find(`input[name="maxPrice"]`).Attr("value")
		assert.Empty(t, price)
		assert.Zero(t, doc.Find(".error").Length())
	})

	t.Run("invalid max price", func(t *testing.T) {
		f := &recordingFetcher{res: someGames(0, 0)}
		c := setupCatalogController(t, f, reference())

		rec := httptest.NewRecorder()
		c.Index(rec, getRequest("/?maxPrice=-3&event=filter", nil, nil))

		doc := parseHTML(t, rec)
		assert.Contains(t, doc.Find(".filters .error").Text(), "Price must be a positive number or zero")
		assert.Empty(t, f.queries[0].Get("price"))
	})

	t.Run("sort keeps the applied search and filters", func(t *testing.T) {
		f := &recordingFetcher{res: someGames(10, 30)}
		c := setupCatalogController(t, f, reference())

		rec := httptest.NewRecorder()
		c.Index(rec, getRequest("/?q=mario&genreIds=1&maxPrice=5&sortBy=PRICE_ASC&page=2&prevPageSize=10&pageSize=10"+
			"&appliedQ=zelda&appliedSortBy=CREATED_ASC&appliedPlatformIds=2&event=sort", nil, nil))

		require.Len(t, f.queries, 1)
		q := f.queries[0]
		assert.Equal(t, "zelda", q.Get("q"))
		assert.Empty(t, q["genreIds"])
		assert.Equal(t, []string{"2"}, q["platformIds"])
		assert.Empty(t, q.Get("price"))
		assert.Equal(t, "PRICE_ASC", q.Get("sortBy"))
		assert.Equal(t, "10", q.Get("startIndex"))

		doc := parseHTML(t, rec)
		applied, _ := doc.Find(`input[name="appliedQ"]`).Attr("value")
		assert.Equal(t, "zelda", applied)
		sortBy, _ := doc.Find(`input[name="appliedSortBy"]`).Attr("value")
		assert.Equal(t, "PRICE_ASC", sortBy)
		assert.Zero(t, doc.Find(".filters .error").Length())
	})

	t.Run("page size ignores a draft search", func(t *testing.T) {
		f := &recordingFetcher{res: someGames(5, 30)}
		c := setupCatalogController(t, f, reference())

		rec := httptest.NewRecorder()
		c.Index(rec, getRequest("/?q=mario&appliedQ=zelda&appliedGenreIds=1&appliedMaxPrice=20.00"+
			"&page=3&prevPageSize=10&pageSize=5&event=size", nil, nil))

		require.Len(t, f.queries, 1)
		q := f.queries[0]
		assert.Equal(t, "zelda", q.Get("q"))
		assert.Equal(t, []string{"1"}, q["genreIds"])
		assert.Equal(t, "2000", q.Get("price"))
		assert.Equal(t, "20", q.Get("startIndex"))
		assert.Equal(t, "5", q.Get("count"))

		next, ok := parseHTML(t, rec).Find("#next-page").Attr("href")
		require.True(t, ok)
		u, err := url.Parse(next)
		require.NoError(t, err)
		assert.Equal(t, "zelda", u.Query().Get("q"))
		assert.Equal(t, "6", u.Query().Get("page"))
	})

	t.Run("search ignores draft filters", func(t *testing.T) {
		f := &recordingFetcher{res: someGames(1, 1)}
		c := setupCatalogController(t, f, reference())

		rec := httptest.NewRecorder()
		c.Index(rec, getRequest("/?q=mario&genreIds=1&appliedPlatformIds=2&page=2&prevPageSize=10&event=search", nil, nil))

		require.Len(t, f.queries, 1)
		q := f.queries[0]
		assert.Equal(t, "mario", q.Get("q"))
		assert.Empty(t, q["genreIds"])
		assert.Equal(t, []string{"2"}, q["platformIds"])
		assert.Equal(t, "0", q.Get("startIndex"))
	})

	t.Run("no range for an empty result", func(t *testing.T) {
		f := &recordingFetcher{res: someGames(0, 0)}
		c := setupCatalogController(t, f, reference())

		rec := httptest.NewRecorder()
		c.Index(rec, getRequest("/?q=nothing&event=search", nil, nil))

		doc := parseHTML(t, rec)
		assert.Empty(t, doc.Find("#summary").Text())
		assert.NotEmpty(t, doc.Find("#empty").Text())
	})

	t.Run("fetch failure", func(t *testing.T) {
		f := &recordingFetcher{err: errors.New("connection refused")}
		c := setupCatalogController(t, f, reference())

		rec := httptest.NewRecorder()
		c.Index(rec, getRequest("/", nil, nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		doc := parseHTML(t, rec)
		assert.Equal(t, catalog.ErrFetchGames, doc.Find("#fetch-error").Text())
		assert.Empty(t, doc.Find("#summary").Text())
	})

	t.Run("reference failure", func(t *testing.T) {
		f := &recordingFetcher{res: someGames(1, 1)}
		ref := &MockReferenceLoader{}
		ref.On("Load").Return(catalog.Reference{}, errors.New("down"))
		c := setupCatalogController(t, f, ref)

		rec := httptest.NewRecorder()
		c.Index(rec, getRequest("/", nil, nil))

		doc := parseHTML(t, rec)
		assert.Equal(t, services.MsgLoadFailed, doc.Find("#general-error").Text())
		assert.Equal(t, "Unknown", doc.Find(".game-card .genre").Text())
	})
}
