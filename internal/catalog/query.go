package catalog

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/schema"
	"github.com/samber/lo"
)

type SortKey string

const (
	SortAlphabeticalAsc  SortKey = "ALPHABETICAL_ASC"
	SortAlphabeticalDesc SortKey = "ALPHABETICAL_DESC"
	SortPriceAsc         SortKey = "PRICE_ASC"
	SortPriceDesc        SortKey = "PRICE_DESC"
	SortCreatedAsc       SortKey = "CREATED_ASC"
	SortCreatedDesc      SortKey = "CREATED_DESC"
	SortRatingAsc        SortKey = "RATING_ASC"
	SortRatingDesc       SortKey = "RATING_DESC"
)

const DefaultSort = SortCreatedAsc

// SortKeys lists every ordering in the order the sort control shows them.
var SortKeys = []SortKey{
	SortCreatedAsc,
	SortCreatedDesc,
	SortAlphabeticalAsc,
	SortAlphabeticalDesc,
	SortPriceAsc,
	SortPriceDesc,
	SortRatingAsc,
	SortRatingDesc,
}

var sortLabels = map[SortKey]string{
	SortCreatedAsc:       "Oldest to Newest",
	SortCreatedDesc:      "Newest to Oldest",
	SortAlphabeticalAsc:  "Title (A-Z)",
	SortAlphabeticalDesc: "Title (Z-A)",
	SortPriceAsc:         "Price (Low to High)",
	SortPriceDesc:        "Price (High to Low)",
	SortRatingAsc:        "Rating (Low to High)",
	SortRatingDesc:       "Rating (High to Low)",
}

func (k SortKey) Valid() bool {
	_, ok := sortLabels[k]
	return ok
}

func (k SortKey) Label() string {
	return sortLabels[k]
}

// ParseSortKey maps unknown or empty input to DefaultSort.
func ParseSortKey(s string) SortKey {
	k := SortKey(strings.ToUpper(strings.TrimSpace(s)))
	if k.Valid() {
		return k
	}
	return DefaultSort
}

// Filters is the applied filter selection. A nil MaxPrice means no limit.
type Filters struct {
	GenreIDs    []int
	PlatformIDs []int
	MaxPrice    *int
}

// FiltersFromIDs builds a selection from submitted ids, keeping the first
// occurrence of each positive id in order.
func FiltersFromIDs(genreIDs, platformIDs []int, maxPrice *int) Filters {
	positive := func(id int, _ int) bool { return id > 0 }
	return Filters{
		GenreIDs:    lo.Uniq(lo.Filter(genreIDs, positive)),
		PlatformIDs: lo.Uniq(lo.Filter(platformIDs, positive)),
		MaxPrice:    maxPrice,
	}
}

func (f Filters) Active() bool {
	return len(f.GenreIDs) > 0 || len(f.PlatformIDs) > 0 || f.MaxPrice != nil
}

func (f Filters) HasGenre(id int) bool {
	return lo.Contains(f.GenreIDs, id)
}

func (f Filters) HasPlatform(id int) bool {
	return lo.Contains(f.PlatformIDs, id)
}

// Query is the parameter set of GET /games.
type Query struct {
	Search         string  `schema:"q,omitempty"`
	GenreIDs       []int   `schema:"genreIds,omitempty"`
	PlatformIDs    []int   `schema:"platformIds,omitempty"`
	MaxPrice       *int    `schema:"-"`
	SortBy         SortKey `schema:"sortBy"`
	StartIndex     int     `schema:"startIndex"`
	Count          int     `schema:"count"`
	CreatorID      int     `schema:"creatorId,omitempty"`
	ReviewerID     int     `schema:"reviewerId,omitempty"`
	WishlistedByMe bool    `schema:"wishlistedByMe,omitempty"`
	OwnedByMe      bool    `schema:"ownedByMe,omitempty"`
}

var encoder = schema.NewEncoder()

// BuildQuery turns the list view state into the GET /games parameters.
// Out of range input falls back to the defaults.
func BuildQuery(search string, filters Filters, sort SortKey, page, size int) Query {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if !sort.Valid() {
		sort = DefaultSort
	}

	q := Query{
		Search:      strings.TrimSpace(search),
		GenreIDs:    lo.Uniq(filters.GenreIDs),
		PlatformIDs: lo.Uniq(filters.PlatformIDs),
		SortBy:      sort,
		StartIndex:  (page - 1) * size,
		Count:       size,
	}
	if filters.MaxPrice != nil && *filters.MaxPrice >= 0 {
		price := *filters.MaxPrice
		q.MaxPrice = &price
	}

	return q
}

// Values encodes q. Genre and platform ids become repeated parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	// Query only holds string, int, bool and []int fields, which the
	// encoder always accepts.
	_ = encoder.Encode(q, v)
	if q.MaxPrice != nil {
		v.Set("price", strconv.Itoa(*q.MaxPrice))
	}
	return v
}
