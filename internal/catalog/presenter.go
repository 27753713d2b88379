package catalog

import (
	"fmt"
	"strings"

	"games_storefront/internal/models"

	"github.com/samber/lo"
)

// Reference is the static genre and platform data used to label games.
type Reference struct {
	Genres    []models.Genre
	Platforms []models.Platform
}

func (r Reference) GenreName(id int) string {
	g, ok := lo.Find(r.Genres, func(g models.Genre) bool { return g.GenreID == id })
	if !ok {
		return ""
	}
	return g.Name
}

func (r Reference) PlatformName(id int) string {
	p, ok := lo.Find(r.Platforms, func(p models.Platform) bool { return p.PlatformID == id })
	if !ok {
		return ""
	}
	return p.Name
}

// PlatformNames joins the known platform names of ids, or "Unknown".
func (r Reference) PlatformNames(ids []int) string {
	names := lo.Compact(lo.Map(ids, func(id int, _ int) string { return r.PlatformName(id) }))
	if len(names) == 0 {
		return "Unknown"
	}
	return strings.Join(names, ", ")
}

func HasActiveFilters(f Filters) bool {
	return f.Active()
}

// EmptyMessage is the text shown instead of the grid; "" when there are games.
func EmptyMessage(search string, f Filters, total int) string {
	if total > 0 {
		return ""
	}

	hasSearch := strings.TrimSpace(search) != ""
	hasFilters := f.Active()

	switch {
	case hasSearch && hasFilters:
		return "No games found matching your search and filters"
	case hasSearch:
		return "No games found matching your search"
	case hasFilters:
		return "No games found matching your filters"
	default:
		return "No games available"
	}
}

// FilterDescription lists the applied filters by name. Ids missing from ref
// are skipped.
func FilterDescription(f Filters, ref Reference) string {
	var parts []string

	if len(f.GenreIDs) > 0 {
		names := lo.Compact(lo.Map(f.GenreIDs, func(id int, _ int) string { return ref.GenreName(id) }))
		parts = append(parts, "genres: "+strings.Join(names, ", "))
	}

	if len(f.PlatformIDs) > 0 {
		names := lo.Compact(lo.Map(f.PlatformIDs, func(id int, _ int) string { return ref.PlatformName(id) }))
		parts = append(parts, "platforms: "+strings.Join(names, ", "))
	}

	if f.MaxPrice != nil {
		parts = append(parts, fmt.Sprintf("max price: $%.2f", float64(*f.MaxPrice)/100))
	}

	return strings.Join(parts, ", ")
}

// Summary is the results line above the grid.
func Summary(s State, ref Reference) string {
	var b strings.Builder

	hasFilters := s.Filters.Active()
	if s.Search != "" || hasFilters {
		fmt.Fprintf(&b, "Found %d game", s.Total)
		if s.Total != 1 {
			b.WriteString("s")
		}
		if s.Search != "" {
			fmt.Fprintf(&b, " matching \"%s\"", s.Search)
		}
		if hasFilters {
			b.WriteString(" with " + FilterDescription(s.Filters, ref))
		}
	} else {
		b.WriteString("All games")
	}

	start, end := DisplayRange(s.Page, s.PageSize, s.Total)
	fmt.Fprintf(&b, " (showing %d-%d of %d)", start, end, s.Total)

	return b.String()
}
