package controllers

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"games_storefront/internal/catalog"
	"games_storefront/internal/middleware"
	"games_storefront/internal/session"
	"games_storefront/internal/validation"

	"github.com/Masterminds/sprig"
	"github.com/samber/lo"
)

const (
	pageCatalog     = "catalog"
	pageGame        = "game"
	pageGameForm    = "game_form"
	pageLogin       = "login"
	pageRegister    = "register"
	pageProfile     = "profile"
	pageProfileForm = "profile_form"
	pageMyGames     = "my_games"
	pageError       = "error"
)

var pages = []string{
	pageCatalog, pageGame, pageGameForm, pageLogin, pageRegister,
	pageProfile, pageProfileForm, pageMyGames, pageError,
}

// Page is the root value every template is executed with.
type Page struct {
	Title     string
	Session   *session.Session
	CSRFToken string
	Errors    validation.Errors
	Data      any
}

type errorView struct {
	Message string
}

// Renderer holds one parsed template set per page, each made of the layout,
// the navbar, the shared partials and the page itself.
type Renderer struct {
	pages map[string]*template.Template
	log   *slog.Logger
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"price":  catalog.FormatPrice,
		"rating": formatRating,
		"date":   formatDate,
		"hasID":  func(ids []int, id int) bool { return lo.Contains(ids, id) },
	}
}

func NewRenderer(fsys fs.FS, log *slog.Logger) (*Renderer, error) {
	const op = "controllers.render.NewRenderer"

	rr := &Renderer{pages: make(map[string]*template.Template, len(pages)), log: log}
	for _, name := range pages {
		tmpl, err := template.New("base").Funcs(sprig.FuncMap()).Funcs(templateFuncs()).ParseFS(fsys,
			"templates/base.gohtml",
			"templates/navbar.gohtml",
			"templates/partials.gohtml",
			"templates/"+name+".gohtml",
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", op, name, err)
		}
		rr.pages[name] = tmpl
	}

	return rr, nil
}

// Render executes page into a buffer first so a template failure never
// leaves a half written response.
func (rr *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, p Page) {
	const op = "controllers.render.Render"

	ctx := r.Context()
	p.Session = middleware.SessionFromContext(ctx)
	p.CSRFToken = middleware.CSRFTokenFromContext(ctx)
	if p.Errors == nil {
		p.Errors = validation.Errors{}
	}

	tmpl, ok := rr.pages[name]
	if !ok {
		rr.fail(ctx, w, op, fmt.Errorf("unknown page %q", name))
		return
	}

	buf := &bytes.Buffer{}
	if err := tmpl.ExecuteTemplate(buf, "layout", p); err != nil {
		rr.fail(ctx, w, op, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		rr.log.Error("failed to write page",
			slog.String("operation", op),
			slog.String("error", err.Error()))
	}
}

func (rr *Renderer) Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	rr.Render(w, r, status, pageError, Page{Title: http.StatusText(status), Data: errorView{Message: message}})
}

func (rr *Renderer) NotFound(w http.ResponseWriter, r *http.Request) {
	rr.Error(w, r, http.StatusNotFound, msgPageNotFound)
}

func (rr *Renderer) fail(ctx context.Context, w http.ResponseWriter, op string, err error) {
	rr.log.ErrorContext(ctx, ErrRender.Error(),
		slog.String("operation", op),
		slog.String("error", err.Error()))
	http.Error(w, ErrRender.Error(), http.StatusInternalServerError)
}

func formatRating(r float64) string {
	if r <= 0 {
		return "Not rated"
	}
	return fmt.Sprintf("%.1f/10", r)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}
