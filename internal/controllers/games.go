package controllers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"games_storefront/internal/catalog"
	"games_storefront/internal/middleware"
	"games_storefront/internal/models"
	"games_storefront/internal/services"
	"games_storefront/internal/session"
	"games_storefront/internal/validation"
)

const reviewsPreview = 3

type GameServicer interface {
	Details(ctx context.Context, id int, sess *session.Session) (*services.Details, error)
	Editable(ctx context.Context, sess *session.Session, id int) (*models.GameDetail, error)
	Create(ctx context.Context, sess *session.Session, form validation.GameForm, img *models.Image) (int, error)
	Update(ctx context.Context, sess *session.Session, id int, form validation.GameForm, img *models.Image) error
	Delete(ctx context.Context, sess *session.Session, id int) error
	Review(ctx context.Context, sess *session.Session, id int, form validation.ReviewForm) error
}

type LibraryServicer interface {
	Toggle(ctx context.Context, sess *session.Session, gameID int, rel models.Relation, current models.LibraryState) (models.LibraryState, error)
}

type gameView struct {
	*services.Details
	Ref         catalog.Reference
	Shown       []models.Review
	MoreReviews int
	ReviewForm  validation.ReviewForm
}

type gameFormView struct {
	Form   validation.GameForm
	Ref    catalog.Reference
	Edit   bool
	GameID int
}

type GameController struct {
	games     GameServicer
	library   LibraryServicer
	reference ReferenceLoader
	render    *Renderer
	log       *slog.Logger
}

func NewGameController(games GameServicer, library LibraryServicer, reference ReferenceLoader, render *Renderer, log *slog.Logger) *GameController {
	return &GameController{
		games:     games,
		library:   library,
		reference: reference,
		render:    render,
		log:       log,
	}
}

func gamePath(id int) string {
	return fmt.Sprintf("/games/%d", id)
}

// errorStatus picks the status of a full page error.
func errorStatus(err error) int {
	switch {
	case services.Status(err) == http.StatusNotFound:
		return http.StatusNotFound
	case services.Status(err) == http.StatusUnauthorized:
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func (c *GameController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		c.render.Error(w, r, http.StatusNotFound, msgInvalidGame)
		return
	}

	c.showDetails(w, r, id, http.StatusOK, nil, validation.ReviewForm{})
}

func (c *GameController) showDetails(w http.ResponseWriter, r *http.Request, id, status int, errs validation.Errors, form validation.ReviewForm) {
	const op = "controllers.games.showDetails"

	ctx := r.Context()

	d, err := c.games.Details(ctx, id, middleware.SessionFromContext(ctx))
	if err != nil {
		c.render.Error(w, r, errorStatus(err), services.Messages(err).Get(validation.General))
		return
	}

	ref, err := c.reference.Load(ctx)
	if err != nil {
		c.log.Warn("rendering game without reference data",
			slog.String("operation", op),
			slog.String("error", err.Error()))
	}

	view := gameView{Details: d, Ref: ref, Shown: d.Reviews, ReviewForm: form}
	if r.URL.Query().Get("allReviews") != "1" && len(d.Reviews) > reviewsPreview {
		view.Shown = d.Reviews[:reviewsPreview]
		view.MoreReviews = len(d.Reviews) - reviewsPreview
	}

	c.render.Render(w, r, status, pageGame, Page{Title: d.Game.Title, Errors: errs, Data: view})
}

func (c *GameController) New(w http.ResponseWriter, r *http.Request) {
	c.renderForm(w, r, http.StatusOK, gameFormView{}, nil)
}

func (c *GameController) Create(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.Create"

	ctx := r.Context()

	form, img, errs := c.readGameForm(r, op)
	if !errs.Valid() {
		c.renderForm(w, r, http.StatusUnprocessableEntity, gameFormView{Form: form}, errs)
		return
	}

	id, err := c.games.Create(ctx, middleware.SessionFromContext(ctx), form, img)
	if notAuthenticated(err) {
		redirectToLogin(w, r)
		return
	}
	if err != nil {
		c.renderForm(w, r, failureStatus(err), gameFormView{Form: form}, services.Messages(err))
		return
	}

	c.log.Info("game created", slog.String("operation", op), slog.Int("game_id", id))
	http.Redirect(w, r, gamePath(id), http.StatusSeeOther)
}

func (c *GameController) Edit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		c.render.Error(w, r, http.StatusNotFound, msgInvalidGame)
		return
	}

	game, err := c.games.Editable(ctx, middleware.SessionFromContext(ctx), id)
	if notAuthenticated(err) {
		redirectToLogin(w, r)
		return
	}
	if err != nil {
		c.render.Error(w, r, errorStatus(err), services.Messages(err).Get(validation.General))
		return
	}

	view := gameFormView{Form: validation.GameFormFrom(*game), Edit: true, GameID: id}
	c.renderForm(w, r, http.StatusOK, view, nil)
}

func (c *GameController) Update(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.Update"

	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		c.render.Error(w, r, http.StatusNotFound, msgInvalidGame)
		return
	}

	form, img, errs := c.readGameForm(r, op)
	view := gameFormView{Form: form, Edit: true, GameID: id}
	if !errs.Valid() {
		c.renderForm(w, r, http.StatusUnprocessableEntity, view, errs)
		return
	}

	err = c.games.Update(ctx, middleware.SessionFromContext(ctx), id, form, img)
	switch {
	case notAuthenticated(err):
		redirectToLogin(w, r)
		return
	case errors.Is(err, services.ErrForbidden), services.Status(err) == http.StatusNotFound:
		c.render.Error(w, r, errorStatus(err), services.Messages(err).Get(validation.General))
		return
	case err != nil:
		c.renderForm(w, r, failureStatus(err), view, services.Messages(err))
		return
	}

	http.Redirect(w, r, gamePath(id), http.StatusSeeOther)
}

func (c *GameController) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		c.render.Error(w, r, http.StatusNotFound, msgInvalidGame)
		return
	}

	err = c.games.Delete(ctx, middleware.SessionFromContext(ctx), id)
	if notAuthenticated(err) {
		redirectToLogin(w, r)
		return
	}
	if err != nil {
		c.showDetails(w, r, id, failureStatus(err), services.Messages(err), validation.ReviewForm{})
		return
	}

	http.Redirect(w, r, "/my-games", http.StatusSeeOther)
}

func (c *GameController) Review(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.Review"

	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		c.render.Error(w, r, http.StatusNotFound, msgInvalidGame)
		return
	}

	var form validation.ReviewForm
	if err := parseForm(r); err != nil {
		c.log.Error(ErrParsingForm.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		c.showDetails(w, r, id, http.StatusBadRequest, validation.Errors{validation.General: msgBadForm}, form)
		return
	}
	if err := decoder.Decode(&form, r.PostForm); err != nil {
		c.log.Debug(ErrDecodeForm.Error(), slog.String("operation", op), slog.String("error", err.Error()))
	}

	err = c.games.Review(ctx, middleware.SessionFromContext(ctx), id, form)
	if notAuthenticated(err) {
		redirectToLogin(w, r)
		return
	}
	if err != nil {
		c.showDetails(w, r, id, failureStatus(err), services.Messages(err), form)
		return
	}

	http.Redirect(w, r, gamePath(id), http.StatusSeeOther)
}

func (c *GameController) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	c.toggle(w, r, models.RelationWishlist)
}

func (c *GameController) ToggleOwned(w http.ResponseWriter, r *http.Request) {
	c.toggle(w, r, models.RelationOwned)
}

// toggle flips rel starting from the state the visitor's page showed, which
// the form posts back.
func (c *GameController) toggle(w http.ResponseWriter, r *http.Request, rel models.Relation) {
	const op = "controllers.games.toggle"

	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		c.render.Error(w, r, http.StatusNotFound, msgInvalidGame)
		return
	}

	if err := parseForm(r); err != nil {
		c.log.Error(ErrParsingForm.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		c.showDetails(w, r, id, http.StatusBadRequest, validation.Errors{"library": msgBadForm}, validation.ReviewForm{})
		return
	}

	current := models.LibraryState{
		GameID:     id,
		Wishlisted: r.PostFormValue("wishlisted") == "true",
		Owned:      r.PostFormValue("owned") == "true",
	}

	_, err = c.library.Toggle(ctx, middleware.SessionFromContext(ctx), id, rel, current)
	if notAuthenticated(err) {
		redirectToLogin(w, r)
		return
	}
	if err != nil {
		errs := validation.Errors{"library": services.Messages(err).Get(validation.General)}
		c.showDetails(w, r, id, failureStatus(err), errs, validation.ReviewForm{})
		return
	}

	http.Redirect(w, r, gamePath(id), http.StatusSeeOther)
}

// readGameForm decodes the multipart game form. Problems reading the body or
// the image come back as field errors.
func (c *GameController) readGameForm(r *http.Request, op string) (validation.GameForm, *models.Image, validation.Errors) {
	var form validation.GameForm
	errs := validation.Errors{}

	if err := parseForm(r); err != nil {
		c.log.Error(ErrParsingForm.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			errs.Add("image", msgImageTooLarge)
		} else {
			errs.Add(validation.General, msgBadForm)
		}
		return form, nil, errs
	}

	if err := decoder.Decode(&form, r.PostForm); err != nil {
		c.log.Debug(ErrDecodeForm.Error(), slog.String("operation", op), slog.String("error", err.Error()))
	}

	img, err := readImage(r, "image")
	switch {
	case errors.Is(err, errImageTooLarge):
		errs.Add("image", msgImageTooLarge)
	case err != nil:
		c.log.Error(ErrReadImage.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		errs.Add("image", msgBadForm)
	}

	return form, img, errs
}

func (c *GameController) renderForm(w http.ResponseWriter, r *http.Request, status int, view gameFormView, errs validation.Errors) {
	const op = "controllers.games.renderForm"

	if errs == nil {
		errs = validation.Errors{}
	}

	ref, err := c.reference.Load(r.Context())
	if err != nil {
		c.log.Error(msgRequiredData, slog.String("operation", op), slog.String("error", err.Error()))
		errs.Add(validation.General, msgRequiredData)
	}
	view.Ref = ref

	title := "Create game"
	if view.Edit {
		title = "Edit game"
	}

	c.render.Render(w, r, status, pageGameForm, Page{Title: title, Errors: errs, Data: view})
}
