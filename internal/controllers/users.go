package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"games_storefront/internal/catalog"
	"games_storefront/internal/middleware"
	"games_storefront/internal/models"
	"games_storefront/internal/services"
	"games_storefront/internal/session"
	"games_storefront/internal/validation"
)

type ProfileServicer interface {
	Profile(ctx context.Context, sess *session.Session) (*models.User, error)
	UpdateProfile(ctx context.Context, sess *session.Session, form validation.ProfileForm, avatar *models.Image) error
}

type MyGamesLister interface {
	MyGames(ctx context.Context, sess *session.Session) (*services.MyGames, error)
}

type profileView struct {
	User   models.User
	UserID int
}

type profileFormView struct {
	Form   validation.ProfileForm
	UserID int
}

type myGamesSection struct {
	ID    string
	Title string
	Empty string
	Games []models.Game
}

type myGamesView struct {
	Ref      catalog.Reference
	Sections []myGamesSection
}

type UserController struct {
	users     ProfileServicer
	games     MyGamesLister
	reference ReferenceLoader
	render    *Renderer
	log       *slog.Logger
}

func NewUserController(users ProfileServicer, games MyGamesLister, reference ReferenceLoader, render *Renderer, log *slog.Logger) *UserController {
	return &UserController{
		users:     users,
		games:     games,
		reference: reference,
		render:    render,
		log:       log,
	}
}

func (c *UserController) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromContext(ctx)

	user, err := c.users.Profile(ctx, sess)
	if notAuthenticated(err) {
		redirectToLogin(w, r)
		return
	}
	if err != nil {
		c.render.Error(w, r, errorStatus(err), services.Messages(err).Get(validation.General))
		return
	}

	c.render.Render(w, r, http.StatusOK, pageProfile, Page{
		Title: "Profile",
		Data:  profileView{User: *user, UserID: sess.UserID},
	})
}

func (c *UserController) EditProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromContext(ctx)

	user, err := c.users.Profile(ctx, sess)
	if notAuthenticated(err) {
		redirectToLogin(w, r)
		return
	}
	if err != nil {
		c.render.Error(w, r, errorStatus(err), services.Messages(err).Get(validation.General))
		return
	}

	c.renderForm(w, r, http.StatusOK, validation.ProfileFormFrom(*user), sess.UserID, nil)
}

func (c *UserController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.users.UpdateProfile"

	ctx := r.Context()
	sess := middleware.SessionFromContext(ctx)
	if !sess.IsAuthenticated() {
		redirectToLogin(w, r)
		return
	}

	var form validation.ProfileForm
	if err := parseForm(r); err != nil {
		c.log.Error(ErrParsingForm.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		errs := validation.Errors{validation.General: msgBadForm}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			errs = validation.Errors{"image": msgImageTooLarge}
		}
		c.renderForm(w, r, http.StatusBadRequest, form, sess.UserID, errs)
		return
	}
	if err := decoder.Decode(&form, r.PostForm); err != nil {
		c.log.Debug(ErrDecodeForm.Error(), slog.String("operation", op), slog.String("error", err.Error()))
	}

	avatar, err := readImage(r, "image")
	if err != nil {
		errs := validation.Errors{"image": msgBadForm}
		if errors.Is(err, errImageTooLarge) {
			errs["image"] = msgImageTooLarge
		} else {
			c.log.Error(ErrReadImage.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		}
		c.renderForm(w, r, http.StatusUnprocessableEntity, form, sess.UserID, errs)
		return
	}

	err = c.users.UpdateProfile(ctx, sess, form, avatar)
	if notAuthenticated(err) {
		redirectToLogin(w, r)
		return
	}
	if err != nil {
		form.CurrentPassword, form.NewPassword = "", ""
		c.renderForm(w, r, failureStatus(err), form, sess.UserID, services.Messages(err))
		return
	}

	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

func (c *UserController) MyGames(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.users.MyGames"

	ctx := r.Context()

	mine, err := c.games.MyGames(ctx, middleware.SessionFromContext(ctx))
	if notAuthenticated(err) {
		redirectToLogin(w, r)
		return
	}
	if err != nil {
		c.render.Error(w, r, http.StatusInternalServerError, services.Messages(err).Get(validation.General))
		return
	}

	ref, err := c.reference.Load(ctx)
	if err != nil {
		c.log.Warn("rendering my games without reference data",
			slog.String("operation", op),
			slog.String("error", err.Error()))
	}

	c.render.Render(w, r, http.StatusOK, pageMyGames, Page{
		Title: "My games",
		Data: myGamesView{
			Ref: ref,
			Sections: []myGamesSection{
				{ID: "created", Title: "Created", Empty: "You have not created any games yet.", Games: mine.Created},
				{ID: "reviewed", Title: "Reviewed", Empty: "You have not reviewed any games yet.", Games: mine.Reviewed},
				{ID: "wishlisted", Title: "Wishlist", Empty: "Your wishlist is empty.", Games: mine.Wishlisted},
				{ID: "owned", Title: "Owned", Empty: "You do not own any games yet.", Games: mine.Owned},
			},
		},
	})
}

func (c *UserController) renderForm(w http.ResponseWriter, r *http.Request, status int, form validation.ProfileForm, userID int, errs validation.Errors) {
	c.render.Render(w, r, status, pageProfileForm, Page{
		Title:  "Edit profile",
		Errors: errs,
		Data:   profileFormView{Form: form, UserID: userID},
	})
}
