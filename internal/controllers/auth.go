package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"games_storefront/internal/middleware"
	"games_storefront/internal/models"
	"games_storefront/internal/services"
	"games_storefront/internal/session"
	"games_storefront/internal/validation"
)

type AuthServicer interface {
	Register(ctx context.Context, ns string, form validation.RegisterForm, avatar *models.Image) (*session.Session, error)
	Login(ctx context.Context, ns string, form validation.LoginForm) (*session.Session, error)
	Logout(ctx context.Context, ns string) error
}

type loginView struct {
	Form validation.LoginForm
	Next string
}

type registerView struct {
	Form validation.RegisterForm
}

type AuthController struct {
	users  AuthServicer
	render *Renderer
	log    *slog.Logger
}

func NewAuthController(users AuthServicer, render *Renderer, log *slog.Logger) *AuthController {
	return &AuthController{users: users, render: render, log: log}
}

func (c *AuthController) ShowLogin(w http.ResponseWriter, r *http.Request) {
	next := safeNext(r.URL.Query().Get("next"))
	if middleware.SessionFromContext(r.Context()).IsAuthenticated() {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}

	c.render.Render(w, r, http.StatusOK, pageLogin, Page{Title: "Log in", Data: loginView{Next: next}})
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.auth.Login"

	ctx := r.Context()

	var form validation.LoginForm
	if err := parseForm(r); err != nil {
		c.log.Error(ErrParsingForm.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		c.renderLogin(w, r, http.StatusBadRequest, loginView{Next: "/"}, validation.Errors{validation.General: msgBadForm})
		return
	}
	if err := decoder.Decode(&form, r.PostForm); err != nil {
		c.log.Debug(ErrDecodeForm.Error(), slog.String("operation", op), slog.String("error", err.Error()))
	}
	next := safeNext(r.PostFormValue("next"))

	sess, err := c.users.Login(ctx, middleware.NamespaceFromContext(ctx), form)
	if err != nil {
		form.Password = ""
		c.renderLogin(w, r, failureStatus(err), loginView{Form: form, Next: next}, services.Messages(err))
		return
	}

	c.log.Info("user logged in", slog.String("operation", op), slog.Int("user_id", sess.UserID))
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (c *AuthController) ShowRegister(w http.ResponseWriter, r *http.Request) {
	if middleware.SessionFromContext(r.Context()).IsAuthenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	c.render.Render(w, r, http.StatusOK, pageRegister, Page{Title: "Register", Data: registerView{}})
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.auth.Register"

	ctx := r.Context()

	var form validation.RegisterForm
	if err := parseForm(r); err != nil {
		c.log.Error(ErrParsingForm.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		errs := validation.Errors{validation.General: msgBadForm}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			errs = validation.Errors{"image": msgImageTooLarge}
		}
		c.renderRegister(w, r, http.StatusBadRequest, form, errs)
		return
	}
	if err := decoder.Decode(&form, r.PostForm); err != nil {
		c.log.Debug(ErrDecodeForm.Error(), slog.String("operation", op), slog.String("error", err.Error()))
	}

	avatar, err := readImage(r, "image")
	if err != nil {
		form.Password = ""
		errs := validation.Errors{"image": msgBadForm}
		if errors.Is(err, errImageTooLarge) {
			errs["image"] = msgImageTooLarge
		} else {
			c.log.Error(ErrReadImage.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		}
		c.renderRegister(w, r, http.StatusUnprocessableEntity, form, errs)
		return
	}

	sess, err := c.users.Register(ctx, middleware.NamespaceFromContext(ctx), form, avatar)
	if err != nil {
		form.Password = ""
		c.renderRegister(w, r, failureStatus(err), form, services.Messages(err))
		return
	}

	// The account exists but the automatic login did not go through.
	if sess == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := c.users.Logout(ctx, middleware.NamespaceFromContext(ctx)); err != nil {
		c.render.Error(w, r, http.StatusInternalServerError, msgLogoutFailed)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (c *AuthController) renderLogin(w http.ResponseWriter, r *http.Request, status int, view loginView, errs validation.Errors) {
	c.render.Render(w, r, status, pageLogin, Page{Title: "Log in", Errors: errs, Data: view})
}

func (c *AuthController) renderRegister(w http.ResponseWriter, r *http.Request, status int, form validation.RegisterForm, errs validation.Errors) {
	c.render.Render(w, r, status, pageRegister, Page{Title: "Register", Errors: errs, Data: registerView{Form: form}})
}
