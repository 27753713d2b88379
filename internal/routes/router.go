package routes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"games_storefront/internal/catalog"
	"games_storefront/internal/clients/gameapi"
	"games_storefront/internal/config"
	"games_storefront/internal/controllers"
	"games_storefront/internal/middleware"
	"games_storefront/internal/models"
	"games_storefront/internal/services"
	"games_storefront/internal/session"
	"games_storefront/web"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// maxBodySize leaves room for the form fields around a maximum size image.
const maxBodySize = 11 << 20

func SetupRouter(log *slog.Logger, cfg *config.Config, api *gameapi.Client, sessions *session.Store, limiter *middleware.RateLimiter) (*chi.Mux, error) {
	const op = "routes.SetupRouter"

	render, err := controllers.NewRenderer(web.Templates, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	referenceService := services.NewReferenceService(api, log, cfg.API.ReferenceTTL)
	libraryService := services.NewLibraryService(api, log)
	gameService := services.NewGameService(api, libraryService, log)
	userService := services.NewUserService(api, sessions, log)

	// The public catalog is always listed anonymously.
	fetcher := catalog.FetcherFunc(func(ctx context.Context, query url.Values) (*models.GamesResponse, error) {
		return api.ListGames(ctx, "", query)
	})

	catalogController := controllers.NewCatalogController(fetcher, referenceService, render, log)
	gameController := controllers.NewGameController(gameService, libraryService, referenceService, render, log)
	imageController := controllers.NewImageController(api, web.Static, log)
	authController := controllers.NewAuthController(userService, render, log)
	userController := controllers.NewUserController(userService, gameService, referenceService, render, log)

	auth := middleware.NewAuthMiddleware(middleware.NewCookieCutter(cfg.Session), sessions, log, cfg.Session.MaxAge)

	r := chi.NewRouter()

	if cfg.HTTPServer.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecureHeaders)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})
	r.Handle("/static/*", http.FileServer(http.FS(web.Static)))
	r.Get("/games/{id}/image", imageController.GameImage)
	r.Get("/users/{id}/image", imageController.UserImage)

	r.Group(func(r chi.Router) {
		r.Use(middleware.LimitBody(maxBodySize))
		r.Use(middleware.CSRF(cfg.Session.Secure, log))
		r.Use(auth.Resolve)

		r.Get("/", catalogController.Index)
		r.Get("/games/{id}", gameController.Show)

		r.Get("/login", authController.ShowLogin)
		r.With(limiter.Limit).Post("/login", authController.Login)
		r.Get("/register", authController.ShowRegister)
		r.With(limiter.Limit).Post("/register", authController.Register)
		r.Post("/logout", authController.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession)

			r.Get("/games/new", gameController.New)
			r.Post("/games/new", gameController.Create)
			r.Get("/games/{id}/edit", gameController.Edit)
			r.Post("/games/{id}/edit", gameController.Update)
			r.Post("/games/{id}/delete", gameController.Delete)
			r.With(limiter.Limit).Post("/games/{id}/reviews", gameController.Review)
			r.Post("/games/{id}/wishlist", gameController.ToggleWishlist)
			r.Post("/games/{id}/owned", gameController.ToggleOwned)

			r.Get("/profile", userController.Profile)
			r.Get("/profile/edit", userController.EditProfile)
			r.Post("/profile/edit", userController.UpdateProfile)
			r.Get("/my-games", userController.MyGames)
		})
	})

	r.NotFound(render.NotFound)

	return r, nil
}
