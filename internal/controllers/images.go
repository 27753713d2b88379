package controllers

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"

	"games_storefront/internal/clients/gameapi"
	"games_storefront/internal/models"
	"games_storefront/internal/validation"
)

const (
	gamePlaceholder = "static/placeholder.svg"
	userPlaceholder = "static/avatar.svg"
)

type ImageFetcher interface {
	GetImage(ctx context.Context, owner gameapi.ImageOwner, id int) (*models.Image, error)
}

// ImageController proxies images from the API so pages only ever reference
// this site. Missing images are replaced by a bundled placeholder.
type ImageController struct {
	api    ImageFetcher
	static fs.FS
	log    *slog.Logger
}

func NewImageController(api ImageFetcher, static fs.FS, log *slog.Logger) *ImageController {
	return &ImageController{api: api, static: static, log: log}
}

func (c *ImageController) GameImage(w http.ResponseWriter, r *http.Request) {
	c.serve(w, r, gameapi.GameImage, gamePlaceholder)
}

func (c *ImageController) UserImage(w http.ResponseWriter, r *http.Request) {
	c.serve(w, r, gameapi.UserImage, userPlaceholder)
}

func (c *ImageController) serve(w http.ResponseWriter, r *http.Request, owner gameapi.ImageOwner, placeholder string) {
	const op = "controllers.images.serve"

	id, err := pathID(r)
	if err != nil {
		c.placeholder(w, placeholder)
		return
	}

	img, err := c.api.GetImage(r.Context(), owner, id)
	if err != nil {
		if gameapi.StatusOf(err) != http.StatusNotFound {
			c.log.Warn(ErrImage.Error(),
				slog.String("operation", op),
				slog.String("owner", string(owner)),
				slog.Int("id", id),
				slog.String("error", err.Error()))
		}
		c.placeholder(w, placeholder)
		return
	}
	if !validation.ValidImageType(img.ContentType) {
		c.log.Warn("refusing non-image content",
			slog.String("operation", op),
			slog.String("owner", string(owner)),
			slog.Int("id", id),
			slog.String("content_type", img.ContentType))
		c.placeholder(w, placeholder)
		return
	}

	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write(img.Data)
}

func (c *ImageController) placeholder(w http.ResponseWriter, name string) {
	const op = "controllers.images.placeholder"

	data, err := fs.ReadFile(c.static, name)
	if err != nil {
		c.log.Error(ErrImage.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
