package gameapi

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"games_storefront/internal/models"
)

// maxImage bounds image downloads.
const maxImage = 10 << 20

type ImageOwner string

const (
	GameImage ImageOwner = "games"
	UserImage ImageOwner = "users"
)

func imagePath(owner ImageOwner, id int) string {
	return fmt.Sprintf("/%s/%d/image", owner, id)
}

func (c *Client) GetImage(ctx context.Context, owner ImageOwner, id int) (*models.Image, error) {
	const op = "gameapi.GetImage"

	resp, err := c.send(ctx, request{
		op:     op,
		method: http.MethodGet,
		path:   imagePath(owner, id),
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImage+1))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(data) > maxImage {
		return nil, fmt.Errorf("%s: %w", op, ErrImageTooLarge)
	}

	return &models.Image{Data: data, ContentType: resp.Header.Get("Content-Type")}, nil
}

func (c *Client) PutImage(ctx context.Context, token string, owner ImageOwner, id int, img models.Image) error {
	return c.do(ctx, request{
		op:          "gameapi.PutImage",
		method:      http.MethodPut,
		path:        imagePath(owner, id),
		token:       token,
		raw:         img.Data,
		contentType: img.ContentType,
	}, nil)
}

func (c *Client) DeleteImage(ctx context.Context, token string, owner ImageOwner, id int) error {
	return c.do(ctx, request{
		op:     "gameapi.DeleteImage",
		method: http.MethodDelete,
		path:   imagePath(owner, id),
		token:  token,
	}, nil)
}
