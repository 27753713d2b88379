package gameapi

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidBaseURL = errors.New("invalid api base url")
	ErrDecode         = errors.New("failed to decode response")
	ErrImageTooLarge  = errors.New("image exceeds the download limit")
)

// APIError is a non-2xx answer from the remote API.
type APIError struct {
	Op      string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
}

// StatusOf returns the HTTP status carried by err, or 0 when err did not come
// from a server response.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// MessageOf returns the server supplied message, or "" for transport errors.
func MessageOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
