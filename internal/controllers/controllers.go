package controllers

import "errors"

var (
	ErrInvalidID   = errors.New("invalid id")
	ErrParsingForm = errors.New("failed to parse form")
	ErrDecodeForm  = errors.New("failed to decode form")
	ErrReadImage   = errors.New("failed to read image")
	ErrRender      = errors.New("failed to render page")
	ErrImage       = errors.New("failed to get image")
)

const (
	maxUploadSize = 10 << 20

	msgPageNotFound  = "Page not found"
	msgInvalidGame   = "Invalid game id"
	msgBadForm       = "The form could not be read. Please try again."
	msgRequiredData  = "Failed to load required data. Please refresh the page."
	msgImageTooLarge = "Image must be smaller than 10 MB"
	msgLogoutFailed  = "Logout failed. Please try again."
)
