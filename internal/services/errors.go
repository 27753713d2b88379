package services

import (
	"errors"
	"net/http"

	"games_storefront/internal/clients/gameapi"
	"games_storefront/internal/validation"
)

const (
	MsgUnexpected   = "An unexpected error occurred. Please try again."
	MsgLoadFailed   = "Error loading game data. Please refresh the page."
	MsgGameNotFound = "Game not found"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("forbidden")
)

// FormError is a failure that the page shows to the visitor, keyed by the
// form field it belongs to.
type FormError struct {
	Op     string
	Fields validation.Errors
	Err    error
}

func (e *FormError) Error() string {
	if e.Err != nil {
		return e.Op + ": " + e.Fields.Error() + ": " + e.Err.Error()
	}
	return e.Op + ": " + e.Fields.Error()
}

func (e *FormError) Unwrap() error {
	return e.Err
}

func formError(op string, err error, field, msg string) *FormError {
	return &FormError{Op: op, Fields: validation.Errors{field: msg}, Err: err}
}

func invalid(op string, errs validation.Errors) *FormError {
	return &FormError{Op: op, Fields: errs}
}

// Messages extracts the visitor facing messages of err. Anything that is not
// a FormError becomes the generic message.
func Messages(err error) validation.Errors {
	if err == nil {
		return validation.Errors{}
	}
	var fe *FormError
	if errors.As(err, &fe) {
		return fe.Fields
	}
	return validation.Errors{validation.General: MsgUnexpected}
}

// Status reports the API status behind err, 0 if none.
func Status(err error) int {
	return gameapi.StatusOf(err)
}

type message struct {
	field      string
	text       string
	fromServer bool
}

func msg(field, text string) message {
	return message{field: field, text: text}
}

// fromServer prefers the API's own message and falls back to text.
func fromServer(field, text string) message {
	return message{field: field, text: text, fromServer: true}
}

// statusMessages picks the message for an API status.
type statusMessages map[int]message

var (
	createGameMessages = statusMessages{
		http.StatusForbidden:    msg("title", "A game with this title already exists"),
		http.StatusUnauthorized: msg(validation.General, "You must be logged in to create a game"),
	}
	editGameMessages = statusMessages{
		http.StatusForbidden:    msg("title", "A game with this title already exists"),
		http.StatusUnauthorized: msg(validation.General, "You must be logged in to edit this game"),
		http.StatusNotFound:     msg(validation.General, MsgGameNotFound),
	}
	deleteGameMessages = statusMessages{
		http.StatusForbidden:    fromServer(validation.General, "This game cannot be deleted"),
		http.StatusUnauthorized: msg(validation.General, "You must be logged in to delete this game"),
		http.StatusNotFound:     msg(validation.General, MsgGameNotFound),
	}
	reviewMessages = statusMessages{
		http.StatusUnauthorized: msg(validation.General, "You must be logged in to leave a review"),
		http.StatusForbidden:    msg(validation.General, "You cannot review your own game"),
		http.StatusBadRequest:   msg("rating", "Invalid review data. Rating must be between 1 and 10"),
		http.StatusNotFound:     msg(validation.General, MsgGameNotFound),
	}
	libraryMessages = statusMessages{
		http.StatusUnauthorized: msg(validation.General, "You must be logged in to update your library"),
		http.StatusForbidden:    msg(validation.General, "You cannot add your own game to your library"),
		http.StatusNotFound:     msg(validation.General, MsgGameNotFound),
	}
	registerMessages = statusMessages{
		http.StatusBadRequest: msg(validation.General, "Invalid registration details. Please check your information."),
		http.StatusForbidden:  msg("email", "This email address is already in use."),
	}
	loginMessages = statusMessages{
		http.StatusBadRequest:   msg(validation.General, "Invalid login details. Please check your information."),
		http.StatusUnauthorized: msg(validation.General, "Incorrect email or password."),
	}
	profileMessages = statusMessages{
		http.StatusBadRequest:   fromServer(validation.General, "Invalid data provided. Please check your information."),
		http.StatusUnauthorized: msg(validation.General, "You must be logged in to update your profile."),
		http.StatusForbidden:    msg("email", "This email address is already in use."),
		http.StatusNotFound:     msg(validation.General, "User not found."),
	}
	viewProfileMessages = statusMessages{
		http.StatusUnauthorized: msg(validation.General, "You are not authorized to view this profile"),
	}
	gameDetailMessages = statusMessages{
		http.StatusNotFound: msg(validation.General, MsgGameNotFound),
	}
)

// interpret turns an API failure into a FormError. Statuses missing from
// msgs get fallback; transport failures get the generic message.
func interpret(op string, err error, msgs statusMessages, fallback string) *FormError {
	status := gameapi.StatusOf(err)
	if status == 0 {
		return formError(op, err, validation.General, MsgUnexpected)
	}

	m, ok := msgs[status]
	if !ok {
		return formError(op, err, validation.General, fallback)
	}

	text := m.text
	if server := gameapi.MessageOf(err); m.fromServer && server != "" && server != http.StatusText(status) {
		text = server
	}

	return formError(op, err, m.field, text)
}
