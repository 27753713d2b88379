package validation

import (
	"mime"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
)

const (
	TitleMaxLength       = 128
	DescriptionMaxLength = 1024
	PasswordMinLength    = 6
	RatingMin            = 1
	RatingMax            = 10
)

// General is the key for messages not tied to one field.
const General = "general"

var (
	emailRe    = regexp.MustCompile(`\S+@\S+\.\S+`)
	imageTypes = []string{"image/jpeg", "image/png", "image/gif"}
)

// Errors maps a form field to its message. The first message per field wins.
type Errors map[string]string

func (e Errors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

func (e Errors) Get(field string) string {
	return e[field]
}

func (e Errors) Valid() bool {
	return len(e) == 0
}

func (e Errors) Error() string {
	fields := lo.Keys(e)
	sort.Strings(fields)
	parts := lo.Map(fields, func(f string, _ int) string { return f + ": " + e[f] })
	return "validation failed: " + strings.Join(parts, "; ")
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func tooLong(s string, n int) bool {
	return utf8.RuneCountInString(s) > n
}

func ValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// ValidImageType accepts JPEG, PNG and GIF, ignoring MIME parameters.
func ValidImageType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return lo.Contains(imageTypes, mediaType)
}

func checkEmail(errs Errors, email string) {
	switch {
	case blank(email):
		errs.Add("email", "Email is required")
	case !ValidEmail(email):
		errs.Add("email", "Please enter a valid email address")
	}
}

func checkNames(errs Errors, first, last string) {
	if blank(first) {
		errs.Add("firstName", "First name is required")
	}
	if blank(last) {
		errs.Add("lastName", "Last name is required")
	}
}
