package validation

import (
	"errors"
	"fmt"
	"strings"

	"games_storefront/internal/catalog"
	"games_storefront/internal/models"
)

// GameForm is the create and edit game form as submitted.
type GameForm struct {
	Title       string `schema:"title"`
	Description string `schema:"description"`
	GenreID     int    `schema:"genreId"`
	PlatformIDs []int  `schema:"platformIds"`
	Price       string `schema:"price"`
}

// Validate checks the form. img is nil when no file was chosen; it is
// mandatory only when requireImage is set.
func (f GameForm) Validate(img *models.Image, requireImage bool) Errors {
	errs := Errors{}

	switch {
	case blank(f.Title):
		errs.Add("title", "Title is required")
	case tooLong(f.Title, TitleMaxLength):
		errs.Add("title", fmt.Sprintf("Title must be no more than %d characters", TitleMaxLength))
	}

	switch {
	case blank(f.Description):
		errs.Add("description", "Description is required")
	case tooLong(f.Description, DescriptionMaxLength):
		errs.Add("description", fmt.Sprintf("Description must be no more than %d characters", DescriptionMaxLength))
	}

	if f.GenreID <= 0 {
		errs.Add("genre", "Please select a genre")
	}

	if len(f.PlatformIDs) == 0 {
		errs.Add("platforms", "Please select at least one platform")
	}

	if _, err := catalog.ParsePrice(f.Price); err != nil {
		if errors.Is(err, catalog.ErrPriceEmpty) {
			errs.Add("price", "Price is required")
		} else {
			errs.Add("price", "Price must be a positive number or zero")
		}
	}

	switch {
	case img == nil && requireImage:
		errs.Add("image", "Please upload a game image")
	case img != nil && !ValidImageType(img.ContentType):
		errs.Add("image", "Please select a valid image file (JPEG, PNG, or GIF)")
	}

	return errs
}

func (f GameForm) cents() int {
	cents, _ := catalog.ParsePrice(f.Price)
	return cents
}

// CreateRequest builds the POST /games body from a validated form.
func (f GameForm) CreateRequest() models.CreateGameRequest {
	return models.CreateGameRequest{
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
		GenreID:     f.GenreID,
		Price:       f.cents(),
		PlatformIDs: f.PlatformIDs,
	}
}

// UpdateRequest builds the PATCH /games/{id} body from a validated form.
func (f GameForm) UpdateRequest() models.UpdateGameRequest {
	title := strings.TrimSpace(f.Title)
	description := strings.TrimSpace(f.Description)
	genre := f.GenreID
	price := f.cents()
	return models.UpdateGameRequest{
		Title:       &title,
		Description: &description,
		GenreID:     &genre,
		Price:       &price,
		PlatformIDs: f.PlatformIDs,
	}
}

// GameFormFrom prefills the edit form.
func GameFormFrom(g models.GameDetail) GameForm {
	return GameForm{
		Title:       g.Title,
		Description: g.Description,
		GenreID:     g.GenreID,
		PlatformIDs: g.PlatformIDs,
		Price:       catalog.FormatDollars(g.Price),
	}
}

type RegisterForm struct {
	FirstName string `schema:"firstName"`
	LastName  string `schema:"lastName"`
	Email     string `schema:"email"`
	Password  string `schema:"password"`
}

func (f RegisterForm) Validate(avatar *models.Image) Errors {
	errs := Errors{}
	checkNames(errs, f.FirstName, f.LastName)
	checkEmail(errs, f.Email)

	switch {
	case f.Password == "":
		errs.Add("password", "Password is required")
	case len(f.Password) < PasswordMinLength:
		errs.Add("password", fmt.Sprintf("Password must be at least %d characters", PasswordMinLength))
	}

	if avatar != nil && !ValidImageType(avatar.ContentType) {
		errs.Add("image", "Please select a valid image file (JPEG, PNG, or GIF)")
	}

	return errs
}

func (f RegisterForm) Request() models.RegisterRequest {
	return models.RegisterRequest{
		FirstName: strings.TrimSpace(f.FirstName),
		LastName:  strings.TrimSpace(f.LastName),
		Email:     strings.TrimSpace(f.Email),
		Password:  f.Password,
	}
}

type LoginForm struct {
	Email    string `schema:"email"`
	Password string `schema:"password"`
}

func (f LoginForm) Validate() Errors {
	errs := Errors{}
	checkEmail(errs, f.Email)
	if f.Password == "" {
		errs.Add("password", "Password is required")
	}
	return errs
}

func (f LoginForm) Request() models.LoginRequest {
	return models.LoginRequest{Email: strings.TrimSpace(f.Email), Password: f.Password}
}

type ProfileForm struct {
	FirstName       string `schema:"firstName"`
	LastName        string `schema:"lastName"`
	Email           string `schema:"email"`
	CurrentPassword string `schema:"currentPassword"`
	NewPassword     string `schema:"newPassword"`
	RemoveImage     bool   `schema:"removeImage"`
}

func (f ProfileForm) Validate(avatar *models.Image) Errors {
	errs := Errors{}
	checkNames(errs, f.FirstName, f.LastName)
	checkEmail(errs, f.Email)

	if f.NewPassword != "" {
		if f.CurrentPassword == "" {
			errs.Add("currentPassword", "Current password is required to change password")
		}
		if len(f.NewPassword) < PasswordMinLength {
			errs.Add("newPassword", fmt.Sprintf("Password must be at least %d characters", PasswordMinLength))
		}
	}

	if avatar != nil && !ValidImageType(avatar.ContentType) {
		errs.Add("image", "Please select a valid image file (JPEG, PNG, or GIF)")
	}

	return errs
}

// Changes returns the PATCH body holding only what differs from current.
func (f ProfileForm) Changes(current models.User) models.UpdateUserRequest {
	var req models.UpdateUserRequest

	if v := strings.TrimSpace(f.FirstName); v != current.FirstName {
		req.FirstName = &v
	}
	if v := strings.TrimSpace(f.LastName); v != current.LastName {
		req.LastName = &v
	}
	if v := strings.TrimSpace(f.Email); v != current.Email {
		req.Email = &v
	}
	if f.NewPassword != "" {
		password, currentPassword := f.NewPassword, f.CurrentPassword
		req.Password = &password
		req.CurrentPassword = &currentPassword
	}

	return req
}

func ProfileFormFrom(u models.User) ProfileForm {
	return ProfileForm{FirstName: u.FirstName, LastName: u.LastName, Email: u.Email}
}

type ReviewForm struct {
	Rating int    `schema:"rating"`
	Review string `schema:"review"`
}

func (f ReviewForm) Validate() Errors {
	errs := Errors{}
	if f.Rating < RatingMin || f.Rating > RatingMax {
		errs.Add("rating", fmt.Sprintf("Rating must be between %d and %d", RatingMin, RatingMax))
	}
	return errs
}

// Request omits the review text when it is blank.
func (f ReviewForm) Request() models.ReviewRequest {
	req := models.ReviewRequest{Rating: f.Rating}
	if text := strings.TrimSpace(f.Review); text != "" {
		req.Review = &text
	}
	return req
}

// PriceFilter parses the catalog max price input. Blank means no limit.
func PriceFilter(s string) (*int, error) {
	if blank(s) {
		return nil, nil
	}
	cents, err := catalog.ParsePrice(s)
	if err != nil {
		return nil, err
	}
	return &cents, nil
}
