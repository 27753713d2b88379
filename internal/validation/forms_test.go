package validation

import (
	"strings"
	"testing"

	"games_storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validGame() GameForm {
	return GameForm{
		Title:       "Outer Wilds",
		Description: "A space archaeology game",
		GenreID:     2,
		PlatformIDs: []int{1, 3},
		Price:       "24.99",
	}
}

var png = &models.Image{Data: []byte{1}, ContentType: "image/png"}

func TestGameForm_Validate(t *testing.T) {
	tests := []struct {
		name         string
		mutate       func(*GameForm)
		img          *models.Image
		requireImage bool
		field        string
		message      string
	}{
		{name: "blank title", mutate: func(f *GameForm) { f.Title = "  " }, img: png, field: "title", message: "Title is required"},
		{name: "long title", mutate: func(f *GameForm) { f.Title = strings.Repeat("a", 129) }, img: png, field: "title", message: "Title must be no more than 128 characters"},
		{name: "long description", mutate: func(f *GameForm) { f.Description = strings.Repeat("d", 1025) }, img: png, field: "description", message: "Description must be no more than 1024 characters"},
		{name: "no genre", mutate: func(f *GameForm) { f.GenreID = 0 }, img: png, field: "genre", message: "Please select a genre"},
		{name: "no platforms", mutate: func(f *GameForm) { f.PlatformIDs = nil }, img: png, field: "platforms", message: "Please select at least one platform"},
		{name: "empty price", mutate: func(f *GameForm) { f.Price = "" }, img: png, field: "price", message: "Price is required"},
		{name: "negative price", mutate: func(f *GameForm) { f.Price = "-3" }, img: png, field: "price", message: "Price must be a positive number or zero"},
		{name: "three decimals", mutate: func(f *GameForm) { f.Price = "1.234" }, img: png, field: "price", message: "Price must be a positive number or zero"},
		{name: "missing image on create", mutate: func(*GameForm) {}, requireImage: true, field: "image", message: "Please upload a game image"},
		{name: "bad mime", mutate: func(*GameForm) {}, img: &models.Image{ContentType: "image/webp"}, field: "image", message: "Please select a valid image file (JPEG, PNG, or GIF)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validGame()
			tt.mutate(&f)
			errs := f.Validate(tt.img, tt.requireImage)
			assert.Equal(t, tt.message, errs.Get(tt.field))
		})
	}

	t.Run("valid without image on edit", func(t *testing.T) {
		assert.True(t, validGame().Validate(nil, false).Valid())
	})
}

func TestGameForm_Requests(t *testing.T) {
	f := validGame()
	f.Title = " Outer Wilds "
	f.Price = "19.29"

	create := f.CreateRequest()
	assert.Equal(t, "Outer Wilds", create.Title)
	assert.Equal(t, 1929, create.Price)
	assert.Equal(t, []int{1, 3}, create.PlatformIDs)

	update := f.UpdateRequest()
	require.NotNil(t, update.Price)
	assert.Equal(t, 1929, *update.Price)
	assert.Equal(t, []int{1, 3}, update.PlatformIDs)
}

func TestGameFormFrom(t *testing.T) {
	g := models.GameDetail{Game: models.Game{Title: "Hades", GenreID: 1, Price: 2499, PlatformIDs: []int{2}}, Description: "d"}
	f := GameFormFrom(g)
	assert.Equal(t, "24.99", f.Price)
	assert.True(t, f.Validate(nil, false).Valid())
}

func TestRegisterForm_Validate(t *testing.T) {
	errs := RegisterForm{Email: "nope", Password: "123"}.Validate(nil)
	assert.Equal(t, "First name is required", errs.Get("firstName"))
	assert.Equal(t, "Last name is required", errs.Get("lastName"))
	assert.Equal(t, "Please enter a valid email address", errs.Get("email"))
	assert.Equal(t, "Password must be at least 6 characters", errs.Get("password"))

	ok := RegisterForm{FirstName: "Ada", LastName: "L", Email: "ada@example.com", Password: "secret"}
	assert.True(t, ok.Validate(png).Valid())
	assert.True(t, ok.Validate(&models.Image{ContentType: "text/plain"}).Has("image"))
}

func TestLoginForm_Validate(t *testing.T) {
	errs := LoginForm{}.Validate()
	assert.Equal(t, "Email is required", errs.Get("email"))
	assert.Equal(t, "Password is required", errs.Get("password"))
	assert.True(t, LoginForm{Email: "a@b.co", Password: "x"}.Validate().Valid())
}

func TestProfileForm(t *testing.T) {
	current := models.User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}

	t.Run("password needs current password", func(t *testing.T) {
		f := ProfileFormFrom(current)
		f.NewPassword = "abc"
		errs := f.Validate(nil)
		assert.Equal(t, "Current password is required to change password", errs.Get("currentPassword"))
		assert.Equal(t, "Password must be at least 6 characters", errs.Get("newPassword"))
	})

	t.Run("only changed fields", func(t *testing.T) {
		f := ProfileFormFrom(current)
		f.LastName = "King"
		req := f.Changes(current)
		require.NotNil(t, req.LastName)
		assert.Equal(t, "King", *req.LastName)
		assert.Nil(t, req.FirstName)
		assert.Nil(t, req.Email)
		assert.Nil(t, req.Password)
		assert.False(t, req.Empty())
	})

	t.Run("no changes", func(t *testing.T) {
		assert.True(t, ProfileFormFrom(current).Changes(current).Empty())
	})

	t.Run("password change", func(t *testing.T) {
		f := ProfileFormFrom(current)
		f.CurrentPassword = "oldpass"
		f.NewPassword = "newpass"
		require.True(t, f.Validate(nil).Valid())
		req := f.Changes(current)
		require.NotNil(t, req.CurrentPassword)
		assert.Equal(t, "oldpass", *req.CurrentPassword)
		assert.Equal(t, "newpass", *req.Password)
	})
}

func TestReviewForm(t *testing.T) {
	assert.True(t, ReviewForm{Rating: 0}.Validate().Has("rating"))
	assert.True(t, ReviewForm{Rating: 11}.Validate().Has("rating"))
	assert.True(t, ReviewForm{Rating: 10}.Validate().Valid())

	assert.Nil(t, ReviewForm{Rating: 5, Review: "   "}.Request().Review)
	req := ReviewForm{Rating: 5, Review: " great "}.Request()
	require.NotNil(t, req.Review)
	assert.Equal(t, "great", *req.Review)
}

func TestPriceFilter(t *testing.T) {
	p, err := PriceFilter("")
	assert.NoError(t, err)
	assert.Nil(t, p)

	p, err = PriceFilter("5")
	require.NoError(t, err)
	assert.Equal(t, 500, *p)

	_, err = PriceFilter("x")
	assert.Error(t, err)
}

func TestValidImageType(t *testing.T) {
	assert.True(t, ValidImageType("image/jpeg"))
	assert.True(t, ValidImageType("image/gif; charset=binary"))
	assert.False(t, ValidImageType("image/svg+xml"))
	assert.False(t, ValidImageType(""))
}

func TestErrors(t *testing.T) {
	errs := Errors{}
	errs.Add("title", "first")
	errs.Add("title", "second")
	errs.Add("genre", "g")
	assert.Equal(t, "first", errs.Get("title"))
	assert.Equal(t, "validation failed: genre: g; title: first", errs.Error())
}
