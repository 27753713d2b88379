package services

import (
	"context"
	"fmt"
	"log/slog"

	"games_storefront/internal/clients/gameapi"
	"games_storefront/internal/models"
	"games_storefront/internal/session"
	"games_storefront/internal/validation"
)

const (
	msgRegisterFailed    = "Registration failed. Please try again."
	msgLoginFailed       = "Login failed. Please try again."
	msgProfileLoadFailed = "Failed to load profile data"
	msgProfileFailed     = "Failed to update profile. Please try again."
)

type UserService struct {
	api      UsersAPI
	sessions *session.Store
	log      *slog.Logger
}

func NewUserService(api UsersAPI, sessions *session.Store, log *slog.Logger) *UserService {
	return &UserService{
		api:      api,
		sessions: sessions,
		log:      log,
	}
}

// Register creates the account and signs the visitor in. If the automatic
// sign in fails the account still exists and the returned session is nil.
// The avatar is uploaded with the new token; a failed upload is logged.
func (s *UserService) Register(ctx context.Context, ns string, form validation.RegisterForm, avatar *models.Image) (*session.Session, error) {
	const op = "services.users.Register"

	if errs := form.Validate(avatar); !errs.Valid() {
		return nil, invalid(op, errs)
	}

	userID, err := s.api.Register(ctx, form.Request())
	if err != nil {
		s.log.Error(msgRegisterFailed,
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return nil, interpret(op, err, registerMessages, msgRegisterFailed)
	}

	s.log.Info("user registered", slog.String("operation", op), slog.Int("user_id", userID))

	sess, err := s.signIn(ctx, ns, models.LoginRequest{Email: form.Request().Email, Password: form.Password})
	if err != nil {
		s.log.Warn("automatic login after registration failed",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return nil, nil
	}

	if avatar != nil {
		if err := s.api.PutImage(ctx, sess.Token, gameapi.UserImage, sess.UserID, *avatar); err != nil {
			s.log.Warn("failed to upload profile image",
				slog.String("operation", op),
				slog.String("error", err.Error()))
		}
	}

	return sess, nil
}

func (s *UserService) Login(ctx context.Context, ns string, form validation.LoginForm) (*session.Session, error) {
	const op = "services.users.Login"

	if errs := form.Validate(); !errs.Valid() {
		return nil, invalid(op, errs)
	}

	sess, err := s.signIn(ctx, ns, form.Request())
	if err != nil {
		if gameapi.StatusOf(err) == 0 {
			s.log.Error(msgLoginFailed,
				slog.String("operation", op),
				slog.String("error", err.Error()))
		}
		return nil, interpret(op, err, loginMessages, msgLoginFailed)
	}

	return sess, nil
}

func (s *UserService) signIn(ctx context.Context, ns string, creds models.LoginRequest) (*session.Session, error) {
	resp, err := s.api.Login(ctx, creds)
	if err != nil {
		return nil, err
	}

	sess := session.Session{UserID: resp.UserID, Token: resp.Token}
	if err := s.sessions.Login(ctx, ns, sess); err != nil {
		return nil, err
	}

	return &sess, nil
}

// Logout always ends the local session, even if the API call fails.
func (s *UserService) Logout(ctx context.Context, ns string) error {
	const op = "services.users.Logout"

	if err := s.sessions.Logout(ctx, ns, s.api); err != nil {
		s.log.Error("failed to clear session",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *UserService) Profile(ctx context.Context, sess *session.Session) (*models.User, error) {
	const op = "services.users.Profile"

	if !sess.IsAuthenticated() {
		return nil, fmt.Errorf("%s: %w", op, ErrNotAuthenticated)
	}

	user, err := s.api.GetUser(ctx, sess.Token, sess.UserID)
	if err != nil {
		s.log.Error(msgProfileLoadFailed,
			slog.String("operation", op),
			slog.Int("user_id", sess.UserID),
			slog.String("error", err.Error()))
		return nil, interpret(op, err, viewProfileMessages, msgProfileLoadFailed)
	}

	return user, nil
}

// UpdateProfile sends only the fields that differ from the stored profile,
// then replaces or removes the avatar. Avatar failures are logged.
func (s *UserService) UpdateProfile(ctx context.Context, sess *session.Session, form validation.ProfileForm, avatar *models.Image) error {
	const op = "services.users.UpdateProfile"

	if !sess.IsAuthenticated() {
		return fmt.Errorf("%s: %w", op, ErrNotAuthenticated)
	}

	if errs := form.Validate(avatar); !errs.Valid() {
		return invalid(op, errs)
	}

	current, err := s.Profile(ctx, sess)
	if err != nil {
		return err
	}

	if changes := form.Changes(*current); !changes.Empty() {
		if err := s.api.UpdateUser(ctx, sess.Token, sess.UserID, changes); err != nil {
			s.log.Error(msgProfileFailed,
				slog.String("operation", op),
				slog.Int("user_id", sess.UserID),
				slog.String("error", err.Error()))
			return interpret(op, err, profileMessages, msgProfileFailed)
		}
	}

	switch {
	case avatar != nil:
		if err := s.api.PutImage(ctx, sess.Token, gameapi.UserImage, sess.UserID, *avatar); err != nil {
			s.log.Warn("failed to upload profile image",
				slog.String("operation", op),
				slog.String("error", err.Error()))
		}
	case form.RemoveImage:
		if err := s.api.DeleteImage(ctx, sess.Token, gameapi.UserImage, sess.UserID); err != nil {
			s.log.Warn("failed to delete profile image",
				slog.String("operation", op),
				slog.String("error", err.Error()))
		}
	}

	return nil
}
