package service

import (
	"context"
	"strings"
	"time"

	"quorum/internal/cache"
	"quorum/internal/models"
	"quorum/internal/observability"
	"quorum/internal/repository"
	"quorum/internal/validation"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgUsernameTaken = "A user with that username already exists."
	msgEmailTaken    = "This email is already registered."
	msgBadLogin      = "Please enter a correct username and password. Note that both fields may be case-sensitive."
)

// SessionRevoker ends every session of a user.
type SessionRevoker interface {
	RevokeUser(ctx context.Context, userID uint) error
}

// AccountService registers, authenticates and edits users.
type AccountService struct {
	users      repository.UserRepository
	sessions   SessionRevoker
	bcryptCost int
	now        func() time.Time
}

// RegisterInput carries the sign-up form.
type RegisterInput struct {
	Username  string
	Email     string
	Password1 string
	Password2 string
}

// UpdateProfileInput carries the profile form of the signed-in user.
type UpdateProfileInput struct {
	UserID   uint
	Username string
	Email    string
	Bio      string
}

func NewAccountService(users repository.UserRepository) *AccountService {
	return &AccountService{users: users, bcryptCost: bcrypt.DefaultCost, now: time.Now}
}

// WithSessionRevoker makes DeleteUser log the deleted account out everywhere.
func (s *AccountService) WithSessionRevoker(r SessionRevoker) *AccountService {
	s.sessions = r
	return s
}

// WithBcryptCost overrides the hashing cost. Tests use bcrypt.MinCost.
func (s *AccountService) WithBcryptCost(cost int) *AccountService {
	s.bcryptCost = cost
	return s
}

// Register validates the form, then creates the user and its profile together.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (user *models.User, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "AccountService", "Register")
	defer func() {
		observability.AuthEvents.WithLabelValues("register", outcome(err)).Inc()
		observability.EndSpan(span, err)
	}()

	form := validation.RegisterForm{
		Username:  in.Username,
		Email:     in.Email,
		Password1: in.Password1,
		Password2: in.Password2,
	}
	verr := form.Validate()

	fieldsErr := fieldErrors(verr)
	if err := s.checkUnique(ctx, fieldsErr, form.Username, form.Email, 0); err != nil {
		return nil, err
	}
	if verr != nil || len(fieldsErr.Fields) > 0 {
		return nil, fieldsErr
	}

	hash, err := s.hash(form.Password1)
	if err != nil {
		return nil, err
	}

	user = &models.User{
		Username: form.Username,
		Email:    form.Email,
		Password: hash,
		Profile:  &models.Profile{},
	}
	if err := s.users.Create(ctx, user); err != nil {
		if models.IsCode(err, models.CodeConflict) {
			return nil, s.conflictFields(ctx, form.Username, form.Email, 0)
		}
		return nil, err
	}
	return user, nil
}

// checkUnique adds a field error to into for every taken username or email.
func (s *AccountService) checkUnique(ctx context.Context, into *models.AppError, username, email string, excludeID uint) error {
	if username != "" {
		taken, err := s.users.UsernameTaken(ctx, username, excludeID)
		if err != nil {
			return err
		}
		if taken {
			into.AddField("username", msgUsernameTaken)
		}
	}
	if email != "" {
		taken, err := s.users.EmailTaken(ctx, email, excludeID)
		if err != nil {
			return err
		}
		if taken {
			into.AddField("email", msgEmailTaken)
		}
	}
	return nil
}

// conflictFields explains a unique-constraint race lost on insert or update.
func (s *AccountService) conflictFields(ctx context.Context, username, email string, excludeID uint) error {
	fieldsErr := models.NewFieldErrors(map[string][]string{})
	if err := s.checkUnique(ctx, fieldsErr, username, email, excludeID); err != nil {
		return err
	}
	if len(fieldsErr.Fields) == 0 {
		fieldsErr.AddField("email", msgEmailTaken)
	}
	return fieldsErr
}

// Authenticate checks credentials and stamps last_login.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (user *models.User, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "AccountService", "Authenticate")
	defer func() {
		observability.AuthEvents.WithLabelValues("login", outcome(err)).Inc()
		observability.EndSpan(span, err)
	}()

	form := validation.LoginForm{Username: username, Password: password}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	user, err = s.users.GetByUsername(ctx, form.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError(msgBadLogin)
	}
	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); cmpErr != nil {
		return nil, models.NewUnauthorizedError(msgBadLogin)
	}

	now := s.now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLogin = &now
	return user, nil
}

// GetProfile returns the user with its profile, recreating a missing profile.
func (s *AccountService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Profile == nil {
		profile, err := s.users.EnsureProfile(ctx, userID)
		if err != nil {
			return nil, err
		}
		user.Profile = profile
	}
	return user, nil
}

// UpdateProfile saves username, email and bio. The email (and username) must not
// belong to a different user.
func (s *AccountService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (user *models.User, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "AccountService", "UpdateProfile",
		attribute.Int64("user.id", int64(in.UserID)))
	defer func() { observability.EndSpan(span, err) }()

	user, err = s.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	form := validation.ProfileForm{Username: in.Username, Email: in.Email, Bio: in.Bio}
	verr := form.Validate()
	fieldsErr := fieldErrors(verr)
	if err := s.checkUnique(ctx, fieldsErr, form.Username, form.Email, user.ID); err != nil {
		return nil, err
	}
	if verr != nil || len(fieldsErr.Fields) > 0 {
		return nil, fieldsErr
	}

	renamed := user.Username != form.Username
	user.Username = form.Username
	user.Email = form.Email
	if user.Profile == nil {
		user.Profile = &models.Profile{UserID: user.ID}
	}
	user.Profile.Bio = form.Bio

	if err := s.users.Update(ctx, user); err != nil {
		if models.IsCode(err, models.CodeConflict) {
			return nil, s.conflictFields(ctx, form.Username, form.Email, user.ID)
		}
		return nil, err
	}
	if renamed {
		cache.InvalidateUserContent(ctx)
	}
	return user, nil
}

// ListUsers pages through every account ordered by id.
func (s *AccountService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.users.List(ctx, limit, offset)
}

// DeleteUser removes an account and everything it owns.
func (s *AccountService) DeleteUser(ctx context.Context, username string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return nil, err
	}
	cache.InvalidateUserContent(ctx)
	if s.sessions != nil {
		if err := s.sessions.RevokeUser(ctx, user.ID); err != nil {
			observability.GlobalLogger.WarnContext(ctx, "could not revoke sessions of deleted user",
				"user_id", user.ID, "error", err)
		}
	}
	return user, nil
}

// SetPassword replaces a user's password after checking the password rules.
func (s *AccountService) SetPassword(ctx context.Context, username, password string) error {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return err
	}
	if user == nil {
		return models.NewNotFoundError("User", username)
	}
	if problems := validation.PasswordProblems(password, user.Username, user.Email); len(problems) > 0 {
		return models.NewFieldErrors(map[string][]string{"password": problems})
	}
	hash, err := s.hash(password)
	if err != nil {
		return err
	}
	return s.users.SetPassword(ctx, user.ID, hash)
}

func (s *AccountService) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return string(b), nil
}

// HashPassword hashes with the default cost. Seeders use it to create accounts directly.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}
