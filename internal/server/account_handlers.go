package server

import (
	"errors"
	"time"

	"quorum/internal/middleware"
	"quorum/internal/models"
	"quorum/internal/service"
	"quorum/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// registerFormView is the sign-up form as echoed back. Passwords are never echoed.
type registerFormView struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type loginFormView struct {
	Username string `json:"username"`
	Next     string `json:"next"`
}

// RegisterForm handles GET /accounts/register
// @Summary Sign-up form
// @Tags accounts
// @Produce json
// @Success 200 {object} object{view=string,form=object}
// @Success 302 "Already signed in"
// @Router /accounts/register [get]
func (s *Server) RegisterForm(c *fiber.Ctx) error {
	if _, ok := middleware.CurrentUserID(c); ok {
		return redirect(c, "/")
	}
	return s.render(c, fiber.StatusOK, "accounts/register", fiber.Map{
		"form":   registerFormView{},
		"errors": fiber.Map{},
	})
}

// Register handles POST /accounts/register
// @Summary Create an account
// @Description Creates the user and its profile, then redirects to the login page.
// @Tags accounts
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username"
// @Param email formData string true "Email"
// @Param password1 formData string true "Password"
// @Param password2 formData string true "Password confirmation"
// @Success 302 "Redirect to /accounts/login"
// @Failure 400 {object} object{view=string,errors=object}
// @Router /accounts/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	if _, ok := middleware.CurrentUserID(c); ok {
		return redirect(c, "/")
	}

	var form validation.RegisterForm
	if err := c.BodyParser(&form); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	echo := registerFormView{Username: form.Username, Email: form.Email}

	user, err := s.accountService.Register(c.UserContext(), service.RegisterInput{
		Username:  form.Username,
		Email:     form.Email,
		Password1: form.Password1,
		Password2: form.Password2,
	})
	if err != nil {
		return s.renderForm(c, "accounts/register", echo, err)
	}

	flash(c, levelSuccess, "Account created for "+user.Username+"! You can now login.")
	return redirect(c, middleware.LoginURL)
}

// LoginForm handles GET /accounts/login
// @Summary Sign-in form
// @Tags accounts
// @Produce json
// @Param next query string false "Where to go after signing in"
// @Success 200 {object} object{view=string,form=object}
// @Router /accounts/login [get]
func (s *Server) LoginForm(c *fiber.Ctx) error {
	next := safeNext(c.Query("next"), "")
	if _, ok := middleware.CurrentUserID(c); ok {
		return redirect(c, safeNext(next, "/"))
	}
	return s.render(c, fiber.StatusOK, "accounts/login", fiber.Map{
		"form":   loginFormView{Next: next},
		"errors": fiber.Map{},
	})
}

// Login handles POST /accounts/login
// @Summary Sign in
// @Description Sets the session cookie and redirects to next (local paths only) or the home page.
// @Tags accounts
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Param next formData string false "Redirect target"
// @Success 302 "Redirect to next or /"
// @Failure 400 {object} object{view=string,errors=object}
// @Router /accounts/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var form validation.LoginForm
	if err := c.BodyParser(&form); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if form.Next == "" {
		form.Next = c.Query("next")
	}
	next := safeNext(form.Next, "")
	echo := loginFormView{Username: form.Username, Next: next}

	user, err := s.accountService.Authenticate(c.UserContext(), form.Username, form.Password)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeUnauthorized {
			err = models.NewFieldErrors(map[string][]string{nonFieldErrors: {appErr.Message}})
		}
		return s.renderForm(c, "accounts/login", echo, err)
	}

	if err := s.startSession(c, user); err != nil {
		return s.respondError(c, err)
	}
	return redirect(c, safeNext(next, "/"))
}

// Logout handles GET /accounts/logout
// @Summary Sign out
// @Tags accounts
// @Success 302 "Redirect to /"
// @Router /accounts/logout [get]
func (s *Server) Logout(c *fiber.Ctx) error {
	if err := s.sessions.Revoke(c.UserContext(), middleware.CurrentSession(c)); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "session revoke failed", "error", err)
	}
	c.Cookie(s.sessions.ExpiredCookie())
	flash(c, levelInfo, "You have been successfully logged out.")
	return redirect(c, "/")
}

// Profile handles GET /accounts/profile
// @Summary Current user's profile
// @Tags accounts
// @Produce json
// @Success 200 {object} object{view=string,profile=object}
// @Success 302 "Redirect to login"
// @Router /accounts/profile [get]
func (s *Server) Profile(c *fiber.Ctx) error {
	userID, _ := middleware.CurrentUserID(c)
	user, err := s.accountService.GetProfile(c.UserContext(), userID)
	if err != nil {
		return s.respondError(c, err)
	}
	return s.render(c, fiber.StatusOK, "accounts/profile", fiber.Map{
		"profile": newProfileView(user),
		"errors":  fiber.Map{},
	})
}

// UpdateProfile handles POST /accounts/profile
// @Summary Update the current user's profile
// @Tags accounts
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username"
// @Param email formData string true "Email"
// @Param bio formData string false "Bio"
// @Success 302 "Redirect to /accounts/profile"
// @Failure 400 {object} object{view=string,errors=object}
// @Router /accounts/profile [post]
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	userID, _ := middleware.CurrentUserID(c)

	var form validation.ProfileForm
	if err := c.BodyParser(&form); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.accountService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID:   userID,
		Username: form.Username,
		Email:    form.Email,
		Bio:      form.Bio,
	})
	if err != nil {
		return s.renderForm(c, "accounts/profile", form, err)
	}

	// The session carries the username; reissue it when it changed.
	if user.Username != middleware.CurrentUsername(c) {
		if err := s.startSession(c, user); err != nil {
			return s.respondError(c, err)
		}
		if old := middleware.CurrentSession(c); old != nil {
			_ = s.sessions.Revoke(c.UserContext(), old)
		}
	}

	flash(c, levelSuccess, "Your profile has been updated!")
	return redirect(c, "/accounts/profile")
}

// startSession issues a session for user and sets the cookie.
func (s *Server) startSession(c *fiber.Ctx, user *models.User) error {
	token, claims, err := s.sessions.Issue(user.ID, user.Username)
	if err != nil {
		return models.NewInternalError(err)
	}
	expires := time.Now().Add(s.sessions.TTL())
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}
	c.Cookie(s.sessions.Cookie(token, expires))
	return nil
}
