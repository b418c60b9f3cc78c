package server

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"quorum/internal/middleware"
	"quorum/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// lastPage is the page query value that selects the final page.
const lastPage = "last"

// parseID extracts a route parameter by name as a positive uint.
// Routes only match numeric ids, so anything else is a 404.
// On failure it writes the response and returns errResponseWritten.
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(param), 10, 32)
	if err != nil || id == 0 {
		_ = models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Page", c.Params(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parsePage reads the page query parameter. An empty value is page 1 and
// "last" is reported through the second result.
func parsePage(c *fiber.Ctx) (page int, last bool, err error) {
	raw := strings.TrimSpace(c.Query("page"))
	switch raw {
	case "":
		return 1, false, nil
	case lastPage:
		return 0, true, nil
	}
	page, err = strconv.Atoi(raw)
	if err != nil {
		return 0, false, models.NewNotFoundError("Page", raw)
	}
	return page, false, nil
}

// respondError writes err with the status its code maps to.
func (s *Server) respondError(c *fiber.Ctx, err error) error {
	status := models.StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			"path", c.Path(), "error", err)
	}
	return models.RespondWithError(c, status, err)
}

// viewer is the signed-in user as shown on every view document.
type viewer struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// render writes a view document: data plus the view name, the signed-in user
// and any pending flash messages.
func (s *Server) render(c *fiber.Ctx, status int, view string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["view"] = view
	if id, ok := middleware.CurrentUserID(c); ok {
		data["user"] = viewer{ID: id, Username: middleware.CurrentUsername(c)}
	} else {
		data["user"] = nil
	}
	data["messages"] = takeFlashes(c)
	return c.Status(status).JSON(data)
}

// renderForm re-renders a form with the submitted values and the validation errors.
// Non-validation errors are written as plain error responses.
func (s *Server) renderForm(c *fiber.Ctx, view string, form any, err error) error {
	appErr := fieldErrorsOf(err)
	if appErr == nil {
		return s.respondError(c, err)
	}
	errs := appErr.Fields
	if len(errs) == 0 {
		errs = map[string][]string{nonFieldErrors: {appErr.Message}}
	}
	return s.render(c, fiber.StatusBadRequest, view, fiber.Map{
		"form":   form,
		"errors": errs,
	})
}

// fieldErrorsOf returns err as a validation AppError, or nil for any other error.
func fieldErrorsOf(err error) *models.AppError {
	var appErr *models.AppError
	if errors.As(err, &appErr) && appErr.Code == models.CodeValidation {
		return appErr
	}
	return nil
}

// nonFieldErrors keys form errors that belong to no single field.
const nonFieldErrors = "__all__"

// safeNext returns next when it is a local path, and fallback otherwise.
func safeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") ||
		strings.Contains(next, `\`) {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return next
}

func questionURL(id uint) string {
	return "/questions/" + strconv.FormatUint(uint64(id), 10)
}

func redirect(c *fiber.Ctx, to string) error {
	return c.Redirect(to, fiber.StatusFound)
}
