package server

import (
	"quorum/internal/middleware"
	"quorum/internal/models"
	"quorum/internal/service"
	"quorum/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Answer mutations by someone other than the author are not 403s: the user is
// sent back to the question with an error flash.

// EditAnswerForm handles GET /questions/answer/:id/update
// @Summary Edit answer form
// @Tags answers
// @Produce json
// @Param id path int true "Answer ID"
// @Success 200 {object} object{view=string,form=object}
// @Success 302 "Not the author: redirect to the question"
// @Failure 404 {object} models.ErrorResponse
// @Router /questions/answer/{id}/update [get]
func (s *Server) EditAnswerForm(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := middleware.CurrentUserID(c)

	a, err := s.answerService.GetOwnedAnswer(c.UserContext(), userID, id)
	if err != nil {
		return s.answerMutationFailed(c, a, err)
	}
	return s.render(c, fiber.StatusOK, "answers/form", fiber.Map{
		"answer": newAnswerView(*a),
		"form":   validation.AnswerForm{Content: a.Content},
		"errors": fiber.Map{},
	})
}

// UpdateAnswer handles POST /questions/answer/:id/update
// @Summary Edit an answer
// @Tags answers
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path int true "Answer ID"
// @Param content formData string true "Answer text"
// @Success 302 "Redirect to the question"
// @Failure 400 {object} object{view=string,errors=object}
// @Failure 404 {object} models.ErrorResponse
// @Router /questions/answer/{id}/update [post]
func (s *Server) UpdateAnswer(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := middleware.CurrentUserID(c)

	var form validation.AnswerForm
	if err := c.BodyParser(&form); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	a, err := s.answerService.UpdateAnswer(c.UserContext(), service.UpdateAnswerInput{
		UserID:   userID,
		AnswerID: id,
		Content:  form.Content,
	})
	if err != nil {
		if fieldErrorsOf(err) != nil {
			return s.renderForm(c, "answers/form", form, err)
		}
		return s.answerMutationFailed(c, a, err)
	}

	flash(c, levelSuccess, "Your answer has been updated successfully!")
	return redirect(c, questionURL(a.QuestionID))
}

// DeleteAnswer handles POST /questions/answer/:id/delete
// @Summary Delete an answer
// @Tags answers
// @Param id path int true "Answer ID"
// @Success 302 "Redirect to the question"
// @Failure 404 {object} models.ErrorResponse
// @Router /questions/answer/{id}/delete [post]
func (s *Server) DeleteAnswer(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := middleware.CurrentUserID(c)

	questionID, err := s.answerService.DeleteAnswer(c.UserContext(), service.DeleteAnswerInput{
		UserID:   userID,
		AnswerID: id,
	})
	if err != nil {
		if models.IsCode(err, models.CodeForbidden) {
			flash(c, levelError, service.MsgCannotDeleteAnswer)
			return redirect(c, questionURL(questionID))
		}
		return s.respondError(c, err)
	}

	flash(c, levelSuccess, "Your answer has been deleted successfully!")
	return redirect(c, questionURL(questionID))
}

// ToggleLike handles POST /questions/answer/:id/like
// @Summary Like or unlike an answer
// @Description Asynchronous callers (X-Requested-With: XMLHttpRequest) get the new state as JSON; others are redirected to the question.
// @Tags answers
// @Produce json
// @Param id path int true "Answer ID"
// @Success 200 {object} object{status=string,liked=bool,like_count=int}
// @Success 302 "Redirect to the question"
// @Failure 404 {object} models.ErrorResponse
// @Router /questions/answer/{id}/like [post]
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := middleware.CurrentUserID(c)

	res, err := s.likeService.Toggle(c.UserContext(), userID, id)
	if err != nil {
		return s.respondError(c, err)
	}

	if middleware.IsXHR(c) {
		return c.JSON(fiber.Map{
			"status":     "success",
			"liked":      res.Liked,
			"like_count": res.LikeCount,
		})
	}
	return redirect(c, questionURL(res.QuestionID))
}

// answerMutationFailed redirects a non-author back to the question with an error flash.
// Every other error is written as is.
func (s *Server) answerMutationFailed(c *fiber.Ctx, a *models.Answer, err error) error {
	if a != nil && models.IsCode(err, models.CodeForbidden) {
		flash(c, levelError, service.MsgCannotEditAnswer)
		return redirect(c, questionURL(a.QuestionID))
	}
	return s.respondError(c, err)
}
