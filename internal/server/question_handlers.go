package server

import (
	"quorum/internal/middleware"
	"quorum/internal/models"
	"quorum/internal/service"
	"quorum/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Home handles GET /
// @Summary Home page
// @Description The latest questions, newest first.
// @Tags questions
// @Produce json
// @Success 200 {object} object{view=string,questions=[]object}
// @Router / [get]
func (s *Server) Home(c *fiber.Ctx) error {
	questions, err := s.questionService.LatestQuestions(c.UserContext(), service.LatestCount)
	if err != nil {
		return s.respondError(c, err)
	}
	return s.render(c, fiber.StatusOK, "home", fiber.Map{
		"questions": newQuestionViews(questions),
	})
}

// ListQuestions handles GET /questions/
// @Summary List questions
// @Description Ten questions per page, newest first. page=last selects the final page.
// @Tags questions
// @Produce json
// @Param page query string false "Page number or 'last'"
// @Success 200 {object} object{view=string,questions=[]object,page=object}
// @Failure 404 {object} models.ErrorResponse
// @Router /questions/ [get]
func (s *Server) ListQuestions(c *fiber.Ctx) error {
	ctx := c.UserContext()

	page, last, err := parsePage(c)
	if err != nil {
		return s.respondError(c, err)
	}
	if last {
		first, err := s.questionService.ListQuestions(ctx, 1)
		if err != nil {
			return s.respondError(c, err)
		}
		page = first.NumPages
	}

	result, err := s.questionService.ListQuestions(ctx, page)
	if err != nil {
		return s.respondError(c, err)
	}
	return s.render(c, fiber.StatusOK, "questions/list", fiber.Map{
		"questions": newQuestionViews(result.Questions),
		"page":      newPageView(result),
	})
}

// QuestionDetail handles GET /questions/:id
// @Summary Question detail
// @Description The question with its answers, newest first, and the answers the viewer liked.
// @Tags questions
// @Produce json
// @Param id path int true "Question ID"
// @Success 200 {object} object{view=string,question=object,answers=[]object,user_likes=[]int}
// @Failure 404 {object} models.ErrorResponse
// @Router /questions/{id} [get]
func (s *Server) QuestionDetail(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewerID, _ := middleware.CurrentUserID(c)

	detail, err := s.questionService.GetQuestionDetail(c.UserContext(), id, viewerID)
	if err != nil {
		return s.respondError(c, err)
	}
	return s.render(c, fiber.StatusOK, "questions/detail", fiber.Map{
		"question":    newQuestionView(detail.Question),
		"answers":     newAnswerViews(detail.Answers),
		"user_likes":  detail.UserLikes,
		"is_author":   viewerID != 0 && detail.Question.IsAuthor(viewerID),
		"answer_form": validation.AnswerForm{},
	})
}

// NewQuestionForm handles GET /questions/new
// @Summary New question form
// @Tags questions
// @Produce json
// @Success 200 {object} object{view=string,form=object}
// @Router /questions/new [get]
func (s *Server) NewQuestionForm(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, "questions/form", fiber.Map{
		"form":   validation.QuestionForm{},
		"errors": fiber.Map{},
	})
}

// CreateQuestion handles POST /questions/new
// @Summary Ask a question
// @Tags questions
// @Accept x-www-form-urlencoded
// @Produce json
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Success 302 "Redirect to the new question"
// @Failure 400 {object} object{view=string,errors=object}
// @Router /questions/new [post]
func (s *Server) CreateQuestion(c *fiber.Ctx) error {
	userID, _ := middleware.CurrentUserID(c)

	var form validation.QuestionForm
	if err := c.BodyParser(&form); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	q, err := s.questionService.CreateQuestion(c.UserContext(), service.CreateQuestionInput{
		AuthorID:    userID,
		Title:       form.Title,
		Description: form.Description,
	})
	if err != nil {
		return s.renderForm(c, "questions/form", form, err)
	}

	flash(c, levelSuccess, "Your question has been created successfully!")
	return redirect(c, questionURL(q.ID))
}

// EditQuestionForm handles GET /questions/:id/update
// @Summary Edit question form
// @Tags questions
// @Produce json
// @Param id path int true "Question ID"
// @Success 200 {object} object{view=string,form=object}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /questions/{id}/update [get]
func (s *Server) EditQuestionForm(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := middleware.CurrentUserID(c)

	q, err := s.questionService.GetOwnedQuestion(c.UserContext(), userID, id)
	if err != nil {
		return s.respondError(c, err)
	}
	return s.render(c, fiber.StatusOK, "questions/form", fiber.Map{
		"question": newQuestionView(*q),
		"form":     validation.QuestionForm{Title: q.Title, Description: q.Description},
		"errors":   fiber.Map{},
	})
}

// UpdateQuestion handles POST /questions/:id/update
// @Summary Edit a question
// @Description Only the author may edit; anyone else gets 403.
// @Tags questions
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path int true "Question ID"
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Success 302 "Redirect to the question"
// @Failure 400 {object} object{view=string,errors=object}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /questions/{id}/update [post]
func (s *Server) UpdateQuestion(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := middleware.CurrentUserID(c)

	var form validation.QuestionForm
	if err := c.BodyParser(&form); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	q, err := s.questionService.UpdateQuestion(c.UserContext(), service.UpdateQuestionInput{
		UserID:      userID,
		QuestionID:  id,
		Title:       form.Title,
		Description: form.Description,
	})
	if err != nil {
		return s.renderForm(c, "questions/form", form, err)
	}

	flash(c, levelSuccess, "Your question has been updated successfully!")
	return redirect(c, questionURL(q.ID))
}

// ConfirmDeleteQuestion handles GET /questions/:id/delete
// @Summary Confirm question deletion
// @Tags questions
// @Produce json
// @Param id path int true "Question ID"
// @Success 200 {object} object{view=string,question=object}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /questions/{id}/delete [get]
func (s *Server) ConfirmDeleteQuestion(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := middleware.CurrentUserID(c)

	q, err := s.questionService.GetOwnedQuestion(c.UserContext(), userID, id)
	if err != nil {
		return s.respondError(c, err)
	}
	return s.render(c, fiber.StatusOK, "questions/confirm_delete", fiber.Map{
		"question": newQuestionView(*q),
	})
}

// DeleteQuestion handles POST /questions/:id/delete
// @Summary Delete a question
// @Description Removes the question with its answers and their likes. Only the author may delete.
// @Tags questions
// @Param id path int true "Question ID"
// @Success 302 "Redirect to /questions/"
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /questions/{id}/delete [post]
func (s *Server) DeleteQuestion(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := middleware.CurrentUserID(c)

	if err := s.questionService.DeleteQuestion(c.UserContext(), service.DeleteQuestionInput{
		UserID:     userID,
		QuestionID: id,
	}); err != nil {
		return s.respondError(c, err)
	}

	flash(c, levelSuccess, "Your question has been deleted.")
	return redirect(c, "/questions/")
}

// CreateAnswer handles POST /questions/:id
// @Summary Answer a question
// @Description Validation problems come back as flash messages on the question page.
// @Tags answers
// @Accept x-www-form-urlencoded
// @Param id path int true "Question ID"
// @Param content formData string true "Answer text"
// @Success 302 "Redirect to the question"
// @Failure 404 {object} models.ErrorResponse
// @Router /questions/{id} [post]
func (s *Server) CreateAnswer(c *fiber.Ctx) error {
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

	_, err = s.answerService.CreateAnswer(c.UserContext(), service.CreateAnswerInput{
		AuthorID:   userID,
		QuestionID: id,
		Content:    form.Content,
	})
	switch {
	case err == nil:
		flash(c, levelSuccess, "Your answer has been added successfully!")
	case models.IsCode(err, models.CodeValidation):
		flashFieldErrors(c, err)
	default:
		return s.respondError(c, err)
	}
	return redirect(c, questionURL(id))
}

// flashFieldErrors turns every field message of a validation error into an error flash.
func flashFieldErrors(c *fiber.Ctx, err error) {
	appErr := fieldErrorsOf(err)
	if appErr == nil {
		return
	}
	if len(appErr.Fields) == 0 {
		flash(c, levelError, appErr.Message)
		return
	}
	for _, msgs := range appErr.Fields {
		for _, msg := range msgs {
			flash(c, levelError, msg)
		}
	}
}
