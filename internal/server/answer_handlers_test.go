package server

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"quorum/internal/models"
	"quorum/internal/service"
	"quorum/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func answerURL(id uint, action string) string {
	return fmt.Sprintf("/questions/answer/%d/%s", id, action)
}

func TestUpdateAnswer_NonAuthorGetsFlashAndRedirect(t *testing.T) {
	env := newTestEnv(t, "")
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	q := testutil.CreateQuestion(t, env.db, alice, "Q")
	a := testutil.CreateAnswer(t, env.db, q, alice, "mine")
	bobCookie := env.sessionFor(t, bob)

	resp := env.do(t, http.MethodGet, answerURL(a.ID, "update"), nil, withCookies(bobCookie))
	assertRedirect(t, resp, questionURL(q.ID))
	assert.Equal(t, []FlashMessage{{levelError, service.MsgCannotEditAnswer}}, flashesOf(t, resp))

	resp = env.do(t, http.MethodPost, answerURL(a.ID, "update"), url.Values{"content": {"hijacked"}}, withCookies(bobCookie))
	assertRedirect(t, resp, questionURL(q.ID))
	assert.Equal(t, service.MsgCannotEditAnswer, flashesOf(t, resp)[0].Text)

	var saved models.Answer
	require.NoError(t, env.db.First(&saved, a.ID).Error)
	assert.Equal(t, "mine", saved.Content)
}

func TestUpdateAnswer_Author(t *testing.T) {
	env := newTestEnv(t, "")
	alice := env.register(t, "alice")
	q := testutil.CreateQuestion(t, env.db, alice, "Q")
	a := testutil.CreateAnswer(t, env.db, q, alice, "draft")
	cookie := env.sessionFor(t, alice)

	resp := env.do(t, http.MethodGet, answerURL(a.ID, "update"), nil, withCookies(cookie))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "draft", decodeBody(t, resp)["form"].(map[string]any)["content"])

	resp = env.do(t, http.MethodPost, answerURL(a.ID, "update"), url.Values{"content": {" "}}, withCookies(cookie))
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, []any{"Answer cannot be empty."}, decodeBody(t, resp)["errors"].(map[string]any)["content"])

	resp = env.do(t, http.MethodPost, answerURL(a.ID, "update"), url.Values{"content": {"final"}}, withCookies(cookie))
	assertRedirect(t, resp, questionURL(q.ID))
	assert.Equal(t, "Your answer has been updated successfully!", flashesOf(t, resp)[0].Text)

	var saved models.Answer
	require.NoError(t, env.db.First(&saved, a.ID).Error)
	assert.Equal(t, "final", saved.Content)

	resp = env.do(t, http.MethodGet, answerURL(9999, "update"), nil, withCookies(cookie))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDeleteAnswer(t *testing.T) {
	env := newTestEnv(t, "")
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	q := testutil.CreateQuestion(t, env.db, alice, "Q")
	a := testutil.CreateAnswer(t, env.db, q, alice, "soon gone")
	testutil.CreateLike(t, env.db, a, bob)

	resp := env.do(t, http.MethodPost, answerURL(a.ID, "delete"), nil, withCookies(env.sessionFor(t, bob)))
	assertRedirect(t, resp, questionURL(q.ID))
	assert.Equal(t, []FlashMessage{{levelError, service.MsgCannotDeleteAnswer}}, flashesOf(t, resp))
	assert.Equal(t, int64(1), testutil.Count(t, env.db, &models.Answer{}, ""))

	resp = env.do(t, http.MethodPost, answerURL(a.ID, "delete"), nil, withCookies(env.sessionFor(t, alice)))
	assertRedirect(t, resp, questionURL(q.ID))
	assert.Equal(t, "Your answer has been deleted successfully!", flashesOf(t, resp)[0].Text)
	assert.Equal(t, int64(0), testutil.Count(t, env.db, &models.Answer{}, ""))
	assert.Equal(t, int64(0), testutil.Count(t, env.db, &models.Like{}, ""))
}

func TestToggleLike_XHR(t *testing.T) {
	env := newTestEnv(t, "")
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	q := testutil.CreateQuestion(t, env.db, alice, "Q")
	a := testutil.CreateAnswer(t, env.db, q, alice, "likeable")

	toggle := func(u *models.User) map[string]any {
		resp := env.do(t, http.MethodPost, answerURL(a.ID, "like"), nil, asXHR(), withCookies(env.sessionFor(t, u)))
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		return decodeBody(t, resp)
	}

	assert.Equal(t, map[string]any{"status": "success", "liked": true, "like_count": float64(1)}, toggle(alice))
	assert.Equal(t, map[string]any{"status": "success", "liked": true, "like_count": float64(2)}, toggle(bob))
	assert.Equal(t, map[string]any{"status": "success", "liked": false, "like_count": float64(1)}, toggle(alice))
	assert.Equal(t, map[string]any{"status": "success", "liked": false, "like_count": float64(0)}, toggle(bob))
}

func TestToggleLike_FormPostRedirects(t *testing.T) {
	env := newTestEnv(t, "")
	alice := env.register(t, "alice")
	q := testutil.CreateQuestion(t, env.db, alice, "Q")
	a := testutil.CreateAnswer(t, env.db, q, alice, "likeable")

	resp := env.do(t, http.MethodPost, answerURL(a.ID, "like"), nil, withCookies(env.sessionFor(t, alice)))
	assertRedirect(t, resp, questionURL(q.ID))
	assert.Equal(t, int64(1), testutil.Count(t, env.db, &models.Like{}, "answer_id = ?", a.ID))
}

func TestToggleLike_AnonymousAndMissing(t *testing.T) {
	env := newTestEnv(t, "")
	alice := env.register(t, "alice")

	resp := env.do(t, http.MethodPost, answerURL(1, "like"), nil, asXHR())
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "/accounts/login?next=%2Fquestions%2Fanswer%2F1%2Flike", decodeBody(t, resp)["login_url"])

	resp = env.do(t, http.MethodPost, answerURL(1, "like"), nil)
	assertRedirect(t, resp, "/accounts/login?next=%2Fquestions%2Fanswer%2F1%2Flike")

	resp = env.do(t, http.MethodPost, answerURL(9999, "like"), nil, asXHR(), withCookies(env.sessionFor(t, alice)))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
