package server

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"time"

	"quorum/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
)

const (
	flashCookie = "quorum_messages"
	flashLocals = "flashes"
	flashTTL    = 5 * time.Minute
)

// Flash levels.
const (
	levelSuccess = "success"
	levelInfo    = "info"
	levelError   = "error"
)

// flashCookieKey derives the AES-256 key of the flash cookie from the session secret.
func flashCookieKey(secret string) string {
	sum := sha256.Sum256([]byte("quorum-flash:" + secret))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// cookieEncryption encrypts every cookie but the session token, which is signed already.
func cookieEncryption(secret string) fiber.Handler {
	return encryptcookie.New(encryptcookie.Config{
		Key:    flashCookieKey(secret),
		Except: []string{session.CookieName},
	})
}

// FlashMessage is a one-time notice shown on the next view document.
type FlashMessage struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// flash queues a message for the next view document and stores the queue in a cookie.
func flash(c *fiber.Ctx, level, text string) {
	msgs := append(pendingFlashes(c), FlashMessage{Level: level, Text: text})
	c.Locals(flashLocals, msgs)

	raw, err := json.Marshal(msgs)
	if err != nil {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		Expires:  time.Now().Add(flashTTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// pendingFlashes returns the queued messages: those set during this request,
// or else those carried in by the cookie.
func pendingFlashes(c *fiber.Ctx) []FlashMessage {
	if msgs, ok := c.Locals(flashLocals).([]FlashMessage); ok {
		return msgs
	}
	return decodeFlashes(c.Cookies(flashCookie))
}

// takeFlashes returns the queued messages and clears the queue.
func takeFlashes(c *fiber.Ctx) []FlashMessage {
	msgs := pendingFlashes(c)
	c.Locals(flashLocals, []FlashMessage{})
	if c.Cookies(flashCookie) != "" || len(msgs) > 0 {
		c.Cookie(&fiber.Cookie{
			Name:     flashCookie,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	if msgs == nil {
		msgs = []FlashMessage{}
	}
	return msgs
}

func decodeFlashes(value string) []FlashMessage {
	if value == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var msgs []FlashMessage
	if err := json.Unmarshal(raw, &msgs); err != nil {
		return nil
	}
	return msgs
}
