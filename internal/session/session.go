// Package session issues and verifies signed login sessions carried in a cookie.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"quorum/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// CookieName is the cookie holding the signed session token.
	CookieName = "quorum_session"

	issuer   = "quorum"
	audience = "quorum-web"
)

// ErrInvalidSession is returned for malformed, expired or revoked sessions.
var ErrInvalidSession = errors.New("invalid or expired session")

// Claims is the payload of a session token.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: bad subject", ErrInvalidSession)
	}
	return uint(id), nil
}

// Manager signs session tokens and tracks revocations in Redis.
type Manager struct {
	secret []byte
	ttl    time.Duration
	secure bool
	rdb    *redis.Client
	now    func() time.Time
}

// NewManager creates a Manager. rdb may be nil, in which case logout only clears the cookie.
func NewManager(secret string, ttl time.Duration, secure bool, rdb *redis.Client) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
		rdb:    rdb,
		now:    time.Now,
	}
}

// TTL returns the lifetime of issued sessions.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue signs a new session for the user.
func (m *Manager) Issue(userID uint, username string) (string, *Claims, error) {
	if len(m.secret) == 0 {
		return "", nil, errors.New("session secret not configured")
	}
	now := m.now()
	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign session: %w", err)
	}
	return token, claims, nil
}

// Parse verifies a token and checks it has not been revoked.
func (m *Manager) Parse(ctx context.Context, token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidSession
	}

	revoked, err := m.isRevoked(ctx, claims)
	if err != nil {
		// Redis outages must not log everyone out.
		observability.GlobalLogger.WarnContext(ctx, "session revocation check failed", "error", err)
	}
	if revoked {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// Revoke marks the session as logged out until it would have expired anyway.
func (m *Manager) Revoke(ctx context.Context, claims *Claims) error {
	if m.rdb == nil || claims == nil || claims.ID == "" {
		return nil
	}
	remaining := m.ttl
	if claims.ExpiresAt != nil {
		remaining = claims.ExpiresAt.Sub(m.now())
	}
	if remaining <= 0 {
		return nil
	}
	ctx, span := observability.StartRedisSpan(ctx, "session_revoke")
	err := m.rdb.Set(ctx, revokedKey(claims.ID), "1", remaining).Err()
	observability.EndSpan(span, err)
	if err != nil {
		observability.RedisErrorRate.WithLabelValues("session_revoke").Inc()
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// RevokeUser invalidates every session of userID issued up to now.
func (m *Manager) RevokeUser(ctx context.Context, userID uint) error {
	if m.rdb == nil {
		return nil
	}
	ctx, span := observability.StartRedisSpan(ctx, "session_revoke_user")
	err := m.rdb.Set(ctx, userRevokedKey(strconv.FormatUint(uint64(userID), 10)), m.now().Unix(), m.ttl).Err()
	observability.EndSpan(span, err)
	if err != nil {
		observability.RedisErrorRate.WithLabelValues("session_revoke").Inc()
		return fmt.Errorf("revoke sessions of user %d: %w", userID, err)
	}
	return nil
}

func (m *Manager) isRevoked(ctx context.Context, claims *Claims) (bool, error) {
	if m.rdb == nil || claims.ID == "" {
		return false, nil
	}
	pipe := m.rdb.Pipeline()
	single := pipe.Exists(ctx, revokedKey(claims.ID))
	before := pipe.Get(ctx, userRevokedKey(claims.Subject))
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		observability.RedisErrorRate.WithLabelValues("session_check").Inc()
		return false, err
	}
	if single.Val() > 0 {
		return true, nil
	}
	cutoff, err := before.Int64()
	if err != nil || claims.IssuedAt == nil {
		return false, nil
	}
	return claims.IssuedAt.Unix() <= cutoff, nil
}

// Cookie builds the session cookie for token.
func (m *Manager) Cookie(token string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}

// ExpiredCookie builds a cookie that clears the session.
func (m *Manager) ExpiredCookie() *fiber.Cookie {
	return &fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}

func revokedKey(jti string) string {
	return "session:revoked:" + jti
}

func userRevokedKey(subject string) string {
	return "session:user:" + subject + ":revoked_before"
}
