package shared

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionManager orchestrates cookie based sessions backed by Redis.
type SessionManager struct {
	client     *redis.Client
	cookieName string
	ttl        time.Duration
	secure     bool
	secret     []byte
}

// Session holds per-request session data.
type Session struct {
	ID        string
	userID    int64
	userName  string
	admin     bool
	isNew     bool
	dirty     bool
	destroyed bool
}

type sessionPayload struct {
	UserID   int64  `json:"user_id"`
	UserName string `json:"user_name"`
	Admin    bool   `json:"admin"`
}

// NewSessionManager constructs a SessionManager.
func NewSessionManager(client *redis.Client, cookieName string, secret string, ttl time.Duration, secure bool) *SessionManager {
	return &SessionManager{
		client:     client,
		cookieName: cookieName,
		ttl:        ttl,
		secure:     secure,
		secret:     []byte(secret),
	}
}

// Load loads or creates a new session for request. A missing cookie or
// one whose signature does not verify yields a fresh session; the ID is
// assigned up front so request handlers (cart) can key on it before the
// cookie is committed.
func (sm *SessionManager) Load(ctx context.Context, r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(sm.cookieName)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return &Session{ID: uuid.NewString(), isNew: true}, nil
		}
		return nil, err
	}

	id, ok := sm.decodeCookie(cookie.Value)
	if !ok {
		return &Session{ID: uuid.NewString(), isNew: true}, nil
	}

	payload, err := sm.client.Get(ctx, sm.redisKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &Session{ID: id, isNew: true}, nil
		}
		return nil, err
	}

	var stored sessionPayload
	if err := json.Unmarshal(payload, &stored); err != nil {
		return nil, err
	}

	return &Session{
		ID:       id,
		userID:   stored.UserID,
		userName: stored.UserName,
		admin:    stored.Admin,
	}, nil
}

// Commit persists the session and writes cookie headers as needed.
func (sm *SessionManager) Commit(ctx context.Context, w http.ResponseWriter, r *http.Request, sess *Session) error {
	if sess == nil {
		return nil
	}

	if sess.destroyed {
		if err := sm.client.Del(ctx, sm.redisKey(sess.ID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		http.SetCookie(w, &http.Cookie{
			Name:     sm.cookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   sm.secure,
			SameSite: http.SameSiteLaxMode,
		})
		return nil
	}

	if sess.dirty || sess.isNew {
		payload := sessionPayload{UserID: sess.userID, UserName: sess.userName, Admin: sess.admin}
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		if err := sm.client.Set(ctx, sm.redisKey(sess.ID), data, sm.ttl).Err(); err != nil {
			return err
		}
		sess.dirty = false
	}

	if sess.ID != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     sm.cookieName,
			Value:    sm.encodeCookie(sess.ID),
			Path:     "/",
			HttpOnly: true,
			Secure:   sm.secure,
			SameSite: http.SameSiteLaxMode,
			Expires:  time.Now().Add(sm.ttl),
		})
	}

	return nil
}

// Destroy marks the session for deletion.
func (sm *SessionManager) Destroy(sess *Session) {
	if sess == nil {
		return
	}
	sess.destroyed = true
}

// TTL exposes the configured session lifetime.
func (sm *SessionManager) TTL() time.Duration {
	return sm.ttl
}

// CookieName returns the cookie identifier used for sessions.
func (sm *SessionManager) CookieName() string {
	return sm.cookieName
}

func (sm *SessionManager) redisKey(id string) string {
	return "cazuela:session:" + id
}

// encodeCookie appends an HMAC of the session ID so a forged cookie
// cannot address arbitrary session keys.
func (sm *SessionManager) encodeCookie(id string) string {
	return id + "." + sm.sign(id)
}

func (sm *SessionManager) decodeCookie(value string) (string, bool) {
	id, sig, found := strings.Cut(value, ".")
	if !found || id == "" {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(sm.sign(id))) {
		return "", false
	}
	return id, true
}

func (sm *SessionManager) sign(id string) string {
	mac := hmac.New(sha256.New, sm.secret)
	mac.Write([]byte(id))
	return hex.EncodeToString(mac.Sum(nil))
}

// SetUser binds an authenticated user to the session.
func (s *Session) SetUser(id int64, name string, admin bool) {
	s.userID = id
	s.userName = name
	s.admin = admin
	s.dirty = true
}

// UserID returns the authenticated user id, zero when anonymous.
func (s *Session) UserID() int64 {
	if s == nil {
		return 0
	}
	return s.userID
}

// UserName returns the display name stored at login.
func (s *Session) UserName() string {
	if s == nil {
		return ""
	}
	return s.userName
}

// IsAdmin reports whether the session carries the admin capability.
func (s *Session) IsAdmin() bool {
	return s != nil && s.admin
}

// Authenticated reports whether a user is bound to the session.
func (s *Session) Authenticated() bool {
	return s != nil && s.userID != 0
}

type sessionContextKey struct{}

// ContextWithSession stores a session in the context.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext retrieves the session from the context, nil when absent.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}
