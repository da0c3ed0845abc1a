// Package session tracks login state in a signed, client-held cookie.
// The cookie value is an HS256 JWT; there is no server-side session table.
// A forged or expired token simply reads back as "no session".
package session

import (
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	cookieName = "session"
	flashName  = "flash"
	lifetime   = 24 * time.Hour
)

// Session is the decoded login state of a request.
type Session struct {
	LoggedIn bool
	Username string
}

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Category string // "success" or "danger"
	Message  string
}

type sessionClaims struct {
	LoggedIn bool   `json:"logged_in"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Manager issues and verifies session cookies with a single signing secret.
type Manager struct {
	secret []byte
}

// NewManager creates a session manager bound to the signing secret.
func NewManager(secret string) *Manager {
	return &Manager{secret: []byte(secret)}
}

// Set issues a logged-in session cookie for the given username.
func (m *Manager) Set(w http.ResponseWriter, username string) error {
	claims := &sessionClaims{
		LoggedIn: true,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(lifetime)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(lifetime.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Get decodes the session cookie. Any failure (missing cookie, bad
// signature, wrong algorithm, expiry) yields an empty session.
func (m *Manager) Get(r *http.Request) Session {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return Session{}
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return Session{}
	}

	return Session{LoggedIn: claims.LoggedIn, Username: claims.Username}
}

// Clear expires the session cookie.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// AddFlash stores a one-shot notice in its own short-lived cookie.
func (m *Manager) AddFlash(w http.ResponseWriter, category, message string) {
	value := base64.RawURLEncoding.EncodeToString([]byte(category + "|" + message))
	http.SetCookie(w, &http.Cookie{
		Name:     flashName,
		Value:    value,
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash reads the pending notice, if any, and clears it.
func (m *Manager) PopFlash(w http.ResponseWriter, r *http.Request) (Flash, bool) {
	cookie, err := r.Cookie(flashName)
	if err != nil {
		return Flash{}, false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return Flash{}, false
	}
	category, message, ok := strings.Cut(string(raw), "|")
	if !ok {
		return Flash{}, false
	}
	return Flash{Category: category, Message: message}, true
}
