// Package gate implements the calendar's password screen.
//
// The password is a plain string compared on the server. It keeps casual visitors
// out of the calendar page and nothing more; it is not access control.
package gate

import (
	"crypto/subtle"
	"log"

	"chartfolio/domain/core"
)

const (
	// CookieName carries the session id.
	CookieName = "chartfolio_session"
	// LoggedInKey is the session flag set after a correct password.
	LoggedInKey = "isLoggedIn"
)

// Gate checks the password and tracks the logged-in flag per session.
type Gate struct {
	password string
	store    *Store
}

// New creates a gate. An empty password disables the screen.
func New(password string, store *Store) *Gate {
	if store == nil {
		store = NewStore(0)
	}
	return &Gate{password: password, store: store}
}

// Enabled reports whether a password is configured.
func (g *Gate) Enabled() bool { return g.password != "" }

// Store exposes the session store.
func (g *Gate) Store() *Store { return g.store }

// Login compares the password. On success the flag is set on the given session, or on
// a new one when id is unknown, and that session id is returned.
func (g *Gate) Login(id core.SessionID, password string) (core.SessionID, bool) {
	if subtle.ConstantTimeCompare([]byte(password), []byte(g.password)) != 1 {
		log.Printf("[Gate] rejected login attempt")
		return id, false
	}
	if !g.store.Set(id, LoggedInKey, "true") {
		id = g.store.Create()
		g.store.Set(id, LoggedInKey, "true")
	}
	return id, true
}

// LoggedIn reports whether the session passed the screen.
func (g *Gate) LoggedIn(id core.SessionID) bool {
	if !g.Enabled() {
		return true
	}
	v, ok := g.store.Get(id, LoggedInKey)
	return ok && v == "true"
}

// Logout forgets the session.
func (g *Gate) Logout(id core.SessionID) {
	g.store.Delete(id)
}
