// Package handlers adapts the page services to the gin HTTP surface.
package handlers

import (
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/aeroclubhq/aeroclub/internal/service/auth"
	"github.com/aeroclubhq/aeroclub/internal/service/finance"
)

// SessionCookie is the cookie carrying the opaque session token.
const SessionCookie = "aeroclub_session"

// RememberCookie is the long-lived cookie pre-filling the login form.
const RememberCookie = "aeroclub_remembered"

const sessionContextKey = "session"

// setSession stores the resolved session on the request context.
func setSession(c *gin.Context, session auth.Session) {
	c.Set(sessionContextKey, session)
}

// sessionFrom returns the session the middleware resolved for this request.
func sessionFrom(c *gin.Context) (auth.Session, bool) {
	value, exists := c.Get(sessionContextKey)
	if !exists {
		return auth.Session{}, false
	}
	session, ok := value.(auth.Session)
	return session, ok
}

// PageRegistry tracks one finance page instance per session, created on
// first use and discarded on teardown or logout.
type PageRegistry struct {
	mu            sync.Mutex
	pages         map[string]*finance.Controller
	newController func() *finance.Controller
}

// NewPageRegistry creates a registry producing controllers from the factory.
func NewPageRegistry(newController func() *finance.Controller) *PageRegistry {
	return &PageRegistry{
		pages:         make(map[string]*finance.Controller),
		newController: newController,
	}
}

// Page returns the session's finance page, creating it on first use.
func (r *PageRegistry) Page(token string) *finance.Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	if page, ok := r.pages[token]; ok {
		return page
	}
	page := r.newController()
	r.pages[token] = page
	return page
}

// Drop tears the session's page down and forgets it.
func (r *PageRegistry) Drop(token string) {
	r.mu.Lock()
	page, ok := r.pages[token]
	delete(r.pages, token)
	r.mu.Unlock()

	if ok {
		page.Teardown()
	}
}
