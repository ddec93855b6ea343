package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aeroclubhq/aeroclub/internal/repository/prefstore"
	"github.com/aeroclubhq/aeroclub/internal/service/auth"
	"github.com/aeroclubhq/aeroclub/internal/service/finance"
	"github.com/aeroclubhq/aeroclub/pkg/clients/gateway"
	"github.com/aeroclubhq/aeroclub/pkg/events"
)

type stubSigner struct {
	err error
}

func (s *stubSigner) SignIn(_ context.Context, email, _ string) (*gateway.AuthSession, error) {
	if s.err != nil {
		return nil, s.err
	}
	session := &gateway.AuthSession{AccessToken: "jwt-abc"}
	session.User.ID = "u1"
	session.User.Email = email
	return session, nil
}

func testAuthSetup(t *testing.T, signErr error) (*gin.Engine, *AuthHandler, *PageRegistry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions := auth.NewSessionManager(time.Hour)
	svc := auth.NewService(&stubSigner{err: signErr}, sessions, prefstore.NewMemoryRepository(), nil)
	pages := NewPageRegistry(func() *finance.Controller {
		return finance.NewController(nil, nil, events.NewBus(), nil)
	})
	handler := NewAuthHandler(svc, pages, nil)

	r := gin.New()
	r.POST("/api/auth/login", handler.Login)
	r.GET("/api/auth/status", handler.Status)
	r.POST("/api/auth/logout", handler.Logout)
	r.GET("/api/protected", handler.Middleware(), func(c *gin.Context) {
		session, _ := sessionFrom(c)
		c.JSON(http.StatusOK, gin.H{"user_id": session.UserID})
	})
	return r, handler, pages
}

func sessionCookie(t *testing.T, resp *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range resp.Result().Cookies() {
		if cookie.Name == SessionCookie {
			return cookie
		}
	}
	return nil
}

func TestLoginIssuesSessionCookie(t *testing.T) {
	r, _, _ := testAuthSetup(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"pilot@club.test","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}
	cookie := sessionCookie(t, resp)
	if cookie == nil || cookie.Value == "" {
		t.Fatal("no session cookie issued")
	}
	if !cookie.HttpOnly {
		t.Error("session cookie not http-only")
	}

	// The cookie grants access to protected routes.
	req = httptest.NewRequest(http.MethodGet, "/api/protected", nil)
	req.AddCookie(cookie)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("protected status = %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"user_id":"u1"`) {
		t.Fatalf("protected body = %s", resp.Body.String())
	}
}

func TestLoginRejectedCredentials(t *testing.T) {
	r, _, _ := testAuthSetup(t, &gateway.StatusError{StatusCode: 400, Message: "Invalid login credentials"})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"pilot@club.test","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.Code)
	}
	if sessionCookie(t, resp) != nil {
		t.Fatal("session cookie issued for rejected credentials")
	}
}

func TestLoginGatewayOutageAnswers502(t *testing.T) {
	r, _, _ := testAuthSetup(t, errors.New("dial tcp: connection refused"))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"pilot@club.test","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "sign-in is currently unavailable") {
		t.Fatalf("body = %s, want outage message, not a credentials error", resp.Body.String())
	}
	if sessionCookie(t, resp) != nil {
		t.Fatal("session cookie issued during gateway outage")
	}
}

func TestLoginMissingFields(t *testing.T) {
	r, _, _ := testAuthSetup(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"pilot@club.test"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
}

func TestStatusWithLiveSessionRedirects(t *testing.T) {
	r, _, _ := testAuthSetup(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"pilot@club.test","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	login := httptest.NewRecorder()
	r.ServeHTTP(login, req)
	cookie := sessionCookie(t, login)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/status", nil)
	req.AddCookie(cookie)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if !strings.Contains(resp.Body.String(), `"redirect":"/app"`) {
		t.Fatalf("status body = %s", resp.Body.String())
	}
}

func TestStatusWithoutSessionServesRememberedEmail(t *testing.T) {
	r, _, _ := testAuthSetup(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/status", nil)
	req.AddCookie(&http.Cookie{Name: RememberCookie, Value: "pilot@club.test"})
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	body := resp.Body.String()
	if !strings.Contains(body, `"authenticated":false`) {
		t.Fatalf("status body = %s", body)
	}
	if !strings.Contains(body, `"remembered_email":"pilot@club.test"`) {
		t.Fatalf("status body = %s", body)
	}
}

func TestLogoutDestroysSessionAndPage(t *testing.T) {
	r, _, pages := testAuthSetup(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"pilot@club.test","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	login := httptest.NewRecorder()
	r.ServeHTTP(login, req)
	cookie := sessionCookie(t, login)

	// Materialize the page so logout has something to tear down.
	page := pages.Page(cookie.Value)

	req = httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(cookie)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("logout status = %d", resp.Code)
	}
	if page.OpenInvoiceModal(context.Background()) != nil {
		t.Error("page not torn down on logout")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/protected", nil)
	req.AddCookie(cookie)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("protected status after logout = %d, want 401", resp.Code)
	}
}

func TestLogoutReissuesRememberedEmail(t *testing.T) {
	r, _, _ := testAuthSetup(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"pilot@club.test","password":"secret","remember":true}`))
	req.Header.Set("Content-Type", "application/json")
	login := httptest.NewRecorder()
	r.ServeHTTP(login, req)
	cookie := sessionCookie(t, login)

	// The browser lost the remember cookie mid-session; only the session
	// cookie comes back. The durable copy restores the login pre-fill.
	req = httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(cookie)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	var remembered *http.Cookie
	for _, c := range resp.Result().Cookies() {
		if c.Name == RememberCookie {
			remembered = c
		}
	}
	if remembered == nil {
		t.Fatal("no remember cookie re-issued on logout")
	}
	// Gin query-escapes cookie values on the way out.
	if got, _ := url.QueryUnescape(remembered.Value); got != "pilot@club.test" {
		t.Fatalf("remember cookie after logout = %q, want the stored email", remembered.Value)
	}
}

func TestMiddlewareWithoutCookie(t *testing.T) {
	r, _, _ := testAuthSetup(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/protected", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.Code)
	}
}

func TestPageRegistryReusesAndDropsPages(t *testing.T) {
	created := 0
	pages := NewPageRegistry(func() *finance.Controller {
		created++
		return finance.NewController(nil, nil, events.NewBus(), nil)
	})

	first := pages.Page("token-1")
	if pages.Page("token-1") != first {
		t.Fatal("registry created a second page for the same token")
	}
	if created != 1 {
		t.Fatalf("factory called %d times, want 1", created)
	}

	pages.Drop("token-1")
	if pages.Page("token-1") == first {
		t.Fatal("dropped page returned again")
	}
	// Dropping an unknown token is a no-op.
	pages.Drop("never-seen")
}
