// Package auth handles gateway sign-in, server sessions and the login form's
// remembered email.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/aeroclubhq/aeroclub/internal/repository/prefstore"
	"github.com/aeroclubhq/aeroclub/pkg/clients/gateway"
)

// ErrInvalidCredentials indicates the gateway rejected the sign-in.
var ErrInvalidCredentials = errors.New("invalid credentials")

// signer is the slice of the gateway client this service needs.
type signer interface {
	SignIn(ctx context.Context, email, password string) (*gateway.AuthSession, error)
}

// Service performs sign-in against the gateway and manages sessions.
type Service struct {
	gw       signer
	sessions *SessionManager
	store    prefstore.Repository
	logger   *zap.Logger
}

// NewService wires an auth service instance.
func NewService(gw signer, sessions *SessionManager, store prefstore.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{gw: gw, sessions: sessions, store: store, logger: logger}
}

// SignIn exchanges credentials for a server session. When remember is set the
// email is persisted for pre-filling the login form.
func (s *Service) SignIn(ctx context.Context, email, password string, remember bool) (Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return Session{}, fmt.Errorf("%w: email and password are required", ErrInvalidCredentials)
	}

	authSession, err := s.gw.SignIn(ctx, email, password)
	if err != nil {
		// Only a 4xx answer from the auth endpoint means the credentials were
		// rejected. Transport failures and backend 5xx are outages and must
		// not read as a wrong password.
		var status *gateway.StatusError
		if errors.As(err, &status) && status.StatusCode < http.StatusInternalServerError {
			s.logger.Warn("sign-in rejected", zap.String("email", email), zap.Error(err))
			return Session{}, fmt.Errorf("%w: %s", ErrInvalidCredentials, err.Error())
		}
		s.logger.Error("sign-in unavailable", zap.String("email", email), zap.Error(err))
		return Session{}, fmt.Errorf("sign in: %w", err)
	}

	session := s.sessions.Create(authSession.User.ID, authSession.User.Email, authSession.AccessToken)
	s.logger.Info("session created", zap.String("user_id", session.UserID))

	if remember {
		if err := s.store.Put(ctx, session.UserID, prefstore.KeyRememberedEmail, []byte(email)); err != nil {
			// Remember-me is best effort; the session itself is unaffected.
			s.logger.Warn("failed to persist remembered email", zap.Error(err))
		}
	} else {
		_ = s.store.Delete(ctx, session.UserID, prefstore.KeyRememberedEmail)
	}

	return session, nil
}

// SignOut destroys the session for the token; unknown tokens are ignored.
func (s *Service) SignOut(token string) {
	s.sessions.Destroy(token)
}

// Resolve validates a session token.
func (s *Service) Resolve(token string) (Session, bool) {
	if token == "" {
		return Session{}, false
	}
	return s.sessions.Get(token)
}

// RememberedEmail returns the persisted login email for the user, or "".
func (s *Service) RememberedEmail(ctx context.Context, userID string) string {
	raw, err := s.store.Get(ctx, userID, prefstore.KeyRememberedEmail)
	if err != nil {
		return ""
	}
	return string(raw)
}
