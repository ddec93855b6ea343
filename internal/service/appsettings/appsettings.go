// Package appsettings loads and saves the two per-user preference blobs
// behind the settings page. The page is purely store-backed; no gateway
// interaction happens here.
package appsettings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/aeroclubhq/aeroclub/internal/domain/models"
	"github.com/aeroclubhq/aeroclub/internal/repository/prefstore"
)

// Bundle holds both blobs as rendered by the settings page.
type Bundle struct {
	Settings    map[string]any `json:"settings"`
	Preferences map[string]any `json:"preferences"`
}

// Service reads and writes the preference store.
type Service struct {
	store  prefstore.Repository
	logger *zap.Logger
}

// NewService wires a settings service over the given store.
func NewService(store prefstore.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// Load returns the user's settings and preferences with defaults back-filled
// for missing keys. First use (no stored blobs) yields the compiled-in
// defaults. A corrupt blob is treated like an absent one.
func (s *Service) Load(ctx context.Context, userID string) Bundle {
	return Bundle{
		Settings:    s.loadBlob(ctx, userID, prefstore.KeySettings, models.DefaultSettings()),
		Preferences: s.loadBlob(ctx, userID, prefstore.KeyUserPreferences, models.DefaultUserPreferences()),
	}
}

func (s *Service) loadBlob(ctx context.Context, userID, key string, defaults map[string]any) map[string]any {
	raw, err := s.store.Get(ctx, userID, key)
	if errors.Is(err, prefstore.ErrNotFound) {
		return defaults
	}
	if err != nil {
		s.logger.Warn("preference load failed, using defaults",
			zap.String("key", key), zap.Error(err))
		return defaults
	}

	var stored map[string]any
	if err := json.Unmarshal(raw, &stored); err != nil {
		s.logger.Warn("preference blob corrupt, using defaults",
			zap.String("key", key), zap.Error(err))
		return defaults
	}

	return models.MergeDefaults(stored, defaults)
}

// Save replaces both blobs wholesale with the given values.
func (s *Service) Save(ctx context.Context, userID string, bundle Bundle) error {
	if err := s.saveBlob(ctx, userID, prefstore.KeySettings, bundle.Settings); err != nil {
		return err
	}
	return s.saveBlob(ctx, userID, prefstore.KeyUserPreferences, bundle.Preferences)
}

func (s *Service) saveBlob(ctx context.Context, userID, key string, value map[string]any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.store.Put(ctx, userID, key, raw); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

// Reset deletes both stored blobs and returns the compiled-in defaults. The
// keys stay absent until the next save.
func (s *Service) Reset(ctx context.Context, userID string) (Bundle, error) {
	if err := s.store.Delete(ctx, userID, prefstore.KeySettings); err != nil {
		return Bundle{}, fmt.Errorf("reset settings: %w", err)
	}
	if err := s.store.Delete(ctx, userID, prefstore.KeyUserPreferences); err != nil {
		return Bundle{}, fmt.Errorf("reset preferences: %w", err)
	}

	return Bundle{
		Settings:    models.DefaultSettings(),
		Preferences: models.DefaultUserPreferences(),
	}, nil
}
