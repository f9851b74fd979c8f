package applications

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
)

const (
	clientIDBytes     = 12 // 24 hex chars
	clientSecretBytes = 32 // 64 hex chars
	clientIDAttempts  = 5  // total random draws before giving up
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Creator provisions new applications with randomly generated credentials.
type Creator struct {
	repo Repo
}

// NewCreator creates a new application Creator.
func NewCreator(repo Repo) *Creator {
	return &Creator{repo: repo}
}

// Create provisions an application with a freshly generated clientId/clientSecret
// pair. The returned Application carries the plaintext secret; this is the only
// time it is disclosed.
func (c *Creator) Create(ctx context.Context, name string, scopes []string) (*Application, error) {
	clientID, err := c.generateUniqueClientID(ctx)
	if err != nil {
		return nil, err
	}

	secret, err := randomHex(clientSecretBytes)
	if err != nil {
		return nil, err
	}

	if scopes == nil {
		scopes = []string{}
	}

	now := NowTimeFunc()
	return c.repo.Create(ctx, &Application{
		ID:           uuid.New().String(),
		Name:         name,
		ClientID:     clientID,
		ClientSecret: secret,
		Scopes:       scopes,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// generateUniqueClientID draws random client ids until one is free, giving up
// after clientIDAttempts draws.
func (c *Creator) generateUniqueClientID(ctx context.Context) (string, error) {
	var clientID string

	backoff := retry.WithMaxRetries(clientIDAttempts-1, retry.NewConstant(time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		candidate, err := randomHex(clientIDBytes)
		if err != nil {
			return err
		}

		_, err = c.repo.GetByClientID(ctx, candidate)
		if err == nil {
			// Collision, draw again
			return retry.RetryableError(ErrDuplicateClientID)
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}

		clientID = candidate
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateClientID) {
			return "", ErrClientIDExhausted
		}
		return "", err
	}

	return clientID, nil
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
