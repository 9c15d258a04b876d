package reflection

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/apresai/ikigen/internal/insight"
)

// Session is one person's run through the wizard.
type Session struct {
	ID        string            `json:"id"`
	Data      Data              `json:"data"`
	Insights  map[StepID]string `json:"insights,omitempty"`
	Summary   *insight.Summary  `json:"summary,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// NewSession creates an empty session with a fresh ULID.
func NewSession() (*Session, error) {
	id, err := NewID()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Session{ID: id, CreatedAt: now, UpdatedAt: now}, nil
}

// NewID generates a ULID for a new session.
func NewID() (string, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return "", fmt.Errorf("generate ulid: %w", err)
	}
	return id.String(), nil
}

// SetInsight records the generated insight for a step.
func (s *Session) SetInsight(id StepID, text string) error {
	if _, err := LookupStep(id); err != nil {
		return err
	}
	if s.Insights == nil {
		s.Insights = make(map[StepID]string)
	}
	s.Insights[id] = text
	return nil
}

// Store persists sessions.
type Store interface {
	Create(ctx context.Context) (*Session, error)
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}
