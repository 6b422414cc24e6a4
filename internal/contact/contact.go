// Package contact accepts messages posted by the site's contact form.
package contact

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/i-ashu/portfolio/internal/models"
	"github.com/i-ashu/portfolio/internal/trigger"
	"go.uber.org/zap"
)

const DefaultFormName = "contact"

// ValidationError is returned for a submission the form should reject.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Parse checks a url-encoded form post. form-name must match formName so
// stray posts to the page origin are not taken as messages.
func Parse(form url.Values, formName string) (models.Submission, error) {
	get := func(k string) string { return strings.TrimSpace(form.Get(k)) }

	if got := get("form-name"); got != formName {
		return models.Submission{}, &ValidationError{Field: "form-name", Reason: fmt.Sprintf("must be %q", formName)}
	}

	s := models.Submission{
		FormName: formName,
		Name:     get("name"),
		Email:    get("email"),
		Subject:  get("subject"),
		Message:  get("message"),
	}
	for _, f := range []struct{ name, val string }{
		{"name", s.Name},
		{"email", s.Email},
		{"message", s.Message},
	} {
		if f.val == "" {
			return models.Submission{}, &ValidationError{Field: f.name, Reason: "is required"}
		}
	}
	if !strings.Contains(s.Email, "@") {
		return models.Submission{}, &ValidationError{Field: "email", Reason: "is not a valid address"}
	}
	return s, nil
}

// Store persists submissions.
type Store interface {
	Save(ctx context.Context, s models.Submission) error
	List(ctx context.Context, limit int) ([]models.Submission, error)
}

// Service validates, stamps and stores submissions.
type Service struct {
	store    Store
	formName string
	salt     string
	triggers *trigger.Registry
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(store Store, formName, salt string, triggers *trigger.Registry, logger *zap.Logger) *Service {
	if formName == "" {
		formName = DefaultFormName
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		formName: formName,
		salt:     salt,
		triggers: triggers,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Service) Submit(ctx context.Context, form url.Values, remoteIP string) (models.Submission, error) {
	sub, err := Parse(form, s.formName)
	if err != nil {
		return models.Submission{}, err
	}
	sub.ID = uuid.NewString()
	sub.CreatedAt = s.now().UTC()
	sub.RemoteHash = HashIP(remoteIP, s.salt)

	if err := s.store.Save(ctx, sub); err != nil {
		return models.Submission{}, fmt.Errorf("saving submission: %w", err)
	}
	s.logger.Info("contact submission stored",
		zap.String("id", sub.ID),
		zap.String("remote", sub.RemoteHash))
	s.triggers.Fire(ctx, trigger.Event{Name: trigger.ContactSubmitted, Count: 1})
	return sub, nil
}

// HashIP keeps a stable, non-reversible per-visitor key instead of the raw
// address.
func HashIP(ip, salt string) string {
	sum := sha256.Sum256([]byte(ip + salt))
	return hex.EncodeToString(sum[:])[:16]
}

// MemoryStore is used when no database is configured.
type MemoryStore struct {
	mu   sync.Mutex
	subs []models.Submission
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Save(_ context.Context, s models.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, s)
	return nil
}

// List returns the newest submissions first.
func (m *MemoryStore) List(_ context.Context, limit int) ([]models.Submission, error) {
	m.mu.Lock()
	out := append([]models.Submission(nil), m.subs...)
	m.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
