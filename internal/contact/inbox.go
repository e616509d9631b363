// Package contact stores submissions of the storefront contact form.
package contact

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/storefront/internal/apperr"
	"github.com/rogerio-castellano/storefront/internal/models"
	"github.com/rogerio-castellano/storefront/internal/store"
	"go.uber.org/zap"
)

// Submission is the raw contact form input.
type Submission struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// Inbox appends contact messages to the "messages" document.
type Inbox struct {
	gw     store.Gateway
	logger *zap.Logger
	now    func() time.Time
	mu     sync.Mutex
}

func NewInbox(gw store.Gateway, logger *zap.Logger) *Inbox {
	return &Inbox{gw: gw, logger: logger, now: time.Now}
}

// Submit validates s and stores it.
func (in *Inbox) Submit(ctx context.Context, s Submission) (models.ContactMessage, error) {
	if err := validate(s); err != nil {
		return models.ContactMessage{}, err
	}

	in.mu.Lock()
	defer in.mu.Unlock()

	msgs := []models.ContactMessage{}
	if err := store.LoadJSON(ctx, in.gw, store.KeyMessages, &msgs, in.logger); err != nil {
		return models.ContactMessage{}, fmt.Errorf("submit message: %w", err)
	}
	m := models.ContactMessage{
		ID:        "msg_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		Name:      strings.TrimSpace(s.Name),
		Email:     strings.TrimSpace(s.Email),
		Subject:   strings.TrimSpace(s.Subject),
		Message:   strings.TrimSpace(s.Message),
		CreatedAt: in.now().UTC().Format(time.RFC3339),
	}
	if err := store.WriteJSON(ctx, in.gw, store.KeyMessages, append(msgs, m)); err != nil {
		return models.ContactMessage{}, fmt.Errorf("submit message: %w", err)
	}
	return m, nil
}

// List returns every stored message, oldest first.
func (in *Inbox) List(ctx context.Context) []models.ContactMessage {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.load(ctx)
}

func (in *Inbox) load(ctx context.Context) []models.ContactMessage {
	msgs := []models.ContactMessage{}
	store.ReadJSON(ctx, in.gw, store.KeyMessages, &msgs, in.logger)
	return msgs
}

func validate(s Submission) error {
	errs := &apperr.ValidationError{}
	if strings.TrimSpace(s.Name) == "" {
		errs.Add("name", "Name is required")
	}
	if strings.TrimSpace(s.Email) == "" {
		errs.Add("email", "Email is required")
	} else if _, err := mail.ParseAddress(strings.TrimSpace(s.Email)); err != nil {
		errs.Add("email", "Email is not a valid address")
	}
	if strings.TrimSpace(s.Message) == "" {
		errs.Add("message", "Message is required")
	}
	return errs.OrNil()
}
