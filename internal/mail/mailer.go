// Package mail relays contact-form submissions through the transactional
// email HTTP API.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/maicon-romano/arrivabene-advocacia-web/internal/logging"
)

// ErrInvalidMessage reports a message rejected before any network call.
var ErrInvalidMessage = errors.New("invalid contact message")

type ContactMessage struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

type Config struct {
	Endpoint   string
	ServiceID  string
	TemplateID string
	UserID     string
	To         string
}

type Mailer struct {
	client   *http.Client
	cfg      Config
	validate *validator.Validate
	log      logging.Logger
}

func NewMailer(cfg Config, log logging.Logger) *Mailer {
	return &Mailer{
		client:   &http.Client{Timeout: 15 * time.Second},
		cfg:      cfg,
		validate: validator.New(),
		log:      log,
	}
}

type sendRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

// Send validates the message and posts it to the email endpoint. The
// returned reference id identifies the submission in the logs.
func (m *Mailer) Send(ctx context.Context, msg ContactMessage) (string, error) {
	if err := m.validate.Struct(msg); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidMessage, err)
	}

	ref := uuid.NewString()
	payload := sendRequest{
		ServiceID:  m.cfg.ServiceID,
		TemplateID: m.cfg.TemplateID,
		UserID:     m.cfg.UserID,
		TemplateParams: map[string]string{
			"to_email":  m.cfg.To,
			"reference": ref,
			"name":      msg.Name,
			"email":     msg.Email,
			"phone":     msg.Phone,
			"subject":   msg.Subject,
			"message":   msg.Message,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send contact mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		m.log.Error(ctx, "contact mail rejected", "status", resp.StatusCode, "reference", ref)
		return "", fmt.Errorf("send contact mail: unexpected status %d", resp.StatusCode)
	}

	m.log.Info(ctx, "contact mail sent", "reference", ref)
	return ref, nil
}
