// Package notify delivers calculation results through the Brevo marketing
// API: a contact upsert followed by a templated transactional email.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"tankfill-service/internal/config"
)

type Brevo struct {
	http       *http.Client
	logger     zerolog.Logger
	apiKey     string
	contactURL string
	emailURL   string
	sender     sender
	templateID int
}

type sender struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func NewBrevo(cfg config.Config, logger zerolog.Logger) *Brevo {
	return &Brevo{
		http:       &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
		apiKey:     cfg.BrevoAPIKey,
		contactURL: cfg.BrevoContactURL,
		emailURL:   cfg.BrevoEmailURL,
		sender:     sender{Name: cfg.BrevoSenderName, Email: cfg.BrevoSenderEmail},
		templateID: cfg.BrevoTemplateID,
	}
}

// Enabled reports whether dispatch is configured; without an API key the
// service still calculates, it just skips the outbound side effects.
func (b *Brevo) Enabled() bool { return b.apiKey != "" }

// UpsertContact creates or updates the contact for a submitted form.
func (b *Brevo) UpsertContact(ctx context.Context, email, firstName string) error {
	payload := map[string]any{
		"email":         email,
		"updateEnabled": true,
		"attributes":    map[string]any{"FIRSTNAME": firstName},
	}
	return b.post(ctx, b.contactURL, payload)
}

// SendResultEmail dispatches the templated result email. params carries the
// template placeholders (cargo name, permitted values or the follow-up
// message for a lookup miss).
func (b *Brevo) SendResultEmail(ctx context.Context, toEmail string, params map[string]any) error {
	payload := map[string]any{
		"sender":     b.sender,
		"to":         []map[string]string{{"email": toEmail}},
		"templateId": b.templateID,
		"params":     params,
	}
	return b.post(ctx, b.emailURL, payload)
}

func (b *Brevo) post(ctx context.Context, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("content-type", "application/json")
	req.Header.Set("api-key", b.apiKey)

	resp, err := b.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated &&
		resp.StatusCode != http.StatusNoContent {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("brevo: %s returned %d: %s", url, resp.StatusCode, detail)
	}
	return nil
}
