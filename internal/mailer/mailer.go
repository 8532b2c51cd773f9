package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dorothy-center/apiserver/config"
)

const (
	defaultSender      = "Dorothy <no-reply@centre-dorothy.fr>"
	defaultSendTimeout = 10 * time.Second
)

// Message is a single transactional email.
type Message struct {
	To      string `json:"-"`
	Subject string `json:"-"`
	HTML    string `json:"-"`
	Text    string `json:"-"`
}

// Client talks to the transactional email provider's HTTP API.
// Sending is always best-effort from the caller's point of view:
// callers log failures and carry on.
type Client struct {
	baseURL    string
	apiKey     string
	sender     string
	httpClient *http.Client
}

// NewClient constructs a mail client from config.
func NewClient(cfg config.EmailConfig) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("email api key is required")
	}
	if strings.TrimSpace(cfg.APIBaseURL) == "" {
		return nil, errors.New("email api url is required")
	}

	sender := strings.TrimSpace(cfg.Sender)
	if sender == "" {
		sender = defaultSender
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.APIBaseURL, "/"),
		apiKey:     cfg.APIKey,
		sender:     sender,
		httpClient: &http.Client{Timeout: defaultSendTimeout},
	}, nil
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// Send delivers one message through the provider. The provider is
// asked exactly once; there are no retries.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return errors.New("recipient is required")
	}

	payload, err := json.Marshal(sendRequest{
		From:    c.sender,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("email send failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("email provider returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
