package slack

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"shelter-vax-bot/internal/platform/httpclient"
)

var (
	ErrNotConfigured = errors.New("slack notifier not configured")
)

// Notifier publica el digest en un incoming webhook de Slack.
type Notifier struct {
	webhookURL string
	http       *httpclient.Client
}

func NewNotifier(webhookURL string, timeout time.Duration) *Notifier {
	return &Notifier{
		webhookURL: strings.TrimSpace(webhookURL),
		http:       httpclient.New(timeout),
	}
}

func (n *Notifier) IsConfigured() bool {
	if n == nil || n.webhookURL == "" {
		return false
	}
	_, err := url.ParseRequestURI(n.webhookURL)
	return err == nil
}

type webhookPayload struct {
	Text string `json:"text"`
}

// PublishReport postea el texto del reporte. La garantía de entrega es del
// webhook, no nuestra: un no-2xx se devuelve como error y listo.
func (n *Notifier) PublishReport(ctx context.Context, text string) error {
	if !n.IsConfigured() {
		return ErrNotConfigured
	}
	if strings.TrimSpace(text) == "" {
		return errors.New("slack: empty report text")
	}

	if err := n.http.DoJSON(ctx, "POST", n.webhookURL, nil, webhookPayload{Text: text}, nil); err != nil {
		return fmt.Errorf("slack: publish report: %w", err)
	}
	return nil
}
