// Package notify pushes a short message to an ntfy-style topic when an export
// run completes. With no topic configured it is a no-op.
package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/duelcraft/cardpress/internal/export"
)

const userAgent = "cardpress/0.1.0"

// Service is the notification surface the export command uses.
type Service interface {
	NotifyRunCompleted(ctx context.Context, summary *export.Summary) error
}

// NewService returns an ntfy-backed service when topic is set, otherwise a
// noop implementation.
func NewService(topic string) Service {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return noopService{}
	}
	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type noopService struct{}

func (noopService) NotifyRunCompleted(context.Context, *export.Summary) error { return nil }

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyRunCompleted(ctx context.Context, summary *export.Summary) error {
	message := fmt.Sprintf("Export finished: %d/%d cards succeeded (%d failed) in %s",
		summary.Succeeded, summary.Attempted, summary.Failed, summary.Duration.Round(time.Second))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(message))
	if err != nil {
		return fmt.Errorf("building notification request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Title", "cardpress export")
	if summary.Failed > 0 {
		req.Header.Set("Priority", "high")
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending notification: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification endpoint returned %s", resp.Status)
	}
	return nil
}
