// Package notifier turns committed checkouts into order confirmation emails.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/joao-fontenele/ecom-rpc/internal/domain"
)

type NotificationHandler struct {
	emailServiceURL string
	httpClient      *http.Client
	logger          *slog.Logger
	backoff         func() backoff.BackOff
}

func NewNotificationHandler(emailServiceURL string, client *http.Client, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		emailServiceURL: emailServiceURL,
		httpClient:      client,
		logger:          logger,
		backoff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxElapsedTime = 2 * time.Minute
			return b
		},
	}
}

type emailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Handle sends one confirmation per event. Events without a recipient are
// dropped. Transient email service failures are retried with backoff; the
// error returned once retries run out leaves the message uncommitted.
func (h *NotificationHandler) Handle(ctx context.Context, event domain.OrderCheckedOutEvent) error {
	if event.Email == "" {
		h.logger.Warn("skipping order without recipient", "order_id", event.OrderID, "user_id", event.UserID)
		return nil
	}

	h.logger.Info("processing order checked out event", "order_id", event.OrderID, "user_id", event.UserID)

	if err := h.deliver(ctx, confirmation(event)); err != nil {
		h.logger.Error("failed to send confirmation email", "error", err, "order_id", event.OrderID)
		return fmt.Errorf("send confirmation email: %w", err)
	}

	h.logger.Info("order confirmation sent", "order_id", event.OrderID)
	return nil
}

func confirmation(event domain.OrderCheckedOutEvent) emailRequest {
	subject := fmt.Sprintf("Order Confirmation: #%d", event.OrderID)
	if len(event.Products) == 0 {
		return emailRequest{
			To:      event.Email,
			Subject: subject,
			Body:    fmt.Sprintf("Your order #%d was placed, but none of the items in your cart were still available.", event.OrderID),
		}
	}
	return emailRequest{
		To:      event.Email,
		Subject: subject,
		Body: fmt.Sprintf("Your order #%d with %d items totalling %s is pending.",
			event.OrderID, len(event.Products), event.Total.StringFixed(2)),
	}
}

func (h *NotificationHandler) deliver(ctx context.Context, body emailRequest) error {
	attempt := 0
	return backoff.RetryNotify(
		func() error {
			attempt++
			return h.sendEmail(ctx, body)
		},
		backoff.WithContext(h.backoff(), ctx),
		func(err error, wait time.Duration) {
			h.logger.Warn("email service call failed, retrying", "error", err, "attempt", attempt, "wait", wait)
		},
	)
}

func (h *NotificationHandler) sendEmail(ctx context.Context, body emailRequest) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.emailServiceURL+"/send", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests:
		return backoff.Permanent(fmt.Errorf("email service rejected request with status %d", resp.StatusCode))
	default:
		return fmt.Errorf("email service returned status %d", resp.StatusCode)
	}
}
