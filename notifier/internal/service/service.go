package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/campuslib/circulation-service/pkg/circuit_breaker"
	"github.com/campuslib/circulation-service/pkg/kafka"
)

const (
	cbRecordLength     = 10
	cbTimeout          = 30 * time.Second
	cbPercentile       = 0.5
	cbRecoveryRequests = 3
)

type Service struct {
	log        *zap.Logger
	webhookURL string
	client     *http.Client
	cb         circuit_breaker.CircuitBreaker
}

type Option func(*Service)

func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) { s.client = client }
}

func NewService(webhookURL string, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		log:        log,
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
		cb:         circuit_breaker.New(cbRecordLength, cbTimeout, cbPercentile, cbRecoveryRequests),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// webhookPayload is what the downstream notification gateway accepts.
type webhookPayload struct {
	Recipient     string    `json:"recipient"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Message       string    `json:"message"`
	BookUid       string    `json:"bookUid"`
	HoldExpiresAt time.Time `json:"holdExpiresAt"`
}

// Notify renders and delivers a pickup notice. Without a webhook the notice
// is only logged, so the consumer still commits the offset.
func (s *Service) Notify(ctx context.Context, event kafka.AvailabilityEvent) error {
	if event.Event != kafka.EventBookAvailable {
		s.log.Debug("skip event", zap.String("event", event.Event))
		return nil
	}

	msg := renderMessage(event)
	if s.webhookURL == "" {
		s.log.Info("hold notification",
			zap.String("username", event.Username),
			zap.String("bookUid", event.BookUid),
			zap.String("message", msg))
		return nil
	}

	payload := webhookPayload{
		Recipient:     event.Username,
		Email:         event.Email,
		Phone:         event.Phone,
		Message:       msg,
		BookUid:       event.BookUid,
		HoldExpiresAt: event.HoldExpiresAt,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return s.cb.Call(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(data))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body) //nolint:errcheck
		if resp.StatusCode >= http.StatusMultipleChoices {
			return errors.Errorf("webhook status %d", resp.StatusCode)
		}
		return nil
	})
}

func renderMessage(event kafka.AvailabilityEvent) string {
	return fmt.Sprintf("Hi %s, %q is ready for pickup. Your hold expires %s.",
		event.Username, event.BookName, event.HoldExpiresAt.Format("Mon, 02 Jan 2006 15:04 MST"))
}
