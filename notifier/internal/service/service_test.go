package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campuslib/circulation-service/notifier/internal/service"
	"github.com/campuslib/circulation-service/pkg/circuit_breaker"
	"github.com/campuslib/circulation-service/pkg/kafka"
)

func availabilityEvent() kafka.AvailabilityEvent {
	return kafka.AvailabilityEvent{
		Event:         kafka.EventBookAvailable,
		MemberUid:     "member-1",
		Username:      "reader",
		Email:         "reader@campus.edu",
		BookUid:       "book-1",
		BookName:      "The Go Programming Language",
		HoldExpiresAt: time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC),
	}
}

func TestService_Notify_Webhook(t *testing.T) {
	t.Parallel()

	type payload struct {
		Recipient string `json:"recipient"`
		Email     string `json:"email"`
		Message   string `json:"message"`
		BookUid   string `json:"bookUid"`
	}
	got := make(chan payload, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p payload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		got <- p
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	svc := service.NewService(ts.URL, zap.NewExample())
	require.NoError(t, svc.Notify(context.Background(), availabilityEvent()))

	p := <-got
	require.Equal(t, "reader", p.Recipient)
	require.Equal(t, "reader@campus.edu", p.Email)
	require.Equal(t, "book-1", p.BookUid)
	require.Contains(t, p.Message, "The Go Programming Language")
	require.Contains(t, p.Message, "ready for pickup")
}

func TestService_Notify_LogOnlyWithoutWebhook(t *testing.T) {
	t.Parallel()

	svc := service.NewService("", zap.NewExample())
	require.NoError(t, svc.Notify(context.Background(), availabilityEvent()))
}

func TestService_Notify_SkipsForeignEvents(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("webhook must not be called")
	}))
	defer ts.Close()

	svc := service.NewService(ts.URL, zap.NewExample())
	event := availabilityEvent()
	event.Event = "SOMETHING_ELSE"
	require.NoError(t, svc.Notify(context.Background(), event))
}

func TestService_Notify_BreakerOpensOnFailingWebhook(t *testing.T) {
	t.Parallel()

	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	svc := service.NewService(ts.URL, zap.NewExample())

	// enough failures to trip the breaker
	for i := 0; i < 10; i++ {
		require.Error(t, svc.Notify(context.Background(), availabilityEvent()))
	}
	tripped := atomic.LoadInt32(&hits)

	err := svc.Notify(context.Background(), availabilityEvent())
	require.ErrorIs(t, err, circuit_breaker.ErrOpenCB)
	require.Equal(t, tripped, atomic.LoadInt32(&hits), "open breaker must not reach the webhook")
}
