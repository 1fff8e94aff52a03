// Package audit records policy rejections. The record never contains the
// secret itself; the strength-checker diagnostic is written to the log only
// and is not part of the published event.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/credpolicy-api/internal/policy"
	"github.com/jwalitptl/credpolicy-api/pkg/messaging"
	"github.com/jwalitptl/credpolicy-api/pkg/metrics"
)

// Channel is the pub/sub channel rejection events are published to.
const Channel = "policy.rejections"

// Event is the published form of a rejection.
type Event struct {
	ID        string    `json:"id"`
	Check     string    `json:"check"`
	Code      string    `json:"code"`
	Username  string    `json:"username,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type Recorder struct {
	logger  zerolog.Logger
	broker  messaging.Broker
	metrics *metrics.Metrics
}

// NewRecorder builds a recorder. broker may be nil, in which case
// rejections are logged only.
func NewRecorder(logger zerolog.Logger, broker messaging.Broker, m *metrics.Metrics) *Recorder {
	return &Recorder{logger: logger, broker: broker, metrics: m}
}

// Rejection records a policy rejection for the given check entry point.
func (r *Recorder) Rejection(ctx context.Context, check, username, requestID string, pe *policy.Error) {
	ev := Event{
		ID:        uuid.New().String(),
		Check:     check,
		Code:      pe.Code.String(),
		Username:  username,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
	}

	logEvent := r.logger.Info().
		Str("event_id", ev.ID).
		Str("check", check).
		Str("code", ev.Code).
		Str("request_id", requestID)
	if username != "" {
		logEvent = logEvent.Str("username", username)
	}
	if pe.Detail != "" {
		logEvent = logEvent.Str("detail", pe.Detail)
	}
	logEvent.Msg("policy rejection")

	if r.metrics != nil {
		r.metrics.RejectionsTotal.WithLabelValues(ev.Code).Inc()
	}

	if r.broker == nil {
		return
	}
	if err := r.broker.Publish(ctx, Channel, ev); err != nil {
		r.logger.Warn().Err(err).Str("event_id", ev.ID).Msg("failed to publish audit event")
		r.publishStatus("error")
		return
	}
	r.publishStatus("ok")
}

func (r *Recorder) publishStatus(status string) {
	if r.metrics != nil {
		r.metrics.AuditPublishes.WithLabelValues(status).Inc()
	}
}
