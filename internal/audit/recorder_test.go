package audit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/credpolicy-api/internal/policy"
)

type fakeBroker struct {
	published []interface{}
	channel   string
	err       error
}

func (f *fakeBroker) Publish(_ context.Context, channel string, message interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.channel = channel
	f.published = append(f.published, message)
	return nil
}

func (f *fakeBroker) Subscribe(context.Context, string) (<-chan []byte, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeBroker) Close() error { return nil }

func rejection() *policy.Error {
	err := policy.NewComplexityPolicy(8, nil).Validate(context.Background(), "alice", "short")
	pe, _ := policy.AsError(err)
	return pe
}

func TestRecorderPublishesEvent(t *testing.T) {
	broker := &fakeBroker{}
	r := NewRecorder(zerolog.Nop(), broker, nil)

	r.Rejection(context.Background(), "credential", "alice", "req-123", rejection())

	require.Len(t, broker.published, 1)
	assert.Equal(t, Channel, broker.channel)

	ev, ok := broker.published[0].(Event)
	require.True(t, ok)
	assert.Equal(t, "credential", ev.Check)
	assert.Equal(t, "length_too_short", ev.Code)
	assert.Equal(t, "alice", ev.Username)
	assert.Equal(t, "req-123", ev.RequestID)
	assert.NotEmpty(t, ev.ID)
	assert.False(t, ev.Timestamp.IsZero())
}

func TestRecorderEventNeverCarriesSecretDetail(t *testing.T) {
	broker := &fakeBroker{}
	r := NewRecorder(zerolog.Nop(), broker, nil)

	pe := &policy.Error{
		Code:    policy.CodeWeaklyRanked,
		Message: "password is easily cracked",
		Detail:  "it is based on the dictionary word hunter2",
	}
	r.Rejection(context.Background(), "credential", "alice", "req-123", pe)

	require.Len(t, broker.published, 1)
	payload, err := json.Marshal(broker.published[0])
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "hunter2")
}

func TestRecorderWithoutBroker(t *testing.T) {
	r := NewRecorder(zerolog.Nop(), nil, nil)
	assert.NotPanics(t, func() {
		r.Rejection(context.Background(), "request", "", "req-123", rejection())
	})
}

func TestRecorderSurvivesPublishFailure(t *testing.T) {
	broker := &fakeBroker{err: errors.New("redis down")}
	r := NewRecorder(zerolog.Nop(), broker, nil)
	assert.NotPanics(t, func() {
		r.Rejection(context.Background(), "credential", "alice", "req-123", rejection())
	})
}
