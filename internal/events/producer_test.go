package events

import (
	"context"
	"errors"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	msgs []kafkago.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestProducer_PublishEvent(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w, logger: zap.NewNop()}

	ce, err := NewCloudEvent("shareit-server", BookingApproved, BookingDecidedEvent{BookingID: 7, ItemID: 3, BookerID: 2, Status: "APPROVED"})
	require.NoError(t, err)
	require.NoError(t, p.PublishEvent(context.Background(), TopicBookingEvents, "7", ce))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, TopicBookingEvents, msg.Topic)
	assert.Equal(t, "7", string(msg.Key))

	parsed, err := ParseCloudEvent(msg.Value)
	require.NoError(t, err)
	assert.Equal(t, BookingApproved, parsed.Type)
	assert.Equal(t, "1.0", parsed.SpecVersion)
	assert.Equal(t, ce.ID, parsed.ID)

	var data BookingDecidedEvent
	require.NoError(t, parsed.ParseData(&data))
	assert.Equal(t, int64(7), data.BookingID)
	assert.Equal(t, "APPROVED", data.Status)
}

func TestProducer_PublishEventError(t *testing.T) {
	p := &Producer{writer: &fakeWriter{err: errors.New("broker down")}, logger: zap.NewNop()}
	ce, err := NewCloudEvent("shareit-server", BookingCreated, map[string]int{"booking_id": 1})
	require.NoError(t, err)
	err = p.PublishEvent(context.Background(), TopicBookingEvents, "1", ce)
	assert.ErrorContains(t, err, "broker down")
}

func TestParseCloudEvent_Invalid(t *testing.T) {
	_, err := ParseCloudEvent([]byte("not json"))
	assert.Error(t, err)
	_, err = ParseCloudEvent([]byte(`{"id":"x"}`))
	assert.Error(t, err)
}
