package kafka

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	BookingID string `json:"booking_id"`
	Rooms     int    `json:"rooms"`
}

func TestCloudEvent_RoundTrip(t *testing.T) {
	evt, err := NewCloudEvent("service-booking", "booking.created", samplePayload{BookingID: "b1", Rooms: 2})
	require.NoError(t, err)
	evt = evt.WithSubject("b1")

	assert.Equal(t, "1.0", evt.SpecVersion)
	assert.NotEmpty(t, evt.ID)
	assert.Equal(t, "b1", evt.Subject)

	raw, err := json.Marshal(evt)
	require.NoError(t, err)

	parsed, err := ParseCloudEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, "booking.created", parsed.Type)

	var p samplePayload
	require.NoError(t, parsed.ParseData(&p))
	assert.Equal(t, 2, p.Rooms)
}

func TestParseCloudEvent_Rejects(t *testing.T) {
	_, err := ParseCloudEvent([]byte("not json"))
	assert.Error(t, err)

	_, err = ParseCloudEvent([]byte(`{"id":"x"}`))
	assert.Error(t, err)

	var v samplePayload
	assert.Error(t, CloudEvent{ID: "x"}.ParseData(&v))
}
