package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/pollen-forecast-service/internal/domain"
)

func TestSerializeUpdate(t *testing.T) {
	value := 3
	forecast := domain.Forecast{
		RegionCode: "US",
		DailyInfo: []domain.DailyPollenInfo{{
			Date: "2024-06-01",
			PollenTypes: map[string]domain.PollenTypeInfo{
				domain.PollenTypeGrass: {
					Code:      domain.PollenTypeGrass,
					InSeason:  true,
					IndexInfo: &domain.PollenIndex{Code: "UPI", Value: &value, Category: "Low"},
				},
			},
		}},
	}
	fetchedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	msg, err := serializeUpdate("entry-1", forecast, fetchedAt)
	require.NoError(t, err)

	assert.Equal(t, []byte("entry-1"), msg.Key)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "region_code", msg.Headers[0].Key)
	assert.Equal(t, []byte("US"), msg.Headers[0].Value)
	assert.Equal(t, "fetched_at", msg.Headers[1].Key)
	assert.Equal(t, []byte("2024-06-01T12:00:00Z"), msg.Headers[1].Value)

	var event updateEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, "entry-1", event.EntryID)
	assert.Equal(t, fetchedAt, event.FetchedAt)
	assert.Equal(t, "US", event.Forecast.RegionCode)
	require.Len(t, event.Forecast.DailyInfo, 1)

	grass := event.Forecast.DailyInfo[0].PollenTypes[domain.PollenTypeGrass]
	require.NotNil(t, grass.IndexInfo)
	require.NotNil(t, grass.IndexInfo.Value)
	assert.Equal(t, 3, *grass.IndexInfo.Value)
}

func TestListener_SkipsFailedCycles(t *testing.T) {
	// A notifier with no writer configured would panic on publish; relying on
	// the early return keeps this a pure unit test.
	n := &Notifier{entryID: "entry-1"}
	listener := n.Listener()

	assert.NotPanics(t, func() {
		listener(context.Background(), nil, assert.AnError)
	})
	assert.NotPanics(t, func() {
		snapshot := domain.Forecast{RegionCode: "US"}
		listener(context.Background(), &snapshot, assert.AnError)
	})
}
