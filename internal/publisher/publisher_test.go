package publisher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tariffwatch/internal/model"
)

func TestStateString(t *testing.T) {
	assert.Equal(t, "unknown", stateString(&model.PricedSet{}))

	p := 0.2430
	assert.Equal(t, "0.2430", stateString(&model.PricedSet{CurrentPrice: &p}))

	n := -0.015
	assert.Equal(t, "-0.0150", stateString(&model.PricedSet{CurrentPrice: &n}))
}

func TestSensorAttributes(t *testing.T) {
	min := 0.1
	set := &model.PricedSet{
		Data:          []model.PricedInterval{{StartTime: "a", EndTime: "b", PricePerKWh: 0.1}},
		RawToday:      []model.HourPrice{{Hour: "a", Price: 0.1}},
		Today:         []float64{0.1},
		TodayMin:      &min,
		TodayMax:      &min,
		TodayMean:     &min,
		TomorrowValid: false,
	}

	attrs := sensorAttributes(set, "sensor.epex_spot_data")

	assert.Equal(t, "EUR/kWh", attrs["unit_of_measurement"])
	assert.Equal(t, "monetary", attrs["device_class"])
	assert.Equal(t, "measurement", attrs["state_class"])
	assert.Equal(t, "sensor.epex_spot_data", attrs["source_entity"])
	assert.Equal(t, set.Data, attrs["data"])
	assert.Equal(t, set.RawToday, attrs["raw_today"])
	assert.Equal(t, &min, attrs["today_mean"])
	assert.Equal(t, false, attrs["tomorrow_valid"])

	// Absent statistics serialize as null, not zero.
	body, err := json.Marshal(attrs)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Nil(t, decoded["tomorrow_min"])
	assert.Contains(t, decoded, "tomorrow_min")
}

func TestHassPublisher_Publish(t *testing.T) {
	var mu sync.Mutex
	posted := map[string]map[string]any{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		mu.Lock()
		posted[r.URL.Path] = payload
		mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	pub := NewHassPublisher(srv.URL, "secret", "sensor.cons", "sensor.inj", "sensor.source", "")
	price := 0.2430
	consumption := &model.PricedSet{CurrentPrice: &price}
	injection := &model.PricedSet{}

	require.NoError(t, pub.Publish(context.Background(), consumption, injection))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, posted, 2)
	cons := posted["/api/states/sensor.cons"]
	require.NotNil(t, cons)
	assert.Equal(t, "0.2430", cons["state"])
	inj := posted["/api/states/sensor.inj"]
	require.NotNil(t, inj)
	assert.Equal(t, "unknown", inj["state"])
	attrs, ok := inj["attributes"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "sensor.source", attrs["source_entity"])
}

func TestHassPublisher_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	pub := NewHassPublisher(srv.URL, "secret", "sensor.cons", "sensor.inj", "sensor.source", "")
	pub.MaxRetries = 0

	err := pub.Publish(context.Background(), &model.PricedSet{}, &model.PricedSet{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sensor.cons")
	assert.Contains(t, err.Error(), "status 500")
}

func TestHassPublisher_RetryCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	pub := NewHassPublisher(srv.URL, "secret", "sensor.cons", "sensor.inj", "sensor.source", "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := pub.Publish(ctx, &model.PricedSet{}, &model.PricedSet{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
