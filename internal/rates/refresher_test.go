package rates_test

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfreitas/promo-radar/internal/rates"
	"github.com/mfreitas/promo-radar/pkg/logger"
)

func TestRefresher_StartWarmsCache(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	srv := rateServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/USD", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":"success","rates":{"BRL":5.4}}`))
	})

	c := rates.New("BRL", 5.0, time.Hour, rates.WithRateURL(srv.URL))
	r, err := rates.NewRefresher(c, []string{"USD"}, time.Hour, logger.Discard())
	require.NoError(t, err)

	r.Start()
	<-r.Stop().Done()

	assert.Equal(t, int64(1), calls.Load())

	// The warmed rate serves conversions without another fetch.
	assert.Equal(t, 54.0, c.ToDisplay(context.Background(), 10, "USD"))
	assert.Equal(t, int64(1), calls.Load())
}

func TestRefresher_FetchFailureIsNonFatal(t *testing.T) {
	t.Parallel()

	srv := rateServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	c := rates.New("BRL", 5.0, time.Hour, rates.WithRateURL(srv.URL))
	r, err := rates.NewRefresher(c, []string{"USD"}, time.Hour, logger.Discard())
	require.NoError(t, err)

	r.Start()
	<-r.Stop().Done()

	// Conversion falls back to the default rate.
	assert.Equal(t, 50.0, c.ToDisplay(context.Background(), 10, "USD"))
}
