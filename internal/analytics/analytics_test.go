package analytics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	segment "github.com/segmentio/analytics-go/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDisabledTracker(t *testing.T) {
	tracker, err := New(zap.NewNop(), "")
	require.NoError(t, err)
	assert.False(t, tracker.Enabled())

	tracker.ToolCalled("chronograf_build_influxql", time.Millisecond, nil)
	assert.NoError(t, tracker.Close())

	var nilTracker *Tracker
	assert.False(t, nilTracker.Enabled())
	nilTracker.ToolCalled("x", 0, nil)
}

func TestToolCalledSendsTrackEvent(t *testing.T) {
	var (
		mu     sync.Mutex
		bodies []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(b))
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	tracker, err := NewWithConfig(zap.NewNop(), "write-key", segment.Config{
		Endpoint:  server.URL,
		BatchSize: 1,
	})
	require.NoError(t, err)
	require.True(t, tracker.Enabled())

	tracker.ToolCalled("chronograf_get_dashboard", 15*time.Millisecond, errors.New("boom"))
	require.NoError(t, tracker.Close())

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(bodies) > 0
	}, 5*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	all := strings.Join(bodies, "\n")
	assert.Contains(t, all, EventToolCalled)
	assert.Contains(t, all, "chronograf_get_dashboard")
	assert.Contains(t, all, `"success":false`)
}
