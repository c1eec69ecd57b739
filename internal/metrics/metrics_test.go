package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/movies", "200"))
	RecordHTTPRequest("GET", "/api/v1/movies", "200", 15*time.Millisecond)
	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/movies", "200"))
	assert.Equal(t, before+1, after)
}

func TestRecordEventPublished(t *testing.T) {
	RecordEventPublished("movie.created", nil)
	RecordEventPublished("movie.created", errors.New("broker down"))
	assert.GreaterOrEqual(t, testutil.ToFloat64(EventsPublished.WithLabelValues("movie.created", "ok")), 1.0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(EventsPublished.WithLabelValues("movie.created", "error")), 1.0)
}

func TestRecordCacheLookup(t *testing.T) {
	before := testutil.ToFloat64(CacheMisses.WithLabelValues("genres"))
	RecordCacheLookup("genres", false)
	assert.Equal(t, before+1, testutil.ToFloat64(CacheMisses.WithLabelValues("genres")))
}
