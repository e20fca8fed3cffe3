package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorders(t *testing.T) {
	Init()
	Init()

	before := testutil.ToFloat64(alertEvents.WithLabelValues("Battery Low", "raised"))
	IncAlertEvent("Battery Low", "raised")
	assert.Equal(t, before+1, testutil.ToFloat64(alertEvents.WithLabelValues("Battery Low", "raised")))

	before = testutil.ToFloat64(storeMutations.WithLabelValues("devices", "update", "not_found"))
	IncMutation("devices", "update", "not_found")
	assert.Equal(t, before+1, testutil.ToFloat64(storeMutations.WithLabelValues("devices", "update", "not_found")))

	before = testutil.ToFloat64(httpRequests.WithLabelValues("unmatched", "GET", "404"))
	ObserveHTTP("", "GET", "404", time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("unmatched", "GET", "404")))
}
