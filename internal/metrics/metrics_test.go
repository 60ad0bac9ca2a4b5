package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorderCounts(t *testing.T) {
	r := New()
	r.Transition("next")
	r.Transition("next")
	r.Rejection("skip", "skip_disabled")
	r.Completion()
	r.SessionStarted()

	assert.Equal(t, 2.0, testutil.ToFloat64(r.transitions.WithLabelValues("next")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.rejections.WithLabelValues("skip", "skip_disabled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.completions))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.started))
}

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder
	r.Transition("next")
	r.Rejection("next", "x")
	r.Completion()
	r.SessionStarted()
}

func TestHandlerExposesWizardMetrics(t *testing.T) {
	r := New()
	r.Transition("jump")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `smartmcq_wizard_transitions_total{direction="jump"} 1`))
}
