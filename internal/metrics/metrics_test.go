package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	t.Parallel()

	m := New()
	m.Navigated("next")
	m.Navigated("next")
	m.Navigated("back")
	m.Rebuilt(time.Millisecond)
	m.TemplateOp("add")

	require.Equal(t, 2.0, testutil.ToFloat64(m.navigations.WithLabelValues("next")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.navigations.WithLabelValues("back")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.rebuilds))
	require.Equal(t, 1.0, testutil.ToFloat64(m.templateOps.WithLabelValues("add")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	t.Parallel()

	var m *Metrics
	require.NotPanics(t, func() {
		m.Navigated("next")
		m.Rebuilt(time.Second)
		m.TemplateOp("delete")
	})
}

func TestMetrics_Handler(t *testing.T) {
	t.Parallel()

	m := New()
	m.Rebuilt(time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "mailman_list_rebuilds_total 1"))
}
