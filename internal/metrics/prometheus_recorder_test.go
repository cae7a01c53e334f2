package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.IncTranslation(ResultTranslated)
	pr.IncTranslation(ResultTranslated)
	pr.IncTranslation(ResultUnresolved)
	pr.IncRewrite(ResultApplied)
	pr.AddSyntheticEntries(EntryHeading, 3)
	pr.AddSyntheticEntries(EntryLink, 0)
	pr.ObserveScanDuration(2 * time.Millisecond)
	pr.SetIndexedDocuments(7)

	require.InDelta(t, 2, testutil.ToFloat64(pr.translations.WithLabelValues(string(ResultTranslated))), 0)
	require.InDelta(t, 1, testutil.ToFloat64(pr.translations.WithLabelValues(string(ResultUnresolved))), 0)
	require.InDelta(t, 1, testutil.ToFloat64(pr.rewrites.WithLabelValues(string(ResultApplied))), 0)
	require.InDelta(t, 3, testutil.ToFloat64(pr.syntheticEntries.WithLabelValues(string(EntryHeading))), 0)
	require.InDelta(t, 7, testutil.ToFloat64(pr.indexedDocuments), 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, mfs)
}

func TestPrometheusRecorder_NilReceiver(t *testing.T) {
	var pr *PrometheusRecorder
	require.NotPanics(t, func() {
		pr.IncTranslation(ResultFailed)
		pr.SetIndexedDocuments(1)
	})
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestNewMux(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncRewrite(ResultSkipped)

	srv := httptest.NewServer(NewMux(reg))
	defer srv.Close()

	code, body := get(t, srv.URL+"/metrics")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, `headlink_rewrites_total{result="skipped"} 1`)

	code, body = get(t, srv.URL+"/healthz")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "ok\n", body)

	code, _ = get(t, srv.URL+"/nope")
	require.Equal(t, http.StatusNotFound, code)
}

func TestNoopRecorder(_ *testing.T) {
	var r Recorder = NoopRecorder{}
	r.IncTranslation(ResultUnchanged)
	r.ObserveScanDuration(time.Second)
}
