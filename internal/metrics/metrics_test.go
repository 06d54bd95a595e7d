package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentHandlerUsesRouteTemplate(t *testing.T) {
	r := mux.NewRouter()
	r.Use(InstrumentHandler)
	r.HandleFunc("/habits/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/habits/{id}", "418"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/habits/abc", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/habits/def", nil))

	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/habits/{id}", "418"))
	assert.Equal(t, 2.0, after-before)
}

func TestRecordReminder(t *testing.T) {
	before := testutil.ToFloat64(remindersSent.WithLabelValues("telegram", "false"))
	RecordReminder("telegram", false)
	assert.Equal(t, 1.0, testutil.ToFloat64(remindersSent.WithLabelValues("telegram", "false"))-before)

	RecordSweep(0, 3)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "habit_tracker_reminders_due_habits_total")
}
