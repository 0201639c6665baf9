package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bkatic/memopad/internal/instrumentation"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanicRecovery(t *testing.T) {
	instr := instrumentation.NewTestInstrumentation()

	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("oops")
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/notes", nil)

	wrapped := PanicRecovery(instr)(panicky)
	require.NotPanics(t, func() {
		wrapped.ServeHTTP(rr, req)
	})

	assert.Equal(t, float64(1), testutil.ToFloat64(instr.CounterHandleRequestPanic))
}

func TestPanicRecovery_NonPanic(t *testing.T) {
	instr := instrumentation.NewTestInstrumentation()

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/notes", nil)
	PanicRecovery(instr)(ok).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, float64(0), testutil.ToFloat64(instr.CounterHandleRequestPanic))
}
