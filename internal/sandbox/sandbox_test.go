package sandbox

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"mock_interview_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSendsPistonRequest(t *testing.T) {
	var got executeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"run":{"stdout":"hi\n","stderr":"","output":"hi\n","code":0}}`))
	}))
	defer srv.Close()

	out, err := NewPistonClient(srv.URL, time.Second, srv.Client()).Run(context.Background(), "cpp", "int main(){}")
	require.NoError(t, err)
	assert.Equal(t, "hi\n", out)
	assert.Equal(t, "cpp", got.Language)
	assert.Equal(t, "*", got.Version)
	require.Len(t, got.Files, 1)
	assert.Equal(t, "int main(){}", got.Files[0].Content)
}

func TestRunRejectsUnsupportedLanguageWithoutCall(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	_, err := NewPistonClient(srv.URL, time.Second, srv.Client()).Run(context.Background(), "python", "print(1)")
	assert.ErrorIs(t, err, util.ErrUnsupportedLanguage)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestRunMissingOutputIsExecutionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"java-* runtime is unknown"}`))
	}))
	defer srv.Close()

	_, err := NewPistonClient(srv.URL, time.Second, srv.Client()).Run(context.Background(), "java", "class A {}")
	assert.ErrorIs(t, err, util.ErrExecutionFailed)
	assert.Contains(t, err.Error(), "runtime is unknown")
}

func TestRunTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	_, err := NewPistonClient(srv.URL, 30*time.Millisecond, srv.Client()).Run(context.Background(), "java", "class A {}")
	assert.ErrorIs(t, err, util.ErrTimeout)
}
