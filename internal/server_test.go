package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bkatic/memopad/internal/companion"
	"github.com/bkatic/memopad/internal/config"
	"github.com/bkatic/memopad/internal/notes"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// TestMain will run goleak after all tests have been run in the package
// to detect any goroutine leaks
func TestMain(m *testing.M) {
	m.Run()
	goleak.VerifyTestMain(m)
}

func testServerSetup(t *testing.T, modelHandler http.HandlerFunc) *httptest.Server {
	t.Helper()

	modelServer := httptest.NewServer(modelHandler)
	t.Cleanup(modelServer.Close)

	server, err := NewServer(context.Background(), NewServerParams{
		Config: &config.Config{
			SQLitePath:       ":memory:",
			CompanionBaseURL: modelServer.URL,
			CompanionModel:   "test-model",
		},
		CompanionAPIKey: "dummy-api-key",
		VersionInfo:     "test",
	})
	require.NoError(t, err)
	t.Cleanup(server.GracefulShutdown)

	apiServer := httptest.NewServer(server.routerSetup())
	t.Cleanup(apiServer.Close)
	// keep-alive conns of the default client linger otherwise
	t.Cleanup(http.DefaultClient.CloseIdleConnections)

	return apiServer
}

func modelStub(reply string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		resp := fmt.Sprintf(`{"choices":[{"message":{"role":"assistant","content":%q}}]}`, reply)
		_, _ = w.Write([]byte(resp))
	}
}

func TestServer_NotesEndToEnd(t *testing.T) {
	apiServer := testServerSetup(t, modelStub("irrelevant here"))

	// create
	resp, err := http.Post(apiServer.URL+"/notes", "application/json", strings.NewReader(`{"content":"buy milk"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var added notes.AddNoteResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&added))
	require.NoError(t, resp.Body.Close())
	assert.Positive(t, added.Id)
	assert.Equal(t, "buy milk", added.Content)

	// list contains it
	resp, err = http.Get(apiServer.URL + "/notes")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed []notes.Note
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	require.NoError(t, resp.Body.Close())
	require.Len(t, listed, 1)
	assert.Equal(t, "buy milk", listed[0].Content)

	// delete
	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/notes/%d", apiServer.URL, added.Id), nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var deleted notes.DeleteNoteResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&deleted))
	require.NoError(t, resp.Body.Close())
	assert.True(t, deleted.Success)

	// gone from the list
	resp, err = http.Get(apiServer.URL + "/notes")
	require.NoError(t, err)
	listed = nil
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	require.NoError(t, resp.Body.Close())
	assert.Empty(t, listed)
}

func TestServer_Chat(t *testing.T) {
	apiServer := testServerSetup(t, modelStub("your notes say: buy milk"))

	// notes end up in the model prompt via the context assembler
	resp, err := http.Post(apiServer.URL+"/notes", "application/json", strings.NewReader(`{"content":"buy milk"}`))
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	resp, err = http.Post(apiServer.URL+"/chat", "application/json", strings.NewReader(`{"message":"what do I need?"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reply companion.Reply
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reply))
	require.NoError(t, resp.Body.Close())

	assert.Equal(t, companion.SourceModel, reply.Source)
	assert.Equal(t, "your notes say: buy milk", reply.Text)
}

func TestServer_Chat_ModelDown(t *testing.T) {
	apiServer := testServerSetup(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "out of capacity", http.StatusServiceUnavailable)
	})

	resp, err := http.Post(apiServer.URL+"/chat", "application/json", strings.NewReader(`{"message":"anyone home?"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reply companion.Reply
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reply))
	require.NoError(t, resp.Body.Close())

	assert.Equal(t, companion.SourceFallback, reply.Source)
	assert.Equal(t, companion.FallbackReply, reply.Text)
}

func TestServer_UnknownPath(t *testing.T) {
	apiServer := testServerSetup(t, modelStub("unused"))

	resp, err := http.Get(apiServer.URL + "/definitely-not-here")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
