package client_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/UnknownOlympus/staffbook/internal/client"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rosterHTML = `<table><tr><th>Name</th></tr><tr><td>Ada Lovelace</td></tr></table>`

func TestCreateHTTPClient(t *testing.T) {
	var logBuf bytes.Buffer
	testLogger := slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	t.Run("client properties", func(t *testing.T) {
		httpClient := client.CreateHTTPClient(testLogger)

		assert.NotNil(t, httpClient.CheckRedirect)
		assert.NotZero(t, httpClient.Timeout)
	})

	t.Run("redirects are followed and logged", func(t *testing.T) {
		logBuf.Reset()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/old":
				http.Redirect(w, r, "/roster", http.StatusFound)
			case "/roster":
				_, _ = w.Write([]byte(rosterHTML))
			default:
				http.NotFound(w, r)
			}
		}))
		defer server.Close()

		source := client.NewRosterSource(client.CreateHTTPClient(testLogger), afero.NewMemMapFs())

		body, err := source.Open(context.Background(), server.URL+"/old")
		require.NoError(t, err)
		defer body.Close()

		data, err := io.ReadAll(body)
		require.NoError(t, err)
		assert.Equal(t, rosterHTML, string(data))
		assert.Contains(t, logBuf.String(), "Redirected to URL")
	})
}

func TestRosterSource_Open(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("local file", func(t *testing.T) {
		t.Parallel()

		afs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(afs, "/rosters/staff.html", []byte(rosterHTML), 0o644))
		source := client.NewRosterSource(client.CreateHTTPClient(logger), afs)

		body, err := source.Open(context.Background(), "/rosters/staff.html")
		require.NoError(t, err)
		defer body.Close()

		data, err := io.ReadAll(body)
		require.NoError(t, err)
		assert.Equal(t, rosterHTML, string(data))
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		source := client.NewRosterSource(client.CreateHTTPClient(logger), afero.NewMemMapFs())

		_, err := source.Open(context.Background(), "/rosters/none.html")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open roster")
	})

	t.Run("remote error status", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		source := client.NewRosterSource(client.CreateHTTPClient(logger), afero.NewMemMapFs())

		_, err := source.Open(context.Background(), server.URL)
		require.ErrorIs(t, err, client.ErrUnexpectedStatus)
	})

	t.Run("remote unreachable", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		source := client.NewRosterSource(client.CreateHTTPClient(logger), afero.NewMemMapFs())

		_, err := source.Open(context.Background(), url)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to fetch roster")
	})
}
