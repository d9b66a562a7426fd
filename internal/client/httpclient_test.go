package client_test

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/UnknownOlympus/athena/internal/auth"
	"github.com/UnknownOlympus/athena/internal/client"
)

func TestCreateHTTPClient(t *testing.T) {
	var logBuf bytes.Buffer // buffer for log capturing
	testLogger := slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{
		Level: slog.LevelDebug, // Level debug needed, for CheckRedirect message capturing
	}))

	session, err := auth.NewSession("token-123")
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	t.Run("client properties", func(t *testing.T) {
		httpClient := client.CreateHTTPClient(testLogger, session, 3*time.Second)

		if httpClient.Transport == nil {
			t.Error("client.Transport must be initiated and must not be nil")
		}

		if httpClient.CheckRedirect == nil {
			t.Error("client.CheckRedirect must be set and must not be nil")
		}

		if httpClient.Timeout != 3*time.Second {
			t.Errorf("Expected timeout 3s, got %s", httpClient.Timeout)
		}
	})

	t.Run("redirect keeps bearer token and is logged", func(t *testing.T) {
		logBuf.Reset()

		finalPath := "/final-destination"
		redirectPath := "/redirect-here"

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case redirectPath:
				http.Redirect(w, r, finalPath, http.StatusFound)
			case finalPath:
				if got := r.Header.Get("Authorization"); got != "Bearer token-123" {
					t.Errorf("Expected bearer token on redirected request, got %q", got)
				}
				w.WriteHeader(http.StatusOK)
			default:
				http.NotFound(w, r)
			}
		}))
		defer server.Close()

		httpClient := client.CreateHTTPClient(testLogger, session, time.Second)

		resp, err := httpClient.Get(server.URL + redirectPath)
		if err != nil {
			t.Fatalf("client.Get failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("Expected status OK (200) after redirect, but received %d", resp.StatusCode)
		}

		loggedOutput := logBuf.String()
		if !strings.Contains(loggedOutput, "Redirected to URL") {
			t.Errorf("The log output does not contain the redirect message. Log:\n%s", loggedOutput)
		}
		if !strings.Contains(loggedOutput, "URL="+server.URL+finalPath) {
			t.Errorf("The log output does not contain the final URL. Log:\n%s", loggedOutput)
		}
	})

	t.Run("redirect to another host is refused without sending the token", func(t *testing.T) {
		logBuf.Reset()

		foreignCalled := false
		foreign := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			foreignCalled = true
			if got := r.Header.Get("Authorization"); got != "" {
				t.Errorf("Foreign host received Authorization %q", got)
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer foreign.Close()

		origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// same listener address, different host name
			target := strings.Replace(foreign.URL, "127.0.0.1", "localhost", 1) + "/steal"
			http.Redirect(w, r, target, http.StatusFound)
		}))
		defer origin.Close()

		httpClient := client.CreateHTTPClient(testLogger, session, time.Second)

		resp, err := httpClient.Get(origin.URL + "/api/divisions")
		if resp != nil {
			resp.Body.Close()
		}

		if !errors.Is(err, client.ErrCrossHostRedirect) {
			t.Fatalf("Expected ErrCrossHostRedirect, got %v", err)
		}
		if foreignCalled {
			t.Error("The foreign host must not be contacted")
		}
		if !strings.Contains(logBuf.String(), "Refused cross-host redirect") {
			t.Errorf("The log output does not contain the refusal. Log:\n%s", logBuf.String())
		}
	})

	t.Run("redirect loop stops", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, r.URL.Path, http.StatusFound)
		}))
		defer server.Close()

		httpClient := client.CreateHTTPClient(testLogger, session, time.Second)

		resp, err := httpClient.Get(server.URL + "/loop")
		if resp != nil {
			resp.Body.Close()
		}

		if err == nil || !strings.Contains(err.Error(), "stopped after 10 redirects") {
			t.Errorf("Expected redirect limit error, got %v", err)
		}
	})
}
