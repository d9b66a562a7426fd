package api_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/UnknownOlympus/athena/internal/api"
	"github.com/UnknownOlympus/athena/internal/auth"
	"github.com/UnknownOlympus/athena/internal/client"
	"github.com/UnknownOlympus/athena/internal/metrics"
	"github.com/UnknownOlympus/athena/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "test-token"

// roundTripFunc helps to imitate errors on transport level.
type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

type errorReader struct{}

func (er *errorReader) Read(_ []byte) (int, error) {
	return 0, errors.New("simulated read error")
}

func (er *errorReader) Close() error {
	return nil
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*api.Client, *metrics.Metrics) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	session, err := auth.NewSession(testToken)
	require.NoError(t, err)

	testMetrics := metrics.NewMetrics(prometheus.NewRegistry())
	httpClient := client.CreateHTTPClient(slog.Default(), session, 2*time.Second)

	return api.NewClient(httpClient, testMetrics, server.URL+"/"), testMetrics
}

func checkCommonHeaders(t *testing.T, r *http.Request) {
	t.Helper()

	assert.Equal(t, "Bearer "+testToken, r.Header.Get("Authorization"))
	assert.Equal(t, "application/json", r.Header.Get("Accept"))
	assert.Equal(t, models.UserAgent, r.Header.Get("User-Agent"))
}

func TestListEmployees_Success(t *testing.T) {
	t.Parallel()

	apiClient, testMetrics := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/employees", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "an", r.URL.Query().Get("search"))
		checkCommonHeaders(t, r)

		fmt.Fprint(w, `{"status":"success","data":{"employees":[
			{"id_employee":1,"name":"Ann","phone":"555","position":"Eng","division":{"id_division":1,"name":"R&D"}},
			{"id_employee":"b2","name":"Bob","phone":"777","position":"Ops","division":{"id_division":"2","name":"Ops"}}
		]}}`)
	})

	employees, err := apiClient.ListEmployees(context.Background(), 2, "an")
	require.NoError(t, err)

	require.Len(t, employees, 2)
	assert.Equal(t, models.Employee{
		ID:       "1",
		Name:     "Ann",
		Phone:    "555",
		Position: "Eng",
		Division: models.Division{ID: "1", Name: "R&D"},
	}, employees[0])
	assert.Equal(t, models.ID("b2"), employees[1].ID)
	assert.InDelta(t, 2, testutil.ToFloat64(testMetrics.ItemsFetched.WithLabelValues("employee")), 0)
	assert.InDelta(t, 1,
		testutil.ToFloat64(testMetrics.APIRequests.WithLabelValues("list_employees", "success")), 0)
}

func TestListEmployees_EmptyData(t *testing.T) {
	t.Parallel()

	apiClient, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"status":"success","data":{}}`)
	})

	employees, err := apiClient.ListEmployees(context.Background(), 1, "")
	require.NoError(t, err)
	assert.NotNil(t, employees)
	assert.Empty(t, employees)
}

func TestListEmployees_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		handler     http.HandlerFunc
		wantErr     error
		errContains string
	}{
		{
			name: "non 2xx status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"status":"error","message":"Unauthenticated."}`)
			},
			wantErr:     api.ErrUnexpectedStatus,
			errContains: "received status code: 401",
		},
		{
			name: "status is not success",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, `{"status":"error","message":"boom"}`)
			},
			wantErr:     api.ErrUnsuccessful,
			errContains: "boom",
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, `<html>not json</html>`)
			},
			errContains: "failed to decode response body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			apiClient, _ := newTestClient(t, tt.handler)

			employees, err := apiClient.ListEmployees(context.Background(), 1, "")

			require.Error(t, err)
			assert.Nil(t, employees)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestListEmployees_TransportErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		transport   roundTripFunc
		errContains string
	}{
		{
			name: "request execution error",
			transport: func(_ *http.Request) (*http.Response, error) {
				return nil, errors.New("simulated network error")
			},
			errContains: "failed to request",
		},
		{
			name: "error reading response body",
			transport: func(_ *http.Request) (*http.Response, error) {
				return &http.Response{StatusCode: http.StatusOK, Body: &errorReader{}, Header: make(http.Header)}, nil
			},
			errContains: "failed to read response body: simulated read error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			httpClient := &http.Client{Transport: tt.transport}
			apiClient := api.NewClient(httpClient, metrics.NewMetrics(prometheus.NewRegistry()), "http://example.com")

			_, err := apiClient.ListEmployees(context.Background(), 1, "")

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestListEmployees_InvalidURL(t *testing.T) {
	t.Parallel()

	apiClient := api.NewClient(&http.Client{}, metrics.NewMetrics(prometheus.NewRegistry()), "http://invalid url")

	_, err := apiClient.ListEmployees(context.Background(), 1, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create new request")
}

func TestListEmployees_ContextCanceled(t *testing.T) {
	t.Parallel()

	apiClient, _ := newTestClient(t, func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("The server handler should not be called if the context is canceled before the request")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := apiClient.ListEmployees(ctx, 1, "")

	require.ErrorIs(t, err, context.Canceled)
}

func TestListDivisions_Success(t *testing.T) {
	t.Parallel()

	apiClient, testMetrics := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/divisions", r.URL.Path)
		checkCommonHeaders(t, r)

		fmt.Fprint(w, `{"status":"success","data":{"divisions":[{"id_division":1,"name":"R&D"},{"id_division":2,"name":"Ops"}]}}`)
	})

	divisions, err := apiClient.ListDivisions(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []models.Division{{ID: "1", Name: "R&D"}, {ID: "2", Name: "Ops"}}, divisions)
	assert.InDelta(t, 2, testutil.ToFloat64(testMetrics.ItemsFetched.WithLabelValues("division")), 0)
}

func TestListDivisions_Failure(t *testing.T) {
	t.Parallel()

	apiClient, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	divisions, err := apiClient.ListDivisions(context.Background())

	require.ErrorIs(t, err, api.ErrUnexpectedStatus)
	assert.Nil(t, divisions)
}

func TestListDivisions_ConcurrentCallsShareRequest(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	release := make(chan struct{})

	apiClient, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		<-release
		fmt.Fprint(w, `{"status":"success","data":{"divisions":[{"id_division":1,"name":"R&D"}]}}`)
	})

	const callers = 5
	var wg sync.WaitGroup
	results := make([][]models.Division, callers)
	errs := make([]error, callers)

	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = apiClient.ListDivisions(context.Background())
		}()
	}

	// give every caller time to join the in-flight lookup
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), hits.Load())
	for i := range callers {
		require.NoError(t, errs[i])
		assert.Equal(t, []models.Division{{ID: "1", Name: "R&D"}}, results[i])
	}
}

func TestSaveEmployee_CreateWithoutTarget(t *testing.T) {
	t.Parallel()

	apiClient, testMetrics := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/employees", r.URL.Path)
		checkCommonHeaders(t, r)
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Ann", r.FormValue("name"))
		assert.Equal(t, "555", r.FormValue("phone"))
		assert.Equal(t, "Eng", r.FormValue("position"))
		assert.Equal(t, "1", r.FormValue("division_id"))
		_, _, err := r.FormFile("image")
		assert.ErrorIs(t, err, http.ErrMissingFile)

		fmt.Fprint(w, `{"status":"success","message":"created"}`)
	})

	err := apiClient.SaveEmployee(context.Background(), "", models.EmployeeForm{
		Name: "Ann", Phone: "555", Position: "Eng", DivisionID: "1",
	})

	require.NoError(t, err)
	assert.InDelta(t, 1,
		testutil.ToFloat64(testMetrics.APIRequests.WithLabelValues("create_employee", "success")), 0)
}

func TestSaveEmployee_UpdateWithTargetAndImage(t *testing.T) {
	t.Parallel()

	pngHeader := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	apiClient, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/employees/42", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Bob", r.FormValue("name"))

		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()

		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, pngHeader, content)
		assert.Equal(t, `photo "1".png`, header.Filename)
		assert.Equal(t, "image/png", header.Header.Get("Content-Type"))

		fmt.Fprint(w, `{"status":"success"}`)
	})

	err := apiClient.SaveEmployee(context.Background(), "42", models.EmployeeForm{
		Name:  "Bob",
		Image: &models.Image{Filename: `photo "1".png`, Content: pngHeader},
	})

	require.NoError(t, err)
}

func TestSaveEmployee_Unsuccessful(t *testing.T) {
	t.Parallel()

	apiClient, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"status":"error","message":"The name field is required."}`)
	})

	err := apiClient.SaveEmployee(context.Background(), "", models.EmployeeForm{})

	require.ErrorIs(t, err, api.ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "failed to save employee")
}

func TestDeleteEmployee(t *testing.T) {
	t.Parallel()

	apiClient, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/employees/a%2Fb", r.URL.EscapedPath())
		checkCommonHeaders(t, r)

		fmt.Fprint(w, `{"status":"success"}`)
	})

	require.NoError(t, apiClient.DeleteEmployee(context.Background(), "a/b"))
}

func TestDeleteEmployee_MissingID(t *testing.T) {
	t.Parallel()

	apiClient := api.NewClient(&http.Client{}, metrics.NewMetrics(prometheus.NewRegistry()), "http://example.com")

	require.ErrorIs(t, apiClient.DeleteEmployee(context.Background(), ""), api.ErrMissingID)
}

func TestDeleteEmployee_Unsuccessful(t *testing.T) {
	t.Parallel()

	apiClient, testMetrics := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"status":"failed"}`)
	})

	err := apiClient.DeleteEmployee(context.Background(), "1")

	require.ErrorIs(t, err, api.ErrUnsuccessful)
	assert.InDelta(t, 1,
		testutil.ToFloat64(testMetrics.APIRequests.WithLabelValues("delete_employee", "failure")), 0)
}
