package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/UnknownOlympus/athena/internal/metrics"
	"github.com/UnknownOlympus/athena/internal/models"
	"golang.org/x/sync/singleflight"
)

// EmployeeAPIIface is the set of calls the dashboard issues against the employee API.
type EmployeeAPIIface interface {
	ListEmployees(ctx context.Context, page int, search string) ([]models.Employee, error)
	ListDivisions(ctx context.Context) ([]models.Division, error)
	SaveEmployee(ctx context.Context, target models.ID, form models.EmployeeForm) error
	DeleteEmployee(ctx context.Context, identifier models.ID) error
}

// Client talks to the employee API. Authentication is the job of the *http.Client
// it is given (see client.CreateHTTPClient).
type Client struct {
	client  *http.Client
	baseURL string
	metrics *metrics.Metrics
	lookups singleflight.Group
}

func NewClient(client *http.Client, metrics *metrics.Metrics, baseURL string) *Client {
	return &Client{client: client, baseURL: strings.TrimRight(baseURL, "/"), metrics: metrics}
}
