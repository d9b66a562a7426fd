package api

import (
	"context"
	"fmt"
	"net/http"
	"slices"

	"github.com/UnknownOlympus/athena/internal/models"
)

type divisionList struct {
	Divisions []models.Division `json:"divisions"`
}

// ListDivisions fetches the division lookup list. Concurrent callers share one
// upstream request, bounded by the HTTP client timeout.
func (c *Client) ListDivisions(ctx context.Context) ([]models.Division, error) {
	res, err, _ := c.lookups.Do("divisions", func() (any, error) {
		// shared by every waiting caller
		data, err := call[divisionList](context.WithoutCancel(ctx), c, request{
			endpoint: endpointListDivisions,
			method:   http.MethodGet,
			path:     "/api/divisions",
		})
		if err != nil {
			return nil, err
		}

		c.metrics.ItemsFetched.WithLabelValues("division").Add(float64(len(data.Divisions)))

		return data.Divisions, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list divisions: %w", err)
	}

	divisions, _ := res.([]models.Division)
	if divisions == nil {
		return []models.Division{}, nil
	}

	return slices.Clone(divisions), nil
}
