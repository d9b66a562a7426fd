package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/athena/internal/models"
	"github.com/gabriel-vasile/mimetype"
)

type employeeList struct {
	Employees []models.Employee `json:"employees"`
}

// ListEmployees fetches one page of employees matching search.
func (c *Client) ListEmployees(ctx context.Context, page int, search string) ([]models.Employee, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("search", search)

	data, err := call[employeeList](ctx, c, request{
		endpoint: endpointListEmployees,
		method:   http.MethodGet,
		path:     "/api/employees",
		query:    query,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	employees := data.Employees
	if employees == nil {
		employees = []models.Employee{}
	}
	c.metrics.ItemsFetched.WithLabelValues("employee").Add(float64(len(employees)))

	return employees, nil
}

// SaveEmployee creates an employee when target is zero and updates the employee
// identified by target otherwise. Both go out as multipart POST requests.
func (c *Client) SaveEmployee(ctx context.Context, target models.ID, form models.EmployeeForm) error {
	body, contentType, err := encodeEmployeeForm(form)
	if err != nil {
		return fmt.Errorf("failed to encode employee form: %w", err)
	}

	req := request{
		endpoint:    endpointCreateEmployee,
		method:      http.MethodPost,
		path:        "/api/employees",
		body:        body,
		contentType: contentType,
	}
	if !target.IsZero() {
		req.endpoint = endpointUpdateEmployee
		req.path = "/api/employees/" + url.PathEscape(target.String())
	}

	if _, err = call[json.RawMessage](ctx, c, req); err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}

	return nil
}

// DeleteEmployee deletes the employee with the given identifier.
func (c *Client) DeleteEmployee(ctx context.Context, identifier models.ID) error {
	if identifier.IsZero() {
		return ErrMissingID
	}

	_, err := call[json.RawMessage](ctx, c, request{
		endpoint: endpointDeleteEmployee,
		method:   http.MethodDelete,
		path:     "/api/employees/" + url.PathEscape(identifier.String()),
	})
	if err != nil {
		return fmt.Errorf("failed to delete employee %s: %w", identifier, err)
	}

	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func encodeEmployeeForm(form models.EmployeeForm) (*bytes.Buffer, string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	fields := []struct{ key, value string }{
		{"name", form.Name},
		{"phone", form.Phone},
		{"position", form.Position},
		{"division_id", form.DivisionID.String()},
	}
	for _, field := range fields {
		if err := writer.WriteField(field.key, field.value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", field.key, err)
		}
	}

	if form.Image != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="image"; filename="%s"`, quoteEscaper.Replace(form.Image.Filename)))
		header.Set("Content-Type", mimetype.Detect(form.Image.Content).String())

		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create image part: %w", err)
		}
		if _, err = part.Write(form.Image.Content); err != nil {
			return nil, "", fmt.Errorf("failed to write image part: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	return &body, writer.FormDataContentType(), nil
}
