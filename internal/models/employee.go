package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// UserAgent is sent with every request to the employee API.
const UserAgent = "athena-dashboard/1.0"

// ID is an opaque record identifier. The API may encode it as a JSON number or string.
type ID string

// UnmarshalJSON accepts both `1` and `"1"`.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return fmt.Errorf("failed to decode id string: %w", err)
		}
		*id = ID(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("failed to decode id number: %w", err)
	}
	*id = ID(num.String())

	return nil
}

func (id ID) String() string {
	return string(id)
}

// IsZero reports whether the identifier is unset.
func (id ID) IsZero() bool {
	return id == ""
}

// Division represents an organizational grouping an employee belongs to.
type Division struct {
	ID   ID     `json:"id_division"`
	Name string `json:"name"`
}

// Employee represents an employee entity as returned by the employee API.
type Employee struct {
	ID       ID       `json:"id_employee"`
	Name     string   `json:"name"`
	Phone    string   `json:"phone"`
	Position string   `json:"position"`
	Image    string   `json:"image,omitempty"`
	Division Division `json:"division"`
}
