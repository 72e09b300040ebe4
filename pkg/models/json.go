package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONStringMap stores a string map as a JSON text column.
// Implements sql.Scanner and driver.Valuer for GORM.
type JSONStringMap map[string]string

// Value serializes the map for storage.
func (m JSONStringMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan deserializes the map from storage.
func (m *JSONStringMap) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for JSONStringMap: %T", value)
	}
	if len(data) == 0 {
		*m = nil
		return nil
	}
	return json.Unmarshal(data, m)
}
