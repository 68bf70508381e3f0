package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Measurements is a free-form measurement set (name -> value in centimeters)
// stored as a JSON column.
type Measurements map[string]float64

// Value implements driver.Valuer so GORM can persist the map as JSON
func (m Measurements) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner so GORM can load the JSON column back
func (m *Measurements) Scan(value interface{}) error {
	if value == nil {
		*m = Measurements{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for measurements: %T", value)
	}

	if len(data) == 0 {
		*m = Measurements{}
		return nil
	}
	return json.Unmarshal(data, m)
}
