package rowtrack

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Row is a single grid row. ID is assigned once at creation and never
// changes; it stays unique for the whole session, including rows that
// have since been deleted.
type Row struct {
	ID     string                 // 行の恒久ID (UUID)
	Values map[string]interface{} // カラム名と値のマップ
}

// NewRow creates a row with a freshly generated identity. This is the
// factory the grid widget calls when the user inserts a row.
func NewRow(values map[string]interface{}) *Row {
	if values == nil {
		values = make(map[string]interface{})
	}
	return &Row{
		ID:     uuid.NewString(),
		Values: values,
	}
}

// Duplicate returns a copy of the row under a new identity. The source
// row's ID is never reused.
func (r *Row) Duplicate() *Row {
	dup := NewRow(make(map[string]interface{}, len(r.Values)))
	for k, v := range r.Values {
		dup.Values[k] = v
	}
	return dup
}

// Clone returns a deep copy of the row, keeping its identity.
func (r *Row) Clone() *Row {
	c := &Row{
		ID:     r.ID,
		Values: make(map[string]interface{}, len(r.Values)),
	}
	for k, v := range r.Values {
		c.Values[k] = v
	}
	return c
}

// GetAsString returns the value as string or defaultValue if not found
func (r *Row) GetAsString(col string, defaultValue string) string {
	v, ok := r.Values[col]
	if !ok {
		return defaultValue
	}

	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case []string:
		return strings.Join(val, ",")
	default:
		return fmt.Sprintf("%v", val)
	}
}

// GetAsInt64 returns the value as int64 or defaultValue if not found
func (r *Row) GetAsInt64(col string, defaultValue int64) int64 {
	v, ok := r.Values[col]
	if !ok {
		return defaultValue
	}

	switch val := v.(type) {
	case int64:
		return val
	case int:
		return int64(val)
	case float64:
		return int64(val)
	case string:
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

// GetAsFloat64 returns the value as float64 or defaultValue if not found
func (r *Row) GetAsFloat64(col string, defaultValue float64) float64 {
	v, ok := r.Values[col]
	if !ok {
		return defaultValue
	}

	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case string:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// GetAsBool returns the value as bool or defaultValue if not found
func (r *Row) GetAsBool(col string, defaultValue bool) bool {
	v, ok := r.Values[col]
	if !ok {
		return defaultValue
	}

	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val == "true" || val == "1"
	case int, int64:
		return val != 0
	case float64:
		return val != 0
	}
	return defaultValue
}

// GetAsTime returns the value as time.Time or defaultValue if not found
func (r *Row) GetAsTime(col string, defaultValue time.Time) time.Time {
	v, ok := r.Values[col]
	if !ok {
		return defaultValue
	}

	switch val := v.(type) {
	case time.Time:
		return val
	case string:
		formats := []string{
			time.RFC3339,
			"2006-01-02 15:04:05",
			"2006-01-02",
		}
		for _, format := range formats {
			if t, err := time.Parse(format, val); err == nil {
				return t
			}
		}
	}
	return defaultValue
}

// SetString sets a string value
func (r *Row) SetString(col string, value string) {
	r.set(col, value)
}

// SetInt64 sets an int64 value
func (r *Row) SetInt64(col string, value int64) {
	r.set(col, value)
}

// SetFloat64 sets a float64 value
func (r *Row) SetFloat64(col string, value float64) {
	r.set(col, value)
}

// SetBool sets a bool value
func (r *Row) SetBool(col string, value bool) {
	r.set(col, value)
}

// SetTime sets a time.Time value (stored as ISO 8601 string)
func (r *Row) SetTime(col string, value time.Time) {
	r.set(col, value.Format(time.RFC3339))
}

func (r *Row) set(col string, value interface{}) {
	if r.Values == nil {
		r.Values = make(map[string]interface{})
	}
	r.Values[col] = value
}

// cloneRows deep-copies a row collection.
func cloneRows(rows []*Row) []*Row {
	out := make([]*Row, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}
