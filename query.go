package rowtrack

import (
	"fmt"
)

// Condition represents a single query condition
type Condition struct {
	Column   string      // カラム名
	Operator string      // 演算子: ==, !=, >, >=, <, <=, in, between
	Value    interface{} // 比較値（inの場合は[]interface{}, betweenの場合は[2]interface{}）
}

// Query represents a query with multiple conditions, evaluated as AND
type Query struct {
	Conditions []Condition
	Limit      int
	Offset     int
}

// MatchesQuery checks if a row matches all conditions in the query
func (r *Row) MatchesQuery(query Query) bool {
	for _, condition := range query.Conditions {
		if !evalCondition(r, condition) {
			return false
		}
	}
	return true
}

func evalCondition(row *Row, condition Condition) bool {
	value, exists := row.Values[condition.Column]
	if !exists {
		value = nil
	}

	switch condition.Operator {
	case "==":
		return compareEqual(value, condition.Value)
	case "!=":
		return !compareEqual(value, condition.Value)
	case ">", ">=", "<", "<=":
		return compareOrdered(value, condition.Value, condition.Operator)
	case "in":
		return compareIn(value, condition.Value)
	case "between":
		return compareBetween(value, condition.Value)
	default:
		return false
	}
}

// compareEqual compares two values for equality
func compareEqual(a, b interface{}) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}

	// Numeric comparison goes through float64 so int and int64 compare
	if isNumeric(a) && isNumeric(b) {
		return toFloat64(a) == toFloat64(b)
	}

	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

// compareOrdered applies one of the ordering operators; non-numeric
// operands never match
func compareOrdered(a, b interface{}, op string) bool {
	if !isNumeric(a) || !isNumeric(b) {
		return false
	}

	av, bv := toFloat64(a), toFloat64(b)
	switch op {
	case ">":
		return av > bv
	case ">=":
		return av >= bv
	case "<":
		return av < bv
	case "<=":
		return av <= bv
	default:
		return false
	}
}

// compareIn checks if a is in the list b
func compareIn(a, b interface{}) bool {
	list, ok := b.([]interface{})
	if !ok {
		return false
	}

	for _, item := range list {
		if compareEqual(a, item) {
			return true
		}
	}
	return false
}

// compareBetween checks if a is between b[0] and b[1] inclusive
func compareBetween(a, b interface{}) bool {
	var min, max interface{}

	switch v := b.(type) {
	case [2]interface{}:
		min, max = v[0], v[1]
	case []interface{}:
		if len(v) != 2 {
			return false
		}
		min, max = v[0], v[1]
	default:
		return false
	}

	if !isNumeric(a) || !isNumeric(min) || !isNumeric(max) {
		return false
	}

	av := toFloat64(a)
	return av >= toFloat64(min) && av <= toFloat64(max)
}

// isNumeric checks if a value is numeric
func isNumeric(v interface{}) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}

// toFloat64 converts a numeric value to float64
func toFloat64(v interface{}) float64 {
	switch val := v.(type) {
	case int:
		return float64(val)
	case int8:
		return float64(val)
	case int16:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case uint:
		return float64(val)
	case uint8:
		return float64(val)
	case uint16:
		return float64(val)
	case uint32:
		return float64(val)
	case uint64:
		return float64(val)
	case float32:
		return float64(val)
	case float64:
		return val
	default:
		return 0
	}
}

// ApplyQuery filters rows based on query conditions
func ApplyQuery(rows []*Row, query Query) []*Row {
	var results []*Row

	for _, row := range rows {
		if row.MatchesQuery(query) {
			results = append(results, row)
		}
	}

	if query.Offset > 0 && query.Offset < len(results) {
		results = results[query.Offset:]
	} else if query.Offset >= len(results) && query.Offset > 0 {
		return []*Row{}
	}

	if query.Limit > 0 && query.Limit < len(results) {
		results = results[:query.Limit]
	}

	return results
}

// ValidateQuery validates query structure
func ValidateQuery(query Query) error {
	validOps := map[string]bool{
		"==": true, "!=": true, ">": true, ">=": true,
		"<": true, "<=": true, "in": true, "between": true,
	}

	for i, cond := range query.Conditions {
		if !validOps[cond.Operator] {
			return fmt.Errorf("invalid operator '%s' in condition %d", cond.Operator, i)
		}

		if cond.Operator == "in" {
			if _, ok := cond.Value.([]interface{}); !ok {
				return fmt.Errorf("operator 'in' requires []interface{} value in condition %d", i)
			}
		}

		if cond.Operator == "between" {
			valid := false
			switch v := cond.Value.(type) {
			case [2]interface{}:
				valid = true
			case []interface{}:
				if len(v) == 2 {
					valid = true
				}
			}
			if !valid {
				return fmt.Errorf("operator 'between' requires [2]interface{} or []interface{} with 2 elements in condition %d", i)
			}
		}

		if cond.Column == "" {
			return fmt.Errorf("empty column name in condition %d", i)
		}
	}

	if query.Limit < 0 {
		return fmt.Errorf("limit must be non-negative")
	}
	if query.Offset < 0 {
		return fmt.Errorf("offset must be non-negative")
	}

	return nil
}
