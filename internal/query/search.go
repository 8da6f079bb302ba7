// Package query implements the free-text and tolerance search applied to
// record listings before pagination.
package query

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// Numeric tolerance bands for token search.
const (
	ItemsTolerance = 10
	MoneyTolerance = 1000
)

var folder = cases.Fold()

func fold(s string) string {
	return folder.String(s)
}

// Match reports whether the query is a case-insensitive substring of the
// string form of any field of record. An empty query matches everything.
func Match(record any, query string) bool {
	if query == "" {
		return true
	}
	needle := fold(query)

	v := reflect.ValueOf(record)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return strings.Contains(fold(fmt.Sprint(record)), needle)
	}
	for i := 0; i < v.NumField(); i++ {
		if !v.Type().Field(i).IsExported() {
			continue
		}
		if strings.Contains(fold(fmt.Sprint(v.Field(i).Interface())), needle) {
			return true
		}
	}
	return false
}

// Filter keeps the records matching the query.
func Filter[T any](records []T, query string) []T {
	if query == "" {
		return records
	}
	out := make([]T, 0, len(records))
	for _, r := range records {
		if Match(r, query) {
			out = append(out, r)
		}
	}
	return out
}

// NumericField pairs a record figure with its tolerance band.
type NumericField struct {
	Value     float64
	Tolerance float64
}

// MatchTokens splits the query on whitespace and requires every token to hit:
// either a substring of name, or, when the token parses as a number, a numeric
// field within its tolerance band.
func MatchTokens(name string, fields []NumericField, query string) bool {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return true
	}
	foldedName := fold(name)
	for _, token := range tokens {
		if strings.Contains(foldedName, fold(token)) {
			continue
		}
		n, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return false
		}
		hit := false
		for _, f := range fields {
			if math.Abs(f.Value-n) <= f.Tolerance {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}
