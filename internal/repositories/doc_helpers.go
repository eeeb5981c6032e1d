package repositories

import (
	"time"

	"rewearBack/internal/store"
)

// Field extraction helpers. The remote store hands back untyped maps and
// numeric fields arrive as int, int64 or float64 depending on transport.

func stringField(data map[string]interface{}, field string) string {
	v, _ := data[field].(string)
	return v
}

func intField(data map[string]interface{}, field string) int {
	switch v := data[field].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func timeField(data map[string]interface{}, field string) time.Time {
	v, _ := data[field].(time.Time)
	return v
}

func stringSliceField(data map[string]interface{}, field string) []string {
	switch v := data[field].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func byCreatedAtDesc() store.Order {
	return store.Order{Field: "createdAt", Desc: true}
}
