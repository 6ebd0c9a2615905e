package repository

import "encoding/json"

// mustJSON encodes a value for a jsonb column written through a map update,
// where GORM's serializer tag does not apply.
func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}
