package filter

import (
	"encoding/json"
	"strconv"

	"github.com/vburojevic/pomo/internal/events"
)

// Fields flattens an event payload into its top-level JSON fields, each
// rendered as a string. Nested objects are skipped.
func Fields(e events.Event) map[string]string {
	out := map[string]string{"type": e.Name}
	data, err := json.Marshal(e.Payload)
	if err != nil {
		return out
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return out
	}
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			out[k] = val
		case bool:
			out[k] = strconv.FormatBool(val)
		case float64:
			out[k] = strconv.FormatFloat(val, 'f', -1, 64)
		}
	}
	return out
}
