package logging

import (
	"fmt"
	"sort"
	"strings"
)

// eventSchema names the fields a structured log event must carry.
type eventSchema struct {
	Required []string
}

var schemas = map[string]eventSchema{
	"order_rejected":   {Required: []string{"order_id", "reason"}},
	"trade_matched":    {Required: []string{"buy_order_id", "sell_order_id", "price", "quantity"}},
	"signal_generated": {Required: []string{"lane", "kind", "confidence"}},
	"error_event":      {Required: []string{"error"}},
}

// KnownEvents returns every known event name, sorted, for documentation.
func KnownEvents() []string {
	names := make([]string, 0, len(schemas))
	for k := range schemas {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ValidateEvent reports whether fields carries every field schemas[event]
// requires. An unknown event name is always valid: the schema registry
// only constrains events it knows about.
func ValidateEvent(event string, fields map[string]interface{}) error {
	s, ok := schemas[event]
	if !ok {
		return nil
	}
	var missing []string
	for _, key := range s.Required {
		if _, exists := fields[key]; !exists {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("event %s missing fields: %s", event, strings.Join(missing, ","))
	}
	return nil
}
