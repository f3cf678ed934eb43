package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// FlexTime parses a timestamp from JSON as either date-only
// ("2006-01-02") or RFC3339. Date-only is stored as start of that day
// in UTC.
type FlexTime struct{ t *time.Time }

func (d *FlexTime) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		d.t = nil
		return nil
	}
	s := strings.TrimSpace(*raw)
	layouts := []string{
		"2006-01-02",     // date only
		time.RFC3339,     // 2006-01-02T15:04:05Z07:00
		time.RFC3339Nano, // with nanoseconds
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			// If it was date-only (no time component), use start of day UTC
			if layout == "2006-01-02" {
				parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
			}
			d.t = &parsed
			return nil
		}
	}
	return fmt.Errorf("use date (YYYY-MM-DD) or RFC3339 datetime")
}

// Ptr returns *time.Time for use in service/domain.
func (d FlexTime) Ptr() *time.Time { return d.t }
