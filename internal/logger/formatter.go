package logger

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"gold-catalog/internal/utils"
)

// buildLogEntry wraps one line in the Loki push API shape.
func buildLogEntry(job, level, message string, attrs []slog.Attr) map[string]any {
	now := time.Now()
	return map[string]any{
		"streams": []map[string]any{
			{
				"stream": map[string]string{
					"level": level,
					"job":   job,
					"host":  utils.GetHost(),
				},
				"values": [][]string{
					{strconv.FormatInt(now.UnixNano(), 10), buildLogLine(now, level, message, attrs)},
				},
			},
		},
	}
}

func buildLogLine(now time.Time, level, message string, attrs []slog.Attr) string {
	line := map[string]any{
		"level":   level,
		"message": message,
		"time":    now.Format(time.RFC3339),
	}
	for _, attr := range attrs {
		line[attr.Key] = attr.Value.Any()
	}

	b, _ := json.Marshal(line)
	return string(b)
}
