package aggregators

import (
	"strconv"

	"weblog-analytics/internal/models"

	"github.com/mileusna/useragent"
)

// KeyFunc extracts the grouping key from a record. Keys compare by exact
// string equality.
type KeyFunc func(*models.LogRecord) string

func KeyStatusCode(record *models.LogRecord) string {
	return strconv.Itoa(record.StatusCode)
}

func KeyPath(record *models.LogRecord) string {
	return record.Path
}

func KeyClientAddress(record *models.LogRecord) string {
	return record.ClientAddress
}

func KeyUserAgent(record *models.LogRecord) string {
	return record.UserAgent
}

// KeyUserAgentFamily folds raw user agent strings down to a browser or tool
// family, so "Chrome 124 on Windows" and "Chrome 125 on macOS" group
// together. Agents the parser cannot name keep their raw value; no traffic
// disappears from the grouping.
func KeyUserAgentFamily(record *models.LogRecord) string {
	parsed := useragent.Parse(record.UserAgent)
	if parsed.Name == "" {
		return record.UserAgent
	}
	return parsed.Name
}
