package parsers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"weblog-analytics/internal/models"
)

// The fixed input schema: clientAddress,timestamp,path,statusCode,userAgent.
const (
	schemaFieldCount = 5

	fieldClientAddress = 0
	fieldTimestamp     = 1
	fieldPath          = 2
	fieldStatusCode    = 3
	fieldUserAgent     = 4
)

const (
	minStatusCode = 100
	maxStatusCode = 599
)

// LineParser converts one raw delimited line into a validated LogRecord.
// Parsing is pure: the parser holds no per-source state, accumulates nothing,
// and the same line always yields the same result.
type LineParser struct {
	delimiter string
}

func NewLineParser(delimiter string) *LineParser {
	return &LineParser{delimiter: delimiter}
}

// Parse validates rawLine against the fixed schema. On failure it returns a
// *RejectError naming the first violated rule; field values are trimmed of
// surrounding whitespace before validation.
func (p *LineParser) Parse(rawLine string) (*models.LogRecord, error) {
	fields := strings.Split(rawLine, p.delimiter)
	if len(fields) != schemaFieldCount {
		return nil, &RejectError{
			Reason: RejectFieldCount,
			Detail: fmt.Sprintf("got %d fields, want %d", len(fields), schemaFieldCount),
		}
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	statusCode, err := strconv.Atoi(fields[fieldStatusCode])
	if err != nil {
		return nil, &RejectError{
			Reason: RejectInvalidStatus,
			Detail: fmt.Sprintf("status %q is not an integer", fields[fieldStatusCode]),
		}
	}
	if statusCode < minStatusCode || statusCode > maxStatusCode {
		return nil, &RejectError{
			Reason: RejectInvalidStatus,
			Detail: fmt.Sprintf("status %d outside [%d, %d]", statusCode, minStatusCode, maxStatusCode),
		}
	}

	timestamp := fields[fieldTimestamp]
	if !isCanonicalTimestamp(timestamp) {
		return nil, &RejectError{
			Reason: RejectInvalidTimestamp,
			Detail: fmt.Sprintf("timestamp %q does not match %q", timestamp, models.TimestampLayout),
		}
	}

	if fields[fieldClientAddress] == "" {
		return nil, &RejectError{Reason: RejectEmptyField, Detail: "clientAddress is empty"}
	}
	if fields[fieldPath] == "" {
		return nil, &RejectError{Reason: RejectEmptyField, Detail: "path is empty"}
	}

	return &models.LogRecord{
		ClientAddress: fields[fieldClientAddress],
		Timestamp:     timestamp,
		Path:          fields[fieldPath],
		StatusCode:    statusCode,
		UserAgent:     fields[fieldUserAgent],
	}, nil
}

// IsHeader reports whether the line looks like the schema header: exactly the
// schema field count with a non-numeric status column. The ingestor applies
// it to the first line of each source only.
func (p *LineParser) IsHeader(rawLine string) bool {
	fields := strings.Split(rawLine, p.delimiter)
	if len(fields) != schemaFieldCount {
		return false
	}
	_, err := strconv.Atoi(strings.TrimSpace(fields[fieldStatusCode]))
	return err != nil
}

// isCanonicalTimestamp enforces the exact lexicographically-sortable layout.
// time.Parse alone accepts variants like "2024-1-2 3:04:05", so the parsed
// value is reformatted and compared to reject non-canonical spellings.
func isCanonicalTimestamp(value string) bool {
	if len(value) != models.TimestampLen {
		return false
	}
	parsed, err := time.Parse(models.TimestampLayout, value)
	if err != nil {
		return false
	}
	return parsed.Format(models.TimestampLayout) == value
}
