package models

// TimestampLayout is the canonical record timestamp format. It is
// lexicographically sortable, so time bucketing reduces to prefix truncation.
const TimestampLayout = "2006-01-02 15:04:05"

// TimestampLen is the byte length of a canonical timestamp.
const TimestampLen = len(TimestampLayout)

// LogRecord is one validated HTTP access event.
//
// Records are only constructed by the parser and never mutated afterwards;
// raw lines that fail validation never become records. Timestamp is kept in
// its canonical string form rather than a time.Time because every consumer
// (partition routing, time bucketing, partition export) works on the string.
type LogRecord struct {
	ClientAddress string
	Timestamp     string
	Path          string
	StatusCode    int
	UserAgent     string
}
