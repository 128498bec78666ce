package ulid

import (
	"github.com/oklog/ulid/v2"
)

// NewULID generates a new ULID string. Job runs use it as their run ID.
var NewULID = func() string {
	return ulid.Make().String()
}
