package character

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// IDGenerator returns a new 8-character character identifier.
type IDGenerator func() string

// TimestampID builds an id from the six low-order digits of the current
// millisecond timestamp followed by a zero-padded two-digit random number.
// Ids created in the same millisecond collide with probability 1/100; a
// collision fails the create with a unique violation.
func TimestampID() string {
	ms := time.Now().UnixMilli() % 1_000_000
	return fmt.Sprintf("%06d%02d", ms, rand.IntN(100))
}
