package id

import (
	"strings"

	"github.com/google/uuid"
)

// Generator creates opaque identifiers.
type Generator interface {
	New() string
}

// TimeOrdered mints UUIDv7 values. They sort by creation time and stay
// unique within a single millisecond thanks to the v7 sequence counter.
type TimeOrdered struct{}

func (TimeOrdered) New() string {
	v, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return v.String()
}

var derivedSpace = uuid.MustParse("5b0f9a3e-8d2c-4e61-9c7a-2f4d6b8e1a03")

// Derived returns a name-based UUIDv5 over parts: equal parts always give
// the same id.
func Derived(parts ...string) string {
	return uuid.NewSHA1(derivedSpace, []byte(strings.Join(parts, "\x1f"))).String()
}
