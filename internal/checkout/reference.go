package checkout

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultReferencePrefix is used when NewReferenceID is called with an empty prefix
const DefaultReferencePrefix = "ORDER"

// IDGenerator builds collision-resistant identifiers from a clock and a random source
type IDGenerator struct {
	Now    func() time.Time
	Random func() string
}

var defaultIDs = IDGenerator{}

// NewReferenceID returns <prefix>_<unix seconds>_<random hex>
func NewReferenceID(prefix string) string {
	return defaultIDs.Reference(prefix)
}

// Reference returns <prefix>_<unix seconds>_<random hex>
func (g IDGenerator) Reference(prefix string) string {
	if prefix == "" {
		prefix = DefaultReferencePrefix
	}

	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	random := randomHex
	if g.Random != nil {
		random = g.Random
	}

	return fmt.Sprintf("%s_%d_%s", prefix, now().Unix(), random())
}

// randomHex returns 16 hex characters taken from a random UUID
func randomHex() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}
