package importer

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// IDGenerator builds record IDs of the form <class><yyyyMMdd><6 digits>.
// Collisions are possible and are not retried; the primary key rejects them.
type IDGenerator struct {
	now  func() time.Time
	intn func(n int) int
	loc  *time.Location
}

// NewIDGenerator returns a generator that dates IDs in loc.
func NewIDGenerator(loc *time.Location) *IDGenerator {
	if loc == nil {
		loc = time.Local
	}
	return &IDGenerator{now: time.Now, intn: rand.IntN, loc: loc}
}

// Generate returns a new ID for a record of studentClass.
func (g *IDGenerator) Generate(studentClass string) string {
	return fmt.Sprintf("%s%s%06d", studentClass, g.now().In(g.loc).Format("20060102"), g.intn(1_000_000))
}
