package order

import (
	"fmt"
	"math/rand"
	"time"
)

// NumberGenerator builds human facing order numbers of the form
// ORD-YYYYMMDD-N with N in [0, 9999]. Numbers are not globally unique;
// the orderNumber index rejects collisions and the caller retries.
type NumberGenerator struct {
	Now    func() time.Time
	Random func(n int) int
}

func NewNumberGenerator() *NumberGenerator {
	return &NumberGenerator{
		Now:    func() time.Time { return time.Now().UTC() },
		Random: rand.Intn,
	}
}

func (g *NumberGenerator) Next() string {
	d := g.Now()
	return fmt.Sprintf("ORD-%04d%02d%02d-%d", d.Year(), int(d.Month()), d.Day(), g.Random(10000))
}
