package nex

import (
	"time"

	"github.com/danmuck/nexrmc/internal/protocol/tree"
)

// DateTime is the packed NEX calendar value:
// year<<26 | month<<22 | day<<17 | hour<<12 | minute<<6 | second.
type DateTime uint64

func NewDateTime(t time.Time) DateTime {
	t = t.UTC()
	return DateTime(uint64(t.Year())<<26 |
		uint64(t.Month())<<22 |
		uint64(t.Day())<<17 |
		uint64(t.Hour())<<12 |
		uint64(t.Minute())<<6 |
		uint64(t.Second()))
}

func (d DateTime) Year() int { return int(d >> 26) }
func (d DateTime) Month() int { return int(d>>22) & 0xF }
func (d DateTime) Day() int { return int(d>>17) & 0x1F }
func (d DateTime) Hour() int { return int(d>>12) & 0x1F }
func (d DateTime) Minute() int { return int(d>>6) & 0x3F }
func (d DateTime) Second() int { return int(d) & 0x3F }

// Time unpacks d as UTC. The zero value maps to the zero time.
func (d DateTime) Time() time.Time {
	if d == 0 {
		return time.Time{}
	}
	return time.Date(d.Year(), time.Month(d.Month()), d.Day(), d.Hour(), d.Minute(), d.Second(), 0, time.UTC)
}

func (d DateTime) Tree() tree.Node {
	return tree.Leaf(tree.TypeDateTime, uint64(d))
}
