package disk

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned where the host has no per-device counters.
var ErrUnsupported = errors.New("disk counters are not supported on this platform")

// Counters holds the cumulative completed I/O counts for one block device.
type Counters struct {
	Name            string
	ReadsCompleted  uint64
	WritesCompleted uint64
}

// Delta returns how far the counters advanced from before to c.
// Counters that went backwards (device reset) report zero.
func (c Counters) Delta(before Counters) Counters {
	return Counters{
		Name:            c.Name,
		ReadsCompleted:  safeSub(c.ReadsCompleted, before.ReadsCompleted),
		WritesCompleted: safeSub(c.WritesCompleted, before.WritesCompleted),
	}
}

func (c Counters) String() string {
	return fmt.Sprintf("%s: reads=%d writes=%d", c.Name, c.ReadsCompleted, c.WritesCompleted)
}

func safeSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}
