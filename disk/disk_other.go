//go:build !linux
// +build !linux

package disk

// ReadCounters is only implemented on linux.
func ReadCounters(name string) (*Counters, error) {
	return nil, ErrUnsupported
}
