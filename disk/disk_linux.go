//go:build linux
// +build linux

package disk

import (
	"fmt"

	osstat "github.com/mackerelio/go-osstat/disk"
	log "github.com/sirupsen/logrus"
)

// ReadCounters returns the /proc/diskstats counters for the named device.
func ReadCounters(name string) (*Counters, error) {
	stats, err := osstat.Get()
	if err != nil {
		return nil, err
	}
	for _, stat := range stats {
		if stat.Name != name {
			continue
		}
		log.Debugf("Found counters for %s: reads=%d writes=%d", name, stat.ReadsCompleted, stat.WritesCompleted)
		return &Counters{
			Name:            stat.Name,
			ReadsCompleted:  stat.ReadsCompleted,
			WritesCompleted: stat.WritesCompleted,
		}, nil
	}
	return nil, fmt.Errorf("device %s not listed in /proc/diskstats", name)
}
