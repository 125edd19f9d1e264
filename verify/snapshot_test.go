package verify

import (
	"os"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"hurracloud.io/diskcheck/disk"
)

func TestCaptureStats(t *testing.T) {
	f := newFixture(t)
	v, _ := f.verifier(linuxHost, newFakeRunner())

	snap, err := v.CaptureStats("sda")
	require.NoError(t, err)

	assert.True(t, snap.SystemLine.Valid)
	assert.Equal(t, f.paths.DiskStats, snap.SystemLine.Source)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(snap.SystemLine.Text), "8       0 sda 12345"))
	assert.NotContains(t, snap.SystemLine.Text, "sda1")

	assert.True(t, snap.DeviceStat.Valid)
	assert.Equal(t, sdaStatFixture, snap.DeviceStat.Text)
	assert.Nil(t, snap.Counters)
}

func TestCaptureStatsFirstMatch(t *testing.T) {
	f := newFixture(t)
	f.write(t, f.paths.DiskStats, "   8 0 sda 1 2 3\n   8 0 sda 4 5 6\n")
	v, _ := f.verifier(linuxHost, newFakeRunner())

	snap, err := v.CaptureStats("sda")
	require.NoError(t, err)
	assert.Equal(t, "   8 0 sda 1 2 3", snap.SystemLine.Text)
}

func TestCaptureStatsMissingLine(t *testing.T) {
	f := newFixture(t)
	f.write(t, f.paths.StatFile("sdb"), "1 2 3\n")
	v, _ := f.verifier(linuxHost, newFakeRunner())

	snap, err := v.CaptureStats("sdb")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, snap.SystemLine.Valid)
	assert.True(t, snap.DeviceStat.Valid)
}

func TestCaptureStatsMissingStatFile(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.Remove(f.paths.StatFile("sda")))
	v, _ := f.verifier(linuxHost, newFakeRunner())

	snap, err := v.CaptureStats("sda")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnreadable))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.True(t, snap.SystemLine.Valid)
	assert.False(t, snap.DeviceStat.Valid)
}

func TestCaptureStatsUnsupported(t *testing.T) {
	f := newFixture(t)
	v, _ := f.verifier(Unsupported{OS: "darwin"}, newFakeRunner())

	snap, err := v.CaptureStats("sda")
	assert.True(t, IsSkipped(err))
	assert.False(t, snap.SystemLine.Valid)
	assert.False(t, snap.DeviceStat.Valid)
	assert.Empty(t, f.reads)
}

func TestCaptureStatsCounters(t *testing.T) {
	f := newFixture(t)
	v, _ := f.verifier(linuxHost, newFakeRunner())
	v.Counters = func(device string) (*disk.Counters, error) {
		return &disk.Counters{Name: device, ReadsCompleted: 12345}, nil
	}

	snap, err := v.CaptureStats("sda")
	require.NoError(t, err)
	require.NotNil(t, snap.Counters)
	assert.Equal(t, uint64(12345), snap.Counters.ReadsCompleted)
}

func TestCaptureStatsCountersErrorIgnored(t *testing.T) {
	f := newFixture(t)
	v, _ := f.verifier(linuxHost, newFakeRunner())
	v.Counters = func(string) (*disk.Counters, error) { return nil, disk.ErrUnsupported }

	snap, err := v.CaptureStats("sda")
	require.NoError(t, err)
	assert.Nil(t, snap.Counters)
}

func TestVerifyChanged(t *testing.T) {
	blob := func(source, text string) Blob { return Blob{Source: source, Text: text, Valid: true} }
	snapshot := func(system, device string) Snapshot {
		return Snapshot{
			SystemLine: blob("/proc/diskstats", system),
			DeviceStat: blob("/sys/block/sda/stat", device),
		}
	}

	cases := []struct {
		name      string
		baseline  Snapshot
		end       Snapshot
		unchanged []string
	}{
		{"both_changed", snapshot("a", "b"), snapshot("a2", "b2"), nil},
		{"system_unchanged", snapshot("a", "b"), snapshot("a", "b2"), []string{"/proc/diskstats"}},
		{"device_unchanged", snapshot("a", "b"), snapshot("a2", "b"), []string{"/sys/block/sda/stat"}},
		{"both_unchanged", snapshot("a", "b"), snapshot("a", "b"), []string{"/proc/diskstats", "/sys/block/sda/stat"}},
		{"whitespace_counts", snapshot("a", "b"), snapshot("a ", "b\n"), nil},
	}

	v := New(linuxHost, newFakeRunner())
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := v.VerifyChanged(c.baseline, c.end)
			if len(c.unchanged) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrStatsUnchanged))
			for _, source := range c.unchanged {
				assert.Contains(t, err.Error(), "Stats in "+source+" did not change")
			}
			assert.Equal(t, len(c.unchanged), strings.Count(err.Error(), "did not change"))
		})
	}
}

func TestVerifyChangedSkipsUncaptured(t *testing.T) {
	v := New(linuxHost, newFakeRunner())
	captured := Snapshot{
		SystemLine: Blob{Source: "/proc/diskstats", Text: "x", Valid: true},
		DeviceStat: Blob{Source: "/sys/block/sda/stat"},
	}

	// Only the system line pair is compared.
	err := v.VerifyChanged(captured, captured)
	assert.True(t, errors.Is(err, ErrStatsUnchanged))
	assert.NotContains(t, err.Error(), "/sys/block/sda/stat")

	err = v.VerifyChanged(Snapshot{}, Snapshot{})
	assert.True(t, IsSkipped(err))
}
