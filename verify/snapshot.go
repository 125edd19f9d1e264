package verify

import (
	stderrors "errors"
	"fmt"
	"strings"

	"hurracloud.io/diskcheck/disk"
)

// Blob is opaque statistics text read from Source. An invalid Blob was not
// captured and is never compared.
type Blob struct {
	Source string
	Text   string
	Valid  bool
}

// Snapshot is the statistics captured at one point of a run.
type Snapshot struct {
	SystemLine Blob
	DeviceStat Blob

	Counters *disk.Counters
}

// CaptureStats reads the first whole-word line for device from the disk
// statistics table and the full per-device statistics file. Blobs that could
// not be read are left invalid and reported in the returned error.
func (v *Verifier) CaptureStats(device string) (Snapshot, error) {
	snap := Snapshot{
		SystemLine: Blob{Source: v.Paths.DiskStats},
		DeviceStat: Blob{Source: v.Paths.StatFile(device)},
	}
	if !v.Platform.KernelStatSurfaces() {
		return snap, skipped("statistics surfaces are not available on %s", v.Platform.Name())
	}

	var errs []error
	if data, err := v.readFile(snap.SystemLine.Source); err != nil {
		errs = append(errs, &CheckError{Kind: CommandFailed, Device: device, Surface: snap.SystemLine.Source, Err: err})
	} else if line, ok := firstMatchingLine(string(data), device); !ok {
		errs = append(errs, &CheckError{Kind: NotFound, Device: device, Surface: snap.SystemLine.Source})
	} else {
		snap.SystemLine.Text, snap.SystemLine.Valid = line, true
	}

	if data, err := v.readFile(snap.DeviceStat.Source); err != nil {
		errs = append(errs, &CheckError{Kind: Unreadable, Device: device, Surface: snap.DeviceStat.Source, Err: err})
	} else {
		snap.DeviceStat.Text, snap.DeviceStat.Valid = string(data), true
	}

	if v.Counters != nil {
		if c, err := v.Counters(device); err != nil {
			v.logger().Debugf("No counters for %s: %v", device, err)
		} else {
			snap.Counters = c
		}
	}
	return snap, stderrors.Join(errs...)
}

// VerifyChanged fails with StatsUnchanged when either blob is byte-identical
// between baseline and end. Pairs with an uncaptured side are not compared.
func (v *Verifier) VerifyChanged(baseline, end Snapshot) error {
	var errs []error
	compared := 0
	for _, pair := range [][2]Blob{
		{baseline.SystemLine, end.SystemLine},
		{baseline.DeviceStat, end.DeviceStat},
	} {
		before, after := pair[0], pair[1]
		if !before.Valid || !after.Valid {
			continue
		}
		compared++
		if before.Text == after.Text {
			errs = append(errs, &CheckError{
				Kind:    StatsUnchanged,
				Surface: before.Source,
				Detail:  fmt.Sprintf("%s\n%s", strings.TrimRight(before.Text, "\n"), strings.TrimRight(after.Text, "\n")),
			})
		}
	}
	if compared == 0 {
		if !v.Platform.KernelStatSurfaces() {
			return skipped("no statistics captured on %s", v.Platform.Name())
		}
		return skipped("no statistics captured to compare")
	}
	return stderrors.Join(errs...)
}

func firstMatchingLine(text, device string) (string, bool) {
	re := wholeWord(device)
	for _, line := range strings.Split(text, "\n") {
		if re.MatchString(line) {
			return line, true
		}
	}
	return "", false
}
