package verify

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

// CheckEnumeratedInPartitionsTable fails with NotFound unless the device is
// listed in the partitions table.
func (v *Verifier) CheckEnumeratedInPartitionsTable(device string) error {
	return v.checkTable(v.Paths.Partitions, device)
}

// CheckEnumeratedInStatsTable fails with NotFound unless the device is
// listed in the systemwide disk statistics table.
func (v *Verifier) CheckEnumeratedInStatsTable(device string) error {
	return v.checkTable(v.Paths.DiskStats, device)
}

func (v *Verifier) checkTable(path, device string) error {
	if !v.Platform.KernelStatSurfaces() {
		return skipped("%s is not available on %s", path, v.Platform.Name())
	}
	data, err := v.readFile(path)
	if err != nil {
		return &CheckError{Kind: CommandFailed, Device: device, Surface: path, Err: err}
	}
	if !wholeWord(device).Match(data) {
		return &CheckError{Kind: NotFound, Device: device, Surface: path}
	}
	return nil
}

// CheckBlockDeviceDirectoryExists lists the block device tree and fails with
// NotFound unless an entry is the device, optionally with a trailing qualifier.
func (v *Verifier) CheckBlockDeviceDirectoryExists(ctx context.Context, device string) error {
	root := v.Paths.SysBlock
	if !v.Platform.KernelStatSurfaces() {
		return skipped("%s is not available on %s", root, v.Platform.Name())
	}
	out, err := v.Runner.Run(ctx, "ls", "-1", root)
	if err != nil {
		return &CheckError{Kind: NotFound, Device: device, Surface: root, Err: err}
	}
	for _, entry := range strings.Fields(string(out)) {
		if strings.HasPrefix(entry, device) {
			return nil
		}
	}
	return &CheckError{Kind: NotFound, Device: device, Surface: root}
}

// CheckStatsFileReadable fails with Unreadable if the per-device statistics
// file cannot be sized.
func (v *Verifier) CheckStatsFileReadable(ctx context.Context, device string) error {
	path := v.Paths.StatFile(device)
	if !v.Platform.KernelStatSurfaces() {
		return skipped("%s is not available on %s", path, v.Platform.Name())
	}
	dir := strings.TrimSuffix(path, "stat")
	out, err := v.Runner.Run(ctx, "stat", "-c", "%s", path)
	if err != nil {
		return &CheckError{Kind: Unreadable, Device: device, Surface: dir, Err: err}
	}
	size, err := strconv.ParseInt(strings.TrimSpace(string(out)), 10, 64)
	if err != nil {
		return &CheckError{Kind: Unreadable, Device: device, Surface: dir, Err: err}
	}
	v.logger().Debugf("%s reports size %d", path, size)
	return nil
}

// GenerateActivity reads from the raw device to move its counters. It is
// best effort: failures are logged and otherwise ignored.
func (v *Verifier) GenerateActivity(ctx context.Context, device string) {
	if !v.Platform.KernelStatSurfaces() {
		v.logger().Infof("Not generating activity on %s", v.Platform.Name())
		return
	}
	if _, err := v.Runner.Run(ctx, "hdparm", "-t", v.Paths.DeviceFile(device)); err != nil {
		v.logger().Debugf("Ignoring hdparm failure: %v", err)
	}
}

func wholeWord(device string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(device) + `\b`)
}
