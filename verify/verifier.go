// Package verify checks that the kernel exposes and updates block device
// I/O statistics for a disk.
package verify

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"hurracloud.io/diskcheck/disk"
)

const (
	DefaultDevice       = "sda"
	DefaultSettle       = 5 * time.Second
	DefaultNVDIMMSuffix = "pmem"
)

// Check names as they appear in a Report.
const (
	CheckPartitions   = "proc_partitions"
	CheckDiskStats    = "proc_diskstats"
	CheckSysBlock     = "sys_block"
	CheckSysBlockStat = "sys_block_stat"
	CheckBaseline     = "baseline_capture"
	CheckEndCapture   = "end_capture"
	CheckChanged      = "stats_changed"
)

// Paths locates the kernel surfaces the checks read.
type Paths struct {
	Partitions string
	DiskStats  string
	SysBlock   string
	Dev        string
}

func DefaultPaths() Paths {
	return Paths{
		Partitions: "/proc/partitions",
		DiskStats:  "/proc/diskstats",
		SysBlock:   "/sys/block",
		Dev:        "/dev",
	}
}

// StatFile is the per-device statistics file.
func (p Paths) StatFile(device string) string {
	return filepath.Join(p.SysBlock, device, "stat")
}

func (p Paths) DeviceFile(device string) string {
	return filepath.Join(p.Dev, device)
}

// Verifier runs the disk statistics check. It holds only dependencies;
// everything captured during a run is passed between steps as values.
type Verifier struct {
	Platform     PlatformSupport
	Runner       Runner
	Paths        Paths
	Settle       time.Duration
	NVDIMMSuffix string
	Log          log.FieldLogger

	// ReadFile and Sleep default to os.ReadFile and time.Sleep.
	ReadFile func(string) ([]byte, error)
	Sleep    func(time.Duration)

	// Counters, when set, supplies decoded counters for an informational
	// delta line. It never affects the verdict.
	Counters func(device string) (*disk.Counters, error)
}

// New returns a Verifier with the default paths, wait and NVDIMM suffix.
func New(platform PlatformSupport, runner Runner) *Verifier {
	return &Verifier{
		Platform:     platform,
		Runner:       runner,
		Paths:        DefaultPaths(),
		Settle:       DefaultSettle,
		NVDIMMSuffix: DefaultNVDIMMSuffix,
		Log:          log.StandardLogger(),
		ReadFile:     os.ReadFile,
		Sleep:        time.Sleep,
	}
}

// IsNVDIMM reports whether device names a persistent memory device.
func (v *Verifier) IsNVDIMM(device string) bool {
	return v.NVDIMMSuffix != "" && strings.HasSuffix(device, v.NVDIMMSuffix)
}

// Run performs the whole check for device. Failures are recorded in the
// returned Report; Run itself never stops early except for NVDIMM devices.
func (v *Verifier) Run(ctx context.Context, device string) *Report {
	logger := v.logger().WithField("device", device)
	report := newReport(device, v.Platform.Name())

	if v.IsNVDIMM(device) {
		msg := fmt.Sprintf("Disk %s appears to be an NVDIMM, skipping", device)
		logger.Info(msg)
		report.skipAll(msg)
		return report
	}

	v.record(report, logger, CheckPartitions, v.CheckEnumeratedInPartitionsTable(device))
	v.record(report, logger, CheckDiskStats, v.CheckEnumeratedInStatsTable(device))
	v.record(report, logger, CheckSysBlock, v.CheckBlockDeviceDirectoryExists(ctx, device))
	v.record(report, logger, CheckSysBlockStat, v.CheckStatsFileReadable(ctx, device))

	baseline, err := v.CaptureStats(device)
	v.record(report, logger, CheckBaseline, err)

	v.GenerateActivity(ctx, device)
	v.wait(logger)

	end, err := v.CaptureStats(device)
	v.record(report, logger, CheckEndCapture, err)
	v.record(report, logger, CheckChanged, v.VerifyChanged(baseline, end))
	v.logCounterDelta(logger, baseline, end)

	report.finish()
	if report.Status == StatusPass {
		logger.Infof("PASS: Finished testing stats for %s", device)
	}
	return report
}

func (v *Verifier) record(report *Report, logger log.FieldLogger, name string, err error) {
	result := report.record(name, err)
	entry := logger.WithField("check", name)
	switch result.Status {
	case CheckSkip:
		entry.Infof("Skipped: %s", result.Detail)
	case CheckFail:
		entry.Errorf("Error: %s", result.Detail)
	default:
		entry.Debug("OK")
	}
}

func (v *Verifier) wait(logger log.FieldLogger) {
	if !v.Platform.KernelStatSurfaces() {
		return
	}
	logger.Debugf("Waiting %s for statistics to update", v.Settle)
	v.sleep(v.Settle)
}

func (v *Verifier) logCounterDelta(logger log.FieldLogger, baseline, end Snapshot) {
	if baseline.Counters == nil || end.Counters == nil {
		return
	}
	delta := end.Counters.Delta(*baseline.Counters)
	logger.Infof("Counters advanced: reads +%d, writes +%d", delta.ReadsCompleted, delta.WritesCompleted)
}

func (v *Verifier) logger() log.FieldLogger {
	if v.Log == nil {
		return log.StandardLogger()
	}
	return v.Log
}

func (v *Verifier) readFile(path string) ([]byte, error) {
	if v.ReadFile == nil {
		return os.ReadFile(path)
	}
	return v.ReadFile(path)
}

func (v *Verifier) sleep(d time.Duration) {
	if v.Sleep == nil {
		time.Sleep(d)
		return
	}
	v.Sleep(d)
}
