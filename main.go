package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/labstack/gommon/color"
	log "github.com/sirupsen/logrus"

	"hurracloud.io/diskcheck/disk"
	"hurracloud.io/diskcheck/verify"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config holds CLI configuration.
type Config struct {
	Device       string
	Settle       time.Duration
	NVDIMMSuffix string
	CmdTimeout   time.Duration
	JSON         bool
	NoColor      bool
	List         bool
	Debug        bool
	Version      bool
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	fs.StringVar(&cfg.Device, "device", verify.DefaultDevice, "Block device to test, e.g. sda")
	fs.DurationVar(&cfg.Settle, "settle", verify.DefaultSettle, "Wait between disk activity and the end capture")
	fs.StringVar(&cfg.NVDIMMSuffix, "nvdimm-suffix", verify.DefaultNVDIMMSuffix, "Device name suffix that marks a persistent memory device to skip")
	fs.DurationVar(&cfg.CmdTimeout, "cmd-timeout", 0, "Timeout for each external command (0 waits forever)")
	fs.BoolVar(&cfg.JSON, "json", false, "Print the report as JSON")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colorized output")
	fs.BoolVar(&cfg.List, "list", false, "List block devices and exit")
	fs.BoolVar(&cfg.Debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&cfg.Version, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	// `diskcheck sdb` = `diskcheck -device sdb`
	if rest := fs.Args(); len(rest) > 0 {
		if len(rest) > 1 {
			return cfg, fmt.Errorf("expected at most one device, got %v", rest)
		}
		cfg.Device = rest[0]
	}
	if cfg.Device == "" {
		return cfg, fmt.Errorf("device name must not be empty")
	}
	if cfg.Settle < 0 {
		return cfg, fmt.Errorf("settle must not be negative")
	}
	return cfg, nil
}

func listDevices(w io.Writer) error {
	devices, err := disk.List()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tSIZE\tREMOVABLE\tCONTROLLER\tPARTITIONS")
	for _, d := range devices {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%t\t%s\t%d\n", d.Name, d.Type, d.SizeBytes, d.Removable, d.Controller, len(d.Partitions))
	}
	return tw.Flush()
}

func run(cfg Config, stdout io.Writer) int {
	if cfg.Version {
		fmt.Fprintf(stdout, "diskcheck %s\n", Version)
		return 0
	}
	if cfg.List {
		if err := listDevices(stdout); err != nil {
			log.Errorf("Could not list block devices: %v", err)
			return 1
		}
		return 0
	}

	platform := verify.DetectPlatform()
	log.Debugf("Detected platform %s", platform.Name())

	v := verify.New(platform, verify.ExecRunner{Timeout: cfg.CmdTimeout})
	v.Settle = cfg.Settle
	v.NVDIMMSuffix = cfg.NVDIMMSuffix
	if platform.KernelStatSurfaces() && !v.IsNVDIMM(cfg.Device) {
		v.Counters = disk.ReadCounters
		if d, err := disk.Describe(cfg.Device); err != nil {
			log.Warnf("Could not describe %s: %v", cfg.Device, err)
		} else {
			log.Infof("Testing %s: %s, %d bytes, controller %s", d.DeviceFile, d.Type, d.SizeBytes, d.Controller)
		}
	}

	report := v.Run(context.Background(), cfg.Device)

	if cfg.JSON {
		out, err := report.JSON()
		if err != nil {
			log.Errorf("Could not render report: %v", err)
			return 1
		}
		fmt.Fprintln(stdout, string(out))
	} else {
		c := color.New()
		if cfg.NoColor {
			c.Disable()
		}
		verify.Render(stdout, report, c)
	}
	return report.ExitCode()
}

func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}
	os.Exit(run(cfg, os.Stdout))
}
