package verify

import (
	"fmt"
	"runtime"
)

// PlatformSupport reports which kernel statistics surfaces a host exposes.
type PlatformSupport interface {
	Name() string
	// KernelStatSurfaces is true when /proc and /sys/block can be read.
	KernelStatSurfaces() bool
}

// SupportsKernelStatSurfaces is a host with the linux block statistics surfaces.
type SupportsKernelStatSurfaces struct {
	Kernel string
}

func (p SupportsKernelStatSurfaces) Name() string {
	if p.Kernel == "" {
		return "linux"
	}
	return fmt.Sprintf("linux %s", p.Kernel)
}

func (SupportsKernelStatSurfaces) KernelStatSurfaces() bool { return true }

// Unsupported is any other host. Surface checks are skipped on it.
type Unsupported struct {
	OS string
}

func (p Unsupported) Name() string { return p.OS }

func (Unsupported) KernelStatSurfaces() bool { return false }

// DetectPlatform picks the PlatformSupport for the running host.
func DetectPlatform() PlatformSupport {
	return detectPlatform(runtime.GOOS)
}

var (
	_ PlatformSupport = SupportsKernelStatSurfaces{}
	_ PlatformSupport = Unsupported{}
)
