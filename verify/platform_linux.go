//go:build linux
// +build linux

package verify

import (
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

func detectPlatform(goos string) PlatformSupport {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		log.Debugf("uname failed: %v", err)
		return SupportsKernelStatSurfaces{}
	}
	return SupportsKernelStatSurfaces{Kernel: unix.ByteSliceToString(uts.Release[:])}
}
