//go:build !linux
// +build !linux

package verify

func detectPlatform(goos string) PlatformSupport {
	return Unsupported{OS: goos}
}
