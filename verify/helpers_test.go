package verify

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

const partitionsFixture = `major minor  #blocks  name

   8        0  500107608 sda
   8        1     524288 sda1
   8        2  499582279 sda2
  11        0    1048575 sr0
`

const diskstatsFixture = `   7       0 loop0 52 0 2104 13 0 0 0 0 0 28 13 0 0 0 0 0 0
   8       0 sda 12345 100 2345678 9000 6789 200 345678 4000 0 12000 13000 0 0 0 0 0 0
   8       1 sda1 210 0 10240 41 2 0 16 0 0 60 41 0 0 0 0 0 0
   8       2 sda2 12003 100 2333390 8940 6787 200 345662 4000 0 11900 12940 0 0 0 0 0 0
  11       0 sr0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0
`

const sdaStatFixture = "   12345      100  2345678     9000     6789      200   345678     4000        0    12000    13000        0        0        0        0        0        0\n"

type call struct {
	name string
	args []string
}

type fakeResult struct {
	out string
	err error
	// hook runs before the result is returned.
	hook func()
}

// fakeRunner answers commands by name and records every invocation.
type fakeRunner struct {
	results map[string]fakeResult
	calls   []call
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{results: map[string]fakeResult{}}
}

func (f *fakeRunner) on(name string, r fakeResult) *fakeRunner {
	f.results[name] = r
	return f
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, call{name: name, args: args})
	r, ok := f.results[name]
	if !ok {
		return nil, errors.Errorf("%s: executable file not found in $PATH", name)
	}
	if r.hook != nil {
		r.hook()
	}
	return []byte(r.out), r.err
}

func (f *fakeRunner) called(name string) []call {
	var calls []call
	for _, c := range f.calls {
		if c.name == name {
			calls = append(calls, c)
		}
	}
	return calls
}

// fixture is a fake /proc and /sys/block tree under a temp dir.
type fixture struct {
	paths Paths
	reads []string
	naps  []time.Duration
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{paths: Paths{
		Partitions: filepath.Join(dir, "proc", "partitions"),
		DiskStats:  filepath.Join(dir, "proc", "diskstats"),
		SysBlock:   filepath.Join(dir, "sys", "block"),
		Dev:        "/dev",
	}}
	f.write(t, f.paths.Partitions, partitionsFixture)
	f.write(t, f.paths.DiskStats, diskstatsFixture)
	f.write(t, f.paths.StatFile("sda"), sdaStatFixture)
	return f
}

func (f *fixture) write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// advance rewrites the sda counters as if a read had completed.
func (f *fixture) advance(t *testing.T) {
	f.write(t, f.paths.DiskStats, strings.Replace(diskstatsFixture, "sda 12345", "sda 12409", 1))
	f.write(t, f.paths.StatFile("sda"), strings.Replace(sdaStatFixture, "12345", "12409", 1))
}

func (f *fixture) verifier(platform PlatformSupport, runner Runner) (*Verifier, *logtest.Hook) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(log.DebugLevel)
	v := New(platform, runner)
	v.Paths = f.paths
	v.Log = logger
	v.ReadFile = func(path string) ([]byte, error) {
		f.reads = append(f.reads, path)
		return os.ReadFile(path)
	}
	v.Sleep = func(d time.Duration) { f.naps = append(f.naps, d) }
	return v, hook
}

var linuxHost = SupportsKernelStatSurfaces{Kernel: "6.1.0-test"}

func hasMessage(hook *logtest.Hook, msg string) bool {
	for _, e := range hook.AllEntries() {
		if strings.Contains(e.Message, msg) {
			return true
		}
	}
	return false
}
