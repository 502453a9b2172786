package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Swind/go-sched-launcher/platform/fake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runApp(t *testing.T, args ...string) (code int, stdout, stderr string, plat *fake.Platform) {
	t.Helper()
	plat = fake.New()
	var out, errOut bytes.Buffer
	code = run(append([]string{appName}, args...), plat, &out, &errOut)
	plat.WaitAll()
	return code, out.String(), errOut.String(), plat
}

func nonEmptyLines(s string) []string {
	var lines []string
	for _, l := range strings.Split(s, "\n") {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// TestRun_EndToEnd tests the documented two-thread scenario
// Given: -n 2 -t 0.01 -s N,F -p -1,10
// When: the command runs
// Then: exit code 0, 6 progress lines (3 per thread), nothing on stderr
func TestRun_EndToEnd(t *testing.T) {
	start := time.Now()
	code, stdout, stderr, plat := runApp(t, "-n", "2", "-t", "0.01", "-s", "N,F", "-p", "-1,10")
	elapsed := time.Since(start)

	require.Equal(t, 0, code, "stderr: %s", stderr)
	assert.Empty(t, stderr)

	lines := nonEmptyLines(stdout)
	require.Len(t, lines, 6)
	counts := map[string]int{}
	for _, l := range lines {
		counts[l]++
	}
	assert.Equal(t, 3, counts["Thread 0 is running"])
	assert.Equal(t, 3, counts["Thread 1 is running"])

	assert.Equal(t, 2, plat.Created())
	// Each worker spins 3 x 10ms; the fake runs them on separate cores.
	assert.GreaterOrEqual(t, elapsed, 30*time.Millisecond)
}

// TestRun_LongFlagNames tests that the long flag names are equivalent to the short ones
func TestRun_LongFlagNames(t *testing.T) {
	code, stdout, stderr, _ := runApp(t, "--threads", "1", "--time", "0", "--policies", "F", "--priorities", "50")

	require.Equal(t, 0, code, "stderr: %s", stderr)
	assert.Len(t, nonEmptyLines(stdout), 3)
}

// TestRun_FlagOrderIndependent tests that -s/-p may precede -n
func TestRun_FlagOrderIndependent(t *testing.T) {
	code, stdout, stderr, _ := runApp(t, "-s", "N,N,N", "-p", "-1,-1,-1", "-t", "0", "-n", "3")

	require.Equal(t, 0, code, "stderr: %s", stderr)
	assert.Len(t, nonEmptyLines(stdout), 9)
}

// TestRun_UnknownFlag tests the fatal path for an unrecognized flag
// Given: an unknown -z flag
// When: the command runs
// Then: non-zero exit, a single usage line on stderr and no thread created
func TestRun_UnknownFlag(t *testing.T) {
	code, stdout, stderr, plat := runApp(t, "-z", "-n", "1", "-t", "0", "-s", "N", "-p", "-1")

	assert.NotEqual(t, 0, code)
	assert.Empty(t, stdout)
	lines := nonEmptyLines(stderr)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "usage: schedlaunch -n <num_threads>")
	assert.Equal(t, 0, plat.Created())
}

func TestRun_MissingRequiredFlags(t *testing.T) {
	code, _, stderr, plat := runApp(t, "-n", "1", "-t", "0")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "missing required flags: policies, priorities")
	assert.Contains(t, stderr, "usage:")
	assert.Equal(t, 0, plat.Created())
}

func TestRun_ListLengthMismatch(t *testing.T) {
	code, stdout, stderr, plat := runApp(t, "-n", "3", "-t", "0", "-s", "N,F", "-p", "-1,10")

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	require.Len(t, nonEmptyLines(stderr), 1)
	assert.Contains(t, stderr, "invalid launch configuration")
	assert.Contains(t, stderr, "got 2 policies for 3 threads")
	assert.Equal(t, 0, plat.Created())
}

func TestRun_MalformedPriority(t *testing.T) {
	code, _, stderr, _ := runApp(t, "-n", "1", "-t", "0", "-s", "N", "-p", "ten")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `"ten" is not an integer`)
}

// TestRun_PlatformRejectsPriority tests that a policy/priority pair refused by
// the platform aborts the launch with one diagnostic naming the operation
func TestRun_PlatformRejectsPriority(t *testing.T) {
	code, stdout, stderr, _ := runApp(t, "-n", "2", "-t", "0", "-s", "N,F", "-p", "-1,-1")

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout, "no partial results")
	lines := nonEmptyLines(stderr)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "thread create (thread 1)")
}

func TestRun_MetricsOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.prom")
	code, _, stderr, _ := runApp(t, "-n", "1", "-t", "0", "-s", "N", "-p", "-1", "--metrics-out", path)

	require.Equal(t, 0, code, "stderr: %s", stderr)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `schedlauncher_threads_created_total{policy="time_shared"} 1`)
}

func TestRun_DebugLogging(t *testing.T) {
	code, stdout, stderr, _ := runApp(t, "-n", "1", "-t", "0", "-s", "N", "-p", "-1", "--log-level", "debug")

	require.Equal(t, 0, code)
	assert.Len(t, nonEmptyLines(stdout), 3, "logs must not reach stdout")
	assert.Contains(t, stderr, "workers released")
	assert.Contains(t, stderr, "thread joined")
}

func TestRun_InvalidLogLevel(t *testing.T) {
	code, _, stderr, plat := runApp(t, "-n", "1", "-t", "0", "-s", "N", "-p", "-1", "--log-level", "loud")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "log level")
	assert.Equal(t, 0, plat.Created())
}
