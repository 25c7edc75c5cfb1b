package systemcheck_test

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"github.com/pbnjay/memory"
	"github.com/tidwall/gjson"

	"github.com/A2-ai/systemcheck/pkg/report"
)

// Integration tests collect from the real host. Unit tests in each package
// cover edge cases against fixture filesystems; these verify end-to-end behavior.

func TestIntegration_CollectRealHost(t *testing.T) {
	r := report.Collect(os.DirFS("/"))

	if r.AvailableCPUs < 1 {
		t.Errorf("AvailableCPUs = %d, want >= 1", r.AvailableCPUs)
	}
	if r.Topology.LogicalCPUs < 1 {
		t.Errorf("LogicalCPUs = %d, want >= 1", r.Topology.LogicalCPUs)
	}
	if r.Topology.PhysicalCPUs < 1 {
		t.Errorf("PhysicalCPUs = %d, want >= 1", r.Topology.PhysicalCPUs)
	}

	if r.MemoryLimit == nil && r.MemoryConstrained() {
		t.Error("MemoryConstrained() = true without a memory limit")
	}
	if _, ok := r.UsagePercent(); ok && r.MemoryLimit == nil {
		t.Error("UsagePercent() reported without a memory limit")
	}

	if runtime.GOOS == "linux" {
		if r.Memory.TotalBytes == 0 {
			t.Error("Memory.TotalBytes = 0, want nonzero on linux")
		}
		if r.Memory.AvailableBytes == 0 {
			t.Error("Memory.AvailableBytes = 0, want nonzero on linux")
		}
		if r.KernelRelease == "" {
			t.Error("KernelRelease = \"\", want nonzero on linux")
		}
	}
}

func TestIntegration_TotalMemoryMatchesPlatform(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("meminfo parsing is linux-only")
	}

	r := report.Collect(os.DirFS("/"))
	platform := memory.TotalMemory()
	if r.Memory.TotalBytes == 0 || platform == 0 {
		t.Skip("total memory unavailable")
	}

	// Two independent reads of the same kernel figure: meminfo text vs the
	// sysinfo syscall. They must agree within rounding.
	diff := int64(r.Memory.TotalBytes) - int64(platform)
	if diff < 0 {
		diff = -diff
	}
	if diff > 1<<20 {
		t.Errorf("Memory.TotalBytes = %d, platform reports %d (diff %d bytes)",
			r.Memory.TotalBytes, platform, diff)
	}
}

func TestIntegration_CollectIdempotent(t *testing.T) {
	fsys := os.DirFS("/")
	a := report.Collect(fsys)
	b := report.Collect(fsys)

	// Usage and available-memory figures legitimately drift between reads;
	// identity and limit fields must not.
	if a.CgroupVersion != b.CgroupVersion {
		t.Errorf("CgroupVersion changed between collections: %v, %v", a.CgroupVersion, b.CgroupVersion)
	}
	if a.CgroupPath != b.CgroupPath {
		t.Errorf("CgroupPath changed between collections: %q, %q", a.CgroupPath, b.CgroupPath)
	}
	if a.Topology != b.Topology {
		t.Errorf("Topology changed between collections: %+v, %+v", a.Topology, b.Topology)
	}
	if a.Memory.TotalBytes != b.Memory.TotalBytes {
		t.Errorf("Memory.TotalBytes changed between collections: %d, %d", a.Memory.TotalBytes, b.Memory.TotalBytes)
	}
	if !reflect.DeepEqual(a.CPUQuota, b.CPUQuota) {
		t.Errorf("CPUQuota changed between collections: %v, %v", a.CPUQuota, b.CPUQuota)
	}
	if !reflect.DeepEqual(a.MemoryLimit, b.MemoryLimit) {
		t.Errorf("MemoryLimit changed between collections: %v, %v", a.MemoryLimit, b.MemoryLimit)
	}
}

// TestIntegration_SystemdRunLimits runs the built binary inside a transient
// systemd scope with known limits and checks the detailed JSON reports them.
func TestIntegration_SystemdRunLimits(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("systemd-run is linux-only")
	}
	if _, err := exec.LookPath("systemd-run"); err != nil {
		t.Skip("systemd-run not installed")
	}

	bin := filepath.Join(t.TempDir(), "systemcheck")
	build := exec.Command("go", "build", "-o", bin, "./cmd/systemcheck")
	if out, err := build.CombinedOutput(); err != nil {
		t.Fatalf("go build: %v\n%s", err, out)
	}

	unit := fmt.Sprintf("systemcheck-test-%d", os.Getpid())
	run := exec.Command("systemd-run",
		"--user", "--wait", "--collect", "--pipe", "--quiet",
		"--unit="+unit,
		"--property=CPUQuota=200%",
		"--property=MemoryMax=512M",
		bin, "-v", "--json")
	out, err := run.Output()
	if err != nil {
		t.Skipf("systemd-run failed (no user manager?): %v", err)
	}

	body := extractJSON(string(out))
	if !gjson.Valid(body) {
		t.Fatalf("no JSON object in output: %q", out)
	}

	quota := gjson.Get(body, "cgroup.cpu_quota")
	if !quota.Exists() || quota.Type == gjson.Null {
		t.Fatalf("cgroup.cpu_quota missing from %s", body)
	}
	if q := quota.Float(); q < 1.9 || q > 2.1 {
		t.Errorf("cgroup.cpu_quota = %v, want ~2.0 under CPUQuota=200%%", q)
	}

	limit := gjson.Get(body, "memory.cgroup_memory_limit_bytes")
	if !limit.Exists() || limit.Type == gjson.Null {
		t.Fatalf("memory.cgroup_memory_limit_bytes missing from %s", body)
	}
	const wantLimit = 512 * 1024 * 1024
	if got := limit.Int(); got < wantLimit-4096 || got > wantLimit+4096 {
		t.Errorf("memory.cgroup_memory_limit_bytes = %d, want ~%d under MemoryMax=512M", got, wantLimit)
	}
}

// extractJSON cuts the outermost JSON object out of possibly mixed output.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
