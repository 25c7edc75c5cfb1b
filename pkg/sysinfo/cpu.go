// Package sysinfo reads hardware-level CPU topology and memory totals from
// the kernel's proc and sysfs listings. These are ground-truth figures,
// deliberately blind to any control-group restriction; pkg/cgroup reports
// what the hierarchy allows on top of them.
package sysinfo

import (
	"io/fs"
	"runtime"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Kernel listing locations, unrooted for fs.FS access.
const (
	cpuinfoFile   = "proc/cpuinfo"
	meminfoFile   = "proc/meminfo"
	osreleaseFile = "proc/sys/kernel/osrelease"
	sysCPUGlob    = "sys/devices/system/cpu/cpu[0-9]*"
)

// Topology is the hardware CPU layout, unaffected by any limit.
type Topology struct {
	LogicalCPUs  int
	PhysicalCPUs int
}

// corePair identifies one physical core; hyperthread siblings share a pair.
type corePair struct {
	phys, core int
}

// ReadTopology determines the host's CPU layout from proc/cpuinfo, with
// fallbacks for hosts where the listing is missing or sparse (ARM kernels
// often omit the id fields). Logical count falls back to the POSIX
// online-processor query and then to the runtime's own count; physical
// count falls back to the sysfs topology tree and then to the logical
// count.
func ReadTopology(fsys fs.FS) Topology {
	var t Topology

	data, err := fs.ReadFile(fsys, cpuinfoFile)
	if err != nil {
		log.Debug().Err(err).Str("path", cpuinfoFile).Msg("cpuinfo unreadable")
	} else {
		t.LogicalCPUs = countProcessors(string(data))
		t.PhysicalCPUs = countCorePairs(string(data))
	}

	if t.LogicalCPUs == 0 {
		t.LogicalCPUs = onlineCPUs()
	}
	if t.LogicalCPUs == 0 {
		t.LogicalCPUs = runtime.NumCPU()
	}
	if t.PhysicalCPUs == 0 {
		t.PhysicalCPUs = countSysfsCores(fsys)
	}
	if t.PhysicalCPUs == 0 {
		t.PhysicalCPUs = t.LogicalCPUs
	}
	return t
}

// AvailableCPUs returns the number of CPUs the current process may actually
// schedule onto. The runtime's count respects the process affinity mask, so
// inside a restricted control group this can be lower than the topology's
// logical count.
func AvailableCPUs() int {
	return runtime.NumCPU()
}

// countProcessors counts processor-enumeration records in a cpuinfo
// listing, one per logical CPU.
func countProcessors(cpuinfo string) int {
	n := 0
	for _, line := range strings.Split(cpuinfo, "\n") {
		if strings.HasPrefix(line, "processor") {
			n++
		}
	}
	return n
}

// countCorePairs deduplicates (physical id, core id) pairs from a cpuinfo
// listing. A core id line only counts while a preceding physical id line is
// in effect. Zero when the listing lacks the id fields entirely.
func countCorePairs(cpuinfo string) int {
	cores := make(map[corePair]struct{})

	physID := 0
	havePhys := false
	for _, line := range strings.Split(cpuinfo, "\n") {
		switch {
		case strings.HasPrefix(line, "physical id"):
			physID, havePhys = parseCPUInfoValue(line)
		case strings.HasPrefix(line, "core id"):
			if core, ok := parseCPUInfoValue(line); ok && havePhys {
				cores[corePair{physID, core}] = struct{}{}
			}
		}
	}
	return len(cores)
}

// countSysfsCores scans the per-CPU sysfs topology tree, which hosts whose
// cpuinfo omits id fields still populate.
func countSysfsCores(fsys fs.FS) int {
	dirs, err := fs.Glob(fsys, sysCPUGlob)
	if err != nil {
		return 0
	}
	cores := make(map[corePair]struct{})
	for _, dir := range dirs {
		phys, okPhys := readIntFile(fsys, dir+"/topology/physical_package_id")
		core, okCore := readIntFile(fsys, dir+"/topology/core_id")
		if okPhys && okCore {
			cores[corePair{phys, core}] = struct{}{}
		}
	}
	return len(cores)
}

// parseCPUInfoValue extracts the integer after the colon of a cpuinfo line
// such as "physical id\t: 0".
func parseCPUInfoValue(line string) (int, bool) {
	_, after, found := strings.Cut(line, ":")
	if !found {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(after))
	if err != nil {
		return 0, false
	}
	return v, true
}

func readIntFile(fsys fs.FS, name string) (int, bool) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, false
	}
	return v, true
}
