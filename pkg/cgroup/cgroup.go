// Package cgroup resolves the CPU and memory limits the kernel's
// control-group hierarchy imposes on the current process. Both hierarchy
// generations are understood: cgroup v1 with its split per-controller
// trees, and the unified cgroup v2 tree. Every resolver probes v2 before
// v1 and the process's own group before the hierarchy root, so callers
// always get a best-effort answer even on hosts with partial or no cgroup
// support.
//
// All reads go through an injected fs.FS rooted at "/" (os.DirFS("/") in
// production) with unrooted paths like "proc/self/cgroup". Nothing here
// returns an error: a value that cannot be read or parsed is reported as
// absent, and the reason is traced at debug level.
package cgroup

import (
	"io/fs"
	"path"
	"strings"

	"github.com/rs/zerolog/log"
)

// Well-known pseudo-file locations, unrooted for fs.FS access.
const (
	selfCgroupFile = "proc/self/cgroup"
	mountRoot      = "sys/fs/cgroup"

	v2ControllersFile = "cgroup.controllers"
	v2CPUMaxFile      = "cpu.max"
	v2MemoryMaxFile   = "memory.max"
	v2MemoryCurFile   = "memory.current"
	v2CpusetFile      = "cpuset.cpus.effective"

	v1CPUDir          = "cpu"
	v1MemoryDir       = "memory"
	v1CpusetDir       = "cpuset"
	v1CPUQuotaFile    = "cpu.cfs_quota_us"
	v1CPUPeriodFile   = "cpu.cfs_period_us"
	v1MemoryLimitFile = "memory.limit_in_bytes"
	v1MemoryUsageFile = "memory.usage_in_bytes"
	v1CpusetFile      = "cpuset.cpus"
)

// Version identifies which cgroup hierarchy layout a host exposes.
type Version int

const (
	VersionUnknown Version = iota
	V1
	V2
)

// String returns "v1" or "v2", or the empty string when unknown.
func (v Version) String() string {
	switch v {
	case V1:
		return "v1"
	case V2:
		return "v2"
	}
	return ""
}

// DetectVersion reports which cgroup layout is mounted: v2 when the unified
// controllers file exists, v1 when a cpu or memory controller mount does. A
// unified mount is authoritative even when legacy v1 mounts sit alongside
// it. Detection informs display only; the resolvers probe both layouts
// regardless.
func DetectVersion(fsys fs.FS) Version {
	if exists(fsys, path.Join(mountRoot, v2ControllersFile)) {
		return V2
	}
	if exists(fsys, path.Join(mountRoot, v1CPUDir)) || exists(fsys, path.Join(mountRoot, v1MemoryDir)) {
		return V1
	}
	return VersionUnknown
}

// SelfPath returns the hierarchy path of the current process's cgroup, e.g.
// "/user.slice/user-1000.slice/session-4.scope". On v2 hosts this is the
// "0::" entry of proc/self/cgroup; on v1 hosts the memory controller's path
// stands in for all controllers. The empty string means root or unscoped,
// including when the membership file cannot be read at all.
func SelfPath(fsys fs.FS) string {
	data, err := fs.ReadFile(fsys, selfCgroupFile)
	if err != nil {
		log.Debug().Err(err).Str("path", selfCgroupFile).Msg("cgroup membership unreadable")
		return ""
	}
	lines := strings.Split(string(data), "\n")

	// v2 entries carry hierarchy id 0 and an empty controller list: 0::/path
	for _, line := range lines {
		if rest, ok := strings.CutPrefix(line, "0::"); ok {
			return rest
		}
	}

	// v1: take the memory controller's path
	for _, line := range lines {
		parts := strings.SplitN(line, ":", 3)
		if len(parts) == 3 && parts[1] == v1MemoryDir {
			return parts[2]
		}
	}
	return ""
}

// Memberships returns the raw non-empty lines of proc/self/cgroup, one per
// hierarchy the process belongs to. Nil when the file cannot be read.
func Memberships(fsys fs.FS) []string {
	data, err := fs.ReadFile(fsys, selfCgroupFile)
	if err != nil {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func exists(fsys fs.FS, name string) bool {
	_, err := fs.Stat(fsys, name)
	return err == nil
}

// readTrimmed reads a pseudo-file and strips surrounding whitespace.
func readTrimmed(fsys fs.FS, name string) (string, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
