package cgroup

import (
	"io/fs"
	"path"
	"strconv"
	"strings"
)

// IsDefaultUserSlice reports whether a node path looks like an ordinary
// systemd user session, e.g. "/user.slice/user-1000.slice/session-4.scope".
// It only softens advisory wording; numeric results never depend on it.
func IsDefaultUserSlice(node string) bool {
	return strings.HasPrefix(node, "/user.slice/user-") && strings.Contains(node, "/session-")
}

// HasExplicitLimits reports whether the node itself carries any CPU quota,
// memory limit, or CPU-set restriction relative to the root. Unlike the
// resolvers this never falls back to root values: falling back would erase
// the distinction between "limited here" and "inherited", which is exactly
// what this advisory check exists to make.
func HasExplicitLimits(fsys fs.FS, node string) bool {
	if exists(fsys, path.Join(mountRoot, v2ControllersFile)) {
		return hasExplicitLimitsV2(fsys, node)
	}
	return hasExplicitLimitsV1(fsys, node)
}

func hasExplicitLimitsV2(fsys fs.FS, node string) bool {
	if raw, err := readTrimmed(fsys, path.Join(mountRoot, node, v2CPUMaxFile)); err == nil {
		fields := strings.Fields(raw)
		if len(fields) == 2 && fields[0] != v2UnlimitedToken {
			return true
		}
	}
	if raw, err := readTrimmed(fsys, path.Join(mountRoot, node, v2MemoryMaxFile)); err == nil && raw != v2UnlimitedToken {
		return true
	}
	return cpusetDiffers(fsys,
		path.Join(mountRoot, node, v2CpusetFile),
		path.Join(mountRoot, v2CpusetFile))
}

func hasExplicitLimitsV1(fsys fs.FS, node string) bool {
	quota, okQ := readInt64(fsys, path.Join(mountRoot, v1CPUDir, node, v1CPUQuotaFile))
	period, okP := readInt64(fsys, path.Join(mountRoot, v1CPUDir, node, v1CPUPeriodFile))
	if okQ && okP && quota > 0 && period > 0 {
		return true
	}
	if raw, err := readTrimmed(fsys, path.Join(mountRoot, v1MemoryDir, node, v1MemoryLimitFile)); err == nil {
		if limit, err := strconv.ParseUint(raw, 10, 64); err == nil && limit < v1UnlimitedBytes {
			return true
		}
	}
	return cpusetDiffers(fsys,
		path.Join(mountRoot, v1CpusetDir, node, v1CpusetFile),
		path.Join(mountRoot, v1CpusetDir, v1CpusetFile))
}

// cpusetDiffers compares the node's CPU-set membership to the root's. A
// difference catches pinned-to-fewer-CPUs restrictions that carry no quota
// at all.
func cpusetDiffers(fsys fs.FS, nodePath, rootPath string) bool {
	nodeSet, errNode := readTrimmed(fsys, nodePath)
	rootSet, errRoot := readTrimmed(fsys, rootPath)
	return errNode == nil && errRoot == nil && nodeSet != "" && rootSet != "" && nodeSet != rootSet
}
