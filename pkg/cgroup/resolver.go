package cgroup

import (
	"io/fs"
	"math"
	"path"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Unlimited sentinels differ per hierarchy generation: v2 writes a literal
// token, v1 reports LONG_MAX rounded down to the 4 KiB page size when no
// limit has been configured.
const (
	v2UnlimitedToken = "max"
	v1UnlimitedBytes = 9223372036854771712
)

// v2Unlimited reports whether a v2 memory value means "no limit": either
// the literal token or a number at the top of the representable range.
func v2Unlimited(raw string) bool {
	if raw == v2UnlimitedToken {
		return true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	return err == nil && v == math.MaxUint64
}

// v1Unlimited reports whether a v1 memory value is at or above the legacy
// "effectively unlimited" default.
func v1Unlimited(raw string) bool {
	v, err := strconv.ParseUint(raw, 10, 64)
	return err == nil && v >= v1UnlimitedBytes
}

// memoryTier is one step of a memory fallback chain: the file to consult
// and the schema's predicate for "this value means nothing is configured".
// A nil predicate accepts every parseable value.
type memoryTier struct {
	name      string
	path      string
	unlimited func(raw string) bool
}

// memoryLimitTiers lists the lookup order for a node's memory ceiling:
// v2 node, v2 root, v1 node, v1 root. The first readable, parseable,
// non-sentinel value wins.
func memoryLimitTiers(node string) []memoryTier {
	return []memoryTier{
		{"v2 node", path.Join(mountRoot, node, v2MemoryMaxFile), v2Unlimited},
		{"v2 root", path.Join(mountRoot, v2MemoryMaxFile), v2Unlimited},
		{"v1 node", path.Join(mountRoot, v1MemoryDir, node, v1MemoryLimitFile), v1Unlimited},
		{"v1 root", path.Join(mountRoot, v1MemoryDir, v1MemoryLimitFile), v1Unlimited},
	}
}

// memoryUsageTiers mirrors memoryLimitTiers for the current-consumption
// files. Usage has no unlimited sentinel; whatever the kernel reports is
// taken at face value.
func memoryUsageTiers(node string) []memoryTier {
	return []memoryTier{
		{"v2 node", path.Join(mountRoot, node, v2MemoryCurFile), nil},
		{"v2 root", path.Join(mountRoot, v2MemoryCurFile), nil},
		{"v1 node", path.Join(mountRoot, v1MemoryDir, node, v1MemoryUsageFile), nil},
		{"v1 root", path.Join(mountRoot, v1MemoryDir, v1MemoryUsageFile), nil},
	}
}

// MemoryLimit resolves the byte ceiling the hierarchy imposes on the node.
// ok is false when every tier is missing, unparseable, or reports its
// schema's unlimited sentinel: an absent limit is never surfaced as a huge
// finite number.
func MemoryLimit(fsys fs.FS, node string) (limit uint64, ok bool) {
	return resolveBytes(fsys, memoryLimitTiers(node))
}

// MemoryUsage resolves the node's current memory consumption through the
// same four tiers as MemoryLimit.
func MemoryUsage(fsys fs.FS, node string) (usage uint64, ok bool) {
	return resolveBytes(fsys, memoryUsageTiers(node))
}

func resolveBytes(fsys fs.FS, tiers []memoryTier) (uint64, bool) {
	for _, t := range tiers {
		raw, err := readTrimmed(fsys, t.path)
		if err != nil {
			log.Debug().Str("tier", t.name).Str("path", t.path).Err(err).Msg("cgroup memory file unreadable")
			continue
		}
		if t.unlimited != nil && t.unlimited(raw) {
			log.Debug().Str("tier", t.name).Str("path", t.path).Str("value", raw).Msg("cgroup memory unlimited")
			continue
		}
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			log.Debug().Str("tier", t.name).Str("path", t.path).Str("value", raw).Msg("cgroup memory value unparseable")
			continue
		}
		return v, true
	}
	return 0, false
}

// cpuTier is one step of the CPU quota fallback chain. read returns the
// quota/period pair in microseconds; ok is false when the tier holds no
// usable quota (missing files, unlimited sentinel, or non-positive values).
type cpuTier struct {
	name string
	read func(fsys fs.FS) (quota, period int64, ok bool)
}

// cpuQuotaTiers lists the lookup order for a node's CPU quota. Both
// schemas are probed unconditionally, v2 before v1, node before root.
func cpuQuotaTiers(node string) []cpuTier {
	return []cpuTier{
		{"v2 node", readCPUMax(path.Join(mountRoot, node, v2CPUMaxFile))},
		{"v2 root", readCPUMax(path.Join(mountRoot, v2CPUMaxFile))},
		{"v1 node", readCFS(path.Join(mountRoot, v1CPUDir, node))},
		{"v1 root", readCFS(path.Join(mountRoot, v1CPUDir))},
	}
}

// CPUQuota resolves the fractional CPU count the hierarchy allows the
// node, e.g. 1.5 for a 150ms quota per 100ms period. The first tier with a
// positive quota and period wins; ok is false when no tier has one.
func CPUQuota(fsys fs.FS, node string) (cpus float64, ok bool) {
	for _, t := range cpuQuotaTiers(node) {
		if quota, period, ok := t.read(fsys); ok {
			return float64(quota) / float64(period), true
		}
	}
	return 0, false
}

// readCPUMax parses a unified "quota period" record such as "150000 100000".
// A literal "max" quota means no limit at this tier.
func readCPUMax(filePath string) func(fs.FS) (int64, int64, bool) {
	return func(fsys fs.FS) (int64, int64, bool) {
		raw, err := readTrimmed(fsys, filePath)
		if err != nil {
			log.Debug().Str("path", filePath).Err(err).Msg("cgroup cpu.max unreadable")
			return 0, 0, false
		}
		fields := strings.Fields(raw)
		if len(fields) != 2 {
			log.Debug().Str("path", filePath).Str("value", raw).Msg("cgroup cpu.max malformed")
			return 0, 0, false
		}
		if fields[0] == v2UnlimitedToken {
			log.Debug().Str("path", filePath).Msg("cgroup cpu quota unlimited")
			return 0, 0, false
		}
		quota, errQ := strconv.ParseInt(fields[0], 10, 64)
		period, errP := strconv.ParseInt(fields[1], 10, 64)
		if errQ != nil || errP != nil || quota <= 0 || period <= 0 {
			log.Debug().Str("path", filePath).Str("value", raw).Msg("cgroup cpu.max not a positive quota")
			return 0, 0, false
		}
		return quota, period, true
	}
}

// readCFS parses the split cpu.cfs_quota_us / cpu.cfs_period_us pair under
// dir. The kernel writes -1 for an unthrottled quota, which the positivity
// check rejects along with a zero period.
func readCFS(dir string) func(fs.FS) (int64, int64, bool) {
	return func(fsys fs.FS) (int64, int64, bool) {
		quota, ok := readInt64(fsys, path.Join(dir, v1CPUQuotaFile))
		if !ok {
			return 0, 0, false
		}
		period, ok := readInt64(fsys, path.Join(dir, v1CPUPeriodFile))
		if !ok {
			return 0, 0, false
		}
		if quota <= 0 || period <= 0 {
			log.Debug().Str("dir", dir).Int64("quota", quota).Int64("period", period).Msg("cgroup cfs quota not positive")
			return 0, 0, false
		}
		return quota, period, true
	}
}

func readInt64(fsys fs.FS, name string) (int64, bool) {
	raw, err := readTrimmed(fsys, name)
	if err != nil {
		log.Debug().Str("path", name).Err(err).Msg("cgroup file unreadable")
		return 0, false
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Debug().Str("path", name).Str("value", raw).Msg("cgroup value unparseable")
		return 0, false
	}
	return v, true
}
