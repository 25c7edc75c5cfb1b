// Package report assembles the resolved resource view: hardware ground
// truth from pkg/sysinfo merged with the control-group limits from
// pkg/cgroup, plus the classifier that decides whether the process is
// actually constrained by them.
package report

import (
	"io/fs"

	"github.com/A2-ai/systemcheck/pkg/cgroup"
	"github.com/A2-ai/systemcheck/pkg/sysinfo"
)

// Report is one immutable snapshot of everything the tool can learn about
// the resources available to the current process. Pointer fields are nil
// when the underlying value could not be resolved; that is a normal state
// on hosts without cgroup support, not an error.
type Report struct {
	Topology      sysinfo.Topology
	AvailableCPUs int
	Memory        sysinfo.Memory

	CgroupVersion cgroup.Version
	CgroupPath    string
	Memberships   []string

	CPUQuota    *float64
	MemoryLimit *uint64
	MemoryUsage *uint64

	KernelRelease    string
	DefaultUserSlice bool
	ExplicitLimits   bool
}

// Collect reads every source once and assembles a snapshot. fsys is the
// host root, os.DirFS("/") in production. Collection never fails: fields
// whose sources are missing or garbled keep their zero or nil values.
func Collect(fsys fs.FS) *Report {
	node := cgroup.SelfPath(fsys)

	r := &Report{
		Topology:      sysinfo.ReadTopology(fsys),
		AvailableCPUs: sysinfo.AvailableCPUs(),
		Memory:        sysinfo.ReadMemory(fsys),

		CgroupVersion: cgroup.DetectVersion(fsys),
		CgroupPath:    node,
		Memberships:   cgroup.Memberships(fsys),

		KernelRelease:    sysinfo.KernelRelease(fsys),
		DefaultUserSlice: cgroup.IsDefaultUserSlice(node),
		ExplicitLimits:   cgroup.HasExplicitLimits(fsys, node),
	}

	if quota, ok := cgroup.CPUQuota(fsys, node); ok {
		r.CPUQuota = &quota
	}
	if limit, ok := cgroup.MemoryLimit(fsys, node); ok {
		r.MemoryLimit = &limit
	}
	if usage, ok := cgroup.MemoryUsage(fsys, node); ok {
		r.MemoryUsage = &usage
	}
	return r
}

// CPUConstrained reports whether the process can schedule onto fewer CPUs
// than the hardware has.
func (r *Report) CPUConstrained() bool {
	return r.AvailableCPUs < r.Topology.LogicalCPUs
}

// MemoryConstrained reports whether a resolved memory limit sits strictly
// below the system total. A limit equal to the total constrains nothing.
func (r *Report) MemoryConstrained() bool {
	return r.MemoryLimit != nil && *r.MemoryLimit < r.Memory.TotalBytes
}

// UsagePercent returns cgroup memory usage as a percentage of the limit.
// ok is false unless both figures were resolved and the limit is nonzero,
// so a defaulted zero percentage is never shown.
func (r *Report) UsagePercent() (float64, bool) {
	if r.MemoryLimit == nil || r.MemoryUsage == nil || *r.MemoryLimit == 0 {
		return 0, false
	}
	return float64(*r.MemoryUsage) / float64(*r.MemoryLimit) * 100, true
}
