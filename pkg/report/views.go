package report

// Serializable projections of a Report. Absent optionals are nil pointers
// and serialize as JSON null; consumers distinguish "no limit" from a zero
// limit that way.

// SimpleCPU is the summary view's CPU block.
type SimpleCPU struct {
	AvailableCPUs     int  `json:"available_cpus"`
	SystemLogicalCPUs int  `json:"system_logical_cpus"`
	Constrained       bool `json:"constrained"`
}

// SimpleMemory is the summary view's memory block.
type SimpleMemory struct {
	SystemAvailableBytes   uint64  `json:"system_available_bytes"`
	CgroupMemoryLimitBytes *uint64 `json:"cgroup_memory_limit_bytes"`
	Constrained            bool    `json:"constrained"`
}

// SimpleReport is the two-block summary serialization.
type SimpleReport struct {
	Version string       `json:"version"`
	CPU     SimpleCPU    `json:"cpu"`
	Memory  SimpleMemory `json:"memory"`
}

// DetailedCPU is the full view's CPU block.
type DetailedCPU struct {
	SystemLogicalCPUs  int      `json:"system_logical_cpus"`
	SystemPhysicalCPUs int      `json:"system_physical_cpus"`
	AvailableCPUs      int      `json:"available_cpus"`
	CgroupCPUQuota     *float64 `json:"cgroup_cpu_quota"`
}

// DetailedMemory is the full view's memory block.
type DetailedMemory struct {
	SystemTotalBytes       uint64  `json:"system_total_bytes"`
	SystemAvailableBytes   uint64  `json:"system_available_bytes"`
	SystemUsedBytes        uint64  `json:"system_used_bytes"`
	CgroupMemoryLimitBytes *uint64 `json:"cgroup_memory_limit_bytes"`
	CgroupMemoryUsageBytes *uint64 `json:"cgroup_memory_usage_bytes"`
}

// DetailedCgroup is the full view's hierarchy block. Version is nil when no
// cgroup layout was detected.
type DetailedCgroup struct {
	Version          *string  `json:"version"`
	CurrentPath      string   `json:"current_path"`
	CPUQuota         *float64 `json:"cpu_quota"`
	MemoryLimitBytes *uint64  `json:"memory_limit_bytes"`
}

// DetailedReport is the full serialization.
type DetailedReport struct {
	Version       string         `json:"version"`
	KernelRelease string         `json:"kernel_release,omitempty"`
	CPU           DetailedCPU    `json:"cpu"`
	Memory        DetailedMemory `json:"memory"`
	Cgroup        DetailedCgroup `json:"cgroup"`
}

// Simple projects the snapshot into its summary serialization. version is
// the tool version stamped into the output.
func (r *Report) Simple(version string) SimpleReport {
	return SimpleReport{
		Version: version,
		CPU: SimpleCPU{
			AvailableCPUs:     r.AvailableCPUs,
			SystemLogicalCPUs: r.Topology.LogicalCPUs,
			Constrained:       r.CPUConstrained(),
		},
		Memory: SimpleMemory{
			SystemAvailableBytes:   r.Memory.AvailableBytes,
			CgroupMemoryLimitBytes: r.MemoryLimit,
			Constrained:            r.MemoryConstrained(),
		},
	}
}

// Detailed projects the snapshot into its full serialization.
func (r *Report) Detailed(version string) DetailedReport {
	var cgroupVersion *string
	if v := r.CgroupVersion.String(); v != "" {
		cgroupVersion = &v
	}

	return DetailedReport{
		Version:       version,
		KernelRelease: r.KernelRelease,
		CPU: DetailedCPU{
			SystemLogicalCPUs:  r.Topology.LogicalCPUs,
			SystemPhysicalCPUs: r.Topology.PhysicalCPUs,
			AvailableCPUs:      r.AvailableCPUs,
			CgroupCPUQuota:     r.CPUQuota,
		},
		Memory: DetailedMemory{
			SystemTotalBytes:       r.Memory.TotalBytes,
			SystemAvailableBytes:   r.Memory.AvailableBytes,
			SystemUsedBytes:        r.Memory.UsedBytes(),
			CgroupMemoryLimitBytes: r.MemoryLimit,
			CgroupMemoryUsageBytes: r.MemoryUsage,
		},
		Cgroup: DetailedCgroup{
			Version:          cgroupVersion,
			CurrentPath:      r.CgroupPath,
			CPUQuota:         r.CPUQuota,
			MemoryLimitBytes: r.MemoryLimit,
		},
	}
}
