// Package output renders a collected report as human-readable text or as
// indented JSON. Text rendering is color-aware; colors are disabled
// automatically when stdout is not a terminal.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jwalton/go-supportscolor"

	"github.com/A2-ai/systemcheck/pkg/cgroup"
	"github.com/A2-ai/systemcheck/pkg/report"
	"github.com/A2-ai/systemcheck/pkg/sysinfo"
)

var (
	green  = "\033[32m"
	yellow = "\033[33m"
	reset  = "\033[0m"
)

func init() {
	if !supportscolor.Stdout().SupportsColor {
		green, yellow, reset = "", "", ""
	}
}

// cgroupV2MinKernel is the first kernel release with a stable unified
// hierarchy.
var cgroupV2MinKernel = sysinfo.KernelVersion{Major: 4, Minor: 5}

// WriteSimpleText renders the summary view: one CPU line, one memory line,
// an advisory about the process's cgroup, and a hint at the detailed mode.
func WriteSimpleText(w io.Writer, r *report.Report, version string) {
	fmt.Fprintf(w, "systemcheck: %s\n\n", version)

	fmt.Fprintln(w, "CPU Usage:")
	if r.CPUConstrained() {
		fmt.Fprintf(w, "%sConstrained to %d of %d CPUs%s\n",
			yellow, r.AvailableCPUs, r.Topology.LogicalCPUs, reset)
	} else {
		fmt.Fprintf(w, "%sNot constrained: %d CPUs available%s\n",
			green, r.AvailableCPUs, reset)
	}
	fmt.Fprintln(w)

	switch {
	case r.MemoryLimit != nil && r.MemoryConstrained():
		fmt.Fprintf(w, "%sMemory: Limited to %s of %s available%s\n",
			yellow, humanize.IBytes(*r.MemoryLimit), humanize.IBytes(r.Memory.AvailableBytes), reset)
	case r.MemoryLimit != nil:
		fmt.Fprintf(w, "Memory: Limited to %s of %s available\n",
			humanize.IBytes(*r.MemoryLimit), humanize.IBytes(r.Memory.AvailableBytes))
	default:
		fmt.Fprintf(w, "%sMemory: Unconstrained, %s available%s\n",
			green, humanize.IBytes(r.Memory.AvailableBytes), reset)
	}

	switch {
	case r.DefaultUserSlice && !r.ExplicitLimits:
		fmt.Fprintln(w, "CGroup: default user slice (no explicit limits)")
	case r.CgroupPath != "" && r.CgroupPath != "/":
		if r.ExplicitLimits {
			fmt.Fprintf(w, "CGroup: limits present at %s\n", r.CgroupPath)
		} else {
			fmt.Fprintf(w, "CGroup: %s (no explicit limits)\n", r.CgroupPath)
		}
	}

	fmt.Fprintln(w, "\nsee more details with systemcheck -v")
}

// WriteDetailedText renders the full diagnostic sections.
func WriteDetailedText(w io.Writer, r *report.Report, version string) {
	fmt.Fprintf(w, "systemcheck v%s\n\n", version)
	fmt.Fprintln(w, "=== System Check - Resource Diagnostics ===")
	fmt.Fprintln(w)

	writeCPUSection(w, r)
	fmt.Fprintln(w)
	writeMemorySection(w, r)
	fmt.Fprintln(w)
	writeCgroupSection(w, r)
}

func writeCPUSection(w io.Writer, r *report.Report) {
	fmt.Fprintln(w, "CPU Information:")
	fmt.Fprintln(w, "----------------")
	fmt.Fprintf(w, "  System Logical CPUs:     %d threads\n", r.Topology.LogicalCPUs)
	fmt.Fprintf(w, "  System Physical CPUs:    %d cores\n", r.Topology.PhysicalCPUs)
	fmt.Fprintf(w, "  Available CPUs (cgroup): %d\n", r.AvailableCPUs)

	if r.CPUConstrained() {
		fmt.Fprintf(w, "  %swarning: CPU is constrained by cgroups to %d of %d system CPUs%s\n",
			yellow, r.AvailableCPUs, r.Topology.LogicalCPUs, reset)
	}
	if r.CPUQuota != nil {
		fmt.Fprintf(w, "  CGroup CPU Quota:        %.2f CPUs\n", *r.CPUQuota)
	}
}

func writeMemorySection(w io.Writer, r *report.Report) {
	fmt.Fprintln(w, "Memory Information:")
	fmt.Fprintln(w, "-------------------")
	fmt.Fprintf(w, "  System Total Memory:     %s\n", humanize.IBytes(r.Memory.TotalBytes))
	fmt.Fprintf(w, "  System Available Memory: %s\n", humanize.IBytes(r.Memory.AvailableBytes))
	fmt.Fprintf(w, "  System Used Memory:      %s\n", humanize.IBytes(r.Memory.UsedBytes()))

	if r.MemoryLimit == nil {
		return
	}
	fmt.Fprintf(w, "  CGroup Memory Limit:     %s\n", humanize.IBytes(*r.MemoryLimit))

	if !r.MemoryConstrained() {
		return
	}
	fmt.Fprintf(w, "  %swarning: Memory is constrained by cgroups!%s\n", yellow, reset)

	if pct, ok := r.UsagePercent(); ok {
		fmt.Fprintf(w, "  CGroup Memory Usage:     %s (%.1f%% of limit)\n",
			humanize.IBytes(*r.MemoryUsage), pct)
	}
}

func writeCgroupSection(w io.Writer, r *report.Report) {
	fmt.Fprintln(w, "CGroup Information:")
	fmt.Fprintln(w, "-------------------")

	switch r.CgroupVersion {
	case cgroup.V2:
		fmt.Fprintln(w, "  CGroup Version: v2 (unified hierarchy)")
	case cgroup.V1:
		fmt.Fprintln(w, "  CGroup Version: v1")
	default:
		fmt.Fprintln(w, "  CGroup Version: Not detected or not in container")
	}

	if r.KernelRelease != "" {
		fmt.Fprintf(w, "  Kernel Release: %s\n", r.KernelRelease)
		if v, ok := sysinfo.ParseKernelVersion(r.KernelRelease); ok && v.Before(cgroupV2MinKernel) {
			fmt.Fprintf(w, "  Note: kernel %s predates the unified hierarchy (first stable in %s)\n",
				v, cgroupV2MinKernel)
		}
	}

	if len(r.Memberships) > 0 {
		fmt.Fprintln(w, "  Current Process CGroups:")
		for _, line := range r.Memberships {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}

	if r.CgroupPath != "" && r.CgroupPath != "/" {
		fmt.Fprintln(w, "\n  Resource Constraints for Current CGroup:")
		if r.CPUQuota != nil {
			fmt.Fprintf(w, "    CPU Quota: %.2f CPUs\n", *r.CPUQuota)
		}
		if r.MemoryLimit != nil {
			fmt.Fprintf(w, "    Memory Limit: %s\n", humanize.IBytes(*r.MemoryLimit))
		}
		if r.DefaultUserSlice && !r.ExplicitLimits {
			fmt.Fprintln(w, "\n  Note: no explicit cpu/memory/cpuset limits detected at this cgroup; this looks like a default systemd user slice.")
		}
	}
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
