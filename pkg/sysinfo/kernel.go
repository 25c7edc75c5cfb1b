package sysinfo

import (
	"fmt"
	"io/fs"
	"regexp"
	"strconv"
	"strings"
)

// KernelVersion is the numeric prefix of a kernel release string.
type KernelVersion struct {
	Major int
	Minor int
	Patch int
}

// String returns the version as a string.
func (v KernelVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1 if v < other, 0 if v == other, 1 if v > other.
func (v KernelVersion) Compare(other KernelVersion) int {
	if v.Major != other.Major {
		if v.Major < other.Major {
			return -1
		}
		return 1
	}
	if v.Minor != other.Minor {
		if v.Minor < other.Minor {
			return -1
		}
		return 1
	}
	if v.Patch != other.Patch {
		if v.Patch < other.Patch {
			return -1
		}
		return 1
	}
	return 0
}

// Before returns true if v < other.
func (v KernelVersion) Before(other KernelVersion) bool {
	return v.Compare(other) < 0
}

// kernelVersionRegex matches the leading numeric part of release strings
// like "6.8.0-45-generic" or "4.4".
var kernelVersionRegex = regexp.MustCompile(`^(\d+)\.(\d+)(?:\.(\d+))?`)

// KernelRelease reads the running kernel's release string from
// proc/sys/kernel/osrelease, empty when unreadable.
func KernelRelease(fsys fs.FS) string {
	data, err := fs.ReadFile(fsys, osreleaseFile)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// ParseKernelVersion extracts the numeric version from a release string.
// Distribution suffixes ("-45-generic", "-amd64") are ignored.
func ParseKernelVersion(s string) (KernelVersion, bool) {
	matches := kernelVersionRegex.FindStringSubmatch(strings.TrimSpace(s))
	if matches == nil {
		return KernelVersion{}, false
	}

	major, _ := strconv.Atoi(matches[1])
	minor, _ := strconv.Atoi(matches[2])
	var patch int
	if matches[3] != "" {
		patch, _ = strconv.Atoi(matches[3])
	}

	return KernelVersion{Major: major, Minor: minor, Patch: patch}, true
}
