package sysinfo

import (
	"io/fs"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Memory holds system-wide totals from the kernel's memory accounting.
type Memory struct {
	TotalBytes     uint64
	AvailableBytes uint64
}

// UsedBytes is total minus available, saturating at zero so a fluctuating
// available reading can never underflow.
func (m Memory) UsedBytes() uint64 {
	if m.AvailableBytes > m.TotalBytes {
		return 0
	}
	return m.TotalBytes - m.AvailableBytes
}

// ReadMemory parses the MemTotal and MemAvailable fields out of
// proc/meminfo. The listing gives kibibytes; values are converted to bytes.
// Missing or garbled fields stay zero rather than failing.
func ReadMemory(fsys fs.FS) Memory {
	var m Memory
	data, err := fs.ReadFile(fsys, meminfoFile)
	if err != nil {
		log.Debug().Err(err).Str("path", meminfoFile).Msg("meminfo unreadable")
		return m
	}
	for _, line := range strings.Split(string(data), "\n") {
		switch {
		case strings.HasPrefix(line, "MemTotal:"):
			if kb, ok := meminfoKB(line); ok {
				m.TotalBytes = kb * 1024
			}
		case strings.HasPrefix(line, "MemAvailable:"):
			if kb, ok := meminfoKB(line); ok {
				m.AvailableBytes = kb * 1024
			}
		}
	}
	return m
}

// meminfoKB extracts the kibibyte figure from a meminfo line such as
// "MemTotal:       16384000 kB".
func meminfoKB(line string) (uint64, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, false
	}
	v, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		log.Debug().Str("line", line).Msg("meminfo value unparseable")
		return 0, false
	}
	return v, true
}
