//go:build linux

package sysinfo

import (
	"github.com/rs/zerolog/log"
	"github.com/tklauser/go-sysconf"
)

// onlineCPUs returns the POSIX online-processor count, 0 when the query
// fails so the caller moves on to the next fallback.
func onlineCPUs() int {
	n, err := sysconf.Sysconf(sysconf.SC_NPROCESSORS_ONLN)
	if err != nil || n <= 0 {
		log.Debug().Err(err).Msg("online processor query failed")
		return 0
	}
	return int(n)
}
