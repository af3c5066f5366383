//go:build unix

package commands

import (
	"os"
	"syscall"

	"github.com/josephlewis42/tiks/core/session"
)

// fileOwner names the owner of a file. Files without ownership information,
// such as those in memory, belong to the session user.
func fileOwner(s *session.Session, f os.FileInfo) string {
	stat, ok := f.Sys().(*syscall.Stat_t)
	if !ok {
		return s.Username()
	}

	switch int(stat.Uid) {
	case 0:
		return "root"
	case os.Getuid():
		return s.Username()
	default:
		return "-"
	}
}
