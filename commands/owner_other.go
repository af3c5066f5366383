//go:build !unix

package commands

import (
	"os"

	"github.com/josephlewis42/tiks/core/session"
)

func fileOwner(s *session.Session, f os.FileInfo) string {
	return s.Username()
}
