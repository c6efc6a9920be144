//go:build !unix && !windows

package embeds

import "os"

// Platforms without advisory locks fall back to no cross-process exclusion.
func lockFile(_ *os.File) error {
	return nil
}

func unlockFile(_ *os.File) error {
	return nil
}
