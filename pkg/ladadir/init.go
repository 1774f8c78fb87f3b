package ladadir

import (
	"fmt"
	"os"
)

// Everything under .lada/ is machine-managed local state.
const gitignoreContent = "sessions/\nbackups/\n"

// EnsureStructure creates the sessions/, plans/, and backups/ directories and
// the .gitignore file if they are missing. It is idempotent and also creates
// the .lada/ root itself when bootstrapping a fresh project.
func EnsureStructure(d Dir) error {
	for _, dir := range []string{d.SessionsDir(), d.PlansDir(), d.BackupsDir()} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("ladadir: create %s: %w", dir, err)
		}
	}

	if err := ensureGitignore(d); err != nil {
		return fmt.Errorf("ladadir: gitignore: %w", err)
	}

	return nil
}

// ensureGitignore creates the .gitignore file if it does not exist.
func ensureGitignore(d Dir) error {
	path := d.GitignorePath()

	if _, err := os.Stat(path); err == nil {
		return nil // already exists
	}

	return os.WriteFile(path, []byte(gitignoreContent), 0o600)
}
