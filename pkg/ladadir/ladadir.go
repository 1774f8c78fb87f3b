// Package ladadir encapsulates all path knowledge for the .lada/ project
// directory: session transcripts, generated plans, and file backups.
package ladadir

import (
	"os"
	"path/filepath"
)

// Dir is a value object that resolves paths within a .lada/ directory.
type Dir struct {
	root string
}

// New creates a Dir rooted at the given path. The path is converted to an
// absolute path; no I/O is performed. Use EnsureStructure to create the
// directory layout.
func New(root string) Dir {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}

	return Dir{root: abs}
}

// Root returns the absolute path to the .lada/ directory.
func (d Dir) Root() string { return d.root }

// SessionsDir returns the path to the chat session transcripts directory.
func (d Dir) SessionsDir() string { return filepath.Join(d.root, "sessions") }

// PlansDir returns the path to the generated plans directory.
func (d Dir) PlansDir() string { return filepath.Join(d.root, "plans") }

// BackupsDir returns the path to the pre-write file backups directory.
func (d Dir) BackupsDir() string { return filepath.Join(d.root, "backups") }

// GitignorePath returns the path to the .gitignore file inside .lada/.
func (d Dir) GitignorePath() string { return filepath.Join(d.root, ".gitignore") }

// Exists reports whether the .lada/ root directory exists on disk.
func (d Dir) Exists() bool {
	info, err := os.Stat(d.root)

	return err == nil && info.IsDir()
}
