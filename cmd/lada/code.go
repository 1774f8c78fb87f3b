package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lada-dev/lada/pkg/llm"
	"github.com/lada-dev/lada/pkg/llm/registry"
	"github.com/lada-dev/lada/pkg/templates"
)

// runCode generates or refactors code for a file, streaming chunks to stdout
// as they arrive. With write set, the result replaces the target file after
// any existing version is backed up.
func runCode(ctx context.Context, cfgPath, file string, refactor, write bool, modelOverride string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(file) //nolint:gosec // user-named target file
	if err != nil {
		if refactor || !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("read %s: %w", file, err)
		}
		// Generating a new file from scratch.
		content = nil
	}

	client, id, err := registry.New().Resolve(llm.TaskCode, modelOverride, cfg)
	if err != nil {
		return err
	}

	mode := "Code Generation"
	tmpl := "code"
	if refactor {
		mode = "Refactoring"
		tmpl = "refactor"
	}

	fmt.Println(panelStyle.Render(
		titleStyle.Render(mode+" Mode") + "\n" +
			"Target: " + modelStyle.Render(file),
	))

	if !client.IsAvailable(ctx) {
		return fmt.Errorf("%s", availabilityHint(id.Engine))
	}

	prompt, err := templates.Render(tmpl, templates.Data{Path: file, Content: string(content)})
	if err != nil {
		return err
	}

	req := llm.Request{
		Model:       id.Name,
		Prompt:      prompt,
		Temperature: cfg.Model.Temperature,
		MaxTokens:   cfg.Model.MaxTokens,
	}

	var sb strings.Builder

	err = client.Stream(ctx, req, func(chunk string) error {
		sb.WriteString(chunk)
		_, writeErr := os.Stdout.WriteString(chunk)
		return writeErr
	})
	if err != nil {
		return err
	}

	fmt.Println()

	if !write {
		return nil
	}

	if content != nil {
		backupPath, err := backupFile(file, content, cfg.BackupDir)
		if err != nil {
			return err
		}
		fmt.Println(dimStyle.Render("Backed up previous version to " + backupPath))
	}

	if err := os.WriteFile(file, []byte(sb.String()), 0o644); err != nil { //nolint:gosec // generated source file
		return fmt.Errorf("write %s: %w", file, err)
	}

	fmt.Println("Wrote " + modelStyle.Render(file))

	return nil
}

// backupFile copies the current file contents into the backup directory under
// a timestamped name and returns the backup path.
func backupFile(file string, content []byte, backupDir string) (string, error) {
	if err := os.MkdirAll(backupDir, 0o750); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	name := fmt.Sprintf("%s.%s.bak", filepath.Base(file), time.Now().Format("20060102-150405"))
	backupPath := filepath.Join(backupDir, name)

	if err := os.WriteFile(backupPath, content, 0o644); err != nil { //nolint:gosec // backup of a user file
		return "", fmt.Errorf("write backup: %w", err)
	}

	return backupPath, nil
}
