package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh/spinner"
	"github.com/lada-dev/lada/pkg/llm"
	"github.com/lada-dev/lada/pkg/llm/registry"
	"github.com/lada-dev/lada/pkg/templates"
)

// runPlan generates an implementation plan for a file and writes it under the
// configured plan directory.
func runPlan(ctx context.Context, cfgPath, file, output, modelOverride string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(file) //nolint:gosec // user-named target file
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}

	client, id, err := registry.New().Resolve(llm.TaskPlan, modelOverride, cfg)
	if err != nil {
		return err
	}

	fmt.Println(panelStyle.Render(
		titleStyle.Render("Planning Mode") + "\n" +
			"Analyzing: " + modelStyle.Render(file),
	))

	if !client.IsAvailable(ctx) {
		return fmt.Errorf("%s", availabilityHint(id.Engine))
	}

	prompt, err := templates.Render("plan", templates.Data{Path: file, Content: string(content)})
	if err != nil {
		return err
	}

	req := llm.Request{
		Model:       id.Name,
		Prompt:      prompt,
		Temperature: cfg.Model.Temperature,
		MaxTokens:   cfg.Model.MaxTokens,
	}

	var result llm.Result

	err = spinner.New().
		Title("Planning with " + id.String() + "...").
		Context(ctx).
		ActionWithErr(func(ctx context.Context) error {
			var genErr error
			result, genErr = client.Generate(ctx, req)
			return genErr
		}).
		Run()
	if err != nil {
		return err
	}

	printWarnings(result.Warnings)

	outputPath := output
	if outputPath == "" {
		stem := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		outputPath = filepath.Join(cfg.PlanDir, stem+".plan.md")
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o750); err != nil {
		return fmt.Errorf("create plan dir: %w", err)
	}

	if err := os.WriteFile(outputPath, []byte(result.Text), 0o644); err != nil { //nolint:gosec // generated plan, not a secret
		return fmt.Errorf("write plan: %w", err)
	}

	fmt.Println("Plan generated and saved to " + modelStyle.Render(outputPath))

	return nil
}
