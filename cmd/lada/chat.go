package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/huh/spinner"
	"github.com/lada-dev/lada/pkg/llm"
	"github.com/lada-dev/lada/pkg/llm/registry"
	"github.com/lada-dev/lada/pkg/session"
)

// runChat starts an interactive chat session with the resolved chat model.
func runChat(ctx context.Context, cfgPath, modelOverride string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}

	reg := registry.New()

	client, id, err := reg.Resolve(llm.TaskChat, modelOverride, cfg)
	if err != nil {
		return err
	}

	if modelOverride == "" {
		fmt.Println(dimStyle.Render("Using configured chat model: " + id.String()))
	}

	fmt.Println(panelStyle.Render(
		titleStyle.Render("LADA Chat Mode") + "\n" +
			"Model: " + modelStyle.Render(id.String()) + "\n" +
			dimStyle.Render("Type 'exit' or 'quit' to end the session."),
	))

	if !client.IsAvailable(ctx) {
		return errors.New(availabilityHint(id.Engine))
	}

	if err := checkModelExists(ctx, client, id); err != nil {
		return err
	}

	store := session.NewStore(cfg.SessionDir, id.String())
	defer func() { _ = store.Save() }()

	if cfg.AutoSave && cfg.AutoSaveEvery() > 0 {
		go func() { _ = store.AutoSave(ctx, cfg.AutoSaveEvery()) }()
	}

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(userPrefixStyle.Render("You: "))

		if !scanner.Scan() {
			fmt.Println()
			break
		}

		prompt := strings.TrimSpace(scanner.Text())
		if prompt == "" {
			continue
		}

		if prompt == "exit" || prompt == "quit" {
			fmt.Println("Goodbye!")
			break
		}

		req := llm.Request{
			Model:       id.Name,
			Prompt:      prompt,
			Temperature: cfg.Model.Temperature,
			MaxTokens:   cfg.Model.MaxTokens,
		}

		var result llm.Result

		err := spinner.New().
			Title("Thinking...").
			Context(ctx).
			ActionWithErr(func(ctx context.Context) error {
				var genErr error
				result, genErr = client.Generate(ctx, req)
				return genErr
			}).
			Run()
		if err != nil {
			if errors.Is(err, context.Canceled) {
				fmt.Println("\nChat interrupted.")
				return nil
			}

			fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+err.Error())
			continue
		}

		printWarnings(result.Warnings)

		store.Append(session.RoleUser, prompt)
		store.Append(session.RoleAssistant, result.Text)

		fmt.Println()
		fmt.Println(assistantPrefixStyle.Render("Assistant:"))
		fmt.Println(renderMarkdown(strings.TrimSpace(result.Text)))
		fmt.Println()
	}

	return scanner.Err()
}

// checkModelExists verifies the requested model against the engine's live
// model list and suggests close matches when it is missing.
func checkModelExists(ctx context.Context, client llm.Client, id llm.Identifier) error {
	models, err := client.ListModels(ctx)
	if err != nil {
		return err
	}

	if slices.Contains(models, id.Name) {
		return nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "model %q not found in %s", id.Name, id.Engine)

	if len(models) == 0 {
		sb.WriteString(" (the engine reports no models)")
		return errors.New(sb.String())
	}

	if similar := closeMatches(id.Name, models, 3, 0.6); len(similar) > 0 {
		sb.WriteString("\n\nDid you mean one of these?")
		for _, m := range similar {
			sb.WriteString("\n  • " + m)
		}
	}

	sb.WriteString("\n\nAvailable models:")
	for _, m := range models {
		sb.WriteString("\n  • " + m)
	}

	return errors.New(sb.String())
}
