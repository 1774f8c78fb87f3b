package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/lada-dev/lada/pkg/config"
	"github.com/lada-dev/lada/pkg/ladadir"
	"github.com/lada-dev/lada/pkg/llm"
)

// runInit interactively creates the configuration file and bootstraps the
// .lada/ directory structure.
func runInit(force bool) error {
	if !force {
		if _, err := os.Stat(config.DefaultPath); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", config.DefaultPath)
		}
	}

	cfg := config.Default()

	defaultModel := cfg.Model.DefaultModel
	ollamaHost := cfg.Model.Engines[llm.EngineOllama].Host
	temperature := strconv.FormatFloat(cfg.Model.Temperature, 'g', -1, 64)
	enableMLX := false
	mlxHost := config.DefaultMLXHost

	if err := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Default model").
			Description("Use an engine prefix for non-Ollama models, e.g. mlx:Qwen2.5-3B-Instruct.").
			Value(&defaultModel).
			Validate(validateIdentifier),
		huh.NewInput().Title("Ollama host").Value(&ollamaHost),
		huh.NewInput().
			Title("Temperature").
			Description("Sampling temperature between 0 and 2.").
			Value(&temperature).
			Validate(validateTemperature),
		huh.NewConfirm().Title("Configure an MLX engine?").Value(&enableMLX),
	)).Run(); err != nil {
		return err
	}

	if enableMLX {
		if err := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("MLX server host").Value(&mlxHost),
		)).Run(); err != nil {
			return err
		}
	}

	cfg.Model.DefaultModel = defaultModel
	cfg.Model.Temperature, _ = strconv.ParseFloat(temperature, 64)

	ollama := cfg.Model.Engines[llm.EngineOllama]
	ollama.Host = ollamaHost
	cfg.Model.Engines[llm.EngineOllama] = ollama

	if enableMLX {
		cfg.Model.Engines[llm.EngineMLX] = config.EngineConfig{
			Host:       mlxHost,
			Timeout:    config.DefaultTimeout,
			MaxRetries: config.DefaultMaxRetries,
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := config.Save(cfg, config.DefaultPath); err != nil {
		return err
	}

	if err := ladadir.EnsureStructure(ladadir.New(".lada")); err != nil {
		return err
	}

	fmt.Println("Initialized LADA: wrote " + modelStyle.Render(config.DefaultPath) + " and .lada/")

	return nil
}

func validateIdentifier(s string) error {
	_, err := llm.ParseIdentifier(s, llm.EngineOllama)

	return err
}

func validateTemperature(s string) error {
	t, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return errors.New("must be a number")
	}

	if t < 0 || t > 2 {
		return errors.New("must be between 0 and 2")
	}

	return nil
}
