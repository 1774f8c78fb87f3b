package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

const version = "0.2.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmd, args := os.Args[1], os.Args[2:]

	var err error

	switch cmd {
	case "chat":
		fs := flag.NewFlagSet("chat", flag.ExitOnError)
		cfgPath := fs.String("config", "", "path to configuration file")
		envFile := fs.String("env", ".env", "path to .env file (ignored if missing)")
		model := fs.String("m", "", "model to use (overrides configuration)")
		_ = fs.Parse(args)

		err = withEnv(*envFile, func() error { return runChat(ctx, *cfgPath, *model) })

	case "plan":
		fs := flag.NewFlagSet("plan", flag.ExitOnError)
		cfgPath := fs.String("config", "", "path to configuration file")
		envFile := fs.String("env", ".env", "path to .env file (ignored if missing)")
		model := fs.String("m", "", "model to use (overrides configuration)")
		output := fs.String("o", "", "output file for the plan (default: <plan_dir>/<name>.plan.md)")
		_ = fs.Parse(args)

		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "usage: lada plan [flags] <file>")
			os.Exit(2)
		}

		err = withEnv(*envFile, func() error { return runPlan(ctx, *cfgPath, fs.Arg(0), *output, *model) })

	case "code":
		fs := flag.NewFlagSet("code", flag.ExitOnError)
		cfgPath := fs.String("config", "", "path to configuration file")
		envFile := fs.String("env", ".env", "path to .env file (ignored if missing)")
		model := fs.String("m", "", "model to use (overrides configuration)")
		refactor := fs.Bool("refactor", false, "refactor the existing file instead of generating new code")
		write := fs.Bool("w", false, "write the result to the target file (existing file is backed up)")
		_ = fs.Parse(args)

		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "usage: lada code [flags] <file>")
			os.Exit(2)
		}

		err = withEnv(*envFile, func() error { return runCode(ctx, *cfgPath, fs.Arg(0), *refactor, *write, *model) })

	case "models":
		fs := flag.NewFlagSet("models", flag.ExitOnError)
		cfgPath := fs.String("config", "", "path to configuration file")
		envFile := fs.String("env", ".env", "path to .env file (ignored if missing)")
		_ = fs.Parse(args)

		err = withEnv(*envFile, func() error { return runModels(ctx, *cfgPath) })

	case "init":
		fs := flag.NewFlagSet("init", flag.ExitOnError)
		force := fs.Bool("force", false, "overwrite an existing configuration file")
		_ = fs.Parse(args)

		err = runInit(*force)

	case "version", "--version", "-v":
		fmt.Printf("lada version %s\n", version)

	case "help", "--help", "-h":
		usage()

	default:
		fmt.Fprintf(os.Stderr, "lada: unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

// withEnv loads the .env file (if present) before running fn.
func withEnv(envFile string, fn func() error) error {
	if err := loadDotEnv(envFile); err != nil {
		return err
	}

	return fn()
}

func usage() {
	fmt.Fprint(os.Stderr, `LADA: Local AI-Driven Development Assistant.

Usage: lada <command> [flags]

Commands:
  chat     Start an interactive chat session
  plan     Generate an implementation plan for a file
  code     Generate or refactor code for a file
  models   List configured engines and their available models
  init     Initialize LADA in the current directory
  version  Show version and exit

Run "lada <command> -h" for command flags.
`)
}
