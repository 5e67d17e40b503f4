// Package cmd implements the CLI command structure for taskdeck.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"taskdeck/internal/config"
	"taskdeck/internal/logging"
	"taskdeck/internal/posts"
	"taskdeck/internal/storage"
	"taskdeck/internal/task"
	"taskdeck/internal/theme"
	"taskdeck/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the taskdeck CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("taskdeck", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand(os.Stdout)
	}

	// Determine the subcommand; default to the TUI.
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	deps, err := buildDeps(cfg)
	if err != nil {
		return err
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, deps)
	case "add":
		return addCommand(os.Stdout, deps, remainingArgs)
	case "ls":
		return lsCommand(os.Stdout, deps, remainingArgs)
	case "done":
		return doneCommand(os.Stdout, deps, remainingArgs)
	case "rm":
		return rmCommand(os.Stdout, deps, remainingArgs)
	case "clear":
		return clearCommand(os.Stdout, deps)
	case "stats":
		return statsCommand(os.Stdout, deps)
	case "posts":
		return postsCommand(ctx, os.Stdout, deps, remainingArgs)
	case "search":
		return searchCommand(ctx, os.Stdout, deps, remainingArgs)
	case "doctor":
		return doctorCommand(ctx, os.Stdout, deps)
	case "version":
		return versionCommand(os.Stdout)
	case "help", "--help", "-h":
		printUsage(fs, os.Stdout)
		return nil
	default:
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// deps bundles the wired application components.
type deps struct {
	cfg        *config.Config
	tasks      *task.Store
	client     *posts.Client
	aggregator *posts.Aggregator
	theme      *theme.Manager
}

// buildDeps wires storage, stores, and the remote client from config.
func buildDeps(cfg *config.Config) (*deps, error) {
	logger := logging.New(cfg)

	store := storage.New(storage.NewFileBackend(cfg.DataDir), logger)
	tasks, err := task.NewStore(store)
	if err != nil {
		return nil, fmt.Errorf("opening task store: %w", err)
	}

	httpc := http.DefaultClient
	if timeout := cfg.RequestTimeout(); timeout > 0 {
		httpc = &http.Client{Timeout: timeout}
	}
	client := posts.NewClient(cfg.APIBaseURL,
		posts.WithHTTPClient(httpc),
		posts.WithLogger(logger),
	)

	themes := theme.NewManager(store)
	if cfg.DarkMode && !themes.IsDark() {
		// The flag only seeds the preference; a persisted choice wins
		// on later runs because config defaults stay false.
		themes.SetDark(true)
	}

	return &deps{
		cfg:        cfg,
		tasks:      tasks,
		client:     client,
		aggregator: posts.NewAggregator(client),
		theme:      themes,
	}, nil
}

func tuiCommand(ctx context.Context, d *deps) error {
	return ui.RunTUI(ctx, ui.Deps{
		Config:     d.cfg,
		Tasks:      d.tasks,
		Aggregator: d.aggregator,
		Theme:      d.theme,
	})
}

func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "taskdeck %s\n", Version)
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, `taskdeck - terminal task manager and posts browser

Usage:
  taskdeck [flags] [command]

Commands:
  tui              Interactive interface (default)
  add <title>      Add a task
  ls               List tasks
  done <ref>       Toggle a task's completion
  rm <ref>         Remove a task
  clear            Remove all completed tasks
  stats            Show task statistics
  posts            Browse remote posts
  search <query>   Search remote posts
  doctor           Check data dir, saved state, and API reachability
  version          Show version

A <ref> is a task's 1-based position in "taskdeck ls" output, or its id.

Flags:
`)
	fs.SetOutput(w)
	fs.PrintDefaults()
}
