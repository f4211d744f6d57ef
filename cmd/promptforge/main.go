package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"promptforge/internal/artifact"
	"promptforge/internal/config"
	"promptforge/internal/library"
	"promptforge/internal/logger"
	"promptforge/internal/pipeline"
	"promptforge/internal/rpc"
	"promptforge/internal/template"
	"promptforge/pkg/version"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	var err error
	switch os.Args[1] {
	case "compile":
		err = runCompile(cfg, os.Args[2:])
	case "artifacts":
		err = runArtifacts(cfg, os.Args[2:])
	case "templates":
		err = runTemplates()
	case "serve":
		err = runServe(cfg)
	case "version":
		fmt.Printf("%s %s\n", version.Name, version.Version)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", version.Name, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: %s <command> [flags]

commands:
  compile    compile a request into a prompt (input from args or stdin)
  artifacts  manage the artifact store (list, sync, seed)
  templates  list available templates
  serve      serve the compiler over a unix socket
  version    print version
`, version.Name)
}

func openStore(cfg *config.Config) (*artifact.SQLiteStore, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	return artifact.NewSQLiteStore(cfg.DatabasePath)
}

func runCompile(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	dial := fs.Int("dial", cfg.Compile.DefaultDial, "depth dial, 0-5")
	budget := fs.Int("budget", cfg.Compile.DefaultBudget, "token budget, 0 for unlimited")
	tmplID := fs.String("template", "", "template override")
	asJSON := fs.Bool("json", false, "emit the full compile output as JSON")
	var force stringList
	fs.Var(&force, "artifact", "force-include an artifact by alias (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	raw := strings.Join(fs.Args(), " ")
	if raw == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		raw = strings.TrimRight(string(data), "\n")
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	resolver, err := artifact.NewResolver(store)
	if err != nil {
		return err
	}

	pipe := pipeline.New(template.Default())
	out, err := pipe.Compile(context.Background(), pipeline.Input{
		RawInput:         raw,
		Dial:             *dial,
		TokenBudget:      *budget,
		TemplateOverride: *tmplID,
		ForceArtifacts:   force,
	}, resolver.Resolve, resolver.Fetch)
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Print(out.Rendered)
	fmt.Fprintf(os.Stderr, "\nlint score: %d (passed: %v)\n", out.Lint.Score, out.Lint.Passed)
	for _, r := range out.Lint.Results {
		fmt.Fprintf(os.Stderr, "  [%s] %s: %s\n", r.Severity, r.RuleID, r.Message)
	}
	return nil
}

func runArtifacts(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: artifacts <list|sync|seed>")
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	switch args[0] {
	case "list":
		artifacts, err := store.List(ctx)
		if err != nil {
			return err
		}
		for _, a := range artifacts {
			fmt.Printf("%s\t%s\t@%s\t%d blocks\tv%d\n",
				a.ID, a.Name, strings.Join(a.Aliases, ",@"), len(a.Blocks), a.Version)
		}
		return nil
	case "sync":
		n, err := library.SyncDir(ctx, store, cfg.LibraryDir, cfg.Watcher.IgnorePatterns)
		if err != nil {
			return err
		}
		fmt.Printf("synced %d artifacts from %s\n", n, cfg.LibraryDir)
		return nil
	case "seed":
		return store.Seed(ctx, artifact.SeedArtifacts())
	default:
		return fmt.Errorf("unknown artifacts command: %s", args[0])
	}
}

func runTemplates() error {
	for _, t := range template.Default().All() {
		fmt.Printf("%s\t%s\t%d sections\n", t.ID, t.Name, len(t.Sections))
	}
	return nil
}

func runServe(cfg *config.Config) error {
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := store.Seed(ctx, artifact.SeedArtifacts()); err != nil {
		return err
	}
	if _, err := library.SyncDir(ctx, store, cfg.LibraryDir, cfg.Watcher.IgnorePatterns); err != nil {
		return err
	}

	if cfg.Watcher.Enabled {
		watcher, err := library.NewWatcher(cfg.Watcher, store, cfg.LibraryDir)
		if err != nil {
			return err
		}
		if err := watcher.Start(ctx); err != nil {
			return err
		}
		defer watcher.Stop()
	}

	server, err := rpc.NewServer(template.Default(), store)
	if err != nil {
		return err
	}
	if err := server.Listen(cfg.SocketPath); err != nil {
		return err
	}
	defer server.Close()

	return server.Serve(ctx)
}

type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}
