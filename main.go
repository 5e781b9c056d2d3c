// commitlens browses a git repository's commits and file diffs in the
// terminal, with an optional headless JSON API mode.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/commitlens/commitlens/internal/cli"
	"github.com/commitlens/commitlens/internal/diffview"
	"github.com/commitlens/commitlens/internal/git"
	"github.com/commitlens/commitlens/internal/prefs"
	"github.com/commitlens/commitlens/internal/server"
	"github.com/commitlens/commitlens/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		if errors.Is(err, cli.ErrHelp) {
			cli.PrintUsage(os.Stderr)
			return nil
		}
		return err
	}

	info, err := git.ValidateRepo(cfg.RepoPath)
	if err != nil {
		return err
	}
	repo := git.NewRepo(info.Root)

	if cfg.Serve {
		return serve(cfg, repo)
	}
	return runTUI(cfg, repo, info)
}

func runTUI(cfg *cli.Config, repo *git.Repo, info git.RepoInfo) error {
	store, err := prefs.NewStore()
	if err != nil {
		return fmt.Errorf("preference store: %w", err)
	}

	mode := store.Load()
	if cfg.View != "" {
		// Explicit flag wins for this run but is not persisted.
		if m, ok := prefs.ParseViewMode(cfg.View); ok {
			mode = m
		}
	}

	ctrl := diffview.NewController(git.Provider{})
	model := tui.New(repo, info, ctrl, store, mode, cfg.Limit)
	p := tea.NewProgram(model, tea.WithAltScreen())

	ctrl.OnChange(func() {
		p.Send(tui.DiffUpdatedMsg{})
	})

	_, err = p.Run()
	return err
}

func serve(cfg *cli.Config, repo *git.Repo) error {
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	actualPort := ln.Addr().(*net.TCPAddr).Port
	fmt.Printf("Listening on http://%s\n", net.JoinHostPort(cfg.Host, strconv.Itoa(actualPort)))
	if cfg.Host != "localhost" && cfg.Host != "127.0.0.1" {
		fmt.Fprintln(os.Stderr, "WARNING: commitlens is not designed for public access. It exposes repository contents without authentication.")
	}
	fmt.Println("Press Ctrl+C to stop")

	srv := server.New(repo)
	httpServer := &http.Server{Handler: srv.Handler()}

	// Graceful shutdown on Ctrl+C
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		fmt.Println("\nShutting down...")
		_ = httpServer.Close()
	}()

	if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
