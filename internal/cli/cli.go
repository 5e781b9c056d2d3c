// Package cli handles command-line argument parsing and configuration.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
)

// ErrHelp is returned when --help is requested.
var ErrHelp = errors.New("help requested")

// Config holds the parsed CLI configuration.
type Config struct {
	RepoPath string // repository to browse, "." when omitted
	View     string // "", "split" or "unified"; empty means use the stored preference
	Limit    int    // max commits to load
	Serve    bool   // run the JSON API server instead of the TUI
	Host     string
	Port     int
}

const usageHeader = `Usage: commitlens [flags] [repo-path]

Browse a git repository's commits and inspect file diffs in the
terminal, side by side or unified.

Arguments:
  (none)       browse the repository in the current directory
  <repo-path>  browse the repository at the given path

Flags:
`

// flags holds pointers to flag values, used to share between
// newFlagSet and ParseArgs without duplicating definitions.
type flags struct {
	view  string
	limit int
	serve bool
	host  string
	port  int
}

func newFlagSet(f *flags) *flag.FlagSet {
	fs := flag.NewFlagSet("commitlens", flag.ContinueOnError)
	fs.StringVar(&f.view, "view", "", "diff view: split or unified (default: last used)")
	fs.IntVar(&f.limit, "limit", 100, "maximum number of commits to load")
	fs.BoolVar(&f.serve, "serve", false, "run the JSON API server instead of the TUI")
	fs.StringVar(&f.host, "host", "localhost", "API server host (with -serve)")
	fs.IntVar(&f.port, "port", 0, "API server port (with -serve, 0 = auto)")
	return fs
}

// ParseArgs parses command-line arguments into a Config.
func ParseArgs(args []string) (*Config, error) {
	var f flags
	fs := newFlagSet(&f)
	fs.SetOutput(io.Discard)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, ErrHelp
		}
		return nil, err
	}

	if f.view != "" && f.view != "split" && f.view != "unified" {
		return nil, fmt.Errorf("invalid view %q: must be split or unified", f.view)
	}
	if f.limit <= 0 {
		return nil, fmt.Errorf("invalid limit: %d (must be positive)", f.limit)
	}
	if f.port < 0 || f.port > 65535 {
		return nil, fmt.Errorf("invalid port: %d (must be 0-65535)", f.port)
	}

	cfg := &Config{
		RepoPath: ".",
		View:     f.view,
		Limit:    f.limit,
		Serve:    f.serve,
		Host:     f.host,
		Port:     f.port,
	}

	positional := fs.Args()
	switch len(positional) {
	case 0:
	case 1:
		cfg.RepoPath = positional[0]
	default:
		return nil, fmt.Errorf("too many arguments: expected at most 1, got %d", len(positional))
	}

	return cfg, nil
}

// PrintUsage writes usage information to w.
func PrintUsage(w io.Writer) {
	_, _ = fmt.Fprint(w, usageHeader)
	var f flags
	fs := newFlagSet(&f)
	fs.SetOutput(w)
	fs.PrintDefaults()
}
