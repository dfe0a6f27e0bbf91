package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/mmynk/triptangle/internal/app"
	"github.com/mmynk/triptangle/internal/config"
	"github.com/mmynk/triptangle/pkg/logging"
)

const usage = `Usage: triptangle [flags] <command> [command flags]

Commands:
  status        show where the app would open and who is logged in
  signup        create an account and log in
  login         log in and store the session
  logout        clear the stored session
  search        find users by name or email
  create-group  create a group and invite users
  join          join a group with travel preferences
  suggestions   show (and vote on) destinations for a group
  groups        list your groups
  invites       list invites addressed to you
  accept        accept an invite
  decline       decline an invite

Flags:
`

// errUsage marks errors caused by bad command line input.
var errUsage = errors.New("usage error")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	fs := flag.NewFlagSet("triptangle", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "backend origin (env TRIPTANGLE_BASE_URL)")
	fs.StringVar(&cfg.SessionDB, "session-db", cfg.SessionDB, "session database file (env TRIPTANGLE_SESSION_DB)")
	fs.DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "per-request timeout, 0 for none (env TRIPTANGLE_HTTP_TIMEOUT)")
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	logger := logging.New(stderr, logging.ParseLevel(cfg.LogLevel))

	a, err := app.Open(cfg, logger, nil)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	defer a.Close()

	cmd, ok := commands[fs.Arg(0)]
	if !ok {
		fmt.Fprintf(stderr, "Unknown command %q\n\n", fs.Arg(0))
		fs.Usage()
		return 2
	}

	c := &cli{app: a, out: stdout, errOut: stderr}
	if err := cmd(ctx, c, fs.Args()[1:]); err != nil {
		if errors.Is(err, errUsage) {
			return 2
		}
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}
