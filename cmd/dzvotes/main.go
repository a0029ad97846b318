// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command dzvotes inspects a vote ledger from the command line.
//
//	dzvotes leaderboard [server flags]
//	dzvotes export -o votes.xlsx [server flags]
//	dzvotes admin-key [server flags]
//
// Server flags and environment variables are the same as the API server's.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/danielhkuo/dzmatch-votes/auth"
	"github.com/danielhkuo/dzmatch-votes/ballot"
	"github.com/danielhkuo/dzmatch-votes/cliparse"
	"github.com/danielhkuo/dzmatch-votes/models"
	"github.com/danielhkuo/dzmatch-votes/store"
	"github.com/danielhkuo/dzmatch-votes/store/xlsx"
)

const usage = `usage: dzvotes <command> [flags]

commands:
  leaderboard   print every category's standings
  export        write all records to an .xlsx file (-o path)
  admin-key     print the admin key for ADMIN_KEY_SALT
`

func main() {
	if err := cliparse.LoadDotEnv(""); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errors.New(strings.TrimSpace(usage))
	}

	cmd, args := args[0], args[1:]
	switch cmd {
	case "leaderboard":
		cfg, err := cliparse.ParseFlags(args)
		if err != nil {
			return err
		}
		ledger, closeFn, err := openLedger(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeFn()
		return printLeaderboards(ctx, out, ledger)

	case "export":
		path, rest := splitOutputFlag(args)
		cfg, err := cliparse.ParseFlags(rest)
		if err != nil {
			return err
		}
		ledger, closeFn, err := openLedger(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeFn()
		return exportRecords(ctx, out, ledger, path)

	case "admin-key":
		cfg, err := cliparse.ParseFlags(args)
		if err != nil {
			return err
		}
		if cfg.AdminKeySalt == "" {
			return errors.New("ADMIN_KEY_SALT is not set")
		}
		fmt.Fprintln(out, auth.AdminKey(cfg.AdminKeySalt))
		return nil

	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}

func openLedger(ctx context.Context, cfg cliparse.Config) (*ballot.Ledger, func() error, error) {
	catalog, err := ballot.OpenCatalog(cfg.CatalogFile)
	if err != nil {
		return nil, nil, err
	}
	s, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	ledger := ballot.NewLedger(s, catalog, ballot.Options{
		Retries:    cfg.StorageRetries,
		RetryDelay: cfg.StorageRetryDelay,
	})
	return ledger, s.Close, nil
}

func printLeaderboards(ctx context.Context, out io.Writer, ledger *ballot.Ledger) error {
	boards, err := ledger.Leaderboards(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", models.MessageUnavailable, err)
	}
	stats, err := ledger.Stats(ctx)
	if err != nil {
		return err
	}

	heading := color.New(color.FgCyan, color.Bold)
	muted := color.New(color.FgYellow)

	if stats.Records == 0 {
		muted.Fprintln(out, models.MessageNoVotes)
		return nil
	}
	fmt.Fprintf(out, "%s voters, %s records\n", humanize.Comma(int64(stats.Voters)), humanize.Comma(int64(stats.Records)))

	for _, b := range boards {
		heading.Fprintf(out, "\n%s\n", b.Category)
		if len(b.Standings) == 0 {
			muted.Fprintln(out, models.MessageNoVotesInCategory)
			continue
		}

		table := tablewriter.NewWriter(out)
		table.SetHeader([]string{"Position", "Candidat", "Points", "Votes"})
		for _, s := range b.Standings {
			table.Append([]string{
				humanize.Ordinal(s.Position),
				s.Candidate,
				humanize.Ftoa(s.Points),
				humanize.Comma(int64(s.Votes)),
			})
		}
		table.Render()
	}
	return nil
}

func exportRecords(ctx context.Context, out io.Writer, ledger *ballot.Ledger, path string) error {
	records, err := ledger.Records(ctx)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := xlsx.WriteWorkbook(f, records); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	color.New(color.FgGreen).Fprintf(out, "wrote %s records to %s\n", humanize.Comma(int64(len(records))), path)
	return nil
}

// splitOutputFlag removes -o/--o (with a separate or = value) from args so
// the rest can go to cliparse. The default is votes-export.xlsx.
func splitOutputFlag(args []string) (string, []string) {
	path := "votes-export.xlsx"
	rest := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case (a == "-o" || a == "--o") && i+1 < len(args):
			path = args[i+1]
			i++
		case strings.HasPrefix(a, "-o="), strings.HasPrefix(a, "--o="):
			path = a[strings.Index(a, "=")+1:]
		default:
			rest = append(rest, a)
		}
	}
	return path, rest
}
