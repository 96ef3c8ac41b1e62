package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"fanki/internal/config"
	"fanki/internal/deck"
	"fanki/internal/logging"
	"fanki/internal/preflight"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var skipChecks bool

	cmd := &cobra.Command{
		Use:   "build [namespace/alias]",
		Short: "Build the package for one deck",
		Long: "Build resolves every card of a deck, converts its media, and writes\n" +
			"<packages_dir>/<namespace>_<alias>.apkg. Without an argument an\n" +
			"interactive terminal is offered a menu of discovered decks.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			var key string
			if len(args) == 1 {
				key = args[0]
			} else {
				if !isTerminal(cmd.InOrStdin()) {
					return errors.New("deck argument required (namespace/alias) when not running in a terminal")
				}
				entries, err := deck.Discover(cfg.Paths.RootDir)
				if err != nil {
					return err
				}
				entry, err := chooseDeck(cmd.InOrStdin(), cmd.ErrOrStderr(), entries)
				if err != nil {
					return err
				}
				key = entry.Key()
			}
			namespace, alias, err := deck.ParseKey(key)
			if err != nil {
				return err
			}

			if !skipChecks {
				if err := runBuildChecks(cmd, cfg); err != nil {
					return err
				}
			}

			def, err := deck.LoadDefinition(deck.Locate(cfg.Paths.RootDir, namespace, alias))
			if err != nil {
				logBuildError(logger, err)
				return err
			}

			result, err := deck.NewGenerator(cfg, logger).Build(cmd.Context(), def)
			if err != nil {
				logBuildError(logger, err)
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.PackagePath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipChecks, "skip-checks", false, "Skip dependency and directory checks before building")
	return cmd
}

// runBuildChecks refuses to start a build that would fail part way through.
// Optional failures are logged and the build continues.
func runBuildChecks(cmd *cobra.Command, cfg *config.Config) error {
	var problems []string
	for _, status := range preflightDeps(cmd, cfg) {
		if !status.Available && !status.Optional {
			problems = append(problems, fmt.Sprintf("%s: %s", status.Name, status.Detail))
		}
	}

	results := preflight.RunAll(cmd.Context(), cfg)
	for _, r := range preflight.Blocking(results) {
		problems = append(problems, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	for _, r := range preflight.Failed(results) {
		if r.Optional {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %s\n", r.Name, r.Detail)
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("preflight checks failed:\n  %s", strings.Join(problems, "\n  "))
	}
	return nil
}

// chooseDeck prints a numbered menu of entries to out and reads a 1-based
// choice from in. Invalid input is re-prompted until in is exhausted.
func chooseDeck(in io.Reader, out io.Writer, entries []deck.Entry) (deck.Entry, error) {
	if len(entries) == 0 {
		return deck.Entry{}, errors.New("no decks found under the deck root")
	}
	for i, entry := range entries {
		fmt.Fprintf(out, "%3d) %s\n", i+1, entry.Key())
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(out, "Select a deck [1-%d]: ", len(entries))
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return deck.Entry{}, fmt.Errorf("read selection: %w", err)
			}
			return deck.Entry{}, errors.New("no deck selected")
		}
		choice := strings.TrimSpace(scanner.Text())
		n, err := strconv.Atoi(choice)
		if err == nil && n >= 1 && n <= len(entries) {
			return entries[n-1], nil
		}
		for _, entry := range entries {
			if entry.Key() == choice {
				return entry, nil
			}
		}
		fmt.Fprintf(out, "%q is not a listed deck\n", choice)
	}
}

// logBuildError keeps definition problems distinguishable in the log file.
func logBuildError(logger *slog.Logger, err error) {
	if deck.IsConfigError(err) {
		logger.Error("invalid deck definition",
			logging.String(logging.FieldEventType, "definition_invalid"),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "fix data.json and rerun"),
		)
		return
	}
	logger.Error("deck build failed",
		logging.String(logging.FieldEventType, "build_failed"),
		logging.Error(err),
	)
}
