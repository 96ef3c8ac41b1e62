package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"fanki/internal/deck"
	"fanki/internal/fileutil"
)

type deckSummary struct {
	Deck    string `json:"deck"`
	Name    string `json:"name,omitempty"`
	Variant string `json:"variant,omitempty"`
	Cards   int    `json:"cards"`
	Built   bool   `json:"built"`
	Error   string `json:"error,omitempty"`
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List decks found under the deck root",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			entries, err := deck.Discover(cfg.Paths.RootDir)
			if err != nil {
				return err
			}

			summaries := make([]deckSummary, 0, len(entries))
			for _, entry := range entries {
				summary := deckSummary{
					Deck:  entry.Key(),
					Built: fileutil.IsRegularFile(deck.ArtifactPath(cfg.Paths.PackagesDir, entry.Namespace, entry.Alias)),
				}
				def, err := deck.LoadDefinition(entry.Path)
				if err != nil {
					summary.Error = err.Error()
				} else {
					summary.Name = def.Name
					summary.Variant = def.Variant
					summary.Cards = len(def.Cards)
				}
				summaries = append(summaries, summary)
			}

			if jsonOutput {
				return writeJSON(cmd, summaries)
			}
			out := cmd.OutOrStdout()
			if len(summaries) == 0 {
				fmt.Fprintf(out, "No decks found under %s\n", cfg.Paths.RootDir)
				return nil
			}
			rows := make([][]string, 0, len(summaries))
			for _, s := range summaries {
				name := s.Name
				if s.Error != "" {
					name = "invalid: " + s.Error
				}
				rows = append(rows, []string{s.Deck, name, s.Variant, strconv.Itoa(s.Cards), yesNo(s.Built)})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Deck", "Name", "Variant", "Cards", "Built"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
