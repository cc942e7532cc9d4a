package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/v0xg/webvision/internal/correlate"
	"github.com/v0xg/webvision/internal/logger"
	"github.com/v0xg/webvision/internal/snapshot"
)

func (c *cli) correlateCmd() *cobra.Command {
	var srs, ui, out string

	cmd := &cobra.Command{
		Use:   "correlate",
		Short: "Map requirements onto the fields of a saved snapshot",
		Long: `correlate matches every requirement of a requirements document against
the fields of a snapshot written by extract: first by element id, then by
field name, then by label. Unmatched requirements are listed separately.`,
		Example: `  webvision correlate --srs srs.json --ui target/extractor_output/page.json --out mapping.json`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			doc, snap, err := c.loadInputs(cmd.Context(), srs, ui)
			if err != nil {
				return err
			}

			fmt.Fprintf(w, "→ Correlating %d requirements with %d fields... ", len(doc.Requirements), len(snap.Fields()))
			results := correlate.Correlate(doc.Requirements, snap)
			fmt.Fprintf(w, "done (%d matched)\n", len(results))
			c.logCorrelation(results)

			renderCorrelation(w, results, correlate.Unmatched(doc.Requirements, results))

			if out != "" {
				if err := writeJSON(out, results); err != nil {
					return err
				}
				fmt.Fprintf(w, "✓ Saved to %s\n", out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&srs, "srs", "", "Requirements document (JSON)")
	cmd.Flags().StringVar(&ui, "ui", "", "Snapshot written by extract")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the correlation list as JSON")
	_ = cmd.MarkFlagRequired("srs")
	_ = cmd.MarkFlagRequired("ui")
	return cmd
}

// loadInputs reads a requirements document and a snapshot. Either failing
// aborts the run.
func (c *cli) loadInputs(ctx context.Context, srsPath, uiPath string) (*correlate.Document, *snapshot.PageSnapshot, error) {
	doc, err := correlate.LoadDocument(srsPath)
	if err != nil {
		c.log.Error("Cannot load requirements", logger.String("path", srsPath), logger.Error(err))
		return nil, nil, err
	}

	snap, err := snapshot.NewFileStore(filepath.Dir(uiPath)).Load(ctx, uiPath)
	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			return nil, nil, fmt.Errorf("snapshot %s does not exist; run extract first", uiPath)
		}
		return nil, nil, err
	}
	return doc, snap, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
