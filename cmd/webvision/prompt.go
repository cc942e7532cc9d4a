package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/v0xg/webvision/internal/ai"
	"github.com/v0xg/webvision/internal/correlate"
	"github.com/v0xg/webvision/internal/snapshot"
)

func (c *cli) promptCmd() *cobra.Command {
	var srs, ui, url, out string

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the test-generation prompt for a requirements document and snapshot",
		Long: `prompt embeds a requirements document and a snapshot in the master prompt
used to generate a feature file, page object and step definitions. Both
inputs are validated first.`,
		Example: `  webvision prompt --srs srs.json --ui page.json --url "https://myapp.com/register" > prompt.txt`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srsData, err := os.ReadFile(srs)
			if err != nil {
				return fmt.Errorf("read requirements: %w", err)
			}
			if _, err := correlate.DecodeDocument(bytes.NewReader(srsData)); err != nil {
				return fmt.Errorf("%s: %w", srs, err)
			}

			uiData, err := os.ReadFile(ui)
			if err != nil {
				return fmt.Errorf("read snapshot: %w", err)
			}
			snap, err := snapshot.Decode(uiData)
			if err != nil {
				return fmt.Errorf("decode snapshot %s: %w", ui, err)
			}

			if url == "" {
				url = snap.PageURL
			}
			prompt := ai.BuildTestPrompt(string(srsData), string(uiData), url)

			if out != "" {
				if err := os.WriteFile(out, []byte(prompt), 0o644); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved to %s\n", out)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), prompt)
			return nil
		},
	}

	cmd.Flags().StringVar(&srs, "srs", "", "Requirements document (JSON)")
	cmd.Flags().StringVar(&ui, "ui", "", "Snapshot written by extract")
	cmd.Flags().StringVar(&url, "url", "", "Target URL (default: the snapshot's page URL)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the prompt to a file instead of stdout")
	_ = cmd.MarkFlagRequired("srs")
	_ = cmd.MarkFlagRequired("ui")
	return cmd
}
