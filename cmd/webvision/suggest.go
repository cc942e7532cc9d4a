package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/v0xg/webvision/internal/ai"
	"github.com/v0xg/webvision/internal/correlate"
	"github.com/v0xg/webvision/internal/logger"
)

func (c *cli) suggestCmd() *cobra.Command {
	var srs, ui string

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Ask an LLM for candidate fields for unmatched requirements",
		Long: `suggest runs the correlation passes and sends the requirements they left
unmatched, together with the page fields, to the configured AI provider.
Suggestions are advisory and are reported apart from the correlation.

Requires WEBVISION_ANTHROPIC_KEY/ANTHROPIC_API_KEY or
WEBVISION_OPENAI_KEY/OPENAI_API_KEY.`,
		Example: `  webvision suggest --srs srs.json --ui page.json --provider openai`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			ctx := cmd.Context()

			doc, snap, err := c.loadInputs(ctx, srs, ui)
			if err != nil {
				return err
			}

			results := correlate.Correlate(doc.Requirements, snap)
			unmatched := correlate.Unmatched(doc.Requirements, results)
			if len(unmatched) == 0 {
				fmt.Fprintf(w, "✓ All %d requirements matched, nothing to suggest\n", len(doc.Requirements))
				return nil
			}

			providerName := c.cfg.AI.Provider
			fmt.Fprintf(w, "→ Asking %s about %d unmatched requirements... ", providerName, len(unmatched))
			provider, err := ai.NewProvider(providerName, c.cfg.AI.Model)
			if err != nil {
				fmt.Fprintln(w, "failed")
				return fmt.Errorf("AI provider init failed: %w", err)
			}
			suggestions, err := provider.SuggestMatches(ctx, unmatched, snap.Fields())
			if err != nil {
				fmt.Fprintln(w, "failed")
				return fmt.Errorf("suggestion failed: %w", err)
			}
			fmt.Fprintf(w, "done (%d suggestions)\n", len(suggestions))
			c.log.Debug("Received suggestions",
				logger.String("provider", providerName),
				logger.Int("suggestions", len(suggestions)),
			)

			renderSuggestions(w, suggestions)
			return nil
		},
	}

	cmd.Flags().StringVar(&srs, "srs", "", "Requirements document (JSON)")
	cmd.Flags().StringVar(&ui, "ui", "", "Snapshot written by extract")
	cmd.Flags().String("provider", "", "AI provider: claude, openai (default: ai.provider or claude)")
	cmd.Flags().String("model", "", "Specific model override")
	c.bind(cmd.Flags().Lookup("provider"), "ai.provider")
	c.bind(cmd.Flags().Lookup("model"), "ai.model")
	_ = cmd.MarkFlagRequired("srs")
	_ = cmd.MarkFlagRequired("ui")
	return cmd
}
