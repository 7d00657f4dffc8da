package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"fastimage/internal/output"
)

func newAnalyzeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <path-or-url>...",
		Short: "Report format, dimensions and transfer statistics",
		Long: `Analyze one or more local files or http(s) URLs.

Locators are processed concurrently (batch.concurrency) and optionally paced
(batch.rate_limit, in requests per second). Results are printed in input
order. The command fails if any locator could not be analyzed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			batch := a.cfg.BatchOptions()
			if c, _ := cmd.Flags().GetInt("concurrency"); c > 0 {
				batch.Concurrency = c
			}

			results, err := a.analyzer.AnalyzeAll(cmd.Context(), args, batch)
			if err != nil {
				return fmt.Errorf("analyzing: %w", err)
			}

			if err := a.printer.Results(a.format, results); err != nil {
				return fmt.Errorf("writing results: %w", err)
			}

			for _, r := range results {
				if r.Err != nil {
					return ErrAnalysisFailed
				}
			}
			return nil
		},
	}

	cmd.Flags().IntP("concurrency", "c", 0, "analyses in flight (default from config)")
	return cmd
}

func newSizeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "size <path-or-url>",
		Short: "Print the pixel dimensions of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			width, height, err := a.analyzer.Size(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if a.format == output.FormatJSON {
				return writeJSON(cmd, map[string]uint32{"width": width, "height": height})
			}
			a.printer.Print("%dx%d", width, height)
			return nil
		},
	}
}

func newTypeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "type <path-or-url>",
		Short: "Print the format of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := a.analyzer.Type(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if a.format == output.FormatJSON {
				return writeJSON(cmd, map[string]string{"format": string(format), "mimeType": format.MIME()})
			}
			a.printer.Print("%s\t%s", format, a.printer.Dim(format.MIME()))
			return nil
		},
	}
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
