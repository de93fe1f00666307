package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/cold-connect/internal/ingestion"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Clean raw careers-page text",
	Long:  "Strip markup, URLs and stray punctuation from a saved careers page (or stdin) and collapse whitespace.",
	RunE:  runNormalize,
}

var (
	normalizeIn       string
	normalizeOut      string
	normalizeShowMeta bool
)

func init() {
	normalizeCmd.Flags().StringVarP(&normalizeIn, "in", "i", "", "Path to HTML or text file (reads stdin when omitted)")
	normalizeCmd.Flags().StringVarP(&normalizeOut, "out", "o", "", "Write the cleaned text to this file instead of stdout")
	normalizeCmd.Flags().BoolVar(&normalizeShowMeta, "meta", false, "Print ingestion metadata as JSON after the text")

	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, _ []string) error {
	var (
		cleaned  string
		metadata *ingestion.Metadata
		err      error
	)

	if normalizeIn != "" {
		cleaned, metadata, err = ingestion.IngestFromFile(normalizeIn)
		if err != nil {
			return fmt.Errorf("failed to ingest from file: %w", err)
		}
	} else {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		cleaned = ingestion.Normalize(string(raw))
		metadata = ingestion.NewMetadata(cleaned, "")
		metadata.RawLength = len(raw)
	}

	if normalizeOut != "" {
		if err := os.WriteFile(normalizeOut, []byte(cleaned+"\n"), 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cleaned text: %s (%d chars)\n", normalizeOut, len(cleaned))
	} else {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), cleaned)
	}

	if normalizeShowMeta {
		data, err := metadata.ToJSON()
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	}
	return nil
}
