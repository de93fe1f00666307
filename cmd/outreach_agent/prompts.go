package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/cold-connect/internal/prompts"
)

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "List the built-in model prompts",
	Long:  "List the embedded prompt templates with the placeholders each one needs, or print one template with --show.",
	RunE:  runPrompts,
}

var promptsShow string

func init() {
	promptsCmd.Flags().StringVar(&promptsShow, "show", "", "Print the template for this prompt key")

	rootCmd.AddCommand(promptsCmd)
}

func runPrompts(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	if promptsShow != "" {
		template, err := prompts.Get(prompts.OutreachFile, promptsShow)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, template)
		return nil
	}

	keys, err := prompts.List(prompts.OutreachFile)
	if err != nil {
		return err
	}
	for _, key := range keys {
		// Keys come from the file itself.
		placeholders := prompts.Placeholders(prompts.MustGet(prompts.OutreachFile, key))
		_, _ = fmt.Fprintf(out, "%-14s %s\n", key, strings.Join(placeholders, ", "))
	}
	return nil
}
