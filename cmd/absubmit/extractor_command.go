package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"absubmit/internal/eligibility"
	"absubmit/internal/extractor"
)

func newExtractorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "extractor",
		Short: "Show the extractor binary and its fingerprint",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			handle, err := extractor.Resolve(cmd.Context(), cfg.Extractor.Path)
			if err != nil {
				return err
			}
			source := "PATH"
			if strings.TrimSpace(cfg.Extractor.Path) != "" {
				source = "config"
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Field", "Value"},
				[][]string{
					{"Path", handle.Path},
					{"Source", source},
					{"Fingerprint", handle.Fingerprint},
				},
				nil,
			))
			return nil
		},
	}
}

func newFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "formats",
		Short:       "List the file formats the extractor accepts",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, format := range eligibility.SupportedFormats() {
				fmt.Fprintln(out, format)
			}
			return nil
		},
	}
}
