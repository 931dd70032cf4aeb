package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yamala-stream/DashSEO/internal/analysis"
	"github.com/yamala-stream/DashSEO/internal/prompt"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		keyword   string
		secondary string
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Report word count, keyword density and the SEO checklist for a prompt",
		Long:  "Analyze reads the prompt from file, or from stdin when file is omitted or \"-\".",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			report := analysis.Analyze(text, keyword, prompt.SplitKeywords(secondary))
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().StringVarP(&keyword, "keyword", "k", "", "primary keyword")
	cmd.Flags().StringVar(&secondary, "secondary", "", "comma separated secondary keywords")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	_ = cmd.MarkFlagRequired("keyword")
	return cmd
}

func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(b), nil
}
