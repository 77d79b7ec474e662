package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ali-gai/MCQs-Generator/internal/config"
	"github.com/ali-gai/MCQs-Generator/internal/export"
	"github.com/ali-gai/MCQs-Generator/internal/mcq"
	"github.com/ali-gai/MCQs-Generator/internal/service"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate <file.pdf>",
	Short: "Generate MCQs from a PDF and save them",
	Long: `Extract the text of a PDF, generate MCQs from it and save them.

By default the questions are written to generated_mcqs.pdf and
generated_mcqs.txt in the output directory. Use --stdout to print the
text instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().IntP("count", "n", 0, "Number of MCQs to generate (default from config, 5)")
	generateCmd.Flags().StringP("out", "o", ".", "Directory the files are written to")
	generateCmd.Flags().String("format", "both", "Output format: pdf, txt or both")
	generateCmd.Flags().Bool("stdout", false, "Print the MCQs instead of writing files")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	outDir, _ := cmd.Flags().GetString("out")
	formatVal, _ := cmd.Flags().GetString("format")
	toStdout, _ := cmd.Flags().GetBool("stdout")

	formats, err := parseFormats(formatVal)
	if err != nil {
		return err
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	a, err := openApp(cmd, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	count, err := questionCount(cmd, a.cfg)
	if err != nil {
		return reportError(cmd, err)
	}

	ctx := cmd.Context()
	out, err := a.svc.Run(ctx, filepath.Base(path), data, count)
	if err != nil {
		return reportError(cmd, err)
	}

	w := cmd.OutOrStdout()
	if toStdout {
		fmt.Fprint(w, out.Result.Text)
		return nil
	}

	fmt.Fprintln(cmd.ErrOrStderr(), service.MsgGenerated)
	for _, warning := range out.Result.Warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", warning)
	}
	for _, f := range formats {
		written, err := export.WriteFile(ctx, outDir, f, out.Result.Text)
		if err != nil {
			return fmt.Errorf("save %s: %w", f, err)
		}
		fmt.Fprintln(w, written)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Saved generation %s (%d of %d questions parsed)\n",
		out.Generation.ID, out.Generation.ParsedCount, out.Generation.QuestionCount)
	return nil
}

// parseFormats accepts a single export format or "both".
func parseFormats(val string) ([]export.Format, error) {
	if val == "both" {
		return export.Formats, nil
	}
	f, err := export.ParseFormat(val)
	if err != nil {
		return nil, err
	}
	return []export.Format{f}, nil
}

// questionCount returns the configured default when --count is not given.
// An explicit value, including 0, must lie within the configured bounds.
func questionCount(cmd *cobra.Command, cfg *config.Config) (int, error) {
	if !cmd.Flags().Changed("count") {
		return cfg.Limits.DefaultQuestions, nil
	}
	n, _ := cmd.Flags().GetInt("count")
	if n < cfg.Limits.MinQuestions || n > cfg.Limits.MaxQuestions {
		return 0, &mcq.CountError{Count: n, Min: cfg.Limits.MinQuestions, Max: cfg.Limits.MaxQuestions}
	}
	return n, nil
}
