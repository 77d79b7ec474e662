package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ali-gai/MCQs-Generator/internal/pdftext"
	"github.com/ali-gai/MCQs-Generator/internal/service"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview <file.pdf>",
	Short: "Show the text extracted from a PDF (no database, no LLM)",
	Long: `Extract the text of a PDF and report whether its length is accepted
for generation.

This is a stateless tool: nothing is stored and no model is called.
Useful for checking why a file is rejected before uploading it.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().Bool("pages", false, "Print the text page by page")
	previewCmd.Flags().Bool("quiet", false, "Only print the summary")
}

func runPreview(cmd *cobra.Command, args []string) error {
	byPage, _ := cmd.Flags().GetBool("pages")
	quiet, _ := cmd.Flags().GetBool("quiet")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	limits := pdftext.Limits{MinChars: cfg.Limits.MinChars, MaxChars: cfg.Limits.MaxChars}

	doc, err := pdftext.ExtractFile(cmd.Context(), args[0])
	if errors.Is(err, pdftext.ErrNotPDF) || errors.Is(err, pdftext.ErrUnreadable) {
		return reportError(cmd, err)
	}
	if err != nil {
		return err
	}

	if !quiet {
		sep := strings.Repeat("─", 60)
		if byPage {
			for _, p := range doc.Pages {
				fmt.Printf("── Page %d ──\n", p.Number)
				fmt.Println(p.Text)
			}
		} else {
			fmt.Println(sep)
			fmt.Println(doc.Text)
		}
		fmt.Println(sep)
	}

	chars := pdftext.Length(doc.Text)
	fmt.Printf("Pages:      %d (%d with text)\n", doc.PageCount, len(doc.Pages))
	fmt.Printf("Characters: %d (accepted %d-%d)\n", chars, limits.MinChars, limits.MaxChars)
	if err := limits.Check(doc.Text); err != nil {
		fmt.Printf("Verdict:    rejected. %s\n", service.UserMessage(err))
		return errSilent
	}
	fmt.Println("Verdict:    ready for generation")
	return nil
}
