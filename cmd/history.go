package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ali-gai/MCQs-Generator/internal/export"
	"github.com/ali-gai/MCQs-Generator/internal/store"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse saved generations",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent generations",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		docID, _ := cmd.Flags().GetString("document")

		_, s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		gens, err := s.GenerationRepo().List(ctx, store.ListOpts{Limit: limit, DocumentID: docID})
		if err != nil {
			return fmt.Errorf("list generations: %w", err)
		}
		if len(gens) == 0 {
			fmt.Println("No generations found.")
			return nil
		}

		docs := s.DocumentRepo()
		names := map[string]string{}

		fmt.Printf("%-36s  %-19s  %-24s  %-9s  %s\n",
			"ID", "Created", "Document", "Questions", "Model")
		fmt.Println(strings.Repeat("─", 110))
		for _, g := range gens {
			name, ok := names[g.DocumentID]
			if !ok {
				name = "(deleted)"
				if doc, err := docs.Get(ctx, g.DocumentID); err == nil {
					name = doc.Name
				}
				names[g.DocumentID] = name
			}
			fmt.Printf("%-36s  %-19s  %-24s  %-9s  %s\n",
				g.ID,
				g.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				truncate(name, 24),
				fmt.Sprintf("%d/%d", g.ParsedCount, g.QuestionCount),
				g.Model,
			)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a saved generation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		g, err := s.GenerationRepo().Get(ctx, args[0])
		if err != nil {
			return lookupError(cmd, err)
		}

		fmt.Printf("ID:        %s\n", g.ID)
		fmt.Printf("Document:  %s\n", g.DocumentID)
		if doc, err := s.DocumentRepo().Get(ctx, g.DocumentID); err == nil {
			fmt.Printf("File:      %s (%d pages, %d characters)\n", doc.Name, doc.PageCount, doc.CharCount)
		}
		fmt.Printf("Time:      %s\n", g.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("Model:     %s\n", g.Model)
		fmt.Printf("Questions: %d parsed / %d requested\n", g.ParsedCount, g.QuestionCount)
		fmt.Printf("Tokens:    %d in / %d out\n", g.InputTokens, g.OutputTokens)
		fmt.Println(strings.Repeat("─", 60))
		fmt.Print(g.Text)
		if !strings.HasSuffix(g.Text, "\n") {
			fmt.Println()
		}
		return nil
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Write a saved generation to a PDF or TXT file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		formatVal, _ := cmd.Flags().GetString("format")
		outDir, _ := cmd.Flags().GetString("out")

		formats, err := parseFormats(formatVal)
		if err != nil {
			return err
		}

		_, s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		g, err := s.GenerationRepo().Get(ctx, args[0])
		if err != nil {
			return lookupError(cmd, err)
		}
		for _, f := range formats {
			path, err := export.WriteFile(ctx, outDir, f, g.Text)
			if err != nil {
				return fmt.Errorf("export %s: %w", f, err)
			}
			fmt.Println(path)
		}
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved generation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.GenerationRepo().Delete(cmd.Context(), args[0]); err != nil {
			return lookupError(cmd, err)
		}
		fmt.Printf("Deleted generation %s\n", args[0])
		return nil
	},
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 20, "Number of generations to show")
	historyListCmd.Flags().StringP("document", "d", "", "Only show generations of this document ID")

	historyExportCmd.Flags().String("format", "pdf", "Output format: pdf, txt or both")
	historyExportCmd.Flags().StringP("out", "o", ".", "Directory the files are written to")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyDeleteCmd)
}

// lookupError reports a missing generation in plain words and passes
// anything else through.
func lookupError(cmd *cobra.Command, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return reportError(cmd, err)
	}
	return err
}
