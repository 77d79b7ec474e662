package cmd

import (
	"fmt"

	"github.com/ali-gai/MCQs-Generator/internal/logger"
	"github.com/ali-gai/MCQs-Generator/internal/tui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the terminal UI",
	Long: `Open the terminal UI: pick a PDF, choose how many MCQs to generate,
then read the result and save it as PDF or TXT.

Logs go to the file named by LOG_FILE, or nowhere when it is unset.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		return runTUI(cmd, out)
	},
}

func init() {
	tuiCmd.Flags().StringP("out", "o", "", "Directory saved files are written to (default: working directory)")
}

// runTUI wires the pipeline and launches the terminal UI.
func runTUI(cmd *cobra.Command, outDir string) error {
	log, closeLog, err := logger.ForTUI("tui")
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closeLog()

	a, err := openApp(cmd, log)
	if err != nil {
		return err
	}
	defer a.Close()

	return tui.Run(cmd.Context(), tui.Options{
		Pipeline: a.svc,
		Limits:   a.cfg.Limits,
		OutDir:   outDir,
		Model:    a.provider.ModelID(),
	})
}
