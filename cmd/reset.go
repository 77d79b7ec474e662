package cmd

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete stored uploads and their generations",
	Long: `Delete stored uploads and every generation made from them.

With --older-than only uploads older than the given age are removed, the
same sweep "serve" runs on its retention interval. LLM request events
are kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		olderThan, _ := cmd.Flags().GetDuration("older-than")
		yes, _ := cmd.Flags().GetBool("yes")

		if olderThan < 0 {
			return fmt.Errorf("--older-than cannot be negative")
		}

		if !yes {
			what := "all stored uploads and generations"
			if olderThan > 0 {
				what = fmt.Sprintf("uploads older than %s and their generations", olderThan)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Delete %s? [y/N] ", what)
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}

		_, s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := s.DocumentRepo().Prune(cmd.Context(), time.Now().Add(-olderThan))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d upload(s).\n", n)
		return nil
	},
}

func init() {
	resetCmd.Flags().Duration("older-than", 0, "Only delete uploads older than this age (e.g. 72h)")
	resetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
