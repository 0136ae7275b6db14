package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/axellelanca/coursecatalog/cmd"
	"github.com/axellelanca/coursecatalog/internal/monitor"
	"github.com/axellelanca/coursecatalog/internal/repository"
)

// CheckLinksCmd represents the 'check-links' command
var CheckLinksCmd = &cobra.Command{
	Use:   "check-links",
	Short: "Checks that every affiliate URL still answers.",
	Long: `This command sends one HEAD request to the affiliate URL of every
course and prints which ones are reachable. It exits with an error when at
least one URL is unreachable or missing.`,
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		e, err := openEnv(cobraCmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer e.close()

		timeout := time.Duration(e.cfg.Monitor.TimeoutSeconds) * time.Second
		m := monitor.NewURLMonitor(repository.NewCourseRepository(e.db), timeout, e.log)
		results, err := m.Check(cobraCmd.Context())
		if err != nil {
			return err
		}

		out := cobraCmd.OutOrStdout()
		failed := 0
		for _, r := range results {
			detail := ""
			if r.StatusCode != 0 {
				detail = fmt.Sprintf(" (HTTP %d)", r.StatusCode)
			}
			fmt.Fprintf(out, "%-12s %-40s %s%s\n", r.State, r.Slug, r.URL, detail)
			if r.State != monitor.StateReachable {
				failed++
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d affiliate URLs are not reachable", failed, len(results))
		}
		fmt.Fprintf(out, "All %d affiliate URLs are reachable.\n", len(results))
		return nil
	},
}

func init() {
	cmd.RootCmd.AddCommand(CheckLinksCmd)
}
