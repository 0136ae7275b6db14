package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/axellelanca/coursecatalog/cmd"
	apperrors "github.com/axellelanca/coursecatalog/internal/errors"
	"github.com/axellelanca/coursecatalog/internal/repository"
	"github.com/axellelanca/coursecatalog/internal/services"
)

// StatsCmd represents the 'stats' command
var StatsCmd = &cobra.Command{
	Use:   "stats [slug]",
	Short: "Get click statistics for a course",
	Long: `Prints the click counter of a course, the number of rows in its click
log and the clicks per utm_source.`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func init() {
	cmd.RootCmd.AddCommand(StatsCmd)
}

// runStats exécute la logique pour la commande stats
func runStats(cobraCmd *cobra.Command, args []string) error {
	slug := args[0]

	e, err := openEnv(cobraCmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.close()

	tracking := services.NewTrackingService(repository.NewCourseRepository(e.db), repository.NewClickRepository(e.db), e.log)
	stats, err := tracking.GetCourseStats(cobraCmd.Context(), slug)
	if err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return fmt.Errorf("course %q not found", slug)
		}
		return fmt.Errorf("error retrieving statistics: %w", err)
	}

	out := cobraCmd.OutOrStdout()
	fmt.Fprintf(out, "Statistics for course: %s\n", stats.Course.Slug)
	fmt.Fprintf(out, "Title: %s\n", stats.Course.Title)
	fmt.Fprintf(out, "Affiliate URL: %s\n", stats.Course.AffiliateURL)
	fmt.Fprintf(out, "Published: %t\n", stats.Course.IsPublished)
	fmt.Fprintf(out, "Click counter: %d\n", stats.Course.Clicks)
	fmt.Fprintf(out, "Click log entries: %d\n", stats.LogCount)
	fmt.Fprintf(out, "Created at: %s\n", stats.Course.CreatedAt.Format("2006-01-02 15:04:05"))
	if len(stats.BySource) > 0 {
		fmt.Fprintln(out, "By utm_source:")
		for _, s := range stats.BySource {
			source := s.Source
			if source == "" {
				source = "(none)"
			}
			fmt.Fprintf(out, "  %-20s %d\n", source, s.Count)
		}
	}
	return nil
}
