package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/axellelanca/coursecatalog/cmd"
	"github.com/axellelanca/coursecatalog/internal/database"
	"github.com/axellelanca/coursecatalog/internal/repository"
	"github.com/axellelanca/coursecatalog/internal/seed"
	"github.com/axellelanca/coursecatalog/internal/services"
)

var (
	seedCount     int
	seedValue     int64
	seedPublished float64
)

// SeedCmd represents the 'seed' command
var SeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fills the catalog with generated demo courses.",
	Long: `This command generates demo courses and stores them. Slugs that
already exist are skipped, so running it twice with the same --seed is harmless.`,
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		e, err := openEnv(cobraCmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer e.close()

		if err := database.Migrate(e.db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}

		if seedValue == 0 {
			seedValue = time.Now().UnixNano()
		}
		courses := services.NewCourseService(repository.NewCourseRepository(e.db), e.log)
		res, err := seed.Run(cobraCmd.Context(), courses, seed.Config{
			Count:           seedCount,
			Seed:            seedValue,
			PublishedChance: seedPublished,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cobraCmd.OutOrStdout(), "Seeded %d courses (%d skipped, seed %d).\n", res.Created, res.Skipped, seedValue)
		return nil
	},
}

func init() {
	SeedCmd.Flags().IntVar(&seedCount, "count", 30, "number of courses to generate")
	SeedCmd.Flags().Int64Var(&seedValue, "seed", 0, "random seed, 0 picks one from the clock")
	SeedCmd.Flags().Float64Var(&seedPublished, "published", 0.9, "share of published courses (0-1)")

	cmd.RootCmd.AddCommand(SeedCmd)
}
