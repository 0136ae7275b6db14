package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/axellelanca/coursecatalog/cmd"
	apperrors "github.com/axellelanca/coursecatalog/internal/errors"
	"github.com/axellelanca/coursecatalog/internal/models"
	"github.com/axellelanca/coursecatalog/internal/repository"
	"github.com/axellelanca/coursecatalog/internal/services"
)

var (
	createInput     models.CourseInput
	createPublished bool
)

// CreateCmd represents the 'create' command
var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Adds one course to the catalog.",
	Long: `This command creates a course from flags. A slug already in use is
reported and nothing is written.

Example:
  coursecatalog create --slug=go-basics --title="Go basics" --url="https://partner.example/go" --level=beginner`,
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		e, err := openEnv(cobraCmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer e.close()

		in := createInput
		in.IsPublished = &createPublished

		courses := services.NewCourseService(repository.NewCourseRepository(e.db), e.log)
		course, err := courses.CreateCourse(cobraCmd.Context(), in)
		if err != nil {
			if errors.Is(err, apperrors.ErrDuplicateSlug) {
				return fmt.Errorf("slug %q is already used by another course", in.Slug)
			}
			return err
		}

		out := cobraCmd.OutOrStdout()
		fmt.Fprintln(out, "Course created:")
		fmt.Fprintf(out, "ID: %d\n", course.ID)
		fmt.Fprintf(out, "Page: %s/course/%s\n", e.cfg.Server.BaseURL, course.Slug)
		fmt.Fprintf(out, "Tracked link: %s/out/%s\n", e.cfg.Server.BaseURL, course.Slug)
		return nil
	},
}

func init() {
	f := CreateCmd.Flags()
	f.StringVar(&createInput.Slug, "slug", "", "unique course slug (lowercase, hyphen separated)")
	f.StringVar(&createInput.Title, "title", "", "course title")
	f.StringVar(&createInput.Provider, "provider", "", "course provider")
	f.StringVar(&createInput.CategorySlug, "category", "", "category slug")
	f.StringVar(&createInput.Level, "level", "", "beginner, middle or pro")
	f.StringVar(&createInput.Format, "format", "", "online, offline or mixed")
	f.IntVar(&createInput.PriceFrom, "price", 0, "starting price")
	f.StringVar(&createInput.Duration, "duration", "", "human readable duration")
	f.StringVar(&createInput.Tags, "tags", "", "comma separated tags")
	f.StringVar(&createInput.ShortDesc, "desc", "", "short description")
	f.StringVar(&createInput.AffiliateURL, "url", "", "affiliate URL visitors are redirected to")
	f.BoolVar(&createPublished, "published", true, "show the course in the public catalog")

	_ = CreateCmd.MarkFlagRequired("slug")
	_ = CreateCmd.MarkFlagRequired("title")

	cmd.RootCmd.AddCommand(CreateCmd)
}
