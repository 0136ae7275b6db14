// Package seed fills the catalog with generated demo courses.
package seed

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/brianvoe/gofakeit/v6"

	apperrors "github.com/axellelanca/coursecatalog/internal/errors"
	"github.com/axellelanca/coursecatalog/internal/models"
	"github.com/axellelanca/coursecatalog/internal/services"
)

// Config configures course generation.
type Config struct {
	Count           int
	Seed            int64   // same seed, same courses
	PublishedChance float64 // 0.0-1.0
}

// Result counts what Run did.
type Result struct {
	Created int
	Skipped int // slug already in use
}

// topics maps a category slug to course subjects.
var topics = map[string][]string{
	"python":       {"Python", "Django", "FastAPI", "Pandas", "Python Automation"},
	"go":           {"Go", "Go Concurrency", "Microservices in Go", "Go Web Development"},
	"data-science": {"Data Analysis", "Machine Learning", "Statistics", "Data Visualization"},
	"neural-nets":  {"Neural Networks", "Deep Learning", "Computer Vision", "LLM Engineering", "Prompt Engineering"},
	"frontend":     {"JavaScript", "React", "TypeScript", "CSS Layout"},
	"devops":       {"Docker", "Kubernetes", "CI/CD", "Linux Administration"},
}

var titleSuffixes = []string{
	"from Scratch", "for Beginners", "Bootcamp", "in Practice", "Masterclass", "Intensive", "for Professionals",
}

var durations = []string{"2 weeks", "1 month", "6 weeks", "3 months", "6 months", "9 months", "1 year"}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and joins its ASCII words with hyphens.
func Slugify(s string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// Generate returns cfg.Count course inputs. Output is deterministic for a
// given cfg.Seed.
func Generate(cfg Config) []models.CourseInput {
	faker := gofakeit.New(cfg.Seed)

	categories := make([]string, 0, len(topics))
	for category := range topics {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	levels := []string{string(models.LevelBeginner), string(models.LevelMiddle), string(models.LevelPro)}
	formats := []string{string(models.FormatOnline), string(models.FormatOffline), string(models.FormatMixed)}

	inputs := make([]models.CourseInput, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		category := faker.RandomString(categories)
		subject := faker.RandomString(topics[category])
		title := fmt.Sprintf("%s %s", subject, faker.RandomString(titleSuffixes))
		provider := faker.Company()
		slug := Slugify(fmt.Sprintf("%s-%s", title, provider))

		published := faker.Float64Range(0, 1) < cfg.PublishedChance
		tags := []string{strings.ToLower(subject), category, strings.ToLower(faker.BuzzWord())}

		inputs = append(inputs, models.CourseInput{
			Slug:         slug,
			Title:        title,
			Provider:     provider,
			CategorySlug: category,
			Level:        faker.RandomString(levels),
			Format:       faker.RandomString(formats),
			PriceFrom:    faker.Number(10, 1500) * 100,
			Duration:     faker.RandomString(durations),
			Tags:         strings.Join(tags, ", "),
			ShortDesc:    faker.Sentence(14),
			AffiliateURL: fmt.Sprintf("https://%s.example.com/courses/%s?ref=catalog", Slugify(provider), slug),
			IsPublished:  &published,
		})
	}
	return inputs
}

// Run generates cfg.Count courses and stores them through the course
// service, skipping slugs that already exist.
func Run(ctx context.Context, courses *services.CourseService, cfg Config) (Result, error) {
	var res Result
	for _, in := range Generate(cfg) {
		_, err := courses.CreateCourse(ctx, in)
		switch {
		case err == nil:
			res.Created++
		case errors.Is(err, apperrors.ErrDuplicateSlug):
			res.Skipped++
		default:
			return res, fmt.Errorf("failed to seed course %q: %w", in.Slug, err)
		}
	}
	return res, nil
}
