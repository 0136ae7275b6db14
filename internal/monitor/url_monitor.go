package monitor

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/axellelanca/coursecatalog/internal/errors"
	"github.com/axellelanca/coursecatalog/internal/models"
	"github.com/axellelanca/coursecatalog/internal/repository"
)

// maxParallelChecks bounds the number of HEAD requests in flight.
const maxParallelChecks = 8

// LinkState is the result of checking one affiliate URL.
type LinkState string

const (
	StateReachable   LinkState = "reachable"
	StateUnreachable LinkState = "unreachable"
	StateMissing     LinkState = "missing" // course has no affiliate URL
)

// LinkStatus is the outcome of one course's check.
type LinkStatus struct {
	CourseID   uint
	Slug       string
	URL        string
	State      LinkState
	StatusCode int
	Err        error
}

// URLMonitor checks that the affiliate URLs of the catalog still answer.
// It runs one pass per call to Check; nothing runs in the background.
type URLMonitor struct {
	courseRepo repository.CourseRepository
	httpClient *http.Client
	timeout    time.Duration
	log        *zap.Logger
}

// NewURLMonitor creates a monitor whose requests time out after timeout.
func NewURLMonitor(courseRepo repository.CourseRepository, timeout time.Duration, log *zap.Logger) *URLMonitor {
	return &URLMonitor{
		courseRepo: courseRepo,
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
		log:        log,
	}
}

// Check sends a HEAD request to the affiliate URL of every course, published
// or not. Results are returned in the admin list order.
func (m *URLMonitor) Check(ctx context.Context) ([]LinkStatus, error) {
	courses, err := m.courseRepo.ListAllCourses(ctx)
	if err != nil {
		return nil, err
	}

	m.log.Info("checking affiliate URLs", zap.Int("courses", len(courses)))

	results := make([]LinkStatus, len(courses))
	sem := make(chan struct{}, maxParallelChecks)
	var wg sync.WaitGroup
	for i := range courses {
		wg.Add(1)
		go func(i int, course models.Course) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = m.checkCourse(ctx, course)
		}(i, courses[i])
	}
	wg.Wait()

	for _, r := range results {
		if r.State != StateReachable {
			m.log.Warn("affiliate URL not reachable",
				zap.String("slug", r.Slug), zap.String("url", r.URL),
				zap.String("state", string(r.State)), zap.Error(r.Err))
		}
	}
	return results, nil
}

func (m *URLMonitor) checkCourse(ctx context.Context, course models.Course) LinkStatus {
	status := LinkStatus{CourseID: course.ID, Slug: course.Slug, URL: course.AffiliateURL}
	if strings.TrimSpace(course.AffiliateURL) == "" {
		status.State = StateMissing
		return status
	}

	code, err := m.head(ctx, course.AffiliateURL)
	status.StatusCode = code
	status.Err = err
	// 2xx and 3xx count as reachable
	if err == nil && code >= 200 && code < 400 {
		status.State = StateReachable
	} else {
		status.State = StateUnreachable
	}
	return status
}

func (m *URLMonitor) head(ctx context.Context, url string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, apperrors.ErrURLCheckFailed{URL: url, Reason: err.Error()}
	}
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return 0, apperrors.ErrURLCheckFailed{URL: url, Reason: err.Error()}
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}
