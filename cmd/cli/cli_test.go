package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axellelanca/coursecatalog/cmd"
	"github.com/axellelanca/coursecatalog/internal/database"
	"github.com/axellelanca/coursecatalog/internal/models"
	"github.com/axellelanca/coursecatalog/internal/repository"
)

// newConfigDir writes a config.yaml pointing at a fresh SQLite file and
// returns the directory and the database path.
func newConfigDir(t *testing.T) (string, string) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "catalog.db")
	yaml := fmt.Sprintf("database:\n  driver: sqlite\n  name: %q\nlog:\n  level: info\nmonitor:\n  timeout_seconds: 2\n", dbPath)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	return dir, dbPath
}

// run executes the root command and returns stdout and stderr separately.
func run(t *testing.T, args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	cmd.RootCmd.SetOut(&stdout)
	cmd.RootCmd.SetErr(&stderr)
	cmd.RootCmd.SetArgs(args)
	t.Cleanup(func() {
		cmd.RootCmd.SetOut(nil)
		cmd.RootCmd.SetErr(nil)
		cmd.RootCmd.SetArgs(nil)
	})
	err := cmd.RootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCreateAndStats(t *testing.T) {
	dir, dbPath := newConfigDir(t)

	out, _, err := run(t, "--config", dir, "migrate")
	require.NoError(t, err)
	assert.Equal(t, "Database migrations executed successfully.\n", out)

	out, logs, err := run(t, "--config", dir, "create",
		"--slug", "go-basics", "--title", "Go basics", "--level", "beginner",
		"--url", "https://partner.example/go", "--published=true")
	require.NoError(t, err)
	assert.Contains(t, out, "Course created:")
	assert.Contains(t, out, "/out/go-basics")
	assert.NotContains(t, out, `"level"`, "logs must not reach stdout")
	assert.Contains(t, logs, "course created")

	_, _, err = run(t, "--config", dir, "create", "--slug", "go-basics", "--title", "Again")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `slug "go-basics" is already used`)

	db, err := database.OpenSQLite(dbPath, nil)
	require.NoError(t, err)
	course, err := repository.NewCourseRepository(db).GetCourseBySlug(context.Background(), "go-basics")
	require.NoError(t, err)
	clicks := repository.NewClickRepository(db)
	tg := "tg"
	require.NoError(t, clicks.RecordClick(context.Background(), &models.Click{CourseID: course.ID, UTMSource: &tg}))
	require.NoError(t, clicks.RecordClick(context.Background(), &models.Click{CourseID: course.ID, UTMSource: &tg}))
	require.NoError(t, clicks.RecordClick(context.Background(), &models.Click{CourseID: course.ID}))
	require.NoError(t, database.Close(db))

	out, _, err = run(t, "--config", dir, "stats", "go-basics")
	require.NoError(t, err)
	assert.Contains(t, out, "Statistics for course: go-basics\n")
	assert.Contains(t, out, "Click counter: 3\n")
	assert.Contains(t, out, "Click log entries: 3\n")
	assert.Regexp(t, `(?m)^  tg\s+2$`, out)
	assert.Regexp(t, `(?m)^  \(none\)\s+1$`, out)

	_, _, err = run(t, "--config", dir, "stats", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `course "missing" not found`)
}

func TestCheckLinksExitStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	dir, _ := newConfigDir(t)
	_, _, err := run(t, "--config", dir, "migrate")
	require.NoError(t, err)

	_, _, err = run(t, "--config", dir, "create", "--slug", "alive", "--title", "Alive", "--url", upstream.URL+"/c")
	require.NoError(t, err)

	out, _, err := run(t, "--config", dir, "check-links")
	require.NoError(t, err)
	assert.Contains(t, out, "All 1 affiliate URLs are reachable.")

	_, _, err = run(t, "--config", dir, "create", "--slug", "no-link", "--title", "No link", "--url=")
	require.NoError(t, err)

	out, _, err = run(t, "--config", dir, "check-links")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 affiliate URLs are not reachable")
	assert.Regexp(t, `(?m)^missing\s+no-link`, out)
	assert.Regexp(t, `(?m)^reachable\s+alive`, out)
}
