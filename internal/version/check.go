// Package version checks for newer releases and greets first-time users.
package version

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhabedank/activity-parser/internal/tui"
)

const (
	// GitHubRepo is the repository for version checks.
	GitHubRepo = "dhabedank/activity-parser"

	// CheckInterval is how often to check for updates.
	CheckInterval = 24 * time.Hour

	stateDirName = ".activity-parser"
)

// Release is the part of a GitHub release we read.
type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// CheckResult holds the result of a version check.
type CheckResult struct {
	CurrentVersion  string
	LatestVersion   string
	UpdateAvailable bool
	ReleaseURL      string
}

// Checker looks up the latest release at most once per CheckInterval.
type Checker struct {
	APIBase  string // https://api.github.com unless overridden
	StateDir string // holds the last-check marker; ~/.activity-parser by default
	Client   *http.Client
}

// NewChecker returns a checker against the GitHub API.
func NewChecker() *Checker {
	return &Checker{
		APIBase:  "https://api.github.com",
		StateDir: StateDir(),
		Client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// StateDir is the per-user directory for markers.
func StateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, stateDirName)
}

// CheckForUpdate reports a newer release, or nil when there is none,
// the check ran recently, or the lookup failed.
func (c *Checker) CheckForUpdate(ctx context.Context, currentVersion string) *CheckResult {
	if currentVersion == "dev" || currentVersion == "" {
		return nil
	}
	if c.recentlyChecked() {
		return nil
	}
	c.markChecked()

	latest, err := c.fetchLatest(ctx)
	if err != nil {
		return nil
	}

	if !isNewerVersion(strings.TrimPrefix(latest.TagName, "v"), strings.TrimPrefix(currentVersion, "v")) {
		return nil
	}
	return &CheckResult{
		CurrentVersion:  currentVersion,
		LatestVersion:   latest.TagName,
		UpdateAvailable: true,
		ReleaseURL:      latest.HTMLURL,
	}
}

// PrintUpdateNotice writes a notice when an update is available.
func PrintUpdateNotice(w io.Writer, result *CheckResult) {
	if result == nil || !result.UpdateAvailable {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s A new version of activity-parser is available: %s (you have %s)\n",
		tui.WarningStyle.Render("!"),
		tui.SuccessStyle.Render(result.LatestVersion),
		result.CurrentVersion,
	)
	fmt.Fprintf(w, "  Update: %s\n", tui.HelpStyle.Render("go install github.com/"+GitHubRepo+"@latest"))
	if result.ReleaseURL != "" {
		fmt.Fprintf(w, "  Notes: %s\n", tui.HelpStyle.Render(result.ReleaseURL))
	}
	fmt.Fprintln(w)
}

func (c *Checker) fetchLatest(ctx context.Context) (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", strings.TrimRight(c.APIBase, "/"), GitHubRepo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub API returned %d", resp.StatusCode)
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, err
	}
	return &release, nil
}

func (c *Checker) markerPath() string {
	if c.StateDir == "" {
		return ""
	}
	return filepath.Join(c.StateDir, ".last-update-check")
}

func (c *Checker) recentlyChecked() bool {
	path := c.markerPath()
	if path == "" {
		return true
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) < CheckInterval
}

func (c *Checker) markChecked() {
	path := c.markerPath()
	if path == "" || os.MkdirAll(filepath.Dir(path), 0755) != nil {
		return
	}
	now := time.Now()
	if err := os.Chtimes(path, now, now); os.IsNotExist(err) {
		_ = os.WriteFile(path, nil, 0644)
	}
}

// isNewerVersion compares dot-separated numeric versions.
func isNewerVersion(latest, current string) bool {
	latestParts := strings.Split(latest, ".")
	currentParts := strings.Split(current, ".")

	for i := 0; i < len(latestParts) && i < len(currentParts); i++ {
		l := parseVersionPart(latestParts[i])
		c := parseVersionPart(currentParts[i])
		if l != c {
			return l > c
		}
	}
	return len(latestParts) > len(currentParts)
}

// parseVersionPart extracts the leading number, e.g. 1 from "1-beta".
func parseVersionPart(s string) int {
	var n int
	_, _ = fmt.Sscanf(s, "%d", &n)
	return n
}
