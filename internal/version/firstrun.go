package version

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dhabedank/activity-parser/internal/config"
	"github.com/dhabedank/activity-parser/internal/tui"
)

// IsFirstRun reports whether neither a user config nor the first-run marker exists.
func IsFirstRun(stateDir string) bool {
	if stateDir == "" {
		return false
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(stateDir), config.FileName)); err == nil {
		return false
	}
	if _, err := os.Stat(filepath.Join(stateDir, ".initialized")); err == nil {
		return false
	}
	return true
}

// MarkInitialized creates the first-run marker.
func MarkInitialized(stateDir string) {
	if stateDir == "" || os.MkdirAll(stateDir, 0755) != nil {
		return
	}
	_ = os.WriteFile(filepath.Join(stateDir, ".initialized"), nil, 0644)
}

// PrintFirstRunNotice greets a new user and marks the state dir initialized.
func PrintFirstRunNotice(w io.Writer, stateDir string) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s Welcome to activity-parser!\n", tui.TitleStyle.Render("*"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Quick start:")
	fmt.Fprintf(w, "    1. Pick a model: %s\n", tui.ModelStyle.Render("activity-parser setup"))
	fmt.Fprintf(w, "    2. Generate from a reading: %s\n", tui.ModelStyle.Render("activity-parser generate reading.pdf"))
	fmt.Fprintf(w, "    3. Browse what you have: %s\n", tui.ModelStyle.Render("activity-parser browse"))
	fmt.Fprintf(w, "    4. Serve the API: %s\n", tui.ModelStyle.Render("activity-parser serve"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", tui.HelpStyle.Render("Run 'activity-parser --help' for all options"))
	fmt.Fprintln(w)

	MarkInitialized(stateDir)
}
