// Package store keeps activity documents as <slug>.md files in one directory.
//
// Every read re-parses the file; nothing is cached. Concurrent writers that
// derive the same slug are resolved by the configured CollisionPolicy: each
// suffix or error save claims its file name atomically.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dhabedank/activity-parser/internal/activity"
)

// TemplateFile is the prompt template kept alongside activities. It is never listed.
const TemplateFile = "TEMPLATE.md"

var (
	// ErrNotFound is returned when no document exists for a slug.
	ErrNotFound = errors.New("activity not found")

	// ErrSlugExists is returned by Save under CollisionError when the slug is taken.
	ErrSlugExists = errors.New("activity slug already exists")

	slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// CollisionPolicy decides what Save does when the slug is already taken.
type CollisionPolicy string

const (
	CollisionSuffix    CollisionPolicy = "suffix"    // Write <slug>-2, <slug>-3, ...
	CollisionOverwrite CollisionPolicy = "overwrite" // Replace the existing document
	CollisionError     CollisionPolicy = "error"     // Refuse with ErrSlugExists
)

// ParseCollisionPolicy validates a policy name. Empty means CollisionSuffix.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch CollisionPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", CollisionSuffix:
		return CollisionSuffix, nil
	case CollisionOverwrite:
		return CollisionOverwrite, nil
	case CollisionError:
		return CollisionError, nil
	}
	return "", fmt.Errorf("unknown collision policy: %s", s)
}

// Store reads and writes activity documents.
type Store struct {
	dir string
}

// New creates a store rooted at dir.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the directory holding the documents.
func (s *Store) Dir() string {
	return s.dir
}

// Init creates the activities directory if needed.
func (s *Store) Init() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", s.dir, err)
	}
	return nil
}

// ValidateSlug rejects slugs that are not lowercase dash-separated words.
func ValidateSlug(slug string) error {
	if !slugPattern.MatchString(slug) {
		return &activity.ValidationError{Field: "slug", Message: fmt.Sprintf("invalid slug %q", slug)}
	}
	return nil
}

// readableSlug accepts any existing file stem that cannot escape the directory.
func readableSlug(slug string) bool {
	return slug != "" && !strings.HasPrefix(slug, ".") && !strings.ContainsAny(slug, `/\`)
}

func (s *Store) path(slug string) string {
	return filepath.Join(s.dir, slug+".md")
}

// Slugs lists the available activities, sorted.
func (s *Store) Slugs() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read activities directory: %w", err)
	}

	slugs := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".md") || name == TemplateFile {
			continue
		}
		slugs = append(slugs, strings.TrimSuffix(name, ".md"))
	}
	sort.Strings(slugs)
	return slugs, nil
}

// Raw returns the markdown source of slug.
func (s *Store) Raw(slug string) (string, error) {
	if !readableSlug(slug) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, slug)
	}
	data, err := os.ReadFile(s.path(slug))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, slug)
		}
		return "", fmt.Errorf("failed to read activity %s: %w", slug, err)
	}
	return string(data), nil
}

// Load parses the activity stored under slug.
func (s *Store) Load(slug string) (activity.Activity, error) {
	raw, err := s.Raw(slug)
	if err != nil {
		return activity.Activity{}, err
	}
	a, err := activity.Parse(raw, slug)
	if err != nil {
		return activity.Activity{}, fmt.Errorf("failed to parse activity %s: %w", slug, err)
	}
	return a, nil
}

// LoadAll parses every stored activity. A single unparsable document fails the call.
func (s *Store) LoadAll() ([]activity.Activity, error) {
	slugs, err := s.Slugs()
	if err != nil {
		return nil, err
	}

	activities := make([]activity.Activity, 0, len(slugs))
	for _, slug := range slugs {
		a, err := s.Load(slug)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, nil
}

// Template returns the contents of TEMPLATE.md.
func (s *Store) Template() (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, TemplateFile))
	if err != nil {
		return "", fmt.Errorf("failed to read template: %w", err)
	}
	return string(data), nil
}

// Save writes raw under slug, resolving collisions with policy.
// It returns the slug actually written.
//
// Under CollisionSuffix and CollisionError the finished document is hard-linked
// into place, so a name is claimed atomically and concurrent saves of one slug
// never replace each other's file.
func (s *Store) Save(slug, raw string, policy CollisionPolicy) (string, error) {
	if err := ValidateSlug(slug); err != nil {
		return "", err
	}
	if err := s.Init(); err != nil {
		return "", err
	}

	tmp, err := s.writeTemp(slug, raw)
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp)

	if policy == CollisionOverwrite {
		if err := os.Rename(tmp, s.path(slug)); err != nil {
			return "", fmt.Errorf("failed to save activity %s: %w", slug, err)
		}
		return slug, nil
	}

	target := slug
	for n := 2; ; n++ {
		err := os.Link(tmp, s.path(target))
		if err == nil {
			return target, nil
		}
		if !os.IsExist(err) {
			return "", fmt.Errorf("failed to save activity %s: %w", target, err)
		}
		if policy == CollisionError {
			return "", fmt.Errorf("%w: %s", ErrSlugExists, slug)
		}
		target = slug + "-" + strconv.Itoa(n)
	}
}

// writeTemp writes raw to a hidden temp file in the store directory and returns its path.
func (s *Store) writeTemp(slug, raw string) (string, error) {
	tmp, err := os.CreateTemp(s.dir, "."+slug+"-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.WriteString(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write activity %s: %w", slug, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write activity %s: %w", slug, err)
	}
	return tmp.Name(), nil
}

// Reset deletes every document except TEMPLATE.md and the protected file names.
// It returns the names of the deleted files.
func (s *Store) Reset(protected []string) ([]string, error) {
	keep := map[string]bool{TemplateFile: true}
	for _, name := range protected {
		if !strings.HasSuffix(name, ".md") {
			name += ".md"
		}
		keep[name] = true
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read activities directory: %w", err)
	}

	deleted := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".md") || keep[name] {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
			// Read-only deployments keep their files; report what did go.
			continue
		}
		deleted = append(deleted, name)
	}
	return deleted, nil
}

// CleanDir deletes every regular file in dir except the protected names.
// It is used for uploaded assets, which live outside the activities directory.
func CleanDir(dir string, protected []string) ([]string, error) {
	keep := make(map[string]bool, len(protected))
	for _, name := range protected {
		keep[name] = true
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	deleted := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || keep[name] {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			continue
		}
		deleted = append(deleted, name)
	}
	return deleted, nil
}
