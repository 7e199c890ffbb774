package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dhabedank/activity-parser/internal/generate"
	"github.com/dhabedank/activity-parser/internal/reading"
)

const sampleReading = "In 2023 a drought hit most of Canada. Forests burned across 6.5 million hectares and whole towns were evacuated."

func TestParseTypes(t *testing.T) {
	tests := []struct {
		names   []string
		want    []generate.QuestionType
		wantErr bool
	}{
		{nil, generate.QuestionTypes, false},
		{[]string{"analysis"}, []generate.QuestionType{generate.Analysis}, false},
		{[]string{"Comparison", "comprehension"}, []generate.QuestionType{generate.Comparison, generate.Comprehension}, false},
		{[]string{"essay"}, nil, true},
	}
	for _, tt := range tests {
		got, err := parseTypes(tt.names)
		if tt.wantErr {
			assert.Error(t, err, "parseTypes(%v)", tt.names)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func resetGenerateFlags(t *testing.T) {
	t.Cleanup(func() {
		genTitle, genSlug, genReading, genPDF, genYouTube, genThumbnail = "", "", "", "", "", ""
	})
}

func TestLoadReadingSourceText(t *testing.T) {
	resetGenerateFlags(t)
	path := filepath.Join(t.TempDir(), "drought_reading-2023.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleReading), 0644))
	genReading = path

	src, err := loadReadingSource()
	require.NoError(t, err)
	assert.Equal(t, "Drought Reading 2023", src.title)
	assert.Equal(t, "drought-reading-2023", src.slug)
	assert.Empty(t, src.contentRef)
	assert.Empty(t, src.thumbnail)
}

func TestLoadReadingSourceYouTube(t *testing.T) {
	resetGenerateFlags(t)
	path := filepath.Join(t.TempDir(), "transcript.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleReading), 0644))
	genReading = path
	genYouTube = "https://youtu.be/dQw4w9WgXcQ"

	src, err := loadReadingSource()
	require.NoError(t, err)
	assert.Equal(t, "youtube-dqw4w9wgxcq", src.slug)
	assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ", src.contentRef)
	assert.Equal(t, "https://img.youtube.com/vi/dQw4w9WgXcQ/hqdefault.jpg", src.thumbnail)
}

func TestLoadReadingSourceErrors(t *testing.T) {
	dir := t.TempDir()
	short := filepath.Join(dir, "short.txt")
	require.NoError(t, os.WriteFile(short, []byte("too short"), 0644))

	tests := []struct {
		name    string
		reading string
		pdf     string
		youtube string
		want    string
	}{
		{"nothing", "", "", "", "a reading is required"},
		{"both", short, "x.pdf", "", "not both"},
		{"youtube with pdf", "", "x.pdf", "https://youtu.be/dQw4w9WgXcQ", "--youtube needs a transcript"},
		{"missing file", filepath.Join(dir, "nope.txt"), "", "", "failed to read reading"},
		{"too short", short, "", "", "not enough reading text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetGenerateFlags(t)
			genReading, genPDF, genYouTube = tt.reading, tt.pdf, tt.youtube
			_, err := loadReadingSource()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadReadingSourceBadVideoURL(t *testing.T) {
	resetGenerateFlags(t)
	path := filepath.Join(t.TempDir(), "transcript.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleReading), 0644))
	genReading = path
	genYouTube = "https://example.com/video"

	_, err := loadReadingSource()
	assert.ErrorIs(t, err, reading.ErrInvalidVideoURL)
}

func TestReadAnswer(t *testing.T) {
	t.Cleanup(func() { gradeAnswer, gradeAnswerFile = "", "" })

	gradeAnswer = "Forests burned."
	got, err := readAnswer(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, "Forests burned.", got)

	gradeAnswerFile = "-"
	got, err = readAnswer(strings.NewReader("From stdin"))
	require.NoError(t, err)
	assert.Equal(t, "From stdin", got)

	gradeAnswer, gradeAnswerFile = "   ", ""
	_, err = readAnswer(strings.NewReader(""))
	assert.ErrorContains(t, err, "answer is required")
}

func TestSaveConfigKeepsOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".activity-parser.yaml")
	require.NoError(t, os.WriteFile(path, []byte("activities_dir: docs\nmodel: old\nserver:\n  port: 8080\n"), 0644))

	require.NoError(t, saveConfig(path, setupChoice{Provider: "claude-cli", Model: "claude-haiku-4-5-20251001"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, "docs", doc["activities_dir"])
	assert.Equal(t, "claude-cli", doc["llm"])
	assert.Equal(t, "claude-haiku-4-5-20251001", doc["model"])
	assert.Equal(t, map[string]any{"port": 8080}, doc["server"])

	require.NoError(t, saveConfig(path, setupChoice{Provider: "auto"}))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "model:")
}

func TestCommandsRegistered(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range Commands() {
		name := c.Name()
		assert.False(t, seen[name], "duplicate command %s", name)
		seen[name] = true
		assert.NotNil(t, c.RunE, "%s has no RunE", name)
	}
	for _, want := range []string{"parse", "list", "show", "browse", "generate", "refine", "grade", "discuss", "serve", "reset", "setup"} {
		assert.True(t, seen[want], "missing command %s", want)
	}
}
