package reading

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateText(t *testing.T) {
	if err := ValidateText(strings.Repeat("a", MinTextLength)); err != nil {
		t.Errorf("ValidateText(50 chars) error = %v", err)
	}
	err := ValidateText("   " + strings.Repeat("a", MinTextLength-1) + "\n\n")
	if !errors.Is(err, ErrTextTooShort) {
		t.Errorf("ValidateText(49 chars) error = %v, want ErrTextTooShort", err)
	}
	// Interior whitespace counts toward the length.
	spaced := strings.Repeat("a ", MinTextLength/2) + "a"
	if err := ValidateText(spaced); err != nil {
		t.Errorf("ValidateText(spaced) error = %v", err)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Drought_Reading", "drought-reading"},
		{"  Hello, World!  ", "hello-world"},
		{"Q3 -- Report (final)", "q3-report-final"},
		{"---", ""},
		{"already-a-slug", "already-a-slug"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTitleFromFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Drought_Reading", "Drought Reading"},
		{"water-cycle__notes", "Water Cycle Notes"},
		{"grade 5 science", "Grade 5 Science"},
		{"mIxEd_case", "MIxEd Case"},
	}
	for _, tt := range tests {
		if got := TitleFromFilename(tt.in); got != tt.want {
			t.Errorf("TitleFromFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestVideoID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtube.com/shorts/a_b-c_d-e_f", "a_b-c_d-e_f"},
		{" dQw4w9WgXcQ ", "dQw4w9WgXcQ"},
	}
	for _, tt := range tests {
		got, err := VideoID(tt.in)
		if err != nil {
			t.Errorf("VideoID(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("VideoID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "https://vimeo.com/123", "short", "https://youtu.be/abc"} {
		if _, err := VideoID(bad); !errors.Is(err, ErrInvalidVideoURL) {
			t.Errorf("VideoID(%q) error = %v, want ErrInvalidVideoURL", bad, err)
		}
	}
}

func TestVideoURLs(t *testing.T) {
	if got := EmbedURL("dQw4w9WgXcQ"); got != "https://www.youtube.com/embed/dQw4w9WgXcQ" {
		t.Errorf("EmbedURL() = %s", got)
	}
	if got := ThumbnailURL("dQw4w9WgXcQ"); got != "https://img.youtube.com/vi/dQw4w9WgXcQ/hqdefault.jpg" {
		t.Errorf("ThumbnailURL() = %s", got)
	}
}

func TestIsPDF(t *testing.T) {
	if !IsPDF([]byte("%PDF-1.7\n...")) {
		t.Error("IsPDF() = false for PDF header")
	}
	if IsPDF([]byte("<html>")) {
		t.Error("IsPDF() = true for HTML")
	}
}

func TestExtractPDFBytesRejectsGarbage(t *testing.T) {
	if _, err := ExtractPDFBytes([]byte("this is not a pdf")); err == nil {
		t.Error("expected error for non-PDF input")
	}
	if _, err := ExtractPDFBytes(make([]byte, MaxPDFSize+1)); err == nil {
		t.Error("expected error for oversized input")
	}
}

func TestExtractPDFTextMissingFile(t *testing.T) {
	if _, err := ExtractPDFText(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("expected error for missing file")
	}
}
