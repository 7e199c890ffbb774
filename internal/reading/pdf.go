package reading

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MaxPDFSize is the largest upload accepted.
const MaxPDFSize = 20 << 20

// ExtractPDFText returns the embedded text layer of the PDF at path.
// Image-only pages contribute nothing; OCR is not attempted.
func ExtractPDFText(path string) (text string, err error) {
	defer recoverPDF(&err)

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return plainText(r)
}

// ExtractPDFBytes is ExtractPDFText for an in-memory upload.
func ExtractPDFBytes(data []byte) (text string, err error) {
	if len(data) > MaxPDFSize {
		return "", fmt.Errorf("pdf is %d bytes, limit is %d", len(data), MaxPDFSize)
	}
	defer recoverPDF(&err)

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf reader: %w", err)
	}
	return plainText(r)
}

// recoverPDF turns a panic from the pdf package into an error.
// The package panics on some malformed content streams.
func recoverPDF(err *error) {
	if rec := recover(); rec != nil {
		*err = fmt.Errorf("read pdf: %v", rec)
	}
}

// IsPDF reports whether data starts with the PDF magic bytes.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF-"))
}

// WriteFile stores an uploaded PDF so activities can link to it.
func WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to save pdf: %w", err)
	}
	return nil
}

func plainText(r *pdf.Reader) (text string, err error) {
	defer recoverPDF(&err)

	fonts := make(map[string]*pdf.Font)
	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				font := p.Font(name)
				fonts[name] = &font
			}
		}
		pageText, err := p.GetPlainText(fonts)
		if err != nil {
			return "", fmt.Errorf("read pdf page %d: %w", i, err)
		}
		if trimmed := strings.TrimSpace(pageText); trimmed != "" {
			pages = append(pages, trimmed)
		}
	}
	return strings.Join(pages, "\n\n"), nil
}
