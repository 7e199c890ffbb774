package server

import (
	"io"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dhabedank/activity-parser/internal/activity"
	"github.com/dhabedank/activity-parser/internal/generate"
	"github.com/dhabedank/activity-parser/internal/logger"
	"github.com/dhabedank/activity-parser/internal/reading"
)

const defaultVideoTitle = "YouTube Video"

type generateActivityRequest struct {
	ReadingText string `json:"readingText"`
	Title       string `json:"title"`
}

func (s *Server) generateActivity(c *gin.Context) {
	var req generateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ReadingText) == "" || strings.TrimSpace(req.Title) == "" {
		errorJSON(c, http.StatusBadRequest, "readingText and title are required")
		return
	}
	if s.opts.Generator == nil {
		errorJSON(c, http.StatusServiceUnavailable, "No language model configured")
		return
	}
	if err := reading.ValidateText(req.ReadingText); err != nil {
		errorJSON(c, http.StatusBadRequest, "Reading text is too short")
		return
	}
	slug := reading.Slugify(req.Title)
	if slug == "" {
		errorJSON(c, http.StatusBadRequest, "Title must contain letters or digits")
		return
	}

	item, err := s.opts.Generator.GenerateActivity(c.Request.Context(), slug, generate.SetRequest{
		Reading: req.ReadingText,
		Title:   req.Title,
		Persist: true,
	}, generate.Comprehension)
	if err != nil {
		s.metrics.recordGenerated("text", 0, 1)
		_ = c.Error(err)
		errorJSON(c, http.StatusInternalServerError, "Failed to generate activity")
		return
	}
	s.metrics.recordGenerated("text", 1, 0)
	c.JSON(http.StatusOK, item.Activity)
}

func (s *Server) uploadPDF(c *gin.Context) {
	fh, err := c.FormFile("pdf")
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "No PDF file uploaded")
		return
	}
	if fh.Size > reading.MaxPDFSize {
		errorJSON(c, http.StatusRequestEntityTooLarge, "PDF must be 20MB or smaller")
		return
	}

	f, err := fh.Open()
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "Could not read uploaded file")
		return
	}
	data, err := io.ReadAll(io.LimitReader(f, reading.MaxPDFSize+1))
	f.Close()
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "Could not read uploaded file")
		return
	}
	if fh.Header.Get("Content-Type") != "application/pdf" && !reading.IsPDF(data) {
		errorJSON(c, http.StatusBadRequest, "Only PDF files are allowed")
		return
	}

	originalName := strings.TrimSuffix(filepath.Base(fh.Filename), filepath.Ext(fh.Filename))
	slug := reading.Slugify(originalName)
	if slug == "" {
		errorJSON(c, http.StatusBadRequest, "PDF file name must contain letters or digits")
		return
	}
	log := s.log.With(logger.String("slug", slug), logger.Int64("size", fh.Size))
	log.Info("PDF upload received")

	if summaries, pdfPath, ok := s.preset(slug); ok {
		log.Info("Using preset activities")
		c.JSON(http.StatusOK, gin.H{"activities": summaries, "pdfPath": pdfPath})
		return
	}
	if s.opts.Generator == nil {
		errorJSON(c, http.StatusServiceUnavailable, "No language model configured")
		return
	}

	pdfPath := path.Join(s.opts.AssetsURLPrefix, slug+".pdf")
	if s.opts.AssetsDir != "" {
		if err := reading.WriteFile(filepath.Join(s.opts.AssetsDir, slug+".pdf"), data); err != nil {
			_ = c.Error(err)
			errorJSON(c, http.StatusInternalServerError, "Failed to save PDF")
			return
		}
	}

	text, err := reading.ExtractPDFBytes(data)
	if err == nil {
		err = reading.ValidateText(text)
	}
	if err != nil {
		log.Warn("PDF text extraction failed", logger.Error(err))
		errorJSON(c, http.StatusBadRequest, "Could not extract enough text from PDF. The file may be image-based or empty.")
		return
	}

	result, err := s.opts.Generator.GenerateSet(c.Request.Context(), generate.SetRequest{
		BaseSlug:   slug,
		Reading:    text,
		Title:      reading.TitleFromFilename(originalName),
		ContentRef: pdfPath,
		Persist:    true,
	})
	if result != nil {
		s.metrics.recordGenerated("pdf", len(result.Items)-result.Failed(), result.Failed())
	}
	if err != nil {
		_ = c.Error(err)
		errorJSON(c, http.StatusInternalServerError, "Failed to generate any activities from the PDF")
		return
	}
	c.JSON(http.StatusOK, gin.H{"activities": result.Activities(), "pdfPath": pdfPath})
}

// preset returns ready-made activities configured for an upload slug.
func (s *Server) preset(slug string) ([]activity.Summary, string, bool) {
	slugs, ok := s.opts.Presets[slug]
	if !ok {
		return nil, "", false
	}
	var activities []activity.Activity
	for _, presetSlug := range slugs {
		a, err := s.opts.Store.Load(presetSlug)
		if err != nil {
			s.log.Warn("Preset activity unavailable", logger.String("slug", presetSlug), logger.Error(err))
			continue
		}
		activities = append(activities, a)
	}
	if len(activities) == 0 {
		return nil, "", false
	}
	return activity.Summaries(activities), activities[0].PDF, true
}

type uploadYouTubeRequest struct {
	URL        string `json:"url"`
	Transcript string `json:"transcript"`
	Title      string `json:"title"`
}

func (s *Server) uploadYouTube(c *gin.Context) {
	var req uploadYouTubeRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		errorJSON(c, http.StatusBadRequest, "YouTube URL is required")
		return
	}
	id, err := reading.VideoID(req.URL)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid YouTube URL.")
		return
	}
	if err := reading.ValidateText(req.Transcript); err != nil {
		errorJSON(c, http.StatusBadRequest, "Transcript is too short.")
		return
	}
	if s.opts.Generator == nil {
		errorJSON(c, http.StatusServiceUnavailable, "No language model configured")
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = defaultVideoTitle
	}
	embedURL := reading.EmbedURL(id)
	thumbnailURL := reading.ThumbnailURL(id)

	result, err := s.opts.Generator.GenerateSet(c.Request.Context(), generate.SetRequest{
		BaseSlug:   reading.Slugify("youtube-" + id),
		Reading:    req.Transcript,
		Title:      title,
		ContentRef: embedURL,
		Thumbnail:  thumbnailURL,
		Persist:    true,
	})
	if result != nil {
		s.metrics.recordGenerated("youtube", len(result.Items)-result.Failed(), result.Failed())
	}
	if err != nil {
		_ = c.Error(err)
		errorJSON(c, http.StatusInternalServerError, "Failed to generate any activities from the video")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"activities":      result.Activities(),
		"youtubeEmbedUrl": embedURL,
		"thumbnailUrl":    thumbnailURL,
	})
}
