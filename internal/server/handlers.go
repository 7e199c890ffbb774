package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dhabedank/activity-parser/internal/activity"
	"github.com/dhabedank/activity-parser/internal/discussion"
	"github.com/dhabedank/activity-parser/internal/grading"
	"github.com/dhabedank/activity-parser/internal/logger"
	"github.com/dhabedank/activity-parser/internal/store"
)

func errorJSON(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listActivities(c *gin.Context) {
	activities, err := s.opts.Store.LoadAll()
	if err != nil {
		_ = c.Error(err)
		errorJSON(c, http.StatusInternalServerError, "Failed to load activities")
		return
	}
	c.JSON(http.StatusOK, activity.Summaries(activities))
}

func (s *Server) getActivity(c *gin.Context) {
	a, err := s.opts.Store.Load(c.Param("slug"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			errorJSON(c, http.StatusNotFound, "Activity not found")
			return
		}
		_ = c.Error(err)
		errorJSON(c, http.StatusInternalServerError, "Failed to load activity")
		return
	}
	c.JSON(http.StatusOK, a)
}

type checkAnswerRequest struct {
	Answer       string `json:"answer"`
	ActivitySlug string `json:"activitySlug"`
}

func (s *Server) checkAnswer(c *gin.Context) {
	var req checkAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Answer) == "" {
		errorJSON(c, http.StatusBadRequest, "Answer is required")
		return
	}

	// An unknown or unreadable activity grades against the defaults.
	var a *activity.Activity
	if req.ActivitySlug != "" {
		loaded, err := s.opts.Store.Load(req.ActivitySlug)
		switch {
		case err == nil:
			a = &loaded
		case !errors.Is(err, store.ErrNotFound):
			s.log.Warn("Grading without activity",
				logger.String("slug", req.ActivitySlug),
				logger.Error(err),
			)
		}
	}

	grades, err := s.opts.Grader.Grade(c.Request.Context(), grading.NewInput(req.Answer, a))
	if err != nil {
		_ = c.Error(err)
		errorJSON(c, http.StatusInternalServerError, "Failed to grade answer")
		return
	}
	s.metrics.recordGrade(grades.Strategy)
	c.JSON(http.StatusOK, grades)
}

type chatRequest struct {
	Messages     []discussion.Message `json:"messages"`
	AgentState   *discussion.State    `json:"agentState"`
	ActivitySlug string               `json:"activitySlug"`
}

func (s *Server) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Messages) == 0 {
		errorJSON(c, http.StatusBadRequest, "Messages are required")
		return
	}
	if s.opts.Discussion == nil {
		errorJSON(c, http.StatusServiceUnavailable, "No language model configured")
		return
	}

	var a *activity.Activity
	if req.ActivitySlug != "" {
		if loaded, err := s.opts.Store.Load(req.ActivitySlug); err == nil {
			a = &loaded
		}
	}

	reply, err := s.opts.Discussion.Reply(c.Request.Context(), discussion.Request{
		Messages: req.Messages,
		State:    req.AgentState,
		Activity: a,
	})
	if err != nil {
		_ = c.Error(err)
		errorJSON(c, http.StatusInternalServerError, "Failed to generate discussion")
		return
	}
	c.JSON(http.StatusOK, reply)
}

func (s *Server) resetSession(c *gin.Context) {
	deleted, err := s.opts.Store.Reset(s.opts.Protected)
	if err != nil {
		_ = c.Error(err)
		errorJSON(c, http.StatusInternalServerError, "Failed to reset session")
		return
	}

	if s.opts.AssetsDir != "" {
		assets, err := store.CleanDir(s.opts.AssetsDir, s.opts.ProtectedAssets)
		if err != nil {
			_ = c.Error(err)
		}
		deleted = append(deleted, assets...)
	}

	s.log.Info("Session reset", logger.Int("deleted", len(deleted)), logger.Strings("files", deleted))
	c.JSON(http.StatusOK, gin.H{"deleted": len(deleted)})
}
