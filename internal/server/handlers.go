package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mixmateai/mixmate/internal/recommend"
)

const attachmentName = "mashup_output.mp3"

func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, MessageResponse{Message: "MixMate mashup API is live"})
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// createMashup godoc
// @Summary Create a mashup from a prompt
// @Description Asks the model for a plan, renders it and streams the mp3 back.
// @Tags Mashups
// @Accept json
// @Produce audio/mpeg
// @Param request body MashupRequest true "Mashup prompt"
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /create-mashup [post]
func (s *Server) createMashup(c *gin.Context) {
	var req MashupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid request: %v", err), Kind: "bad_request"})
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: prompt is empty", Kind: "bad_request"})
		return
	}

	ctx := c.Request.Context()

	plan, err := s.requester.RequestPlan(ctx, req.Prompt)
	if err != nil {
		s.fail(c, "Plan request failed", err)
		return
	}
	slog.Info("Received mashup plan", "songs", plan.Songs, "crossfade_ms", plan.CrossfadeMs)

	outputPath := s.storage.OutputPath(fmt.Sprintf("mashup_%s.mp3", uuid.NewString()))
	path, err := s.executor.Execute(ctx, plan, outputPath)
	if err != nil {
		s.fail(c, "Mashup rendering failed", err)
		return
	}

	location, err := s.storage.Publish(ctx, path)
	if err != nil {
		s.fail(c, "Mashup publishing failed", err)
		return
	}
	slog.Info("Mashup created", "path", path, "location", location)

	c.Header("Content-Type", "audio/mpeg")
	c.FileAttachment(path, attachmentName)
}

// recommend godoc
// @Summary Recommend similar songs
// @Tags Recommendations
// @Produce json
// @Param song query string true "Song title"
// @Param top_n query int false "Number of recommendations"
// @Success 200 {object} RecommendResponse
// @Failure 400 {object} ErrorResponse
// @Router /recommend [get]
func (s *Server) recommend(c *gin.Context) {
	song := strings.TrimSpace(c.Query("song"))
	if song == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "song query parameter is required", Kind: "bad_request"})
		return
	}

	topN := s.cfg.Recommender.TopN
	if v := c.Query("top_n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid top_n: %q", v), Kind: "bad_request"})
			return
		}
		topN = parsed
	}

	if s.recommender == nil {
		s.fail(c, "Recommendation failed", ErrRecommenderUnavailable)
		return
	}

	recs, err := s.recommender.Recommend(song, topN)
	if errors.Is(err, recommend.ErrSongNotFound) {
		c.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf("'%s' not found in dataset.", song)})
		return
	}
	if err != nil {
		s.fail(c, "Recommendation failed", err)
		return
	}

	c.JSON(http.StatusOK, RecommendResponse{Recommendations: recs})
}

func (s *Server) fail(c *gin.Context, msg string, err error) {
	kind, status := classify(err)
	if status >= http.StatusInternalServerError {
		slog.Error(msg, "kind", kind, "error", err)
	} else {
		slog.Warn(msg, "kind", kind, "error", err)
	}
	c.JSON(status, ErrorResponse{Error: err.Error(), Kind: kind})
}
