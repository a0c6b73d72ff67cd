package server

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"coursegen-go/internal/export"
	"coursegen-go/internal/types"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "course generation pipeline",
		"health":  "/health",
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	status := "ok"
	if !s.deps.GenerationReady {
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":            status,
		"generation_ready":  s.deps.GenerationReady,
		"media_tools_ready": s.deps.MediaReady,
		"features": []string{
			"course-outline-generation",
			"lesson-expansion",
			"question-bank-generation",
			"content-review",
			"video-transcription",
			"remote-video-transcription",
			"question-bank-export",
		},
	})
}

func (s *Server) handleOutline(c *gin.Context) {
	var req types.OutlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, &types.ValidationError{Field: "body", Reason: err.Error()})
		return
	}

	outline, err := s.deps.Outline.BuildOutline(c.Request.Context(), req.TopicSpec, req.SourceTranscript)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, outline)
}

func (s *Server) handleLesson(c *gin.Context) {
	var req types.LessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, &types.ValidationError{Field: "body", Reason: err.Error()})
		return
	}

	lesson, err := s.deps.Lesson.ExpandSection(c.Request.Context(), req.Section, req.Spec)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, lesson)
}

func (s *Server) handleQuestions(c *gin.Context) {
	var req types.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, &types.ValidationError{Field: "body", Reason: err.Error()})
		return
	}

	bank, err := s.deps.Assessment.BuildQuestionBank(c.Request.Context(), req.Topic)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bank)
}

func (s *Server) handleReview(c *gin.Context) {
	var artifact any
	if err := c.ShouldBindJSON(&artifact); err != nil {
		s.fail(c, &types.ValidationError{Field: "body", Reason: err.Error()})
		return
	}

	feedback, err := s.deps.Review.Review(c.Request.Context(), artifact)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, feedback)
}

// handleTranscribeVideo runs the media path on a direct upload. The stored
// artifact name is a fresh uuid, never the client filename, so concurrent
// uploads of the same file cannot collide.
func (s *Server) handleTranscribeVideo(c *gin.Context) {
	file, err := c.FormFile("video_file")
	if err != nil {
		s.fail(c, &types.ValidationError{Field: "video_file", Reason: "multipart video file required"})
		return
	}
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "video/") {
		s.fail(c, &types.ValidationError{Field: "video_file", Reason: "content type must be video/*"})
		return
	}
	if s.deps.MaxUploadBytes > 0 && file.Size > s.deps.MaxUploadBytes {
		s.fail(c, &types.ValidationError{
			Field:  "video_file",
			Reason: fmt.Sprintf("file exceeds %d byte limit", s.deps.MaxUploadBytes),
		})
		return
	}

	videoPath, audioPath := s.artifactPaths(file.Filename)
	if err := c.SaveUploadedFile(file, videoPath); err != nil {
		s.log.WithError(err).Error("saving upload failed")
		s.fail(c, err)
		return
	}

	result, err := s.deps.Pipeline.Run(c.Request.Context(), videoPath, audioPath, file.Filename)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// handleTranscribeRemote feeds a downloaded video into the same pipeline as
// a direct upload.
func (s *Server) handleTranscribeRemote(c *gin.Context) {
	var req types.RemoteVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, &types.ValidationError{Field: "body", Reason: err.Error()})
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		s.fail(c, &types.ValidationError{Field: "url", Reason: "must not be empty"})
		return
	}

	sourceName := req.URL
	if u, err := url.Parse(req.URL); err == nil && path.Base(u.Path) != "." && path.Base(u.Path) != "/" {
		sourceName = path.Base(u.Path)
	}

	videoPath, audioPath := s.artifactPaths(sourceName)
	if err := s.deps.Downloader.Download(c.Request.Context(), req.URL, videoPath); err != nil {
		s.fail(c, err)
		return
	}

	result, err := s.deps.Pipeline.Run(c.Request.Context(), videoPath, audioPath, sourceName)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleExportQuestionBank(c *gin.Context) {
	var req types.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, &types.ValidationError{Field: "body", Reason: err.Error()})
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		s.fail(c, &types.ValidationError{Field: "topic", Reason: "must not be empty"})
		return
	}

	var buf bytes.Buffer
	if err := export.WriteQuestionBank(req.Topic, req.Questions, &buf); err != nil {
		s.fail(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="question_bank.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// artifactPaths derives the collision-free on-disk names for one video and
// its extracted audio. The uuid ties the pair together.
func (s *Server) artifactPaths(sourceName string) (videoPath, audioPath string) {
	ext := filepath.Ext(sourceName)
	if ext == "" {
		ext = ".mp4"
	}
	id := uuid.New().String()
	videoPath = filepath.Join(s.deps.UploadDir, id+ext)
	audioPath = filepath.Join(s.deps.UploadDir, id+".wav")
	return videoPath, audioPath
}
