package server

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"coursegen-go/internal/logger"
	"coursegen-go/internal/types"
)

// The stage and pipeline dependencies, at the width this layer consumes
// them. The concrete types in internal/stages and internal/pipeline satisfy
// these; tests substitute function stubs.
type (
	OutlineBuilder interface {
		BuildOutline(ctx context.Context, spec types.TopicSpec, source string) (types.CourseOutline, error)
	}
	LessonExpander interface {
		ExpandSection(ctx context.Context, section types.Section, spec types.TopicSpec) (types.Lesson, error)
	}
	QuestionBanker interface {
		BuildQuestionBank(ctx context.Context, topic string) (types.QuestionBank, error)
	}
	Reviewer interface {
		Review(ctx context.Context, artifact any) (types.ReviewFeedback, error)
	}
	VideoPipeline interface {
		Run(ctx context.Context, videoPath, audioPath, sourceName string) (types.TranscriptionResult, error)
	}
	MediaDownloader interface {
		Download(ctx context.Context, url, destPath string) error
	}
)

// Deps is everything the HTTP layer needs, built once in cmd/api.
type Deps struct {
	Outline    OutlineBuilder
	Lesson     LessonExpander
	Assessment QuestionBanker
	Review     Reviewer
	Pipeline   VideoPipeline
	Downloader MediaDownloader

	UploadDir      string
	MaxUploadBytes int64

	// health reporting only; requests still fail with typed errors when a
	// capability is missing
	GenerationReady bool
	MediaReady      bool
}

// Server is the thin HTTP surface over the pipeline core. It owns routing,
// request decoding and error-to-status mapping; all course semantics live in
// the injected dependencies.
type Server struct {
	deps Deps
	log  *logrus.Entry
}

// NewRouter builds the gin engine with all routes mounted.
func NewRouter(deps Deps) *gin.Engine {
	s := &Server{deps: deps, log: logger.New().WithField("component", "server")}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLog())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:          12 * time.Hour,
	}))

	r.GET("/", s.handleRoot)
	r.GET("/health", s.handleHealth)
	r.Static("/uploads", deps.UploadDir)

	api := r.Group("/api")
	{
		api.POST("/generate-course-outline", s.handleOutline)
		api.POST("/generate-lesson", s.handleLesson)
		api.POST("/generate-questions", s.handleQuestions)
		api.POST("/review-content", s.handleReview)
		api.POST("/transcribe-video", s.handleTranscribeVideo)
		api.POST("/transcribe-remote", s.handleTranscribeRemote)
		api.POST("/export/question-bank", s.handleExportQuestionBank)
	}
	return r
}

// requestLog attaches the request-scoped log entry and logs completion with
// status and latency.
func (s *Server) requestLog() gin.HandlerFunc {
	base := logger.New()
	return func(c *gin.Context) {
		entry := base.WithRequest(c.Request)
		start := time.Now()
		c.Next()
		entry.WithField("status", c.Writer.Status()).
			WithField("duration_ms", time.Since(start).Milliseconds()).
			Info("request handled")
	}
}
