package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	openai "github.com/sashabaranov/go-openai"

	"coursegen-go/internal/config"
	"coursegen-go/internal/fetch"
	"coursegen-go/internal/genai"
	"coursegen-go/internal/logger"
	"coursegen-go/internal/media"
	"coursegen-go/internal/pipeline"
	"coursegen-go/internal/server"
	"coursegen-go/internal/stages"
	"coursegen-go/internal/transcribe"
)

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	log.Info("starting service")

	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.WithError(err).Fatal("cannot create upload directory")
	}

	// one configured API client, shared by transcription and generation
	apiCfg := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		apiCfg.BaseURL = cfg.OpenAIBaseURL
	}
	apiClient := openai.NewClientWithConfig(apiCfg)

	ffmpeg := media.NewFFmpeg(cfg.MediaTimeout)
	mediaReady := true
	if err := ffmpeg.CheckBinaries(); err != nil {
		mediaReady = false
		log.WithError(err).Warn("media tools missing; transcription routes will fail")
	}

	var transcriber pipeline.Transcriber
	if cfg.UseMockTranscribe {
		log.Warn("USE_MOCK_TRANSCRIBE=true, transcripts are canned")
		transcriber = transcribe.Mock{}
	} else {
		transcriber = transcribe.NewWhisper(apiClient, transcribe.WhisperConfig{
			Model:          cfg.TranscribeModel,
			SegmentSeconds: cfg.SegmentSeconds,
		}, ffmpeg)
	}

	var gen genai.Client
	if cfg.UseMockLLM {
		log.Warn("USE_MOCK_LLM=true, generated content is canned")
		gen = genai.Mock{}
	} else {
		gen = genai.NewOpenAI(apiClient, cfg.GenModel, cfg.GenTimeout)
	}

	maxUploadBytes := cfg.MaxUploadMB << 20
	router := server.NewRouter(server.Deps{
		Outline:         stages.NewOutlineStage(gen),
		Lesson:          stages.NewLessonStage(gen, cfg.LessonContentCap),
		Assessment:      stages.NewAssessmentStage(gen),
		Review:          stages.NewReviewStage(gen),
		Pipeline:        pipeline.New(ffmpeg, transcriber),
		Downloader:      fetch.NewDownloader(maxUploadBytes, 30*time.Second),
		UploadDir:       cfg.UploadDir,
		MaxUploadBytes:  maxUploadBytes,
		GenerationReady: cfg.GenerationReady(),
		MediaReady:      mediaReady,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server terminated")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("shutdown did not complete cleanly")
	}
}
