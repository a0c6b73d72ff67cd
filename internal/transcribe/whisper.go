package transcribe

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pemistahl/lingua-go"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"coursegen-go/internal/logger"
)

// Error wraps any transcription failure with its upstream cause intact.
type Error struct {
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("transcription failed: %v", e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Segmenter cuts an audio file into transcribable chunks. media.FFmpeg
// satisfies it.
type Segmenter interface {
	SplitAudio(ctx context.Context, audioPath string, segmentSeconds int) ([]string, error)
}

type WhisperConfig struct {
	Model          string // default whisper-1
	MaxUploadBytes int64  // default 24 MiB, under the API's 25 MB upload cap
	SegmentSeconds int    // default 600
}

// Whisper transcribes through the speech-to-text endpoint of the shared API
// client. Files above MaxUploadBytes are cut into segments first, one upload
// per segment. Calls are never retried here; a resubmitted transcription
// bills again, so retry policy belongs to the caller.
type Whisper struct {
	api       *openai.Client
	cfg       WhisperConfig
	segmenter Segmenter
	detector  lingua.LanguageDetector
	log       *logrus.Entry
}

func NewWhisper(api *openai.Client, cfg WhisperConfig, segmenter Segmenter) *Whisper {
	if cfg.Model == "" {
		cfg.Model = openai.Whisper1
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 24 << 20
	}
	if cfg.SegmentSeconds <= 0 {
		cfg.SegmentSeconds = 600
	}
	return &Whisper{
		api:       api,
		cfg:       cfg,
		segmenter: segmenter,
		detector:  lingua.NewLanguageDetectorBuilder().FromAllLanguages().Build(),
		log:       logger.New().WithField("component", "transcribe"),
	}
}

// Transcribe returns the spoken text of audioPath. Multi-segment transcripts
// are joined with single spaces. The detected transcript language is logged,
// not returned; the pipeline output stays single-language.
func (w *Whisper) Transcribe(ctx context.Context, audioPath string) (string, error) {
	info, err := os.Stat(audioPath)
	if err != nil {
		return "", &Error{Err: fmt.Errorf("audio not readable: %w", err)}
	}

	chunks := []string{audioPath}
	if info.Size() > w.cfg.MaxUploadBytes && w.segmenter != nil {
		chunks, err = w.segmenter.SplitAudio(ctx, audioPath, w.cfg.SegmentSeconds)
		if err != nil {
			return "", &Error{Err: err}
		}
		defer func() {
			for _, c := range chunks {
				_ = os.Remove(c)
			}
		}()
		w.log.WithFields(logrus.Fields{
			"size_bytes": info.Size(),
			"chunks":     len(chunks),
		}).Info("audio exceeds single-upload limit, transcribing in chunks")
	}

	var full strings.Builder
	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return "", &Error{Err: err}
		}
		resp, err := w.api.CreateTranscription(ctx, openai.AudioRequest{
			Model:    w.cfg.Model,
			FilePath: chunk,
		})
		if err != nil {
			return "", &Error{Err: err}
		}
		full.WriteString(resp.Text)
		full.WriteString(" ")
	}

	text := strings.TrimSpace(full.String())
	if lang, ok := w.detector.DetectLanguageOf(text); ok {
		w.log.WithFields(logrus.Fields{
			"language":       lang.String(),
			"transcript_len": len(text),
		}).Info("transcription complete")
	}
	return text, nil
}
