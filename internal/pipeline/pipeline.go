package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"coursegen-go/internal/logger"
	"coursegen-go/internal/types"
)

// AudioExtractor demuxes a video into transcribable audio. media.FFmpeg
// satisfies it.
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, videoPath, audioPath string) error
}

// Transcriber turns an audio file into text. transcribe.Whisper and
// transcribe.Mock satisfy it.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Pipeline is the media path: extract audio from a video, then transcribe
// it. Both halves stay independently callable; this composition exists
// because every video route needs exactly this sequence.
type Pipeline struct {
	extractor   AudioExtractor
	transcriber Transcriber
	log         *logrus.Entry
}

func New(extractor AudioExtractor, transcriber Transcriber) *Pipeline {
	return &Pipeline{
		extractor:   extractor,
		transcriber: transcriber,
		log:         logger.New().WithField("component", "pipeline"),
	}
}

// Run processes one video. The caller chooses both artifact paths and is
// responsible for their uniqueness; that is what keeps concurrent runs from
// clobbering each other. Neither artifact is deleted here: the video stays
// as the source of record and the audio remains inspectable under the
// uploads mount. Component errors pass through with their types intact.
func (p *Pipeline) Run(ctx context.Context, videoPath, audioPath, sourceName string) (types.TranscriptionResult, error) {
	start := time.Now()

	if err := p.extractor.ExtractAudio(ctx, videoPath, audioPath); err != nil {
		return types.TranscriptionResult{}, err
	}

	text, err := p.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return types.TranscriptionResult{}, err
	}

	p.log.WithFields(logrus.Fields{
		"source":      sourceName,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("video transcribed")

	return types.TranscriptionResult{
		Transcription:     text,
		SourceFilename:    sourceName,
		AudioArtifactName: filepath.Base(audioPath),
	}, nil
}
