package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"coursegen-go/internal/logger"
)

// Extraction always targets the transcription-friendly format: mono 16-bit
// PCM at 16 kHz. The sample spec is not caller-configurable.
const (
	sampleRateHz = "16000"
	channels     = "1"
	audioCodec   = "pcm_s16le"
)

// Error is raised for any media-tool failure: bad input, missing stream,
// non-zero tool exit. Stderr keeps the tool's own explanation.
type Error struct {
	Op     string // extract | probe | split
	Err    error
	Stderr string
}

func (e *Error) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("media %s failed: %v: %s", e.Op, e.Err, e.Stderr)
	}
	return fmt.Sprintf("media %s failed: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// FFmpeg shells out to ffmpeg/ffprobe. All external media-tool invocations in
// the codebase go through this type.
type FFmpeg struct {
	ffmpegPath  string
	ffprobePath string
	timeout     time.Duration
	log         *logrus.Entry
}

func NewFFmpeg(timeout time.Duration) *FFmpeg {
	return &FFmpeg{
		ffmpegPath:  "ffmpeg",
		ffprobePath: "ffprobe",
		timeout:     timeout,
		log:         logger.New().WithField("component", "media"),
	}
}

// CheckBinaries verifies both tools resolve on PATH. Run at startup; a
// missing tool is reported once there instead of on the first upload.
func (f *FFmpeg) CheckBinaries() error {
	for _, bin := range []string{f.ffmpegPath, f.ffprobePath} {
		if _, err := exec.LookPath(bin); err != nil {
			return fmt.Errorf("%s not found in PATH: %w", bin, err)
		}
	}
	return nil
}

// ExtractAudio demuxes videoPath into a mono 16 kHz PCM WAV at audioPath.
// The output is overwritten if present, so re-running a job converges to the
// same artifact. The source file is left untouched.
func (f *FFmpeg) ExtractAudio(ctx context.Context, videoPath, audioPath string) error {
	if _, err := os.Stat(videoPath); err != nil {
		return &Error{Op: "extract", Err: fmt.Errorf("input not readable: %w", err)}
	}

	args := []string{"-i", videoPath, "-vn", "-acodec", audioCodec, "-ar", sampleRateHz, "-ac", channels, audioPath, "-y"}
	stderr, err := f.run(ctx, "extract", f.ffmpegPath, args)
	if err != nil {
		if strings.Contains(stderr, "does not contain any stream") {
			return &Error{Op: "extract", Err: errors.New("input has no audio stream"), Stderr: stderr}
		}
		return &Error{Op: "extract", Err: err, Stderr: stderr}
	}

	f.log.WithFields(logrus.Fields{
		"video": filepath.Base(videoPath),
		"audio": filepath.Base(audioPath),
	}).Info("audio extracted")
	return nil
}

// Duration probes the container duration of any media file.
func (f *FFmpeg) Duration(ctx context.Context, path string) (time.Duration, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, &Error{Op: "probe", Err: fmt.Errorf("input not readable: %w", err)}
	}

	args := []string{"-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", path}

	ctx, cancel := f.bound(ctx)
	defer cancel()
	out, err := exec.CommandContext(ctx, f.ffprobePath, args...).Output()
	if err != nil {
		return 0, &Error{Op: "probe", Err: err, Stderr: exitStderr(err)}
	}

	secs, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, &Error{Op: "probe", Err: fmt.Errorf("unparseable duration %q: %w", strings.TrimSpace(string(out)), err)}
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// SplitAudio cuts audioPath into sequential segments of at most
// segmentSeconds, named <base>_chunk_<i>.wav next to the source. Created
// chunks are removed again if any cut fails.
func (f *FFmpeg) SplitAudio(ctx context.Context, audioPath string, segmentSeconds int) ([]string, error) {
	if segmentSeconds <= 0 {
		return nil, &Error{Op: "split", Err: fmt.Errorf("segment length %ds not positive", segmentSeconds)}
	}

	total, err := f.Duration(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	segment := time.Duration(segmentSeconds) * time.Second
	numChunks := int(total/segment) + 1
	base := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))

	var chunks []string
	for i := 0; i < numChunks; i++ {
		start := time.Duration(i) * segment
		chunk := fmt.Sprintf("%s_chunk_%d.wav", base, i)

		args := []string{
			"-i", audioPath,
			"-ss", fmt.Sprintf("%.3f", start.Seconds()),
			"-t", fmt.Sprintf("%d", segmentSeconds),
			"-acodec", audioCodec, "-ar", sampleRateHz, "-ac", channels,
			chunk, "-y",
		}
		if stderr, err := f.run(ctx, "split", f.ffmpegPath, args); err != nil {
			for _, c := range chunks {
				_ = os.Remove(c)
			}
			return nil, &Error{Op: "split", Err: err, Stderr: stderr}
		}
		chunks = append(chunks, chunk)
	}

	f.log.WithFields(logrus.Fields{
		"audio":  filepath.Base(audioPath),
		"chunks": len(chunks),
	}).Info("audio split for chunked transcription")
	return chunks, nil
}

func (f *FFmpeg) run(ctx context.Context, op, bin string, args []string) (string, error) {
	ctx, cancel := f.bound(ctx)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	f.log.WithFields(logrus.Fields{"op": op, "args": strings.Join(args, " ")}).Debug("running media tool")
	err := cmd.Run()
	return strings.TrimSpace(stderr.String()), err
}

// bound applies the per-invocation timeout unless the caller already set a
// tighter deadline.
func (f *FFmpeg) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if f.timeout <= 0 {
		return ctx, func() {}
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, f.timeout)
}

func exitStderr(err error) string {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return strings.TrimSpace(string(exitErr.Stderr))
	}
	return ""
}
