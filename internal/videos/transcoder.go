package videos

import (
	"bytes"
	"fmt"
	"os/exec"

	"go.uber.org/zap"
)

// Transcoder converts uploaded videos to MP4 (H.264 + AAC, faststart) by shelling out
// to ffmpeg. The subprocess runs without a cancellation path; if it fails, the whole
// upload request fails.
type Transcoder struct {
	ffmpegPath string
	logger     *zap.Logger
}

// NewTranscoder creates a transcoder using the given ffmpeg binary.
func NewTranscoder(ffmpegPath string, logger *zap.Logger) *Transcoder {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transcoder{ffmpegPath: ffmpegPath, logger: logger}
}

// ToMP4 transcodes inPath to an MP4 at outPath.
func (t *Transcoder) ToMP4(inPath, outPath string) error {
	cmd := exec.Command(t.ffmpegPath,
		"-y",
		"-i", inPath,
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-preset", "veryfast",
		"-crf", "23",
		"-c:a", "aac",
		"-b:a", "128k",
		"-movflags", "+faststart",
		outPath,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		t.logger.Error("ffmpeg failed", zap.Error(err), zap.String("stderr", tail(stderr.String(), 2048)))
		return fmt.Errorf("ffmpeg: %w", err)
	}
	return nil
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
