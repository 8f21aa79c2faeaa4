package media

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"os/exec"
	"path/filepath"

	"filebox/internal/logging"
	"filebox/internal/metrics"

	_ "image/gif"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/prometheus/client_golang/prometheus"
	_ "golang.org/x/image/webp"
)

// thumbWidth is the fixed output width; height follows proportionally.
const thumbWidth = 480

const thumbQuality = 80

// Generator produces a still-image preview for an uploaded file and returns
// the path it was written to. Implementations must not be load-bearing for
// the upload that triggered them: a failed generation is reported as an
// error and nothing else.
type Generator interface {
	Generate(sourcePath, fileID string, kind Kind) (string, error)
}

// FFmpegGenerator extracts video frames by shelling out to ffmpeg and
// decodes images in-process. Disabled generators fail every request, which
// callers treat like any other generation failure.
type FFmpegGenerator struct {
	thumbsDir string
	enabled   bool
}

// NewFFmpegGenerator creates a generator writing thumbnails into thumbsDir.
func NewFFmpegGenerator(thumbsDir string, enabled bool) *FFmpegGenerator {
	if enabled {
		logging.Debug("media: thumbnail generator enabled, dir: %s", thumbsDir)
	} else {
		logging.Debug("media: thumbnail generator disabled")
	}
	return &FFmpegGenerator{
		thumbsDir: thumbsDir,
		enabled:   enabled,
	}
}

// IsEnabled reports whether the generator will attempt generation at all.
func (g *FFmpegGenerator) IsEnabled() bool {
	return g.enabled
}

// Generate produces <fileID>.jpg in the thumbnail directory from the source
// file and returns its path. Only video and image kinds are supported.
func (g *FFmpegGenerator) Generate(sourcePath, fileID string, kind Kind) (string, error) {
	if !g.enabled {
		return "", fmt.Errorf("thumbnails disabled")
	}

	timer := prometheus.NewTimer(metrics.ThumbnailGenerationDuration.WithLabelValues(string(kind)))
	defer timer.ObserveDuration()

	var img image.Image
	var err error

	switch kind {
	case KindVideo:
		img, err = extractVideoFrame(sourcePath)
	case KindImage:
		img, err = imaging.Open(sourcePath, imaging.AutoOrientation(true))
	default:
		return "", fmt.Errorf("unsupported thumbnail kind: %s", kind)
	}
	if err != nil {
		metrics.ThumbnailGenerationsTotal.WithLabelValues(string(kind), "error").Inc()
		return "", fmt.Errorf("thumbnail source decode failed: %w", err)
	}

	thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)

	if err := os.MkdirAll(g.thumbsDir, 0o755); err != nil {
		metrics.ThumbnailGenerationsTotal.WithLabelValues(string(kind), "error").Inc()
		return "", fmt.Errorf("failed to create thumbnail directory: %w", err)
	}

	outPath := filepath.Join(g.thumbsDir, fileID+".jpg")
	if err := imaging.Save(thumb, outPath, imaging.JPEGQuality(thumbQuality)); err != nil {
		metrics.ThumbnailGenerationsTotal.WithLabelValues(string(kind), "error").Inc()
		return "", fmt.Errorf("failed to write thumbnail: %w", err)
	}

	metrics.ThumbnailGenerationsTotal.WithLabelValues(string(kind), "success").Inc()
	logging.Debug("media: thumbnail written: %s", outPath)
	return outPath, nil
}

// extractVideoFrame asks ffmpeg for a single frame near the one-second mark.
// Very short clips can fail the seek, so a second attempt without it grabs
// the first frame instead.
func extractVideoFrame(sourcePath string) (image.Image, error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, fmt.Errorf("ffmpeg not found: %w", err)
	}

	out, err := runFFmpeg(sourcePath, true)
	if err != nil {
		logging.Debug("media: ffmpeg seek attempt failed for %s: %v", sourcePath, err)
		out, err = runFFmpeg(sourcePath, false)
		if err != nil {
			return nil, err
		}
	}

	if out.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg produced no output for %s", sourcePath)
	}

	img, _, err := image.Decode(out)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ffmpeg output: %w", err)
	}
	return img, nil
}

func runFFmpeg(sourcePath string, seek bool) (*bytes.Buffer, error) {
	args := []string{"-i", sourcePath}
	if seek {
		args = []string{"-ss", "00:00:01", "-i", sourcePath}
	}
	args = append(args,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	)

	cmd := exec.Command("ffmpeg", args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg failed: %v, stderr: %s", err, stderr.String())
	}
	return &stdout, nil
}
