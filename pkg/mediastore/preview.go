package mediastore

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"os"
	"os/exec"

	"github.com/nfnt/resize"
)

const (
	// previewMaxDimension bounds both axes of a derived image preview.
	// Images already fitting inside this bound get no derivative.
	previewMaxDimension = 720

	// previewJPEGQuality is the fixed re-encode quality, keeping repeated
	// derivation of the same input byte-reproducible.
	previewJPEGQuality = 80

	// posterFrameOffset is where the representative video frame is taken.
	posterFrameOffset = "00:00:01.000"
)

// DerivePreview produces an optional derivative buffer for the payload. A nil
// result with nil error means the original should be reused as its own
// preview (audio, images within the resize bound, or videos yielding no
// usable frame).
//
// Only image, video and audio reach this function; the orchestrator rejects
// other categories before derivation.
func DerivePreview(ctx context.Context, category Category, data []byte) (*Derived, error) {
	switch category {
	case CategoryImage:
		return deriveImagePreview(data)
	case CategoryVideo:
		return deriveVideoPoster(ctx, data)
	case CategoryAudio:
		return nil, nil
	default:
		return nil, fmt.Errorf("no preview strategy for category %q", category)
	}
}

func deriveImagePreview(data []byte) (*Derived, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		// Not decodable with the registered formats; serve the original.
		slog.Debug("preview: image decode failed, reusing original", "error", err)
		return nil, nil
	}

	bounds := img.Bounds()
	if bounds.Dx() <= previewMaxDimension || bounds.Dy() <= previewMaxDimension {
		return nil, nil
	}

	// Fit inside the bound preserving aspect ratio, never enlarging.
	thumb := resize.Thumbnail(previewMaxDimension, previewMaxDimension, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: previewJPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}

	tb := thumb.Bounds()
	return &Derived{
		Data:     buf.Bytes(),
		MimeType: "image/jpeg",
		Width:    tb.Dx(),
		Height:   tb.Dy(),
	}, nil
}

// deriveVideoPoster extracts one representative frame through ffmpeg. Both
// temporary files are removed on every exit path. When neither frame
// extraction nor the embedded-thumbnail fallback produces a frame, the video
// simply gets no derivative.
func deriveVideoPoster(ctx context.Context, data []byte) (*Derived, error) {
	in, err := os.CreateTemp("", "mediastore-poster-in-*")
	if err != nil {
		return nil, fmt.Errorf("create poster input file: %w", err)
	}
	defer os.Remove(in.Name())

	outPath := in.Name() + ".jpg"
	defer os.Remove(outPath)

	if _, err := in.Write(data); err != nil {
		in.Close()
		return nil, fmt.Errorf("write poster input file: %w", err)
	}
	if err := in.Close(); err != nil {
		return nil, fmt.Errorf("close poster input file: %w", err)
	}

	if err := extractFrame(ctx, in.Name(), outPath); err != nil {
		slog.Debug("preview: frame extraction failed, trying embedded thumbnail", "error", err)
		if err := extractAttachedPicture(ctx, in.Name(), outPath); err != nil {
			slog.Debug("preview: embedded thumbnail extraction failed", "error", err)
			return nil, nil
		}
	}

	frame, err := os.ReadFile(outPath)
	if err != nil || len(frame) == 0 {
		return nil, nil
	}

	derived := &Derived{Data: frame, MimeType: "image/jpeg"}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(frame)); err == nil {
		derived.Width = cfg.Width
		derived.Height = cfg.Height
	}
	return derived, nil
}

// extractFrame grabs one frame at a fixed offset into the stream.
func extractFrame(ctx context.Context, inPath, outPath string) error {
	return exec.CommandContext(ctx, "ffmpeg",
		"-v", "error",
		"-y",
		"-ss", posterFrameOffset,
		"-i", inPath,
		"-frames:v", "1",
		"-q:v", "2",
		outPath,
	).Run()
}

// extractAttachedPicture copies the container's attached picture stream
// (cover art / embedded thumbnail) when one exists.
func extractAttachedPicture(ctx context.Context, inPath, outPath string) error {
	return exec.CommandContext(ctx, "ffmpeg",
		"-v", "error",
		"-y",
		"-i", inPath,
		"-map", "0:v",
		"-map", "-0:V",
		"-c", "copy",
		"-frames:v", "1",
		outPath,
	).Run()
}
