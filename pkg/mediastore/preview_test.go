package mediastore

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height)), nil))
	return buf.Bytes()
}

func TestDerivePreviewImageDownscales(t *testing.T) {
	data := encodeJPEG(t, 1500, 1000)

	derived, err := DerivePreview(context.Background(), CategoryImage, data)
	require.NoError(t, err)
	require.NotNil(t, derived)
	assert.Equal(t, "image/jpeg", derived.MimeType)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(derived.Data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)

	assert.LessOrEqual(t, cfg.Width, previewMaxDimension)
	assert.LessOrEqual(t, cfg.Height, previewMaxDimension)

	// The reported dimensions are the derivative's own.
	assert.Equal(t, cfg.Width, derived.Width)
	assert.Equal(t, cfg.Height, derived.Height)

	// Aspect ratio preserved within rounding.
	assert.InDelta(t, 1.5, float64(cfg.Width)/float64(cfg.Height), 0.02)
}

func TestDerivePreviewImageWithinBoundIsSkipped(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"both small", 400, 300},
		{"exactly at bound", 720, 720},
		{"only width exceeds", 2000, 500},
		{"only height exceeds", 500, 2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			derived, err := DerivePreview(context.Background(), CategoryImage, encodeJPEG(t, tt.width, tt.height))
			require.NoError(t, err)
			assert.Nil(t, derived)
		})
	}
}

func TestDerivePreviewUndecodableImageIsSkipped(t *testing.T) {
	derived, err := DerivePreview(context.Background(), CategoryImage, []byte("not an image"))
	require.NoError(t, err)
	assert.Nil(t, derived)
}

func TestDerivePreviewAudioHasNoDerivative(t *testing.T) {
	derived, err := DerivePreview(context.Background(), CategoryAudio, []byte("RIFF....WAVE"))
	require.NoError(t, err)
	assert.Nil(t, derived)
}

func TestDerivePreviewVideoWithoutUsableFrame(t *testing.T) {
	// Garbage video bytes: both extraction strategies fail and the caller
	// falls back to the original.
	derived, err := DerivePreview(context.Background(), CategoryVideo, []byte("definitely not a video"))
	require.NoError(t, err)
	assert.Nil(t, derived)
}

func TestDerivePreviewRejectsUnsupportedCategory(t *testing.T) {
	_, err := DerivePreview(context.Background(), CategoryDocument, []byte("%PDF-1.4"))
	assert.Error(t, err)
}
