package mediastore

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"strconv"

	// Register decoders for the in-memory dimension fast path.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Probe extracts intrinsic properties from a payload: detected MIME type,
// pixel dimensions and play duration. It is best-effort and never fails the
// caller; anything it cannot determine stays zero-valued.
//
// Dimension probing tries a cheap in-memory decode first and only then falls
// back to ffprobe through a temporary file. The temporary file is removed on
// every exit path.
func Probe(ctx context.Context, data []byte) Meta {
	var m Meta
	if len(data) == 0 {
		return m
	}

	m.MimeType = http.DetectContentType(data)

	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		m.Width = cfg.Width
		m.Height = cfg.Height
		return m
	}

	tmp, err := os.CreateTemp("", "mediastore-probe-*")
	if err != nil {
		slog.Debug("probe: temp file creation failed", "error", err)
		return m
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		slog.Debug("probe: temp file write failed", "error", err)
		return m
	}
	if err := tmp.Close(); err != nil {
		slog.Debug("probe: temp file close failed", "error", err)
		return m
	}

	info, err := ffprobe(ctx, tmp.Name())
	if err != nil {
		slog.Debug("probe: ffprobe failed", "error", err)
		return m
	}

	m.Duration = parseSeconds(info.Format.Duration)
	for _, s := range info.Streams {
		switch s.CodecType {
		case "video":
			if m.Width == 0 {
				m.Width = s.Width
				m.Height = s.Height
			}
		}
		if m.Duration == 0 {
			m.Duration = parseSeconds(s.Duration)
		}
	}

	return m
}

type ffprobeInfo struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
		Duration  string `json:"duration"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func ffprobe(ctx context.Context, path string) (*ffprobeInfo, error) {
	out, err := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		path,
	).Output()
	if err != nil {
		return nil, err
	}

	var info ffprobeInfo
	if err := json.Unmarshal(out, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func parseSeconds(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
