package mediastore

import (
	"path/filepath"
	"strings"
)

// Extension fallback table, consulted only when the resolved MIME type is a
// generic binary type that carries no category information.
var extensionCategories = map[string]Category{
	// images
	"jpg": CategoryImage, "jpeg": CategoryImage, "png": CategoryImage,
	"gif": CategoryImage, "webp": CategoryImage, "bmp": CategoryImage,
	"svg": CategoryImage, "tiff": CategoryImage, "heic": CategoryImage,

	// video
	"mp4": CategoryVideo, "mov": CategoryVideo, "avi": CategoryVideo,
	"mkv": CategoryVideo, "webm": CategoryVideo, "flv": CategoryVideo,
	"wmv": CategoryVideo, "m4v": CategoryVideo,

	// audio
	"mp3": CategoryAudio, "wav": CategoryAudio, "ogg": CategoryAudio,
	"flac": CategoryAudio, "aac": CategoryAudio, "m4a": CategoryAudio,
	"wma": CategoryAudio,

	// documents
	"pdf": CategoryDocument, "doc": CategoryDocument, "docx": CategoryDocument,
	"xls": CategoryDocument, "xlsx": CategoryDocument, "ppt": CategoryDocument,
	"pptx": CategoryDocument, "txt": CategoryDocument, "csv": CategoryDocument,
	"md": CategoryDocument, "rtf": CategoryDocument,
}

func isDocumentMimeType(mt string) bool {
	switch mt {
	case "application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.ms-excel",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/vnd.ms-powerpoint",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation",
		"application/rtf":
		return true
	}
	return false
}

// Classify maps a resolved MIME type, with the filename extension as a
// fallback for generic binary types, to a media category. It is total: any
// input it cannot place yields CategoryOther.
func Classify(mimeType, filename string) Category {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}

	switch {
	case strings.HasPrefix(mt, "image/"):
		return CategoryImage
	case strings.HasPrefix(mt, "video/"):
		return CategoryVideo
	case strings.HasPrefix(mt, "audio/"):
		return CategoryAudio
	}

	if mt == "" || mt == "application/octet-stream" || mt == "binary/octet-stream" {
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
		if c, ok := extensionCategories[ext]; ok {
			return c
		}
	}

	if isDocumentMimeType(mt) || strings.HasPrefix(mt, "text/") {
		return CategoryDocument
	}

	return CategoryOther
}
