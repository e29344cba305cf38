package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/creativ-studio/media-store/pkg/mediastore"
)

// multipartMemoryLimit bounds the in-memory portion of multipart parsing;
// larger parts spill to disk.
const multipartMemoryLimit = 32 << 20

// FilesHandler exposes the media-store service over HTTP.
type FilesHandler struct {
	service mediastore.Service

	// exposeInternal echoes internal error detail on 5xx responses.
	// Enabled outside production only.
	exposeInternal bool
}

func NewFilesHandler(service mediastore.Service, exposeInternal bool) *FilesHandler {
	return &FilesHandler{
		service:        service,
		exposeInternal: exposeInternal,
	}
}

// Routes returns the router for files endpoints. Callers mount it behind the
// jwtauth verifier and RequireOwner.
func (h *FilesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.UploadFile)
	r.Get("/", h.SearchFiles)
	r.Post("/bulk-delete", h.BulkDeleteFiles)
	r.Get("/{id}", h.GetFile)
	r.Delete("/{id}", h.DeleteFile)
	return r
}

// FileInfoResponse is the single-record fetch shape with convenience fields.
type FileInfoResponse struct {
	*mediastore.FileRecord
	HasPreview  bool   `json:"hasPreview"`
	DownloadURL string `json:"downloadUrl"`
	PreviewURL  string `json:"previewUrl"`
}

// BulkDeleteRequest carries the ids to remove.
type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// UploadFile ingests a multipart upload ("file" field) for the
// authenticated owner.
func (h *FilesHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	owner := OwnerFromContext(r.Context())

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		slog.Error("failed to parse multipart form", "error", err)
		renderError(w, r, mediastore.ErrNoFile, h.exposeInternal)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		renderError(w, r, mediastore.ErrNoFile, h.exposeInternal)
		return
	}
	defer file.Close()

	if header.Size > mediastore.MaxUploadSize {
		renderError(w, r, mediastore.ErrFileTooLarge, h.exposeInternal)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error("failed to read upload payload", "filename", header.Filename, "error", err)
		renderError(w, r, mediastore.ErrNoFile, h.exposeInternal)
		return
	}

	record, err := h.service.Upload(r.Context(), mediastore.UploadRequest{
		OwnerID:          owner,
		Filename:         header.Filename,
		Data:             data,
		DeclaredMimeType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		renderError(w, r, err, h.exposeInternal)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, record)
}

// SearchFiles executes an owner-scoped filter/sort/pagination query.
func (h *FilesHandler) SearchFiles(w http.ResponseWriter, r *http.Request) {
	owner := OwnerFromContext(r.Context())
	qp := r.URL.Query()

	req := mediastore.SearchRequest{
		Name:           qp.Get("name"),
		Category:       qp.Get("type"),
		MimeType:       qp.Get("mimeType"),
		MinSize:        parseInt64(qp.Get("minSize")),
		MaxSize:        parseInt64(qp.Get("maxSize")),
		UploadedAfter:  parseTime(qp.Get("from")),
		UploadedBefore: parseTime(qp.Get("to")),
		Page:           int(parseInt64(qp.Get("page"))),
		Limit:          int(parseInt64(qp.Get("limit"))),
		SortBy:         qp.Get("sortBy"),
		SortOrder:      qp.Get("sortOrder"),
	}

	result, err := h.service.Search(r.Context(), owner, req)
	if err != nil {
		renderError(w, r, err, h.exposeInternal)
		return
	}

	render.JSON(w, r, result)
}

// GetFile returns a single owner-scoped record with convenience URLs.
func (h *FilesHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	owner := OwnerFromContext(r.Context())
	id := chi.URLParam(r, "id")

	record, err := h.service.Get(r.Context(), owner, id)
	if err != nil {
		renderError(w, r, err, h.exposeInternal)
		return
	}

	render.JSON(w, r, FileInfoResponse{
		FileRecord:  record,
		HasPreview:  record.HasDerivedPreview(),
		DownloadURL: record.Src,
		PreviewURL:  record.Preview,
	})
}

// DeleteFile removes one record and every physical object reconstructed from
// its primary key.
func (h *FilesHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	owner := OwnerFromContext(r.Context())
	id := chi.URLParam(r, "id")

	result, err := h.service.Delete(r.Context(), owner, id)
	if err != nil {
		renderError(w, r, err, h.exposeInternal)
		return
	}

	render.JSON(w, r, result)
}

// BulkDeleteFiles removes up to the batch cap of owner-scoped records.
func (h *FilesHandler) BulkDeleteFiles(w http.ResponseWriter, r *http.Request) {
	owner := OwnerFromContext(r.Context())

	var req BulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("failed to decode bulk delete request", "error", err)
		renderError(w, r, mediastore.ErrInvalidID, h.exposeInternal)
		return
	}

	result, err := h.service.BulkDelete(r.Context(), owner, req.IDs)
	if err != nil {
		renderError(w, r, err, h.exposeInternal)
		return
	}

	render.JSON(w, r, result)
}

func parseInt64(s string) int64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t
	}
	return nil
}
