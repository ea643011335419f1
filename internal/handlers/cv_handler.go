package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/Ainterview-4/Big-Leap/internal/models"
	"github.com/Ainterview-4/Big-Leap/internal/services"
	"github.com/Ainterview-4/Big-Leap/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	// DefaultMaxUploadBytes is the largest accepted CV file.
	DefaultMaxUploadBytes = 10 << 20
	// multipart boundaries and headers on top of the file itself
	multipartOverhead = 1 << 20
	uploadField       = "file"
)

// CVHandler serves CV upload and retrieval.
type CVHandler struct {
	CVs            CVService
	MaxUploadBytes int64
	Logger         *zap.Logger
}

func NewCVHandler(cvs CVService, maxUploadBytes int64, logger *zap.Logger) *CVHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &CVHandler{CVs: cvs, MaxUploadBytes: maxUploadBytes, Logger: nopIfNil(logger)}
}

type optimizeRequest struct {
	CVID           string `json:"cvId"`
	JobDescription string `json:"jobDescription"`
}

func (h *CVHandler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(h.Logger, w, r, models.NewFileTooLargeError(h.MaxUploadBytes))
			return
		}
		writeError(h.Logger, w, r, models.NewValidationError("No file uploaded", nil))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		writeError(h.Logger, w, r, models.NewValidationError("No file uploaded", nil))
		return
	}
	defer file.Close()

	if header.Size > h.MaxUploadBytes {
		writeError(h.Logger, w, r, models.NewFileTooLargeError(h.MaxUploadBytes))
		return
	}
	content, err := io.ReadAll(file)
	if err != nil {
		writeError(h.Logger, w, r, models.NewServerError("Failed to read upload", err))
		return
	}

	cv, err := h.CVs.Upload(r.Context(), services.UploadInput{
		OwnerID:  userID,
		FileName: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Content:  content,
	})
	if err != nil {
		writeError(h.Logger, w, r, err)
		return
	}
	utils.Success(w, http.StatusCreated, cv)
}

func (h *CVHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	cvs, err := h.CVs.List(r.Context(), userID)
	if err != nil {
		writeError(h.Logger, w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, cvs)
}

func (h *CVHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	cv, err := h.CVs.Get(r.Context(), userID, chi.URLParam(r, "cvId"))
	if err != nil {
		writeError(h.Logger, w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, cv)
}

func (h *CVHandler) OptimizeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	var req optimizeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(h.Logger, w, r, err)
		return
	}
	res, err := h.CVs.Optimize(r.Context(), userID, req.CVID, req.JobDescription)
	if err != nil {
		writeError(h.Logger, w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, res)
}
