// Package handler provides HTTP handlers for the label front end.
package handler

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"meal-labels/internal/domain"
	"meal-labels/internal/render"
	"meal-labels/internal/service"
	apperrors "meal-labels/pkg/errors"
)

//go:embed templates/*.html
var templates embed.FS

var pageTmpl = template.Must(template.ParseFS(templates, "templates/index.html"))

// uploadFieldName is the id and name of the page's file picker.
const uploadFieldName = "csv_upload"

// multipartMemory is how much of a form is kept in memory before spilling
// to temp files.
const multipartMemory = 8 << 20

// Uploader runs one label upload into a container.
type Uploader interface {
	Handle(ctx context.Context, source domain.FileSource, out domain.OutputContainer) service.Result
}

// LabelHandler serves the label page and runs uploads posted from it
type LabelHandler struct {
	uploader    Uploader
	maxFileSize int64
	logger      domain.Logger
}

// NewLabelHandler creates a new label handler
func NewLabelHandler(uploader Uploader, maxFileSize int64, logger domain.Logger) *LabelHandler {
	return &LabelHandler{
		uploader:    uploader,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

type pageData struct {
	Labels template.HTML
}

// Index renders the page with an empty labels container
func (h *LabelHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.writePage(w, http.StatusOK, "")
}

// Generate handles the page's form submission and re-renders the page
// with the labels container filled in.
func (h *LabelHandler) Generate(w http.ResponseWriter, r *http.Request) {
	out, err := h.run(w, r)
	if err != nil {
		errOut := render.NewContainer()
		errOut.SetText("Error: " + err.Error())
		h.writePage(w, apperrors.GetStatusCode(err), errOut.HTML())
		return
	}
	h.writePage(w, http.StatusOK, out.HTML())
}

// GenerateFragment is the API variant of Generate: it returns only the
// container content, as HTML or, with ?format=text, as plain text.
func (h *LabelHandler) GenerateFragment(w http.ResponseWriter, r *http.Request) {
	out, err := h.run(w, r)
	if err != nil {
		writeError(w, apperrors.GetStatusCode(err), err.Error())
		return
	}

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(out.Text()))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out.HTML()))
}

// run parses the posted form and hands it to the uploader. Only a request
// that cannot be read at all is returned as an error; everything else ends
// up in the container.
func (h *LabelHandler) run(w http.ResponseWriter, r *http.Request) (*render.Container, error) {
	if h.maxFileSize > 0 {
		// Leave room for the multipart framing around the file.
		r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+64<<10)
	}

	source := service.FormFileSource{Field: uploadFieldName}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return nil, apperrors.NewTooLargeError(fmt.Sprintf("upload exceeds %d bytes", h.maxFileSize), err)
		case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
			// Nothing was posted as a file, which is the same as no selection.
		default:
			return nil, apperrors.NewValidationError("Could not read upload", err.Error())
		}
	} else {
		source.Form = r.MultipartForm
		defer r.MultipartForm.RemoveAll()
	}

	out := render.NewContainer()
	result := h.uploader.Handle(r.Context(), source, out)

	requestID, _ := domain.RequestIDFromContext(r.Context())
	if result.Err != nil {
		h.logger.Warn("Label generation failed", "request_id", requestID, "outcome", result.Outcome, "error", result.Err)
	} else {
		h.logger.Info("Label generation finished", "request_id", requestID, "outcome", result.Outcome, "cards", result.Cards)
	}
	return out, nil
}

func (h *LabelHandler) writePage(w http.ResponseWriter, status int, labels template.HTML) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTmpl.Execute(w, pageData{Labels: labels}); err != nil {
		h.logger.Error("Failed to render page", err)
	}
}
