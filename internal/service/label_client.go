package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"meal-labels/internal/domain"
	apperrors "meal-labels/pkg/errors"
)

// RequestIDHeader carries the request id to the processing server.
const RequestIDHeader = "X-Request-ID"

// LabelClient posts CSV uploads to the label processing server.
type LabelClient struct {
	baseURL    string
	branding   string
	httpClient *http.Client
	logger     domain.Logger
}

// NewLabelClient creates a client for the processing server at baseURL.
// The http.Client carries no timeout; the caller's context decides.
func NewLabelClient(baseURL string, branding string, httpClient *http.Client, logger domain.Logger) *LabelClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &LabelClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		branding:   branding,
		httpClient: httpClient,
		logger:     logger,
	}
}

// ProcessCSV uploads file and decodes the reply. The HTTP status is not
// inspected: the server reports its own failures in the JSON body.
func (c *LabelClient) ProcessCSV(ctx context.Context, file *domain.UploadFile) (*domain.ProcessResponse, error) {
	if c.baseURL == "" {
		return nil, apperrors.NewInternalError("build upload request", domain.ErrProcessorURLNotSet)
	}

	body, contentType, err := c.buildPayload(file)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+domain.ProcessPath, body)
	if err != nil {
		return nil, apperrors.NewInternalError("build upload request", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if id, ok := domain.RequestIDFromContext(ctx); ok {
		req.Header.Set(RequestIDHeader, id)
	}

	c.logger.Debug("Posting CSV to processor", "url", req.URL.String(), "file", file.Name, "bytes", body.Len())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewNetworkError("send upload request", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewNetworkError("read processor reply", err)
	}

	decoded, err := decodeReply(raw)
	if err != nil {
		return nil, apperrors.NewProcessingError(fmt.Sprintf("decode processor reply (status %d)", resp.StatusCode), err)
	}

	c.logger.Debug("Processor replied", "status", resp.StatusCode, "bytes", len(raw))
	return decoded, nil
}

// decodeReply accepts any well-formed JSON body. Only an object can carry
// error or labels; arrays and scalars decode to an empty reply, while null
// has no fields to read and is rejected.
func decodeReply(raw []byte) (*domain.ProcessResponse, error) {
	var body json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, err
	}
	decoded := &domain.ProcessResponse{}
	switch trimmed := bytes.TrimSpace(body); {
	case bytes.Equal(trimmed, []byte("null")):
		return nil, domain.ErrNullReply
	case trimmed[0] == '{':
		if err := json.Unmarshal(trimmed, decoded); err != nil {
			return nil, err
		}
	}
	return decoded, nil
}

func (c *LabelClient) buildPayload(file *domain.UploadFile) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	part, err := writer.CreateFormFile(domain.UploadFieldName, filepath.Base(file.Name))
	if err != nil {
		return nil, "", apperrors.NewInternalError("create multipart field", err)
	}
	if file.Content != nil {
		if _, err := io.Copy(part, file.Content); err != nil {
			return nil, "", apperrors.NewInternalError("read selected file", err)
		}
	}
	if c.branding != "" {
		if err := writer.WriteField("branding", c.branding); err != nil {
			return nil, "", apperrors.NewInternalError("write branding field", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", apperrors.NewInternalError("finish multipart body", err)
	}
	return buf, writer.FormDataContentType(), nil
}
