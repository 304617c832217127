package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"meal-labels/internal/domain"
)

// Outcome says which path an upload took.
type Outcome string

const (
	OutcomeNoFile      Outcome = "no_file"
	OutcomeFailed      Outcome = "failed"
	OutcomeServerError Outcome = "server_error"
	OutcomeRendered    Outcome = "rendered"
	OutcomeEmpty       Outcome = "empty"
)

// Result reports what Handle displayed. It is informational only: every
// outcome has already been written to the container.
type Result struct {
	Outcome Outcome
	Cards   int
	Storage string
	Err     error
}

// UploadHandler reads the selected file, submits it and renders the reply.
// It keeps no state between calls.
type UploadHandler struct {
	processor domain.LabelProcessor
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(processor domain.LabelProcessor) *UploadHandler {
	return &UploadHandler{processor: processor}
}

// Handle runs one upload. The container is cleared before anything else so
// a slow or failed request never leaves stale labels behind.
func (h *UploadHandler) Handle(ctx context.Context, source domain.FileSource, out domain.OutputContainer) Result {
	out.Clear()

	file, err := source.Selected()
	if err != nil {
		return h.fail(out, OutcomeFailed, err.Error(), err)
	}
	if file == nil {
		out.SetText(domain.NoFileMessage)
		return Result{Outcome: OutcomeNoFile}
	}
	defer file.Close()

	resp, err := h.processor.ProcessCSV(ctx, file)
	if err != nil {
		return h.fail(out, OutcomeFailed, err.Error(), err)
	}

	if resp.Error.Truthy() {
		msg := resp.Error.String()
		return h.fail(out, OutcomeServerError, msg, fmt.Errorf("processor: %s", msg))
	}

	if !resp.Labels.Truthy() {
		return Result{Outcome: OutcomeEmpty, Storage: resp.Storage.String()}
	}

	records, err := decodeLabels(resp.Labels)
	if err != nil {
		return h.fail(out, OutcomeFailed, err.Error(), err)
	}

	for _, rec := range records {
		out.AppendCard(BuildCard(rec))
	}
	return Result{Outcome: OutcomeRendered, Cards: len(records), Storage: resp.Storage.String()}
}

func (h *UploadHandler) fail(out domain.OutputContainer, outcome Outcome, detail string, err error) Result {
	out.SetText("Error: " + detail)
	return Result{Outcome: outcome, Err: err}
}

// decodeLabels decodes the whole list before anything is rendered, so a bad
// entry shows only the error.
func decodeLabels(labels domain.Value) ([]domain.LabelRecord, error) {
	if !labels.IsList() {
		return nil, domain.ErrLabelsNotList
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(labels.Raw(), &entries); err != nil {
		return nil, fmt.Errorf("decode labels: %w", err)
	}

	records := make([]domain.LabelRecord, 0, len(entries))
	for i, entry := range entries {
		trimmed := bytes.TrimSpace(entry)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return nil, fmt.Errorf("%w: entry %d", domain.ErrLabelNotObject, i)
		}
		var rec domain.LabelRecord
		if err := json.Unmarshal(trimmed, &rec); err != nil {
			return nil, fmt.Errorf("decode label %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
