package domain

import (
	"context"
	"io"
)

const (
	// UploadFieldName is the multipart field carrying the CSV file.
	UploadFieldName = "csv_file"
	// ProcessPath is the processing server endpoint.
	ProcessPath = "/process_csv"
	// NoFileMessage is shown when the user pressed the button without a file.
	NoFileMessage = "Please upload a CSV file."
)

// UploadFile is a single named file chosen by the user.
type UploadFile struct {
	Name    string
	Content io.ReadCloser
}

// Close releases the file content.
func (f *UploadFile) Close() error {
	if f == nil || f.Content == nil {
		return nil
	}
	return f.Content.Close()
}

// FileSource yields the selected file. A nil file with a nil error means
// nothing was selected.
type FileSource interface {
	Selected() (*UploadFile, error)
}

// OutputContainer is the element labels are rendered into.
type OutputContainer interface {
	Clear()
	SetText(text string)
	AppendCard(card Card)
}

// LabelProcessor submits a CSV file and returns the decoded reply.
type LabelProcessor interface {
	ProcessCSV(ctx context.Context, file *UploadFile) (*ProcessResponse, error)
}
