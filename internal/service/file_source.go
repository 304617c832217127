package service

import (
	"mime/multipart"
	"os"
	"path/filepath"

	"meal-labels/internal/domain"
)

// FormFileSource picks the file posted under Field in a multipart form.
type FormFileSource struct {
	Form  *multipart.Form
	Field string
}

// Selected returns the first file of the field. Browsers send an empty
// part when nothing was picked; multipart parsing keeps those as values,
// so they never show up here.
func (s FormFileSource) Selected() (*domain.UploadFile, error) {
	if s.Form == nil {
		return nil, nil
	}
	headers := s.Form.File[s.Field]
	if len(headers) == 0 || headers[0] == nil {
		return nil, nil
	}
	header := headers[0]
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	return &domain.UploadFile{Name: header.Filename, Content: f}, nil
}

// PathFileSource reads a file from disk. An empty Path means no file.
type PathFileSource struct {
	Path string
}

// Selected opens the file at Path.
func (s PathFileSource) Selected() (*domain.UploadFile, error) {
	if s.Path == "" {
		return nil, nil
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	return &domain.UploadFile{Name: filepath.Base(s.Path), Content: f}, nil
}
