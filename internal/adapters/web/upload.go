package web

import (
	"fmt"
	"io"
	"mime/multipart"
)

// formUpload adapts a multipart file to core.Upload
type formUpload struct {
	header *multipart.FileHeader
}

func (u formUpload) Filename() string {
	return u.header.Filename
}

func (u formUpload) ReadAll() ([]byte, error) {
	f, err := u.header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return data, nil
}
