package services

import (
	"fmt"
	"io"
	"mime/multipart"
)

// ReadUpload loads an uploaded file into memory. Résumés are never written to disk.
func ReadUpload(file *multipart.FileHeader, maxSize int64) ([]byte, error) {
	if file == nil {
		return nil, &InputValidationError{Field: "cv", Message: MsgMissingCV}
	}
	if maxSize > 0 && file.Size > maxSize {
		return nil, FileTooLarge(maxSize)
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	return readAtMost(src, maxSize)
}

func readAtMost(r io.Reader, maxSize int64) ([]byte, error) {
	if maxSize <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read uploaded file: %w", err)
		}
		return data, nil
	}

	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, FileTooLarge(maxSize)
	}
	return data, nil
}

// FileTooLarge is also returned when the server rejects an oversized request body.
func FileTooLarge(maxSize int64) error {
	return &InputValidationError{
		Field:   "cv",
		Message: fmt.Sprintf("Fichier trop volumineux (max %d Mo)", maxSize/(1024*1024)),
	}
}
