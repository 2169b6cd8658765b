package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"
	"github.com/yigit/bluecollar/internal/pkg/apperrors"
)

// Upload holds a multipart file that has been read into memory and sniffed
type Upload struct {
	Filename string
	MimeType string
	Data     []byte
}

// ReadUpload reads fh fully, refusing files larger than maxBytes
func ReadUpload(fh *multipart.FileHeader, maxBytes int64) (*Upload, error) {
	if fh == nil {
		return nil, nil
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		return nil, apperrors.NewValidationError(fmt.Sprintf("File %s exceeds the %d byte limit", fh.Filename, maxBytes))
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	return &Upload{
		Filename: fh.Filename,
		MimeType: mimetype.Detect(data).String(),
		Data:     data,
	}, nil
}

// ValidateImage accepts JPEG and PNG content. A nil upload is valid.
func ValidateImage(u *Upload) error {
	if u == nil {
		return nil
	}
	m := mimetype.Detect(u.Data)
	if m.Is("image/jpeg") || m.Is("image/png") {
		return nil
	}
	return apperrors.ErrUnsupportedFileType.WithDetails(map[string]interface{}{
		"file":     u.Filename,
		"detected": m.String(),
		"allowed":  "image/jpeg, image/png",
	})
}

// ValidatePDF accepts PDF content. A nil upload is valid.
func ValidatePDF(u *Upload) error {
	if u == nil {
		return nil
	}
	m := mimetype.Detect(u.Data)
	if m.Is("application/pdf") {
		return nil
	}
	return apperrors.ErrUnsupportedFileType.WithDetails(map[string]interface{}{
		"file":     u.Filename,
		"detected": m.String(),
		"allowed":  "application/pdf",
	})
}
