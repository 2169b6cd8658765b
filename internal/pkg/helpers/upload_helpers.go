package helpers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/bluecollar/internal/pkg/apperrors"
	"github.com/yigit/bluecollar/internal/pkg/filestorage"
)

// OptionalUpload reads the multipart file part named field. A missing part
// is not an error and yields nil.
func OptionalUpload(ctx *gin.Context, field string, maxBytes int64) (*filestorage.Upload, error) {
	fh, err := ctx.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, apperrors.NewCustomError(apperrors.ErrBadRequest, "Malformed multipart form")
	}
	return filestorage.ReadUpload(fh, maxBytes)
}
