package controllers

import (
	"context"
	"io"
	"net/http"

	"github.com/vendstack/kiosk-backend/api/responses"
	"github.com/vendstack/kiosk-backend/internal/machine"
	pkgerrors "github.com/vendstack/kiosk-backend/pkg/errors"
	"github.com/vendstack/kiosk-backend/pkg/logger"
)

// Product images cap out well below this; the limit only guards the proxy.
const maxImageUploadBytes = 10 << 20

// ImageService streams product images through to the vending backend.
type ImageService interface {
	UploadImage(ctx context.Context, filename string, file io.Reader) (*machine.ImageUploadResult, error)
}

// UploadImage accepts a multipart product image and forwards it unchanged.
func UploadImage(svc ImageService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "image service unavailable"))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxImageUploadBytes)
		if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file field required"))
			return
		}
		defer func() { _ = file.Close() }()

		result, err := svc.UploadImage(r.Context(), header.Filename, file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
