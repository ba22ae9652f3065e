// Package receipt uploads bank transfer receipts: compress, key, store.
package receipt

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jrmart12/nayos/internal/domain"
	"github.com/jrmart12/nayos/internal/imaging"
	"github.com/jrmart12/nayos/internal/storage"
)

// MaxUploadBytes caps the raw upload size before compression.
const MaxUploadBytes = 10 << 20

// Uploader compresses receipt images and stores them under unique keys.
type Uploader struct {
	store storage.Storage
}

// NewUploader creates a receipt uploader on a storage backend.
func NewUploader(store storage.Storage) *Uploader {
	return &Uploader{store: store}
}

// Upload compresses the raw image and stores it, returning the durable
// public URL. Undecodable input is a validation error; storage failures
// surface as-is for the caller to report and let the customer retry.
func (u *Uploader) Upload(ctx context.Context, raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", domain.Invalid("receipt.upload", "El comprobante está vacío")
	}
	if len(raw) > MaxUploadBytes {
		return "", domain.Invalid("receipt.upload", "El comprobante es demasiado grande")
	}

	compressed, err := imaging.Compress(raw)
	if err != nil {
		return "", &domain.Error{
			Code:    domain.EINVALID,
			Op:      "receipt.upload",
			Message: "El archivo no es una imagen válida",
			Err:     err,
		}
	}

	key := fmt.Sprintf("receipts/%s.jpg", uuid.NewString())
	url, err := u.store.Put(ctx, key, bytes.NewReader(compressed), "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to store receipt: %w", err)
	}

	return url, nil
}
