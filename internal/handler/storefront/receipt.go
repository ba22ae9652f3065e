package storefront

import (
	"io"
	"net/http"

	"github.com/jrmart12/nayos/internal/domain"
	"github.com/jrmart12/nayos/internal/handler"
	"github.com/jrmart12/nayos/internal/receipt"
)

// uploadResponse reports the stored receipt location.
type uploadResponse struct {
	ReceiptURL   string `json:"receipt_url"`
	UploadStatus string `json:"upload_status"`
}

// UploadReceipt accepts a transfer receipt image, compresses it and attaches
// the stored URL to the draft. Only one upload may be in flight per session.
func (h *Handler) UploadReceipt(w http.ResponseWriter, r *http.Request) {
	s, err := h.checkouts.Session(r.Context(), h.sessionID(w, r))
	if err != nil {
		handler.Error(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, receipt.MaxUploadBytes+1024)
	if err := r.ParseMultipartForm(receipt.MaxUploadBytes); err != nil {
		handler.Error(w, r, domain.Invalid("checkout.receipt", "El comprobante es demasiado grande"))
		return
	}

	file, _, err := r.FormFile("receipt")
	if err != nil {
		handler.Error(w, r, domain.Invalid("checkout.receipt", "Falta el archivo del comprobante"))
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		handler.Error(w, r, domain.Internal(err, "checkout.receipt", "No se pudo leer el comprobante"))
		return
	}

	token, err := s.BeginUpload()
	if err != nil {
		handler.Error(w, r, err)
		return
	}

	url, uploadErr := h.uploader.Upload(r.Context(), raw)
	s.FinishUpload(token, url, uploadErr)
	if uploadErr != nil {
		h.metrics.RecordReceiptUpload("failed")
		handler.Error(w, r, uploadErr)
		return
	}

	h.metrics.RecordReceiptUpload("succeeded")
	handler.JSON(w, http.StatusOK, uploadResponse{
		ReceiptURL:   url,
		UploadStatus: s.Status().String(),
	})
}
