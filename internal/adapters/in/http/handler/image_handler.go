package handler

import (
	"context"
	"net/http"
	"strings"

	usecase "termstore/internal/application/usecase"
)

// ImageSigner issues short-lived upload URLs for product images.
// The GCS adapter satisfies this.
type ImageSigner interface {
	SignedUploadURL(ctx context.Context, objectPath, contentType string) (string, error)
}

// ImageHandler serves /api/v1/product-image-upload/: sellers and admins
// exchange a file name for a signed PUT URL, then store the returned
// image_path on the product.
type ImageHandler struct {
	auth   *usecase.AuthUsecase
	signer ImageSigner
}

func NewImageHandler(auth *usecase.AuthUsecase, signer ImageSigner) *ImageHandler {
	return &ImageHandler{auth: auth, signer: signer}
}

func (h *ImageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.auth == nil || h.signer == nil {
		writeErr(w, http.StatusInternalServerError, "image handler is not configured")
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req struct {
		Token       string `json:"token"`
		FileName    string `json:"file_name"`
		ContentType string `json:"content_type"`
	}
	if err := decodeBody(r, &req); err != nil ||
		strings.TrimSpace(req.Token) == "" ||
		!validFileName(req.FileName) ||
		strings.TrimSpace(req.ContentType) == "" {
		writeErr(w, http.StatusBadRequest, "Invalid data")
		return
	}

	p, err := h.auth.Verify(r.Context(), req.Token)
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}
	if !p.CanManageProducts() {
		writeErr(w, http.StatusForbidden, "Permission denied")
		return
	}

	objectPath := "products/" + strings.TrimSpace(req.FileName)
	url, err := h.signer.SignedUploadURL(r.Context(), objectPath, strings.TrimSpace(req.ContentType))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeSuccess(w, http.StatusOK, "", map[string]any{
		"upload_url": url,
		"image_path": objectPath,
	})
}

// validFileName rejects empty names and anything that could escape the
// products/ prefix.
func validFileName(name string) bool {
	n := strings.TrimSpace(name)
	if n == "" {
		return false
	}
	if strings.ContainsAny(n, `/\`) || strings.Contains(n, "..") {
		return false
	}
	return true
}
