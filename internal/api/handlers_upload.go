// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

package api

import (
	"net/http"

	"github.com/rajat-k-27/dishari/internal/logging"
)

// maxUploadBytes is the product image ceiling.
const maxUploadBytes = 5 << 20 // 5 MiB

// allowedImageTypes are the content types accepted for product images.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// UploadImage stores a product image (admin). Multipart field "file",
// 5 MiB ceiling, image content types only. Responds with the hosted
// URL and the public id needed to delete the asset later.
func (h *Handlers) UploadImage(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil {
		WriteError(w, r, http.StatusServiceUnavailable, CodeExternalService, "image hosting not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteError(w, r, http.StatusBadRequest, CodeBadRequest, "file exceeds the 5MB limit or is not valid multipart")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, CodeBadRequest, "missing file field")
		return
	}
	defer file.Close()

	if !allowedImageTypes[header.Header.Get("Content-Type")] {
		WriteError(w, r, http.StatusBadRequest, CodeBadRequest, "only image uploads are accepted")
		return
	}

	asset, err := h.uploader.Upload(r.Context(), file)
	if err != nil {
		ctxLogger := logging.Ctx(r.Context())
		ctxLogger.Error().Err(err).Msg("image upload failed")
		WriteError(w, r, http.StatusBadGateway, CodeExternalService, "image host unavailable")
		return
	}
	WriteJSON(w, r, http.StatusCreated, asset)
}
