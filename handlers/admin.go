// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/danielhkuo/dzmatch-votes/archive"
	"github.com/danielhkuo/dzmatch-votes/auth"
	"github.com/danielhkuo/dzmatch-votes/ballot"
	"github.com/danielhkuo/dzmatch-votes/cliparse"
	"github.com/danielhkuo/dzmatch-votes/middleware"
	"github.com/danielhkuo/dzmatch-votes/models"
	"github.com/danielhkuo/dzmatch-votes/store/xlsx"
)

type AdminHandler struct {
	ledger   *ballot.Ledger
	cfg      cliparse.Config
	uploader archive.Uploader
	now      func() time.Time
}

// NewAdminHandler builds the operator endpoints. uploader may be nil when no
// archive is configured.
func NewAdminHandler(ledger *ballot.Ledger, cfg cliparse.Config, uploader archive.Uploader) *AdminHandler {
	return &AdminHandler{ledger: ledger, cfg: cfg, uploader: uploader, now: time.Now}
}

// requireAdmin checks X-Admin-Key and writes the error response itself.
func (h *AdminHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	err := auth.ValidateAdminKey(r.Header.Get("X-Admin-Key"), h.cfg.AdminKeySalt)
	switch {
	case errors.Is(err, auth.ErrAdminDisabled):
		middleware.ErrorResponse(w, http.StatusNotFound, "Admin access is disabled")
		return false
	case err != nil:
		slog.Warn("rejected admin request",
			"path", r.URL.Path,
			"ip_hash", auth.HashIP(middleware.GetClientIP(r), h.cfg.AdminKeySalt),
		)
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return false
	}
	return true
}

// Export handles GET /admin/export
// Streams every record as an .xlsx workbook.
func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	records, err := h.ledger.Records(r.Context())
	if err != nil {
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, models.MessageUnavailable)
		return
	}

	var buf bytes.Buffer
	if err := xlsx.WriteWorkbook(&buf, records); err != nil {
		slog.Error("failed to encode workbook", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to export votes")
		return
	}

	w.Header().Set("Content-Type", archive.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+archive.Key(h.now())+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())

	slog.Info("votes exported", "records", len(records))
}

// Archive handles POST /admin/archive
func (h *AdminHandler) Archive(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	if h.uploader == nil {
		middleware.ErrorResponse(w, http.StatusConflict, "No archive is configured")
		return
	}

	records, err := h.ledger.Records(r.Context())
	if err != nil {
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, models.MessageUnavailable)
		return
	}

	location, err := archive.Snapshot(r.Context(), h.uploader, records, h.now())
	if err != nil {
		slog.Error("failed to archive votes", "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Failed to archive votes")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.ArchiveResponse{
		Location: location,
		Records:  len(records),
	})
}
