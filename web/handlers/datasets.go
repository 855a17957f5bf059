// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/mdhender/tabtxt/web/templates"
)

const defaultRowLimit = 50

// Datasets lists all datasets.
func (h *Handlers) Datasets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session := h.requireSession(w, r)
	if session == nil {
		return
	}

	datasets, err := h.store.ListDatasets(r.Context())
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	data := h.getLayoutData(r, session)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.DatasetsPage(datasets, data).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// Dataset shows one dataset with a page of rows. The path is
// /datasets/{id} with optional limit and offset query parameters.
func (h *Handlers) Dataset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session := h.requireSession(w, r)
	if session == nil {
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/datasets/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	ds, err := h.store.GetDataset(r.Context(), id)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if ds == nil {
		http.NotFound(w, r)
		return
	}

	limit := defaultRowLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
		}
	}
	offset := 0
	if s := r.URL.Query().Get("offset"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			offset = n
		}
	}

	columns, err := h.store.ColumnsByDataset(r.Context(), id)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	rows, err := h.store.DataRowsByDataset(r.Context(), id, limit, offset)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	data := h.getLayoutData(r, session)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.DatasetPage(ds, columns, rows, limit, offset, data).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// Stats shows the store row counts.
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session := h.requireSession(w, r)
	if session == nil {
		return
	}

	data := h.getLayoutData(r, session)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.StatsPage(h.store.Stats(), data).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
