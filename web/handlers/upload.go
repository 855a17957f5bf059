// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/mdhender/tabtxt/pipelines/stages"
	"github.com/mdhender/tabtxt/web/templates"
)

const maxUploadBytes = 32 << 20 // 32 MB

type uploadResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	DatasetID int64  `json:"datasetId,omitempty"`
	Duplicate bool   `json:"duplicate,omitempty"`
	Rows      int    `json:"rows,omitempty"`
	Columns   int    `json:"columns,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp uploadResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// Upload renders the upload form on GET and ingests a file on POST.
// The POST response is JSON; the parse job runs inline so the response
// carries the row and column counts.
func (h *Handlers) Upload(w http.ResponseWriter, r *http.Request) {
	session := h.requireSession(w, r)
	if session == nil {
		return
	}

	switch r.Method {
	case http.MethodGet:
		data := h.getLayoutData(r, session)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := templates.UploadPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	case http.MethodPost:
		h.uploadSubmit(w, r, session.User.Handle)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handlers) uploadSubmit(w http.ResponseWriter, r *http.Request, handle string) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, uploadResponse{Error: "invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, uploadResponse{Error: "missing file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, uploadResponse{Error: "read upload"})
		return
	}
	if len(data) > maxUploadBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, uploadResponse{Error: "file too large"})
		return
	}

	req := stages.IngestRequest{
		Filename:  header.Filename,
		Data:      data,
		HasHeader: r.PostFormValue("no-header") == "",
		Trim:      true,
	}
	if d := r.PostFormValue("delimiter"); d != "" {
		req.Delimiter = d[0]
	}

	ingest := stages.NewIngestService(h.store, h.dataDir)
	batchID, err := ingest.NewBatch(r.Context(), handle)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, uploadResponse{Error: err.Error()})
		return
	}
	result, err := ingest.IngestFile(r.Context(), batchID, req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, uploadResponse{Error: err.Error()})
		return
	}
	if result.Duplicate {
		writeJSON(w, http.StatusOK, uploadResponse{
			Success:   true,
			DatasetID: result.DatasetID,
			Duplicate: true,
		})
		return
	}

	// run the parse job inline so the caller gets counts back
	worker := stages.NewWorkerService(h.store, h.dataDir, "web")
	if _, err := worker.Drain(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, uploadResponse{Error: err.Error()})
		return
	}

	ds, err := h.store.GetDataset(r.Context(), result.DatasetID)
	if err != nil || ds == nil {
		writeJSON(w, http.StatusInternalServerError, uploadResponse{Error: "dataset lost after parse"})
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		Success:   true,
		DatasetID: ds.ID,
		Rows:      ds.RowCount,
		Columns:   ds.ColCount,
	})
}
