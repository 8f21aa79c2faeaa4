package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"filebox/internal/logging"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gorilla/mux"
)

// ListFolders returns all folders sorted by name.
func (h *Handlers) ListFolders(w http.ResponseWriter, _ *http.Request) {
	folders, err := h.folders.List()
	if err != nil {
		logging.Error("list folders failed: %v", err)
		writeJSONError(w, "Failed to list folders", http.StatusInternalServerError)
		return
	}
	writeJSON(w, folders)
}

type createFolderRequest struct {
	Name string `json:"name"`
}

func (req createFolderRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Name,
			validation.Required.Error("folder name is required"),
			validation.Length(1, 255),
		),
	)
}

// CreateFolder creates a folder from a JSON body {"name": "..."}. Names are
// trimmed and must be non-empty.
func (h *Handlers) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req createFolderRequest
	if err := decodeJSONBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeJSONError(w, "Malformed request body", http.StatusBadRequest)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := req.Validate(); err != nil {
		writeJSONError(w, "Missing folder name", http.StatusBadRequest)
		return
	}

	folder, err := h.folders.Add(req.Name)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	writeJSON(w, folder)
}

// DeleteFolder removes a folder and unfiles every record that pointed at it,
// so no dangling references survive the delete.
func (h *Handlers) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	removed, err := h.folders.Remove(mux.Vars(r)["id"])
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	unfiled, err := h.files.UnfileFolder(removed.ID)
	if err != nil {
		// The folder is already gone; surface the inconsistency rather than
		// pretending the cascade happened.
		logging.Error("failed to unfile records for deleted folder %s: %v", removed.ID, err)
		writeJSONError(w, "Folder deleted but records could not be unfiled", http.StatusInternalServerError)
		return
	}
	if unfiled > 0 {
		logging.Debug("unfiled %d records from deleted folder %s", unfiled, removed.ID)
	}

	writeJSON(w, map[string]bool{"ok": true})
}
