package handlers

import (
	"fmt"
	"io"
	"net/http"

	"flashdeck-backend/internal/repository"
	"flashdeck-backend/internal/services"
	"flashdeck-backend/internal/session"
)

type ImportExportHandler struct {
	sessions  *session.Manager
	stateRepo *repository.StateRepo
}

func NewImportExportHandler(sessions *session.Manager, stateRepo *repository.StateRepo) *ImportExportHandler {
	return &ImportExportHandler{sessions: sessions, stateRepo: stateRepo}
}

const maxImportBytes = 5 << 20

// Import accepts a .txt or .json upload and replaces the collection. On any
// parse failure the collection is reset to empty and that reset is
// persisted, so storage never holds a state inconsistent with the display.
func (h *ImportExportHandler) Import(w http.ResponseWriter, r *http.Request) {
	sess, err := loadSession(r.Context(), h.sessions, h.stateRepo)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load state", r))
		return
	}

	if err := r.ParseMultipartForm(maxImportBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid upload", r))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("IO_ERROR", "Error reading file.", r))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("IO_ERROR", "Error reading file.", r))
		return
	}

	result, parseErr := services.ParseImport(header.Filename, content)

	if parseErr != nil {
		sess.Lock()
		sess.State.Reset()
		snapshot := *sess.State
		sess.Unlock()
		h.stateRepo.Save(r.Context(), sess.ID, &snapshot)

		handleServiceError(w, r, parseErr)
		return
	}

	sess.Lock()
	sess.ReplaceState(result.State)
	snapshot := *sess.State
	sess.Unlock()

	if err := h.stateRepo.Save(r.Context(), sess.ID, &snapshot); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to persist state", r))
		return
	}

	sess.Lock()
	view := stateView(sess)
	view["message"] = fmt.Sprintf("Imported %d flashcards.", result.Imported)
	sess.Unlock()

	writeJSON(w, http.StatusOK, view)
}

// Export streams the current state as an indented JSON attachment named
// after the topic.
func (h *ImportExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	sess, err := loadSession(r.Context(), h.sessions, h.stateRepo)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load state", r))
		return
	}

	sess.Lock()
	snapshot := *sess.State
	sess.Unlock()

	data, err := services.ExportJSON(&snapshot)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	filename := services.ExportFilename(snapshot.Topic)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
