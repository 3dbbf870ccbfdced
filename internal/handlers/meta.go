package handlers

import (
	"net/http"

	"flashdeck-backend/internal/services"
)

type MetaHandler struct {
	docs *services.DocsService
}

func NewMetaHandler(docs *services.DocsService) *MetaHandler {
	return &MetaHandler{docs: docs}
}

// Version reports the app version from the metadata file. A missing file is
// not an error; the version is simply empty.
func (h *MetaHandler) Version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": h.docs.Version()})
}

// Docs returns the documentation as sanitized HTML.
func (h *MetaHandler) Docs(w http.ResponseWriter, r *http.Request) {
	html, err := h.docs.RenderedDocs()
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"html": html})
}
