package services

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

// DocsService renders the on-disk documentation file to sanitized HTML.
// The rendered output is cached in memory after the first successful read.
type DocsService struct {
	docsPath     string
	metadataPath string

	mu     sync.Mutex
	cached string
}

func NewDocsService(docsPath, metadataPath string) *DocsService {
	return &DocsService{docsPath: docsPath, metadataPath: metadataPath}
}

// RenderedDocs returns the documentation as sanitized HTML.
func (s *DocsService) RenderedDocs() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != "" {
		return s.cached, nil
	}

	raw, err := os.ReadFile(s.docsPath)
	if err != nil {
		return "", &IOError{Message: "Could not load the documentation."}
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	rendered := markdown.ToHTML(raw, p, renderer)

	s.cached = bluemonday.UGCPolicy().Sanitize(string(rendered))
	return s.cached, nil
}

// Version reads the version string from the metadata file. A missing or
// malformed file yields an empty version, never an error.
func (s *DocsService) Version() string {
	raw, err := os.ReadFile(s.metadataPath)
	if err != nil {
		return ""
	}
	var meta struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		return ""
	}
	return meta.Version
}
