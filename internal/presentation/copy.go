package presentation

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"path"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

//go:embed copy/*.md
var copyFS embed.FS

// Copy blocks shown on the dashboard.
const (
	CopyIntro              = "intro"
	CopyRankingMissing     = "ranking_missing"
	CopyPredictionsMissing = "predictions_missing"
	CopyPredictionsLead    = "predictions_lead"
	CopySuggestedAction    = "suggested_action"
	CopyNoData             = "no_data"
	CopyNoSelection        = "no_selection"
	CopyFooter             = "footer"
)

// Raw HTML in the markdown is escaped since WithUnsafe is not set.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// renderCopy converts every embedded markdown block to HTML.
func renderCopy() (map[string]template.HTML, error) {
	entries, err := copyFS.ReadDir("copy")
	if err != nil {
		return nil, fmt.Errorf("read copy: %w", err)
	}
	out := make(map[string]template.HTML, len(entries))
	for _, e := range entries {
		src, err := copyFS.ReadFile(path.Join("copy", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read copy %s: %w", e.Name(), err)
		}
		var buf bytes.Buffer
		if err := mdRenderer.Convert(src, &buf); err != nil {
			return nil, fmt.Errorf("render copy %s: %w", e.Name(), err)
		}
		name := e.Name()[:len(e.Name())-len(path.Ext(e.Name()))]
		out[name] = template.HTML(buf.String()) //nolint:gosec // rendered from embedded markdown with raw HTML escaped
	}
	return out, nil
}
