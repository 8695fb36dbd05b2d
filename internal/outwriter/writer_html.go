package outwriter

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"github.com/burnrate-dev/burnrate/schema"
)

// uPlot assets are loaded from a CDN so the page stays self-contained.
const (
	uplotJS  = "https://unpkg.com/uplot@1.6.31/dist/uPlot.iife.min.js"
	uplotCSS = "https://unpkg.com/uplot@1.6.31/dist/uPlot.min.css"
)

//go:embed templates/panel.html
var templateFS embed.FS

var panelTemplate = template.Must(template.ParseFS(templateFS, "templates/panel.html"))

// htmlPanel is the template model of the panel page.
type htmlPanel struct {
	Title     string
	Loading   bool
	Failed    []schema.QueryState
	ChartJSON template.JS
	Margin    int
	Padding   int
	Inset     int
	UPlotJS   string
	UPlotCSS  string
}

// WriteHTMLPanel writes a standalone uPlot page for the panel view.
// The page tracks its container width and resizes the chart on window resize.
func WriteHTMLPanel(w io.Writer, view schema.PanelView) error {
	layout := schema.WebLayout
	model := htmlPanel{
		Title:    view.Title,
		Loading:  view.Loading,
		Margin:   layout.Margin,
		Padding:  layout.Padding,
		Inset:    layout.Inset(),
		UPlotJS:  uplotJS,
		UPlotCSS: uplotCSS,
	}
	if view.Chart != nil {
		data, err := json.Marshal(view.Chart)
		if err != nil {
			return fmt.Errorf("failed to encode chart: %w", err)
		}
		model.ChartJSON = template.JS(data)
		for _, q := range view.Chart.Queries {
			if q.Status == schema.ErrorStatus {
				model.Failed = append(model.Failed, q)
			}
		}
	}
	return panelTemplate.Execute(w, model)
}
