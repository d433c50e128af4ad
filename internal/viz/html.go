package viz

import (
	"bytes"
	"fmt"
	"html/template"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("viz").Parse(htmlTemplate))
}

// HTMLOptions configures HTML generation.
type HTMLOptions struct {
	Layout   string // "force", "circle", or "grid"
	Library  string // Cytoscape.js source to inline; empty loads it from the CDN
	Title    string
	Directed bool // Draw arrowheads on links

	// FrameURL, when set with a positive RefreshMs, makes the page poll a
	// frame endpoint and re-apply sizes and visibility.
	FrameURL  string
	RefreshMs int
}

// DefaultOptions returns default HTML generation options.
func DefaultOptions() HTMLOptions {
	return HTMLOptions{
		Layout: "force",
		Title:  "Network",
	}
}

// ValidLayouts lists the supported layout algorithm names.
var ValidLayouts = []string{"force", "circle", "grid"}

// GenerateHTML generates a self-contained HTML file for the graph visualization.
func GenerateHTML(graph *GraphData, opts HTMLOptions) (string, error) {
	if graph == nil {
		return "", fmt.Errorf("graph cannot be nil")
	}

	if err := ValidateLayout(opts.Layout); err != nil {
		return "", err
	}

	if graph.IsEmpty() {
		return generateEmptyHTML(), nil
	}

	graphJSON, err := graph.ToCytoscapeJSON()
	if err != nil {
		return "", err
	}

	title := opts.Title
	if title == "" {
		title = "Network"
	}
	refresh := opts.RefreshMs
	if opts.FrameURL == "" || refresh < 0 {
		refresh = 0
	}

	data := templateData{
		ScriptTag: template.HTML(buildScriptTag(opts.Library)),
		GraphJSON: template.JS(graphJSON),
		Layout:    layoutToCytoscape(opts.Layout),
		Title:     title,
		Metric:    graph.Metric,
		Directed:  opts.Directed,
		FrameURL:  opts.FrameURL,
		RefreshMs: refresh,
	}

	var buf bytes.Buffer
	if err := compiledTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering template: %w", err)
	}

	return buf.String(), nil
}

// ValidateLayout checks if the layout option is valid.
func ValidateLayout(layout string) error {
	switch layout {
	case "", "force", "circle", "grid":
		return nil
	default:
		return fmt.Errorf("invalid layout %q: must be force, circle, or grid", layout)
	}
}

// templateData holds data for the HTML template.
type templateData struct {
	ScriptTag template.HTML
	GraphJSON template.JS
	Layout    string
	Title     string
	Metric    string
	Directed  bool
	FrameURL  string
	RefreshMs int
}

// layoutToCytoscape converts user-friendly layout names to Cytoscape.js layout algorithm names.
func layoutToCytoscape(layout string) string {
	switch layout {
	case "circle":
		return "circle"
	case "grid":
		return "grid"
	default:
		return "cose"
	}
}

// buildScriptTag returns either inline script or CDN reference.
func buildScriptTag(library string) string {
	if library != "" {
		return "<script>" + library + "</script>"
	}
	return `<script src="https://unpkg.com/cytoscape@3/dist/cytoscape.min.js"></script>`
}

// generateEmptyHTML returns HTML for an empty graph state.
func generateEmptyHTML() string {
	return `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Network - Empty</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      display: flex;
      justify-content: center;
      align-items: center;
      height: 100vh;
      margin: 0;
      background: #f5f5f5;
    }
    .empty-state {
      text-align: center;
      color: #666;
    }
    .empty-state h2 {
      margin-bottom: 0.5em;
      color: #333;
    }
    .empty-state p {
      margin: 0.5em 0;
    }
    .empty-state code {
      background: #e0e0e0;
      padding: 2px 6px;
      border-radius: 3px;
    }
  </style>
</head>
<body>
  <div class="empty-state">
    <h2>No graph data</h2>
    <p>The dataset doesn't have any nodes yet.</p>
    <p>Load one using <code>nv import network.json</code></p>
  </div>
</body>
</html>`
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  {{.ScriptTag}}
  <style>
    * {
      box-sizing: border-box;
    }
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      padding: 0;
      background: #f5f5f5;
    }
    #cy {
      width: 100%;
      height: 100vh;
      background: white;
    }
    #legend {
      position: absolute;
      top: 10px;
      left: 10px;
      background: rgba(255,255,255,0.9);
      border: 1px solid #ddd;
      border-radius: 4px;
      padding: 6px 10px;
      font-size: 12px;
      color: #444;
    }
    #tooltip {
      position: absolute;
      display: none;
      background: white;
      border: 1px solid #ccc;
      border-radius: 4px;
      padding: 8px 12px;
      box-shadow: 0 2px 8px rgba(0,0,0,0.15);
      max-width: 300px;
      font-size: 13px;
      z-index: 1000;
      pointer-events: none;
    }
    #tooltip .type {
      font-size: 10px;
      text-transform: uppercase;
      color: #888;
      margin-bottom: 4px;
    }
    #tooltip .label {
      font-weight: bold;
      margin-bottom: 4px;
    }
    #tooltip .detail {
      color: #555;
      margin: 2px 0;
    }
  </style>
</head>
<body>
  <div id="cy"></div>
  <div id="legend">{{if .Metric}}Sized by {{.Metric}}{{else}}Uniform size{{end}}</div>
  <div id="tooltip"></div>
  <script>
    (function() {
      const graphData = {{.GraphJSON}};
      const layout = "{{.Layout}}";
      const frameURL = "{{.FrameURL}}";
      const refreshMs = {{.RefreshMs}};

      const cy = cytoscape({
        container: document.getElementById('cy'),
        elements: graphData,
        style: [
          {
            selector: 'node',
            style: {
              'background-color': 'data(color)',
              'label': 'data(label)',
              'color': '#333',
              'font-size': '10px',
              'text-valign': 'bottom',
              'text-margin-y': '5px',
              'width': 'data(diameter)',
              'height': 'data(diameter)'
            }
          },
          {
            selector: 'edge',
            style: {
              'line-color': '#95A5A6',
              'target-arrow-color': '#95A5A6',
              'target-arrow-shape': {{if .Directed}}'triangle'{{else}}'none'{{end}},
              'curve-style': 'bezier',
              'width': 'mapData(weight, 0, 10, 1, 6)'
            }
          },
          {
            selector: '.hidden',
            style: {
              'display': 'none'
            }
          },
          {
            selector: 'node.nolabel',
            style: {
              'label': ''
            }
          },
          {
            selector: 'node.highlighted',
            style: {
              'border-width': 3,
              'border-color': '#ff6b6b'
            }
          },
          {
            selector: 'node.dimmed',
            style: {
              'opacity': 0.3
            }
          },
          {
            selector: 'edge.dimmed',
            style: {
              'opacity': 0.2
            }
          }
        ],
        layout: {
          name: layout,
          animate: false,
          // cose-specific options
          nodeRepulsion: 8000,
          idealEdgeLength: 100,
          edgeElasticity: 100
        }
      });

      const tooltip = document.getElementById('tooltip');

      function showTooltip(evt, content) {
        tooltip.innerHTML = content;
        tooltip.style.display = 'block';
        const pos = evt.renderedPosition || evt.position;
        tooltip.style.left = (pos.x + 15) + 'px';
        tooltip.style.top = (pos.y + 15) + 'px';
      }

      function hideTooltip() {
        tooltip.style.display = 'none';
      }

      function getNodeTooltip(node) {
        const data = node.data();
        let html = '';
        if (data.type) html += '<div class="type">' + escapeHtml(data.type) + '</div>';
        html += '<div class="label">' + escapeHtml(data.label) + '</div>';
        html += '<div class="detail">Size: ' + data.size.toFixed(2) + '</div>';
        const metrics = data.metrics || {};
        Object.keys(metrics).sort().forEach(function(k) {
          html += '<div class="detail">' + escapeHtml(k) + ': ' + Number(metrics[k]).toFixed(4) + '</div>';
        });
        return html;
      }

      function escapeHtml(str) {
        if (!str) return '';
        return String(str).replace(/&/g, '&amp;')
                  .replace(/</g, '&lt;')
                  .replace(/>/g, '&gt;')
                  .replace(/"/g, '&quot;');
      }

      cy.on('mouseover', 'node', function(evt) {
        showTooltip(evt, getNodeTooltip(evt.target));
      });

      cy.on('mouseout', 'node', function() {
        hideTooltip();
      });

      cy.on('tap', 'node', function(evt) {
        const node = evt.target;
        cy.elements().removeClass('highlighted dimmed');
        const neighborhood = node.neighborhood().add(node);
        neighborhood.addClass('highlighted');
        cy.elements().not(neighborhood).addClass('dimmed');
      });

      cy.on('tap', function(evt) {
        if (evt.target === cy) {
          cy.elements().removeClass('highlighted dimmed');
        }
      });

      // Live mode: re-apply sizes and visibility from the frame endpoint.
      function applyFrame(frame) {
        cy.batch(function() {
          frame.nodes.forEach(function(n) {
            const el = cy.getElementById(n.id);
            if (el.empty()) return;
            el.data('size', n.size);
            el.data('diameter', 2 * n.size);
            el.toggleClass('hidden', n.visible !== 'visible');
            el.toggleClass('nolabel', n.label_visible !== 'visible');
          });
          const edges = cy.edges();
          frame.links.forEach(function(l, i) {
            if (i < edges.length) edges[i].toggleClass('hidden', l.visible !== 'visible');
          });
        });
        document.getElementById('legend').textContent =
          frame.metric ? 'Sized by ' + frame.metric : 'Uniform size';
      }

      if (frameURL && refreshMs > 0) {
        setInterval(function() {
          fetch(frameURL).then(function(r) { return r.json(); }).then(applyFrame).catch(function() {});
        }, refreshMs);
      }
    })();
  </script>
</body>
</html>`
