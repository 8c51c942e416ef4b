package service

import (
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/skinlens/skinlens/pkg/models"
	"github.com/skinlens/skinlens/pkg/render"
	"github.com/skinlens/skinlens/pkg/session"
)

// PageData is the typed view model behind the page template. Every control
// state the template needs is computed here, not in the template.
type PageData struct {
	Busy         bool
	HasImage     bool
	ImageName    string
	PreviewURL   string
	Prompt       string
	ErrorMessage string
	Result       *render.ResultView
}

func newPageData(sess *session.Session) PageData {
	snap := sess.Snapshot()
	data := PageData{
		Busy:         snap.State == models.StateLoading,
		Prompt:       snap.Prompt,
		ErrorMessage: snap.ErrorMessage,
	}
	if snap.Image != nil {
		data.HasImage = true
		data.ImageName = snap.Image.Filename
		data.PreviewURL = fmt.Sprintf("/preview/%s?v=%s", sess.ID, snap.Image.PreviewToken)
	}
	if snap.State == models.StateResultShown {
		view := render.NewResultView(snap.Result)
		data.Result = &view
	}
	return data
}

type pageRenderer struct {
	tmpl *template.Template
}

func newPageRenderer() *pageRenderer {
	return &pageRenderer{tmpl: pageTmpl}
}

func (r *pageRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.tmpl.ExecuteTemplate(w, name, data)
}

var pageTmpl = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>SkinLens</title>
    <style>
      body { font-family: system-ui, sans-serif; background: #f5f7fb; color: #1c2333; margin: 0; }
      .card { max-width: 560px; margin: 48px auto; background: #fff; border-radius: 12px;
              box-shadow: 0 8px 24px rgba(20,30,60,0.10); padding: 28px; }
      h1 { font-size: 1.4rem; margin: 0 0 4px; }
      .sub { color: #6b7489; margin: 0 0 20px; font-size: 0.92rem; }
      .preview { text-align: center; margin: 16px 0; }
      .preview img { max-width: 100%; max-height: 280px; border-radius: 8px; }
      .filename { color: #6b7489; font-size: 0.85rem; }
      .controls { display: flex; gap: 10px; margin-top: 16px; }
      button { padding: 10px 18px; border: 0; border-radius: 8px; cursor: pointer; font-size: 0.95rem; }
      button:disabled { opacity: 0.5; cursor: not-allowed; }
      .analyze { background: #3b5bdb; color: #fff; }
      .secondary { background: #e9edf5; }
      .spinner { display: inline-block; width: 12px; height: 12px; border: 2px solid #fff;
                 border-top-color: transparent; border-radius: 50%; animation: spin 0.8s linear infinite;
                 vertical-align: middle; margin-right: 6px; }
      @keyframes spin { to { transform: rotate(360deg); } }
      .panel { margin-top: 20px; padding: 16px; border-radius: 8px; }
      .result { background: #eefaf2; border: 1px solid #bfe8cd; }
      .error { background: #fdeeee; border: 1px solid #f2c4c4; color: #8a2424; }
      .prompt { background: #fff7e3; border: 1px solid #eedba6; color: #7a5c0e; }
      .badge { display: inline-block; padding: 3px 10px; border-radius: 999px; font-size: 0.8rem;
               background: #dbe4ff; color: #2b44a0; margin-left: 8px; }
      .confidence { color: #3d4c68; }
    </style>
  </head>
  <body>
    <div class="card">
      <h1>SkinLens</h1>
      <p class="sub">Upload a photo of a skin lesion to get a classification from the model.</p>

      <form id="upload-form" method="post" action="/upload" enctype="multipart/form-data">
        <input type="file" name="image" accept="image/*"{{if .Busy}} disabled{{end}} />
        <button type="submit" class="secondary"{{if .Busy}} disabled{{end}}>Upload</button>
      </form>

      {{if .HasImage}}
      <div class="preview" id="preview">
        <img src="{{.PreviewURL}}" alt="selected image" />
        <div class="filename">{{.ImageName}}</div>
      </div>
      {{end}}

      <div class="controls">
        <form method="post" action="/analyze">
          <button type="submit" class="analyze" id="analyze-btn"{{if .Busy}} disabled{{end}}>
            {{if .Busy}}<span class="spinner"></span>Analyzing…{{else}}Analyze{{end}}
          </button>
        </form>
        <form method="post" action="/reset">
          <button type="submit" class="secondary" id="clear-btn"{{if .Busy}} disabled{{end}}>Clear</button>
        </form>
      </div>

      {{if .Prompt}}
      <div class="panel prompt" id="prompt">{{.Prompt}}</div>
      {{end}}

      {{if .Result}}
      <div class="panel result" id="result-panel">
        <strong>{{.Result.Label}}</strong><span class="badge">{{.Result.Badge}}</span>
        <div class="confidence">Confidence: {{.Result.Confidence}}</div>
      </div>
      {{end}}

      {{if .ErrorMessage}}
      <div class="panel error" id="error-banner">{{.ErrorMessage}}</div>
      {{end}}
    </div>
  </body>
</html>
`))
