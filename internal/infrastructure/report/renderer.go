package report

import (
	"context"
	"embed"
	"encoding/base64"
	"errors"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	domain "github.com/riskibarqy/football-dashboard/internal/domain/report"
	"github.com/riskibarqy/football-dashboard/internal/platform/logging"
)

var (
	ErrTemplate          = crerr.New("report template unavailable")
	ErrEngineUnavailable = crerr.New("pdf engine unavailable")
	ErrConversion        = crerr.New("pdf conversion failed")
)

//go:embed templates/report.html
var embeddedTemplates embed.FS

const embeddedTemplateName = "templates/report.html"

// Engine converts a complete HTML document into a PDF file at outputPath.
type Engine interface {
	Name() string
	Convert(ctx context.Context, html []byte, outputPath string) error
}

type RendererConfig struct {
	// TemplatePath overrides the embedded template. It is read on every render.
	TemplatePath string
	Engine       Engine
	Logger       *logging.Logger
	Location     *time.Location
}

// Renderer fills the report template and hands the HTML to a PDF engine.
type Renderer struct {
	templatePath string
	engine       Engine
	logger       *logging.Logger
	location     *time.Location
}

func NewRenderer(cfg RendererConfig) *Renderer {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	location := cfg.Location
	if location == nil {
		location = time.Local
	}
	return &Renderer{
		templatePath: cfg.TemplatePath,
		engine:       cfg.Engine,
		logger:       logger.Named("report"),
		location:     location,
	}
}

type templateData struct {
	Title        string
	GeneratedAt  string
	Columns      []string
	Rows         [][]domain.Cell
	ChartDataURI template.URL
}

// Render writes doc as a PDF to outputPath, creating parent directories.
func (r *Renderer) Render(ctx context.Context, doc domain.Document, outputPath string) error {
	html, err := r.RenderHTML(doc)
	if err != nil {
		return err
	}
	if r.engine == nil {
		return crerr.Wrap(ErrEngineUnavailable, "no engine configured")
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return crerr.Wrapf(ErrConversion, "create output dir: %v", err)
	}

	started := time.Now()
	if err := r.engine.Convert(ctx, html, outputPath); err != nil {
		r.logger.WarnContext(ctx, "pdf conversion failed", "engine", r.engine.Name(), "kind", string(doc.Kind), "error", err)
		return err
	}
	r.logger.InfoContext(ctx, "pdf report written",
		"engine", r.engine.Name(),
		"kind", string(doc.Kind),
		"path", outputPath,
		"duration", time.Since(started),
	)
	return nil
}

// RenderHTML executes the template without converting it.
func (r *Renderer) RenderHTML(doc domain.Document) ([]byte, error) {
	tpl, err := r.loadTemplate()
	if err != nil {
		return nil, err
	}

	generatedAt := doc.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}
	data := templateData{
		Title:       doc.Title,
		GeneratedAt: generatedAt.In(r.location).Format("02/01/2006 15:04"),
		Columns:     doc.Table.Columns,
		Rows:        doc.Table.Rows,
	}
	if len(doc.ChartPNG) > 0 {
		data.ChartDataURI = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(doc.ChartPNG))
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := tpl.Execute(buf, data); err != nil {
		return nil, crerr.Wrapf(ErrTemplate, "execute template: %v", err)
	}
	return append([]byte(nil), buf.B...), nil
}

func (r *Renderer) loadTemplate() (*template.Template, error) {
	if r.templatePath == "" {
		tpl, err := template.ParseFS(embeddedTemplates, embeddedTemplateName)
		if err != nil {
			return nil, crerr.Wrapf(ErrTemplate, "parse embedded template: %v", err)
		}
		return tpl, nil
	}

	tpl, err := template.ParseFiles(r.templatePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, crerr.Wrapf(ErrTemplate, "template %s not found", r.templatePath)
		}
		return nil, crerr.Wrapf(ErrTemplate, "parse %s: %v", r.templatePath, err)
	}
	return tpl, nil
}
