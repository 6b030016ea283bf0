package lint

import (
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/language"

	"github.com/ByLCY/asslint/ass"
	"github.com/ByLCY/asslint/layout"
)

// DefaultLanguage is used when neither the script nor the caller names one.
var DefaultLanguage = language.AmericanEnglish

// Context bundles everything checks may consult. It is built once per lint
// invocation and treated as read-only; only the renderer's binding changes,
// and measurements always restore it.
type Context struct {
	Doc        *ass.File
	Renderer   layout.Renderer
	Resolution layout.Resolution
	Language   language.Tag
	FontsDir   string
	Path       string
	Logger     *slog.Logger
}

// ContextOptions configures NewContext.
type ContextOptions struct {
	Path     string
	FontsDir string
	// Language is used when the script has no Language header.
	Language string
	Renderer layout.Renderer
	Logger   *slog.Logger
}

// NewContext binds the renderer to doc at its declared resolution and
// resolves the spell-check language.
func NewContext(doc *ass.File, opts ContextOptions) (*Context, error) {
	if doc == nil {
		return nil, fmt.Errorf("lint: nil document")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	w, h := doc.PlayRes()
	ctx := &Context{
		Doc:        doc,
		Renderer:   opts.Renderer,
		Resolution: layout.Resolution{Width: w, Height: h},
		Language:   resolveLanguage(doc, opts.Language, logger),
		FontsDir:   opts.FontsDir,
		Path:       opts.Path,
		Logger:     logger,
	}
	if ctx.Renderer != nil {
		if err := layout.BindDocument(ctx.Renderer, doc); err != nil {
			return nil, fmt.Errorf("bind renderer: %w", err)
		}
	}
	return ctx, nil
}

func resolveLanguage(doc *ass.File, fallback string, logger *slog.Logger) language.Tag {
	value, _ := doc.ScriptInfo.Get("Language")
	value = strings.TrimSpace(value)
	if value == "" {
		value = strings.TrimSpace(fallback)
	}
	if value == "" {
		return DefaultLanguage
	}
	tag, err := language.Parse(value)
	if err != nil {
		logger.Warn("无法识别字幕语言，使用默认值", "language", value, "default", DefaultLanguage.String(), "error", err)
		return DefaultLanguage
	}
	return tag
}

// IsEnglish reports whether the context language is any English variant.
func (c *Context) IsEnglish() bool {
	base, _ := c.Language.Base()
	en, _ := language.English.Base()
	return base == en
}

// Policy classifies the declared resolution.
func (c *Context) Policy() (*layout.WidthPolicy, error) {
	return layout.NewWidthPolicy(c.Resolution)
}

// Log returns the context logger, slog.Default when unset.
func (c *Context) Log() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}
