package assets

import (
	_ "embed"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/pkg/errors"
)

//go:embed theme/theme.js
var themeScript string

//go:embed theme/theme.css
var themeStyle string

// Asset is a compiled file kept in memory until it is served or written.
type Asset struct {
	// Path is the public URL path, including the base url.
	Path        string
	Contents    []byte
	ContentType string
}

// Bundle holds the compiled theme assets.
type Bundle struct {
	Script Asset
	Style  Asset
}

// All returns every asset of the bundle.
func (b *Bundle) All() []Asset {
	return []Asset{b.Script, b.Style}
}

// Options configure theme compilation.
type Options struct {
	BaseURL string
	// CustomCSS is appended to the theme stylesheet when set.
	CustomCSS string
	// CodeTheme and CodeDarkTheme name entries of CodeThemes. Empty names
	// select the defaults.
	CodeTheme     string
	CodeDarkTheme string
	Minify        bool
}

var engines = []api.Engine{
	{Name: api.EngineChrome, Version: "100"},
	{Name: api.EngineFirefox, Version: "100"},
	{Name: api.EngineSafari, Version: "15"},
	{Name: api.EngineEdge, Version: "100"},
}

// CompileTheme bundles the theme script and stylesheet with esbuild. Output
// names carry a content hash so they can be cached forever.
func CompileTheme(opts Options) (*Bundle, error) {
	codeCSS, err := CodeThemeCSS(opts.CodeTheme, opts.CodeDarkTheme)
	if err != nil {
		return nil, err
	}
	style := themeStyle + "\n" + codeCSS
	if opts.CustomCSS != "" {
		custom, err := os.ReadFile(opts.CustomCSS)
		if err != nil {
			return nil, errors.Wrapf(err, "reading custom css %s", opts.CustomCSS)
		}
		style += "\n" + string(custom)
	}

	script, err := compile(themeScript, "theme.js", api.LoaderJS, opts)
	if err != nil {
		return nil, err
	}
	script.ContentType = "application/javascript; charset=utf-8"

	css, err := compile(style, "theme.css", api.LoaderCSS, opts)
	if err != nil {
		return nil, err
	}
	css.ContentType = "text/css; charset=utf-8"

	return &Bundle{Script: script, Style: css}, nil
}

func compile(contents, name string, loader api.Loader, opts Options) (Asset, error) {
	dir := "js"
	if loader == api.LoaderCSS {
		dir = "css"
	}

	result := api.Build(api.BuildOptions{
		Stdin: &api.StdinOptions{
			Contents:   contents,
			Sourcefile: name,
			Loader:     loader,
		},
		Bundle:            true,
		MinifyWhitespace:  opts.Minify,
		MinifyIdentifiers: opts.Minify,
		MinifySyntax:      opts.Minify,
		Engines:           engines,
		Write:             false,
		Outfile:           name,
	})
	if len(result.Errors) > 0 {
		msgs := make([]string, 0, len(result.Errors))
		for _, m := range result.Errors {
			msgs = append(msgs, m.Text)
		}
		return Asset{}, errors.Errorf("compiling %s: %s", name, strings.Join(msgs, "; "))
	}
	if len(result.OutputFiles) == 0 {
		return Asset{}, errors.Errorf("compiling %s: no output", name)
	}

	out := result.OutputFiles[0]
	safeHash := strings.ReplaceAll(out.Hash, "/", "")
	ext := path.Ext(name)
	hashed := fmt.Sprintf("%s_%s%s", strings.TrimSuffix(name, ext), safeHash, ext)

	return Asset{
		Path:     path.Join(opts.BaseURL, "assets", dir, hashed),
		Contents: out.Contents,
	}, nil
}
