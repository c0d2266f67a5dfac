package assets

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// CodeTheme is a palette for highlighted code blocks.
type CodeTheme struct {
	Background string
	Text       string
	// Tokens maps token classes to colors.
	Tokens map[string]string
}

// CodeThemes are the palettes accepted as prism themes.
var CodeThemes = map[string]CodeTheme{
	"github": {Background: "#f6f8fa", Text: "#393a34", Tokens: map[string]string{
		"comment":     "#999988",
		"string":      "#e3116c",
		"attr-value":  "#e3116c",
		"keyword":     "#00009f",
		"tag":         "#00009f",
		"number":      "#36acaa",
		"constant":    "#36acaa",
		"class-name":  "#00a4db",
		"attr-name":   "#00a4db",
		"punctuation": "#393a34",
	}},
	"vsLight": {Background: "#ffffff", Text: "#000000", Tokens: map[string]string{
		"comment":     "#008000",
		"string":      "#a31515",
		"attr-value":  "#0000ff",
		"keyword":     "#0000ff",
		"tag":         "#800000",
		"number":      "#098658",
		"constant":    "#0070c1",
		"class-name":  "#267f99",
		"attr-name":   "#ff0000",
		"punctuation": "#393a34",
	}},
	"dracula": {Background: "#282a36", Text: "#f8f8f2", Tokens: map[string]string{
		"comment":     "#6272a4",
		"string":      "#ff79c6",
		"attr-value":  "#f1fa8c",
		"keyword":     "#bd93f9",
		"tag":         "#ff79c6",
		"number":      "#bd93f9",
		"constant":    "#bd93f9",
		"class-name":  "#8be9fd",
		"attr-name":   "#50fa7b",
		"punctuation": "#f8f8f2",
	}},
	"vsDark": {Background: "#1e1e1e", Text: "#9cdcfe", Tokens: map[string]string{
		"comment":     "#6a9955",
		"string":      "#ce9178",
		"attr-value":  "#ce9178",
		"keyword":     "#569cd6",
		"tag":         "#4ec9b0",
		"number":      "#b5cea8",
		"constant":    "#4fc1ff",
		"class-name":  "#4ec9b0",
		"attr-name":   "#9cdcfe",
		"punctuation": "#d4d4d4",
	}},
	"nightOwl": {Background: "#011627", Text: "#d6deeb", Tokens: map[string]string{
		"comment":     "#637777",
		"string":      "#addb67",
		"attr-value":  "#ecc48d",
		"keyword":     "#c792ea",
		"tag":         "#7fdbca",
		"number":      "#f78c6c",
		"constant":    "#82aaff",
		"class-name":  "#ffcb8b",
		"attr-name":   "#addb67",
		"punctuation": "#c792ea",
	}},
}

// Default code themes used when prism leaves them unset.
const (
	DefaultCodeTheme     = "github"
	DefaultCodeDarkTheme = "dracula"
)

// CodeThemeCSS renders the light palette for the light color mode and the
// dark palette for the dark one.
func CodeThemeCSS(light, dark string) (string, error) {
	if light == "" {
		light = DefaultCodeTheme
	}
	if dark == "" {
		dark = DefaultCodeDarkTheme
	}

	var b strings.Builder
	for _, mode := range []struct{ name, theme string }{{"light", light}, {"dark", dark}} {
		theme, ok := CodeThemes[mode.theme]
		if !ok {
			return "", errors.Errorf("unknown prism theme %q", mode.theme)
		}
		scope := fmt.Sprintf(`[data-theme="%s"] .prism-code`, mode.name)
		fmt.Fprintf(&b, "%s {\n  background: %s;\n  color: %s;\n}\n", scope, theme.Background, theme.Text)

		classes := make([]string, 0, len(theme.Tokens))
		for class := range theme.Tokens {
			classes = append(classes, class)
		}
		sort.Strings(classes)
		for _, class := range classes {
			fmt.Fprintf(&b, "%s .token.%s {\n  color: %s;\n}\n", scope, class, theme.Tokens[class])
		}
		fmt.Fprintf(&b, "%s .token.comment {\n  font-style: italic;\n}\n", scope)
	}
	return b.String(), nil
}
