package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// DefaultFile is the site configuration file name inside a site root.
const DefaultFile = "site.yaml"

// Environment overrides applied by ApplyEnv.
const (
	EnvOrigin  = "APP_ORIGIN"
	EnvBaseURL = "BASE_URL"
)

// LoadFile reads and parses the site configuration at path.
func LoadFile(path string) (*SiteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading site config %s", path)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing site config %s", path)
	}
	return cfg, nil
}

// Parse decodes a site configuration and fills in defaults. Unknown keys are
// rejected so typos do not silently disappear.
func Parse(data []byte) (*SiteConfig, error) {
	var cfg SiteConfig
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, errors.WithStack(err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// Marshal encodes cfg back into the site.yaml format.
func Marshal(cfg *SiteConfig) ([]byte, error) {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return out, nil
}

// ApplyEnv overrides the production url and base url from the environment.
func ApplyEnv(cfg *SiteConfig) {
	if origin := strings.TrimSpace(os.Getenv(EnvOrigin)); origin != "" {
		cfg.URL = strings.TrimRight(origin, "/")
	}
	if base := strings.TrimSpace(os.Getenv(EnvBaseURL)); base != "" {
		cfg.BaseURL = base
	}
}

func applyDefaults(cfg *SiteConfig) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "/"
	}
	if cfg.OnBrokenLinks == "" {
		cfg.OnBrokenLinks = SeverityWarn
	}
	if cfg.OnBrokenMarkdownLinks == "" {
		cfg.OnBrokenMarkdownLinks = SeverityWarn
	}
	if len(cfg.StaticDirectories) == 0 {
		cfg.StaticDirectories = []string{"static"}
	}

	if cfg.I18n.DefaultLocale == "" {
		cfg.I18n.DefaultLocale = "en"
	}
	if len(cfg.I18n.Locales) == 0 {
		cfg.I18n.Locales = []string{cfg.I18n.DefaultLocale}
	}
	for id, lc := range cfg.I18n.LocaleConfigs {
		if lc.Path == "" {
			lc.Path = id
			cfg.I18n.LocaleConfigs[id] = lc
		}
	}

	for i := range cfg.Presets {
		p := &cfg.Presets[i]
		if p.Docs != nil {
			if p.Docs.Path == "" {
				p.Docs.Path = "docs"
			}
			if p.Docs.RouteBasePath == "" {
				p.Docs.RouteBasePath = "docs"
			}
			if p.Docs.SidebarPath == "" {
				p.Docs.SidebarPath = "sidebars.yaml"
			}
		}
		if p.Blog != nil {
			b := p.Blog
			if b.Path == "" {
				b.Path = "blog"
			}
			if b.RouteBasePath == "" {
				b.RouteBasePath = "blog"
			}
			if b.PostsPerPage <= 0 {
				b.PostsPerPage = 10
			}
			if len(b.FeedOptions.Types) == 0 {
				b.FeedOptions.Types = []string{FeedRSS, FeedAtom}
			}
			if b.OnInlineTags == "" {
				b.OnInlineTags = SeverityWarn
			}
			if b.OnInlineAuthors == "" {
				b.OnInlineAuthors = SeverityWarn
			}
			if b.OnUntruncatedBlogPosts == "" {
				b.OnUntruncatedBlogPosts = SeverityWarn
			}
		}
	}

	toc := &cfg.ThemeConfig.TableOfContents
	if toc.MinHeadingLevel == 0 {
		toc.MinHeadingLevel = 2
	}
	if toc.MaxHeadingLevel == 0 {
		toc.MaxHeadingLevel = 3
	}
	if cfg.ThemeConfig.ColorMode.DefaultMode == "" {
		cfg.ThemeConfig.ColorMode.DefaultMode = "light"
	}
	dropEmpty(cfg)
}

// dropEmpty replaces empty lists and maps with nil. They are omitted when
// marshalling, so a written configuration parses back to the same value.
func dropEmpty(cfg *SiteConfig) {
	if len(cfg.HeadTags) == 0 {
		cfg.HeadTags = nil
	}
	for i := range cfg.HeadTags {
		if len(cfg.HeadTags[i].Attributes) == 0 {
			cfg.HeadTags[i].Attributes = nil
		}
	}
	if len(cfg.I18n.LocaleConfigs) == 0 {
		cfg.I18n.LocaleConfigs = nil
	}
	if len(cfg.Themes) == 0 {
		cfg.Themes = nil
	}
	if len(cfg.Presets) == 0 {
		cfg.Presets = nil
	}

	tc := &cfg.ThemeConfig
	if len(tc.Navbar.Items) == 0 {
		tc.Navbar.Items = nil
	}
	if len(tc.Footer.Links) == 0 {
		tc.Footer.Links = nil
	}
	for i := range tc.Footer.Links {
		if len(tc.Footer.Links[i].Items) == 0 {
			tc.Footer.Links[i].Items = nil
		}
	}
	if len(tc.Prism.AdditionalLanguages) == 0 {
		tc.Prism.AdditionalLanguages = nil
	}
}
