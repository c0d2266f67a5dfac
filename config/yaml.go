package config

// config/yaml.go

type HeadTag struct {
	TagName    string            `yaml:"tag_name"`
	Attributes map[string]string `yaml:"attributes,omitempty"`
}

type LocaleConfig struct {
	Label     string `yaml:"label"`
	Direction string `yaml:"direction,omitempty"`
	HTMLLang  string `yaml:"html_lang"`
	Calendar  string `yaml:"calendar,omitempty"`
	Path      string `yaml:"path,omitempty"`
}

type I18n struct {
	DefaultLocale string                  `yaml:"default_locale"`
	Locales       []string                `yaml:"locales,omitempty"`
	LocaleConfigs map[string]LocaleConfig `yaml:"locale_configs,omitempty"`
}

type DocsOptions struct {
	SidebarPath   string `yaml:"sidebar_path"`
	RouteBasePath string `yaml:"route_base_path"`
	Path          string `yaml:"path"`
	EditURL       string `yaml:"edit_url,omitempty"`
}

type FeedOptions struct {
	Types       []string `yaml:"types,omitempty"`
	XSLT        bool     `yaml:"xslt,omitempty"`
	Title       string   `yaml:"title,omitempty"`
	Description string   `yaml:"description,omitempty"`
}

type BlogOptions struct {
	Path                   string            `yaml:"path"`
	RouteBasePath          string            `yaml:"route_base_path"`
	ShowReadingTime        bool              `yaml:"show_reading_time,omitempty"`
	PostsPerPage           int               `yaml:"posts_per_page,omitempty"`
	FeedOptions            FeedOptions       `yaml:"feed_options,omitempty"`
	OnInlineTags           ReportingSeverity `yaml:"on_inline_tags,omitempty"`
	OnInlineAuthors        ReportingSeverity `yaml:"on_inline_authors,omitempty"`
	OnUntruncatedBlogPosts ReportingSeverity `yaml:"on_untruncated_blog_posts,omitempty"`
}

type ThemeOptions struct {
	CustomCSS string `yaml:"custom_css,omitempty"`
}

// Preset bundles docs, blog and theme setup. A nil section disables it.
type Preset struct {
	Name  string        `yaml:"name"`
	Docs  *DocsOptions  `yaml:"docs,omitempty"`
	Blog  *BlogOptions  `yaml:"blog,omitempty"`
	Theme *ThemeOptions `yaml:"theme,omitempty"`
}

type AnnouncementBar struct {
	ID              string `yaml:"id"`
	Content         string `yaml:"content"`
	BackgroundColor string `yaml:"background_color,omitempty"`
	TextColor       string `yaml:"text_color,omitempty"`
	IsCloseable     bool   `yaml:"is_closeable,omitempty"`
}

type DocsSidebarTheme struct {
	Hideable               bool `yaml:"hideable,omitempty"`
	AutoCollapseCategories bool `yaml:"auto_collapse_categories,omitempty"`
}

type DocsTheme struct {
	VersionPersistence string           `yaml:"version_persistence,omitempty"`
	Sidebar            DocsSidebarTheme `yaml:"sidebar,omitempty"`
}

type TableOfContents struct {
	MinHeadingLevel int `yaml:"min_heading_level"`
	MaxHeadingLevel int `yaml:"max_heading_level"`
}

type ColorMode struct {
	DefaultMode               string `yaml:"default_mode"`
	DisableSwitch             bool   `yaml:"disable_switch,omitempty"`
	RespectPrefersColorScheme bool   `yaml:"respect_prefers_color_scheme,omitempty"`
}

type Logo struct {
	Alt string `yaml:"alt,omitempty"`
	Src string `yaml:"src"`
}

// Navbar item types.
const (
	NavbarItemDefault        = "default"
	NavbarItemDocSidebar     = "docSidebar"
	NavbarItemDoc            = "doc"
	NavbarItemLocaleDropdown = "localeDropdown"
	NavbarItemSearch         = "search"
)

type NavbarItem struct {
	Type      string `yaml:"type,omitempty"`
	Position  string `yaml:"position,omitempty"`
	Label     string `yaml:"label,omitempty"`
	SidebarID string `yaml:"sidebar_id,omitempty"`
	DocID     string `yaml:"doc_id,omitempty"`
	To        string `yaml:"to,omitempty"`
	Href      string `yaml:"href,omitempty"`
}

// Kind returns the item type, treating an empty type as a plain link.
func (n NavbarItem) Kind() string {
	if n.Type == "" {
		return NavbarItemDefault
	}
	return n.Type
}

type Navbar struct {
	Title        string       `yaml:"title,omitempty"`
	Logo         *Logo        `yaml:"logo,omitempty"`
	HideOnScroll bool         `yaml:"hide_on_scroll,omitempty"`
	Items        []NavbarItem `yaml:"items,omitempty"`
}

type FooterLink struct {
	Label string `yaml:"label"`
	To    string `yaml:"to,omitempty"`
	Href  string `yaml:"href,omitempty"`
}

type FooterLinkGroup struct {
	Title string       `yaml:"title"`
	Items []FooterLink `yaml:"items,omitempty"`
}

type Footer struct {
	Style     string            `yaml:"style,omitempty"`
	Links     []FooterLinkGroup `yaml:"links,omitempty"`
	Copyright string            `yaml:"copyright,omitempty"`
}

type Prism struct {
	Theme               string   `yaml:"theme,omitempty"`
	DarkTheme           string   `yaml:"dark_theme,omitempty"`
	AdditionalLanguages []string `yaml:"additional_languages,omitempty"`
}

type ThemeConfig struct {
	Image           string           `yaml:"image,omitempty"`
	AnnouncementBar *AnnouncementBar `yaml:"announcement_bar,omitempty"`
	Docs            DocsTheme        `yaml:"docs,omitempty"`
	TableOfContents TableOfContents  `yaml:"table_of_contents"`
	ColorMode       ColorMode        `yaml:"color_mode"`
	Navbar          Navbar           `yaml:"navbar"`
	Footer          Footer           `yaml:"footer,omitempty"`
	Prism           Prism            `yaml:"prism,omitempty"`
}

// SiteConfig is the site-wide configuration record read from site.yaml.
type SiteConfig struct {
	Title                 string            `yaml:"title"`
	Tagline               string            `yaml:"tagline,omitempty"`
	Favicon               string            `yaml:"favicon,omitempty"`
	URL                   string            `yaml:"url"`
	BaseURL               string            `yaml:"base_url"`
	OrganizationName      string            `yaml:"organization_name,omitempty"`
	ProjectName           string            `yaml:"project_name,omitempty"`
	OnBrokenLinks         ReportingSeverity `yaml:"on_broken_links"`
	OnBrokenMarkdownLinks ReportingSeverity `yaml:"on_broken_markdown_links"`
	HeadTags              []HeadTag         `yaml:"head_tags,omitempty"`
	I18n                  I18n              `yaml:"i18n"`
	Themes                []string          `yaml:"themes,omitempty"`
	Presets               []Preset          `yaml:"presets,omitempty"`
	ThemeConfig           ThemeConfig       `yaml:"theme_config"`
	StaticDirectories     []string          `yaml:"static_directories,omitempty"`
}

// ClassicPreset returns the classic preset, or nil when none is configured.
func (c *SiteConfig) ClassicPreset() *Preset {
	for i := range c.Presets {
		if c.Presets[i].Name == PresetClassic {
			return &c.Presets[i]
		}
	}
	return nil
}

// Docs returns the docs options of the classic preset, or nil.
func (c *SiteConfig) Docs() *DocsOptions {
	if p := c.ClassicPreset(); p != nil {
		return p.Docs
	}
	return nil
}

// Blog returns the blog options of the classic preset, or nil.
func (c *SiteConfig) Blog() *BlogOptions {
	if p := c.ClassicPreset(); p != nil {
		return p.Blog
	}
	return nil
}

// LocaleConfig returns the configuration of locale id with defaults applied.
func (c *SiteConfig) LocaleConfig(id string) LocaleConfig {
	lc := c.I18n.LocaleConfigs[id]
	if lc.Path == "" {
		lc.Path = id
	}
	if lc.Direction == "" {
		lc.Direction = "ltr"
	}
	if lc.Label == "" {
		lc.Label = id
	}
	if lc.HTMLLang == "" {
		lc.HTMLLang = id
	}
	return lc
}
