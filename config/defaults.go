package config

import (
	"strconv"
	"strings"
)

// Default returns the Ink World site configuration with defaults applied.
func Default() *SiteConfig {
	cfg := &SiteConfig{
		Title:   "Ink World",
		Tagline: "Welcome to Ink World",
		Favicon: "img/favicon.ico",
		URL:     "https://inkworld.top",
		BaseURL: "/",
		HeadTags: []HeadTag{
			{TagName: "link", Attributes: map[string]string{"rel": "icon", "href": "/img/docusaurus.png"}},
		},
		ProjectName:           "Ink World",
		OnBrokenLinks:         SeverityWarn,
		OnBrokenMarkdownLinks: SeverityWarn,
		I18n: I18n{
			DefaultLocale: "zh",
			Locales:       []string{"zh", "en"},
			LocaleConfigs: map[string]LocaleConfig{
				"zh": {Label: "中文", HTMLLang: "zh-CN", Calendar: "gregory", Path: "zh"},
				"en": {Label: "English", HTMLLang: "en-US", Calendar: "gregory", Path: "en"},
			},
		},
		Themes: []string{"live-codeblock"},
		Presets: []Preset{{
			Name: PresetClassic,
			Docs: &DocsOptions{
				SidebarPath:   "sidebars.yaml",
				RouteBasePath: "docs",
				Path:          "docs",
			},
			Blog: &BlogOptions{
				ShowReadingTime: true,
				FeedOptions: FeedOptions{
					Types: []string{FeedRSS, FeedAtom},
					XSLT:  true,
				},
				OnInlineTags:           SeverityWarn,
				OnInlineAuthors:        SeverityWarn,
				OnUntruncatedBlogPosts: SeverityWarn,
			},
			Theme: &ThemeOptions{CustomCSS: "src/css/custom.css"},
		}},
		ThemeConfig: ThemeConfig{
			Image: "img/docusaurus-social-card.jpg",
			AnnouncementBar: &AnnouncementBar{
				ID:              "support_us",
				Content:         `We are looking to revamp our docs, please fill <a target="_blank" rel="noopener noreferrer" href="#">this survey</a>`,
				BackgroundColor: "#fafbfc",
				TextColor:       "#091E42",
			},
			Docs: DocsTheme{
				VersionPersistence: "localStorage",
				Sidebar:            DocsSidebarTheme{AutoCollapseCategories: true},
			},
			TableOfContents: TableOfContents{MinHeadingLevel: 2, MaxHeadingLevel: 4},
			ColorMode: ColorMode{
				DefaultMode:               "light",
				RespectPrefersColorScheme: true,
			},
			Navbar: Navbar{
				Title:        "Ink World",
				Logo:         &Logo{Alt: "My Site Logo", Src: "img/logo.svg"},
				HideOnScroll: true,
				Items: []NavbarItem{
					{Type: NavbarItemLocaleDropdown, Position: "right"},
					{Type: NavbarItemSearch, Position: "right"},
					{Type: NavbarItemDocSidebar, SidebarID: "tutorialSidebar", Position: "left", Label: "Tutorial"},
					{Type: NavbarItemDocSidebar, SidebarID: "databaseSidebar", Position: "left", Label: "数据库"},
					{Href: "/friendLink", Label: "友链", Position: "right"},
					{Href: "/about", Label: "关于", Position: "right"},
					{Href: "https://github.com/ink-kai", Label: "GitHub", Position: "right"},
				},
			},
			Footer: Footer{
				Links: []FooterLinkGroup{{
					Title: "Docs",
					Items: []FooterLink{
						{Label: "Docusaurus", Href: "https://docusaurus.io"},
						{Label: "Docusaurus Intro", To: "/docs/docusaurus/intro"},
						{Label: "Building Tutorial", To: "/docs/website/intro"},
					},
				}},
				Copyright: "Copyright © {year} By Ink-kai. All rights reserved.",
			},
			Prism: Prism{
				Theme:               "github",
				DarkTheme:           "dracula",
				AdditionalLanguages: []string{"powershell", "bash"},
			},
		},
	}
	applyDefaults(cfg)
	return cfg
}

// CopyrightFor expands the {year} placeholder in the footer copyright.
func (f Footer) CopyrightFor(year int) string {
	return strings.ReplaceAll(f.Copyright, "{year}", strconv.Itoa(year))
}
