package i18n

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/ink-kai/inkworld/config"
	"github.com/pkg/errors"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v2"
)

// Dir is the translations directory inside a site root.
const Dir = "i18n"

// CodeFile holds UI string overrides for one locale.
const CodeFile = "code.yaml"

var builtin = map[string]map[string]string{
	"en": {
		"theme.docs.paginator.previous":          "Previous",
		"theme.docs.paginator.next":              "Next",
		"theme.toc.title":                        "On this page",
		"theme.blog.title":                       "Blog",
		"theme.blog.readingTime":                 "{minutes} min read",
		"theme.blog.readMore":                    "Read more",
		"theme.blog.tagTitle":                    "Posts tagged \"{tag}\"",
		"theme.blog.paginator.newerEntries":      "Newer entries",
		"theme.blog.paginator.olderEntries":      "Older entries",
		"theme.navbar.search":                    "Search",
		"theme.colorToggle.ariaLabel":            "Switch between dark and light mode",
		"theme.announcementBar.closeButton":      "Close",
		"theme.NotFound.title":                   "Page Not Found",
		"theme.NotFound.p1":                      "We could not find what you were looking for.",
		"theme.common.skipToMainContent":         "Skip to main content",
		"theme.common.editThisPage":              "Edit this page",
		"theme.tags.tagsPageTitle":               "Tags",
		"theme.docs.sidebar.collapseButtonTitle": "Collapse sidebar",
		"theme.docs.sidebar.expandButtonTitle":   "Expand sidebar",
	},
	"zh": {
		"theme.docs.paginator.previous":          "上一页",
		"theme.docs.paginator.next":              "下一页",
		"theme.toc.title":                        "本页总览",
		"theme.blog.title":                       "博客",
		"theme.blog.readingTime":                 "阅读需 {minutes} 分钟",
		"theme.blog.readMore":                    "阅读更多",
		"theme.blog.tagTitle":                    "{tag} 标签下的文章",
		"theme.blog.paginator.newerEntries":      "较新的文章",
		"theme.blog.paginator.olderEntries":      "较旧的文章",
		"theme.navbar.search":                    "搜索",
		"theme.colorToggle.ariaLabel":            "切换浅色/暗黑模式",
		"theme.announcementBar.closeButton":      "关闭",
		"theme.NotFound.title":                   "找不到页面",
		"theme.NotFound.p1":                      "我们找不到您要找的页面。",
		"theme.common.skipToMainContent":         "跳到主要内容",
		"theme.common.editThisPage":              "编辑此页",
		"theme.tags.tagsPageTitle":               "标签",
		"theme.docs.sidebar.collapseButtonTitle": "收起侧边栏",
		"theme.docs.sidebar.expandButtonTitle":   "展开侧边栏",
	},
}

var builtinTags = []language.Tag{language.English, language.Chinese}

// Catalog resolves UI strings per locale.
type Catalog struct {
	defaultLocale string
	messages      map[string]map[string]string
	// languages holds the built-in language picked for each locale.
	languages map[string]string
}

// Load builds a catalog for every configured locale. Built-in strings are
// picked by closest language match and then overridden by
// i18n/<locale>/code.yaml when present.
func Load(siteRoot string, cfg *config.SiteConfig) (*Catalog, error) {
	c := &Catalog{
		defaultLocale: cfg.I18n.DefaultLocale,
		messages:      make(map[string]map[string]string, len(cfg.I18n.Locales)),
		languages:     make(map[string]string, len(cfg.I18n.Locales)),
	}
	matcher := language.NewMatcher(builtinTags)

	for _, locale := range cfg.I18n.Locales {
		messages := make(map[string]string)

		tag, err := language.Parse(cfg.LocaleConfig(locale).HTMLLang)
		if err != nil {
			tag = language.Make(locale)
		}
		_, idx, _ := matcher.Match(tag)
		base, _ := builtinTags[idx].Base()
		c.languages[locale] = base.String()
		for k, v := range builtin[base.String()] {
			messages[k] = v
		}

		file := filepath.Join(siteRoot, Dir, locale, CodeFile)
		data, err := os.ReadFile(file)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, errors.WithStack(err)
		default:
			var overrides map[string]string
			if err := yaml.Unmarshal(data, &overrides); err != nil {
				return nil, errors.Wrapf(err, "parsing %s", file)
			}
			for k, v := range overrides {
				messages[k] = v
			}
		}
		c.messages[locale] = messages
	}
	return c, nil
}

// T returns the string for key in locale, falling back to the default locale
// and finally to the key itself.
func (c *Catalog) T(locale, key string) string {
	if s, ok := c.messages[locale][key]; ok {
		return s
	}
	if s, ok := c.messages[c.defaultLocale][key]; ok {
		return s
	}
	return key
}

// FormatDate writes t as a long gregorian date in the style of locale.
func (c *Catalog) FormatDate(locale string, t time.Time) string {
	if c.languages[locale] == "zh" {
		return fmt.Sprintf("%d年%d月%d日", t.Year(), int(t.Month()), t.Day())
	}
	return fmt.Sprintf("%s %d, %d", t.Month(), t.Day(), t.Year())
}

// Locales lists the locales the catalog was built for.
func (c *Catalog) Locales() []string {
	out := make([]string, 0, len(c.messages))
	for l := range c.messages {
		out = append(out, l)
	}
	return out
}

// Prefix returns the URL prefix of a locale: the base url for the default
// locale, base url plus the locale path for the others. The result always
// ends with "/".
func Prefix(cfg *config.SiteConfig, locale string) string {
	if locale == cfg.I18n.DefaultLocale {
		return cfg.BaseURL
	}
	return path.Join(cfg.BaseURL, cfg.LocaleConfig(locale).Path) + "/"
}

// DocsOverlayDir is where translated docs of a locale live.
func DocsOverlayDir(siteRoot, locale string) string {
	return filepath.Join(siteRoot, Dir, locale, "docs")
}

// BlogOverlayDir is where translated blog posts of a locale live.
func BlogOverlayDir(siteRoot, locale string) string {
	return filepath.Join(siteRoot, Dir, locale, "blog")
}
