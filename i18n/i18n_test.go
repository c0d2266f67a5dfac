package i18n

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ink-kai/inkworld/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBuiltinAndOverrides(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, Dir, "en")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, CodeFile), []byte("theme.docs.paginator.next: Onward\ncustom.key: Custom\n"), 0o644))

	c, err := Load(root, config.Default())
	require.NoError(t, err)

	assert.Equal(t, "下一页", c.T("zh", "theme.docs.paginator.next"))
	assert.Equal(t, "Onward", c.T("en", "theme.docs.paginator.next"))
	assert.Equal(t, "Previous", c.T("en", "theme.docs.paginator.previous"))
	assert.Equal(t, "Custom", c.T("en", "custom.key"))
	// Missing keys fall back to the default locale, then the key.
	assert.Equal(t, "custom.key", c.T("zh", "custom.key"))
	assert.Equal(t, "上一页", c.T("fr", "theme.docs.paginator.previous"))
	assert.ElementsMatch(t, []string{"zh", "en"}, c.Locales())
}

func TestLoadMatchesUnknownLocaleToEnglish(t *testing.T) {
	cfg := config.Default()
	cfg.I18n.Locales = append(cfg.I18n.Locales, "fr")
	cfg.I18n.LocaleConfigs["fr"] = config.LocaleConfig{Label: "Français", HTMLLang: "fr-FR"}

	c, err := Load(t.TempDir(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "Next", c.T("fr", "theme.docs.paginator.next"))
}

func TestFormatDate(t *testing.T) {
	c, err := Load(t.TempDir(), config.Default())
	require.NoError(t, err)
	day := time.Date(2024, time.January, 5, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024年1月5日", c.FormatDate("zh", day))
	assert.Equal(t, "January 5, 2024", c.FormatDate("en", day))
	assert.Equal(t, "January 5, 2024", c.FormatDate("fr", day))
}

func TestLoadRejectsBadCodeFile(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, Dir, "zh")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, CodeFile), []byte("- not\n- a map\n"), 0o644))

	_, err := Load(root, config.Default())
	require.Error(t, err)
}

func TestPrefix(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, "/", Prefix(cfg, "zh"))
	assert.Equal(t, "/en/", Prefix(cfg, "en"))

	cfg.BaseURL = "/ink/"
	assert.Equal(t, "/ink/", Prefix(cfg, "zh"))
	assert.Equal(t, "/ink/en/", Prefix(cfg, "en"))
}

func TestOverlayDirs(t *testing.T) {
	assert.Equal(t, filepath.Join("site", "i18n", "en", "docs"), DocsOverlayDir("site", "en"))
	assert.Equal(t, filepath.Join("site", "i18n", "en", "blog"), BlogOverlayDir("site", "en"))
}
