package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func start(t *testing.T, root string, opts Options) (<-chan struct{}, func()) {
	t.Helper()
	changes := make(chan struct{}, 16)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, root, opts, func() { changes <- struct{}{} })
	}()
	// Let the watcher register its directories.
	time.Sleep(100 * time.Millisecond)
	return changes, func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("watcher did not stop")
		}
	}
}

func waitChange(t *testing.T, changes <-chan struct{}) {
	t.Helper()
	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestRun(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs"), 0o755))
	changes, stop := start(t, root, Options{Debounce: 20 * time.Millisecond})
	defer stop()

	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "intro.md"), []byte("# Intro\n"), 0o644))
	waitChange(t, changes)

	// New directories are watched as they appear.
	sub := filepath.Join(root, "docs", "guides")
	require.NoError(t, os.Mkdir(sub, 0o755))
	waitChange(t, changes)
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(sub, "setup.md"), []byte("# Setup\n"), 0o644))
	waitChange(t, changes)
}

func TestRunDebounces(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	root := t.TempDir()
	changes, stop := start(t, root, Options{Debounce: 200 * time.Millisecond})
	defer stop()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(root, "a.md"), []byte{byte('a' + i)}, 0o644))
	}
	waitChange(t, changes)
	select {
	case <-changes:
		t.Fatal("burst reported more than once")
	case <-time.After(400 * time.Millisecond):
	}
}

func TestRunSkipsOutputAndHidden(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "build"), 0o755))
	changes, stop := start(t, root, Options{Debounce: 20 * time.Millisecond, SkipDirs: []string{"build"}})
	defer stop()

	require.NoError(t, os.WriteFile(filepath.Join(root, "build", "index.html"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".intro.md.swp"), []byte("x"), 0o644))
	select {
	case <-changes:
		t.Fatal("ignored change was reported")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestRunMissingRoot(t *testing.T) {
	err := Run(context.Background(), filepath.Join(t.TempDir(), "missing"), Options{}, func() {})
	require.Error(t, err)
}

func TestShouldIgnore(t *testing.T) {
	for name, want := range map[string]bool{
		"docs/intro.md":      false,
		"docs/.intro.md.swp": true,
		"docs/intro.md~":     true,
		"#intro.md#":         true,
		".DS_Store":          true,
		"static/img/a.png":   false,
	} {
		assert.Equal(t, want, ShouldIgnore(name), name)
	}
}
