package devserver

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldIgnoreEvent(t *testing.T) {
	cases := map[string]bool{
		"/src/index.html":      false,
		"/src/css/site.css":    false,
		"/src/.DS_Store":       true,
		"/src/.index.html.swp": true,
		"/src/index.html~":     true,
		"/src/page.swx":        true,
		"/src/#index.html#":    true,
		"/src/4913":            true,
		"/src/.git":            true,
	}
	for path, want := range cases {
		assert.Equal(t, want, shouldIgnoreEvent(path), path)
	}
}

func TestDebounce_CoalescesBursts(t *testing.T) {
	var calls atomic.Int32
	trigger := debounce(30*time.Millisecond, func() { calls.Add(1) })

	for range 5 {
		trigger()
	}
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatch_NotifiesOnChangeInNewDirectory(t *testing.T) {
	root := t.TempDir()
	var calls atomic.Int32
	w, err := watch([]string{root, filepath.Join(root, "missing")}, 20*time.Millisecond, quietLogger(), func() { calls.Add(1) })
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	sub := filepath.Join(root, "docs")
	require.NoError(t, os.Mkdir(sub, 0o750))
	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	// Let the directory be registered before writing into it.
	time.Sleep(50 * time.Millisecond)
	before := calls.Load()
	require.NoError(t, os.WriteFile(filepath.Join(sub, "page.html"), []byte("x"), 0o600))
	require.Eventually(t, func() bool { return calls.Load() > before }, 2*time.Second, 10*time.Millisecond)
}
