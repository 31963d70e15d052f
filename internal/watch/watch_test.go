package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/bookctl/internal/booktest"
)

type batches struct {
	mu  sync.Mutex
	got [][]string
}

func (b *batches) handle(_ context.Context, changed []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.got = append(b.got, changed)
}

func (b *batches) all() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for _, batch := range b.got {
		out = append(out, batch...)
	}
	return out
}

func startWatcher(t *testing.T, root string, b *batches) {
	t.Helper()
	w, err := New(root, Options{Exclude: []string{"_build"}, Debounce: 50 * time.Millisecond}, b.handle)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestWatcher_ReportsWrittenNotebooks(t *testing.T) {
	root := t.TempDir()
	booktest.WriteTree(t, root, map[string]string{
		"guide/a.ipynb":        "{}",
		"_build/html/x.ipynb":  "{}",
	})
	b := &batches{}
	startWatcher(t, root, b)

	require.NoError(t, os.WriteFile(filepath.Join(root, "guide", "a.ipynb"), []byte(`{"x":1}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "guide", "notes.md"), []byte("# n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "_build", "html", "x.ipynb"), []byte(`{"x":1}`), 0o600))

	want := filepath.Join(root, "guide", "a.ipynb")
	assert.Eventually(t, func() bool {
		got := b.all()
		return len(got) > 0 && got[0] == want
	}, 5*time.Second, 20*time.Millisecond)

	time.Sleep(200 * time.Millisecond)
	for _, p := range b.all() {
		assert.Equal(t, want, p)
	}
}

func TestWatcher_WatchesNewDirectories(t *testing.T) {
	root := t.TempDir()
	b := &batches{}
	startWatcher(t, root, b)

	dir := filepath.Join(root, "new")
	require.NoError(t, os.Mkdir(dir, 0o750))
	// Give the watcher a moment to register the new directory.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "n.ipynb"), []byte("{}"), 0o600))

	assert.Eventually(t, func() bool {
		for _, p := range b.all() {
			if p == filepath.Join(dir, "n.ipynb") {
				return true
			}
		}
		return false
	}, 5*time.Second, 20*time.Millisecond)
}

func TestNew_RejectsMissingRoot(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), Options{}, func(context.Context, []string) {})
	require.Error(t, err)
}

func TestExcluded(t *testing.T) {
	w := &Watcher{root: "/book", exclude: map[string]struct{}{"_build": {}}}
	assert.True(t, w.excluded("/book/_build/html/x.ipynb"))
	assert.False(t, w.excluded("/book/guide/x.ipynb"))
	assert.False(t, w.excluded("/book/x.ipynb"))
}
