package watch

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pikatsuto/raspberry-builds/internal/aggregate"
	"github.com/Pikatsuto/raspberry-builds/internal/config"
	"github.com/Pikatsuto/raspberry-builds/internal/locate"
)

type fakeBuilder struct {
	calls chan struct{}
	err   error
}

func newFakeBuilder() *fakeBuilder {
	return &fakeBuilder{calls: make(chan struct{}, 64)}
}

func (b *fakeBuilder) Run(context.Context) (*aggregate.Report, error) {
	select {
	case b.calls <- struct{}{}:
	default:
	}
	return &aggregate.Report{}, b.err
}

func (b *fakeBuilder) waitCall(t *testing.T, msg string) {
	t.Helper()
	select {
	case <-b.calls:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for build: %s", msg)
	}
}

func startWatcher(t *testing.T, w *Watcher) (cancel func() error) {
	t.Helper()
	ctx, stop := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	return func() error {
		stop()
		select {
		case err := <-done:
			return err
		case <-time.After(5 * time.Second):
			t.Fatal("watcher did not stop")
			return nil
		}
	}
}

func TestWatcher_RebuildsOnSourceChange(t *testing.T) {
	root := t.TempDir()
	wiki := filepath.Join(root, "wiki")
	require.NoError(t, os.MkdirAll(filepath.Join(wiki, "sub"), 0o750))

	b := newFakeBuilder()
	stop := startWatcher(t, New(b, Options{Dirs: []string{wiki}, Debounce: 20 * time.Millisecond}, nil))
	b.waitCall(t, "initial build")

	require.NoError(t, os.WriteFile(filepath.Join(wiki, "sub", "Page.md"), []byte("# Page\n"), 0o600))
	b.waitCall(t, "rebuild after write in nested directory")

	require.NoError(t, stop())
}

func TestWatcher_InitialBuildErrorIsReturned(t *testing.T) {
	b := newFakeBuilder()
	b.err = stderrors.New("broken layout")

	err := New(b, Options{Dirs: []string{t.TempDir()}}, nil).Run(context.Background())
	require.ErrorIs(t, err, b.err)
}

func TestWatcher_PeriodicRebuild(t *testing.T) {
	b := newFakeBuilder()
	stop := startWatcher(t, New(b, Options{Interval: 50 * time.Millisecond}, nil))
	b.waitCall(t, "initial build")
	b.waitCall(t, "scheduled rebuild")
	require.NoError(t, stop())
}

func TestWatcher_Relevant(t *testing.T) {
	root := t.TempDir()
	wiki := filepath.Join(root, "wiki")
	readme := filepath.Join(root, "README.md")
	out := filepath.Join(root, "wiki", "generated")

	w := New(newFakeBuilder(), Options{
		Dirs:    []string{wiki},
		Files:   []string{readme},
		Exclude: []string{out},
	}, nil)

	tests := []struct {
		path string
		want bool
	}{
		{filepath.Join(wiki, "Home.md"), true},
		{filepath.Join(wiki, "nested", "Page.md"), true},
		{readme, true},
		{filepath.Join(root, "CHANGELOG.md"), false},
		{filepath.Join(wiki, ".Home.md.swp"), false},
		{filepath.Join(wiki, "Home.md~"), false},
		{filepath.Join(wiki, "#Home.md#"), false},
		{filepath.Join(wiki, "4913"), false},
		{filepath.Join(out, "home.md"), false},
	}
	for _, tt := range tests {
		t.Run(filepath.Base(tt.path), func(t *testing.T) {
			assert.Equal(t, tt.want, w.relevant(tt.path))
		})
	}
}

func TestDebouncer_CoalescesBursts(t *testing.T) {
	req := make(chan struct{}, 1)
	trigger, stop := debouncer(30*time.Millisecond, req)
	defer stop()

	for range 5 {
		trigger()
	}
	select {
	case <-req:
	case <-time.After(2 * time.Second):
		t.Fatal("no rebuild requested")
	}
	select {
	case <-req:
		t.Fatal("burst produced more than one request")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestOptionsFor(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default()
	src := locate.Sources{RepoRoot: root, WikiDir: cfg.WikiPath(root), ImagesDir: cfg.ImagesPath(root)}

	opts := OptionsFor(cfg, src)
	assert.Equal(t, []string{src.WikiDir, src.ImagesDir}, opts.Dirs)
	assert.Contains(t, opts.Files, filepath.Join(root, "README.md"))
	assert.Equal(t, cfg.OutputDirs(root), opts.Exclude)
}
