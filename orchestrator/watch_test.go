package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/kirgen/am"
)

func TestRelevant(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write kir", fsnotify.Event{Name: "app.kir", Op: fsnotify.Write}, true},
		{"create kir", fsnotify.Event{Name: "mod/b.kir", Op: fsnotify.Create}, true},
		{"rename kir", fsnotify.Event{Name: "b.kir", Op: fsnotify.Rename}, true},
		{"chmod kir", fsnotify.Event{Name: "app.kir", Op: fsnotify.Chmod}, false},
		{"write other", fsnotify.Event{Name: "main.lua", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relevant(tt.event))
		})
	}
}

func TestWatcher_RegenerateRateLimited(t *testing.T) {
	fs, cfg := setup(t, map[string]string{"app.kir": `{"root": {"id": 1, "type": "Text"}}`})
	o, err := New(cfg, fs)
	require.NoError(t, err)

	var runs []*Report
	w := NewWatcher(o, am.WatchConfig{DebounceMs: 10, MaxRunsPerMinute: 1}, "app.kir", "out",
		func(r *Report, err error) {
			assert.NoError(t, err)
			runs = append(runs, r)
		})

	assert.True(t, w.regenerate(context.Background()))
	assert.False(t, w.regenerate(context.Background()), "second run within the minute is dropped")
	require.Len(t, runs, 1)
	assert.Equal(t, []string{"out/main.lua"}, runs[0].FilesWritten)
}

func TestWatcher_Unlimited(t *testing.T) {
	fs, cfg := setup(t, map[string]string{"app.kir": `{}`})
	o, err := New(cfg, fs)
	require.NoError(t, err)

	w := NewWatcher(o, am.WatchConfig{}, "app.kir", "out", nil)
	for i := 0; i < 5; i++ {
		assert.True(t, w.regenerate(context.Background()))
	}
}

func TestWatcher_RegenerationsDoNotOverlap(t *testing.T) {
	fs, cfg := setup(t, map[string]string{"app.kir": `{"root": {"id": 1, "type": "Text"}}`})
	o, err := New(cfg, fs)
	require.NoError(t, err)

	var active, overlaps, runs int32
	w := NewWatcher(o, am.WatchConfig{}, "app.kir", "out", func(*Report, error) {
		if atomic.AddInt32(&active, 1) > 1 {
			atomic.AddInt32(&overlaps, 1)
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		atomic.AddInt32(&runs, 1)
	})

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.regenerate(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(4), atomic.LoadInt32(&runs))
	assert.Zero(t, atomic.LoadInt32(&overlaps))
}

func TestWatcher_WatchesImportDirectories(t *testing.T) {
	dir := t.TempDir()
	write := func(rel, content string) {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	write("app.kir", `{"root": {"id": 1, "type": "Text"}, "imports": ["components/calendar", "widgets/absent"]}`)
	write("components/calendar.kir", `{"component_definitions": [{"name": "Calendar"}]}`)

	o, err := New(am.Default().Codegen, afero.NewOsFs())
	require.NoError(t, err)

	fsw, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer fsw.Close()

	entry := filepath.Join(dir, "app.kir")
	w := NewWatcher(o, am.WatchConfig{}, entry, filepath.Join(dir, "out"), nil)
	require.NoError(t, fsw.Add(dir))
	w.fsw = fsw
	w.watched[dir] = true

	require.True(t, w.regenerate(context.Background()))

	assert.ElementsMatch(t, []string{dir, filepath.Join(dir, "components")}, fsw.WatchList())
	assert.False(t, w.watched[filepath.Join(dir, "widgets")], "missing directories are retried later")
}
