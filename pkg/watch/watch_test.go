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
)

func TestFeedPublishesInOrder(t *testing.T) {
	var f Feed
	var got []string

	f.Subscribe(func(c Change) { got = append(got, "a:"+c.Op) })
	f.Subscribe(func(c Change) { got = append(got, "b:"+c.Op) })
	f.Publish(Change{Op: "childList"})

	assert.Equal(t, []string{"a:childList", "b:childList"}, got)
}

func TestFeedUnsubscribe(t *testing.T) {
	var f Feed
	calls := 0

	unsubscribe := f.Subscribe(func(Change) { calls++ })
	f.Publish(Change{})
	unsubscribe()
	unsubscribe()
	f.Publish(Change{})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, f.Len())
}

func TestFeedSubscribeDuringPublish(t *testing.T) {
	var f Feed
	f.Subscribe(func(Change) {
		f.Subscribe(func(Change) {})
	})
	assert.NotPanics(t, func() { f.Publish(Change{}) })
	assert.Equal(t, 2, f.Len())
}

func TestFileSourcePublishesWrites(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "admin-footer")
	require.NoError(t, os.Mkdir(sub, 0o755))

	src, err := NewFileSource(dir)
	require.NoError(t, err)
	defer src.Close()

	var (
		mu    sync.Mutex
		paths []string
	)
	src.Subscribe(func(c Change) {
		mu.Lock()
		paths = append(paths, c.Path)
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go src.Run(ctx)

	target := filepath.Join(sub, "index.ts")
	require.NoError(t, os.WriteFile(target, []byte("console.log(1)"), 0o644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, p := range paths {
			if p == target {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
}

func TestFileSourceMissingRoot(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestIsEditorTemp(t *testing.T) {
	assert.True(t, isEditorTemp("/src/index.ts~"))
	assert.True(t, isEditorTemp("/src/.index.ts.swp"))
	assert.True(t, isEditorTemp("/src/.#index.ts"))
	assert.False(t, isEditorTemp("/src/index.ts"))
}
