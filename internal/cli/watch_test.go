package cli

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestTriggersRebuild(t *testing.T) {
	target := "/work/flow.excalidraw"

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write", fsnotify.Event{Name: target, Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: target, Op: fsnotify.Create}, true},
		{"rename", fsnotify.Event{Name: target, Op: fsnotify.Rename}, true},
		{"chmod", fsnotify.Event{Name: target, Op: fsnotify.Chmod}, false},
		{"remove", fsnotify.Event{Name: target, Op: fsnotify.Remove}, false},
		{"sibling", fsnotify.Event{Name: "/work/other.excalidraw", Op: fsnotify.Write}, false},
		{"unclean", fsnotify.Event{Name: "/work/./flow.excalidraw", Op: fsnotify.Write}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := triggersRebuild(tt.event, target); got != tt.want {
				t.Errorf("triggersRebuild(%v) = %v, want %v", tt.event, got, tt.want)
			}
		})
	}
}

func TestWatchFile(t *testing.T) {
	saved := uiOut
	uiOut = &syncBuffer{}
	defer func() { uiOut = saved }()

	dir := t.TempDir()
	target := filepath.Join(dir, "flow.excalidraw")
	if err := os.WriteFile(target, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	var calls atomic.Int32
	rebuilt := make(chan struct{}, 8)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, target, 100*time.Millisecond, func(context.Context) error {
			calls.Add(1)
			rebuilt <- struct{}{}
			return nil
		})
	}()

	// Let the watcher register before touching files.
	time.Sleep(200 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(target, []byte(`{"elements": []}`), 0644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-rebuilt:
	case <-time.After(5 * time.Second):
		t.Fatal("no rebuild after writing the watched file")
	}
	time.Sleep(400 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Errorf("rebuilds = %d, want 1 for one burst of writes", n)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watchFile() = %v, want nil on cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watchFile did not return after cancel")
	}
}
