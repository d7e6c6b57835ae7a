package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchRescansOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.rb")
	if err := os.WriteFile(path, []byte("def one(a)\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	results := make(chan int, 16)
	done := make(chan error, 1)
	opts := Options{Extensions: []string{".rb"}}
	go func() {
		done <- Watch(ctx, []string{dir}, opts, 20*time.Millisecond, func(res *ScanResult, err error) {
			if err != nil {
				results <- -1
				return
			}
			results <- res.Signatures()
		})
	}()

	if n := <-results; n != 1 {
		t.Fatalf("initial scan: %d signatures, want 1", n)
	}
	if err := os.WriteFile(path, []byte("def one(a)\ndef two(b)\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	for {
		select {
		case n := <-results:
			if n == 2 {
				cancel()
				if err := <-done; err != nil {
					t.Fatalf("Watch returned %v", err)
				}
				return
			}
		case <-ctx.Done():
			t.Fatalf("no rescan observed after the file changed")
		}
	}
}

func TestWatchStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	cancel()
	err := Watch(ctx, []string{t.TempDir()}, Options{}, 0, func(*ScanResult, error) { calls++ })
	if err != nil {
		t.Fatalf("Watch on a cancelled context: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected only the initial scan, got %d calls", calls)
	}
}
