package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const seedDebounce = 150 * time.Millisecond

// Watch seeds from path once, then again whenever the file content changes,
// until ctx is cancelled. report receives every load outcome; a failed load
// does not stop the watch.
func (s *ContentSeeder) Watch(ctx context.Context, path string, report func(SeedResult, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch seed file: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	// 监听目录，编辑器保存时常以 rename 方式替换文件
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch seed directory: %w", err)
	}
	target := filepath.Clean(path)

	var lastHash [sha256.Size]byte
	load := func() {
		raw, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return
			}
			report(SeedResult{}, fmt.Errorf("read seed file: %w", err))
			return
		}
		sum := sha256.Sum256(raw)
		if sum == lastHash {
			return
		}
		lastHash = sum
		report(s.Load(ctx, bytes.NewReader(raw)))
	}

	load()

	var (
		pending     bool
		pendingFrom time.Time
	)
	ticker := time.NewTicker(seedDebounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if pending && time.Since(pendingFrom) >= seedDebounce {
				pending = false
				load()
			}
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = true
				pendingFrom = time.Now()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("seed watcher error", zap.Error(err))
		}
	}
}
