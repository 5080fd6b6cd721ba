package config

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// Watch re-reads the config at path whenever it is written or replaced and sends the
// result on configs. Read errors go to errs. Watching stops when ctx is done.
func Watch(ctx context.Context, path string, configs chan<- *Config, errs chan<- error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("can't create watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return fmt.Errorf("can't watch %s: %w", path, err)
	}
	go func() {
		defer watcher.Close()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				// editors on linux replace the file, which shows up as rename
				if event.Op&(fsnotify.Write|fsnotify.Rename) == 0 {
					continue
				}
				if event.Op&fsnotify.Rename != 0 {
					// the watch went away with the old inode
					watcher.Remove(path)
					if err := watcher.Add(path); err != nil {
						send(ctx, errs, err)
						continue
					}
				}
				c, err := ReadConfig(path)
				if err != nil {
					send(ctx, errs, err)
					continue
				}
				send(ctx, configs, c)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				send(ctx, errs, err)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

func send[T any](ctx context.Context, ch chan<- T, v T) {
	select {
	case ch <- v:
	case <-ctx.Done():
	}
}
