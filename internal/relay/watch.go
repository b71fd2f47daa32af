package relay

import (
	"github.com/fsnotify/fsnotify"
)

// dirWatcher coalesces fsnotify activity on the relay directory into wake
// signals for the sweep loop. Watch failures are not fatal; the interval
// sweep remains the correctness bound.
type dirWatcher struct {
	watcher *fsnotify.Watcher

	// Wake receives at most one pending signal; sweeps drain everything
	// visible, so coalescing is safe.
	Wake chan struct{}
}

func watchDir(dir string) (*dirWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	w := &dirWatcher{
		watcher: watcher,
		Wake:    make(chan struct{}, 1),
	}
	go w.loop()
	return w, nil
}

func (w *dirWatcher) loop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				select {
				case w.Wake <- struct{}{}:
				default:
				}
			}
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *dirWatcher) Close() error {
	return w.watcher.Close()
}
