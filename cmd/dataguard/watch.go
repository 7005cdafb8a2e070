package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dataguard/dataguard/internal/config"
	"github.com/dataguard/dataguard/internal/observability"
	"github.com/dataguard/dataguard/internal/report"
)

// watchDebounce is how long the watch loop waits after the last Write event
// before re-running validation; a burst of writes from one save settles
// into a single re-run instead of one per fsnotify event (spec.md §6: "on
// ModifyData events ... followed by a Close(Write) event, the engine
// re-runs" — fsnotify does not distinguish the two, so settling on a quiet
// window after the last Write stands in for waiting on Close(Write)).
const watchDebounce = 300 * time.Millisecond

// runWatch re-validates the first declared table's file on disk whenever it
// changes, printing a stdout report after every run, until interrupted.
func runWatch() (bool, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return false, err
	}
	if len(cfg.Tables) == 0 {
		return false, fmt.Errorf("config %q declares no tables to watch", configPath)
	}
	if len(cfg.Tables) > 1 {
		return false, &tooManyTablesError{NTables: len(cfg.Tables)}
	}
	watched := cfg.Tables[0].Path

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return false, fmt.Errorf("failed to start file watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(watched)
	if err := watcher.Add(dir); err != nil {
		return false, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	reporter := report.NewStdoutReporter(version)
	reporter.OnStart()
	lastPassed, err := executeValidation(reporter)
	if err != nil {
		return false, err
	}

	var debounce *time.Timer
	debounceCh := make(chan struct{}, 1)

	for {
		reporter.OnWaiting()
		select {
		case <-sigCh:
			return lastPassed, nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return lastPassed, nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(watched) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, func() {
				select {
				case debounceCh <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return lastPassed, nil
			}
			observability.LogError(context.Background(), "watch "+watched, err)

		case <-debounceCh:
			passed, err := executeValidation(reporter)
			if err != nil {
				observability.LogError(context.Background(), "re-validate "+watched, err)
				continue
			}
			lastPassed = passed
		}
	}
}
