// Command surfnets generates chunked terrain from a TOML configuration,
// applies brush strokes and exports the resulting meshes.
//
// Usage:
//
//	surfnets [-config surfnets.toml] [-watch] [-v]
package main

import (
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

func main() {
	var (
		configPath = flag.String("config", "", "TOML configuration file. Built in defaults are used if empty.")
		watch      = flag.Bool("watch", false, "Regenerate whenever the configuration file changes.")
		verbose    = flag.Bool("v", false, "Debug logging. Overrides log_level.")
	)
	flag.Parse()
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "surfnets",
	})

	err := run(*configPath, *verbose, logger)
	if err != nil {
		logger.Error("run failed", "err", err)
		if !*watch {
			os.Exit(1)
		}
	}
	if !*watch {
		return
	}
	if *configPath == "" {
		logger.Fatal("-watch requires -config")
	}
	if err := watchConfig(*configPath, *verbose, logger); err != nil {
		logger.Fatal("watch failed", "err", err)
	}
}

// watchConfig reruns the pipeline every time path is written until interrupted.
// The parent directory is watched so editors that replace the file on save
// are handled.
func watchConfig(path string, verbose bool, logger *log.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	logger.Info("watching configuration", "path", abs)
	for {
		select {
		case e, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(e.Name) != abs || e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			logger.Info("configuration changed", "op", e.Op.String())
			if err := run(abs, verbose, logger); err != nil {
				logger.Error("run failed", "err", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "err", err)
		case <-interrupt:
			return nil
		}
	}
}
