package scene

import (
	"fmt"
	"os"

	"github.com/milk9111/platformer/config"
	"github.com/milk9111/platformer/levels"
	"github.com/milk9111/platformer/prefabs"
	"go.uber.org/zap"
)

// Reloader rebuilds the scene when prefab, script or level files change on
// disk. It is polled from the frame loop.
type Reloader struct {
	cfg     *config.Config
	name    string
	log     *zap.Logger
	watcher *prefabs.Watcher
}

// WatchDirs are the on-disk override directories, in the usual layout.
func WatchDirs() []string {
	return []string{prefabs.DiskDir, prefabs.DiskDir + "/scripts", levels.DiskDir}
}

// NewReloader watches the dirs that exist. It fails only if none do.
func NewReloader(cfg *config.Config, name string, log *zap.Logger, dirs ...string) (*Reloader, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var present []string
	for _, dir := range dirs {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			present = append(present, dir)
			continue
		}
		log.Debug("skipping missing watch dir", zap.String("dir", dir))
	}
	if len(present) == 0 {
		return nil, fmt.Errorf("scene: none of the watch dirs exist: %v", dirs)
	}
	w, err := prefabs.NewWatcher(present...)
	if err != nil {
		return nil, err
	}
	log.Info("watching for changes", zap.Strings("dirs", present))
	return &Reloader{cfg: cfg, name: name, log: log, watcher: w}, nil
}

// Poll drains pending change events without blocking. If any arrived it
// rebuilds the scene and returns the new one. A failed rebuild is logged and
// current is kept.
func (r *Reloader) Poll(current *Scene) *Scene {
	if r == nil {
		return current
	}
	changed := ""
	for {
		select {
		case path, ok := <-r.watcher.Events:
			if !ok {
				return r.rebuild(current, changed)
			}
			changed = path
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return r.rebuild(current, changed)
			}
			r.log.Warn("watcher error", zap.Error(err))
		default:
			return r.rebuild(current, changed)
		}
	}
}

func (r *Reloader) rebuild(current *Scene, changed string) *Scene {
	if changed == "" {
		return current
	}
	next, err := Load(r.cfg, r.name)
	if err != nil {
		r.log.Warn("reload failed, keeping current scene", zap.String("changed", changed), zap.Error(err))
		return current
	}
	r.log.Info("scene reloaded", zap.String("changed", changed), zap.String("level", next.Name), zap.Int("entities", next.World.Len()))
	return next
}

func (r *Reloader) Close() error {
	if r == nil {
		return nil
	}
	return r.watcher.Close()
}
