package logger

import (
	"sync"

	"github.com/rs/zerolog"
)

var components = struct {
	sync.RWMutex
	loggers map[string]*Logger
}{loggers: make(map[string]*Logger)}

// Register makes l the logger returned for component name.
func Register(name string, l *Logger) {
	components.Lock()
	defer components.Unlock()
	components.loggers[name] = l
}

// Get returns the logger registered for component name, or the global
// logger tagged with name.
func Get(name string) *Logger {
	components.RLock()
	l, ok := components.loggers[name]
	components.RUnlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}

// registerLevels registers a component logger for every entry of levels,
// e.g. {"discovery": "debug"}, derived from base. Unknown levels are skipped.
func registerLevels(base *Logger, levels map[string]string) {
	components.Lock()
	defer components.Unlock()
	components.loggers = make(map[string]*Logger, len(levels))
	for name, lvl := range levels {
		level, err := zerolog.ParseLevel(lvl)
		if err != nil {
			continue
		}
		l := base.WithComponent(name)
		l.logger = l.logger.Level(level)
		components.loggers[name] = l
	}
}
