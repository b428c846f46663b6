package logging

import (
	"fmt"
	"regexp"
	"sort"
	"sync"
)

var globalLoggerRegistry = newRegistry()

type loggerRegistry struct {
	mu        sync.RWMutex
	loggers   map[string]Logger
	logConfig []LoggerPatternConfig
}

func newRegistry() *loggerRegistry {
	return &loggerRegistry{
		loggers: make(map[string]Logger),
	}
}

func (lr *loggerRegistry) registerLogger(name string, logger Logger) {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	lr.loggers[name] = logger
}

func (lr *loggerRegistry) loggerNamed(name string) (logger Logger, ok bool) {
	lr.mu.RLock()
	defer lr.mu.RUnlock()
	logger, ok = lr.loggers[name]
	return
}

func (lr *loggerRegistry) updateLoggerLevel(name string, level Level) error {
	lr.mu.RLock()
	defer lr.mu.RUnlock()
	logger, ok := lr.loggers[name]
	if !ok {
		return fmt.Errorf("logger named %s not recognized", name)
	}
	logger.SetLevel(level)
	return nil
}

// updateConfig applies the patterns in order to every registered logger; later patterns win.
// Loggers not matched by any pattern are reset to INFO.
func (lr *loggerRegistry) updateConfig(logConfig []LoggerPatternConfig, errorLogger Logger) error {
	lr.mu.Lock()
	lr.logConfig = logConfig
	lr.mu.Unlock()

	appliedConfigs := make(map[string]Level)
	for _, lpc := range logConfig {
		if !ValidatePattern(lpc.Pattern) {
			errorLogger.Warnw("failed to validate a pattern", "pattern", lpc.Pattern)
			continue
		}

		r, err := regexp.Compile(buildRegexFromPattern(lpc.Pattern))
		if err != nil {
			return err
		}

		for _, name := range lr.registeredLoggerNames() {
			if r.MatchString(name) {
				level, err := LevelFromString(lpc.Level)
				if err != nil {
					return err
				}
				appliedConfigs[name] = level
			}
		}
	}

	for _, name := range lr.registeredLoggerNames() {
		level, ok := appliedConfigs[name]
		if !ok {
			level = INFO
		}
		if err := lr.updateLoggerLevel(name, level); err != nil {
			return err
		}
	}

	return nil
}

func (lr *loggerRegistry) registeredLoggerNames() []string {
	lr.mu.RLock()
	defer lr.mu.RUnlock()
	registeredNames := make([]string, 0, len(lr.loggers))
	for name := range lr.loggers {
		registeredNames = append(registeredNames, name)
	}
	sort.Strings(registeredNames)
	return registeredNames
}

// getOrRegister will either return an existing logger for the input logger `name` or register
// the input `logger` for the given logger `name` and configure it based on the existing
// patterns.
func (lr *loggerRegistry) getOrRegister(name string, logger Logger) Logger {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	if existingLogger, ok := lr.loggers[name]; ok {
		return existingLogger
	}

	lr.loggers[name] = logger
	for _, lpc := range lr.logConfig {
		r, err := regexp.Compile(buildRegexFromPattern(lpc.Pattern))
		if err != nil || !r.MatchString(name) {
			continue
		}
		if level, err := LevelFromString(lpc.Level); err == nil {
			logger.SetLevel(level)
		}
	}
	return logger
}

// LoggerNamed returns the registered logger with the given name.
func LoggerNamed(name string) (Logger, bool) {
	return globalLoggerRegistry.loggerNamed(name)
}

// UpdateLoggerLevel sets the level of the registered logger with the given name.
func UpdateLoggerLevel(name string, level Level) error {
	return globalLoggerRegistry.updateLoggerLevel(name, level)
}

// UpdateLoggerConfig applies pattern based level configuration to all registered loggers.
func UpdateLoggerConfig(logConfig []LoggerPatternConfig, errorLogger Logger) error {
	return globalLoggerRegistry.updateConfig(logConfig, errorLogger)
}

// RegisteredLoggerNames returns the sorted names of all registered loggers.
func RegisteredLoggerNames() []string {
	return globalLoggerRegistry.registeredLoggerNames()
}
