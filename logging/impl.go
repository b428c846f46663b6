package logging

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type impl struct {
	name  string
	level AtomicLevel
	inUTC bool

	appenders []Appender
}

func (imp *impl) AddAppender(appender Appender) {
	imp.appenders = append(imp.appenders, appender)
}

func (imp *impl) SetLevel(level Level) {
	imp.level.Set(level)
}

func (imp *impl) GetLevel() Level {
	return imp.level.Get()
}

// Sublogger returns the registered logger named "<parent>.<subname>", creating it with the
// parent's level and appenders on first use.
func (imp *impl) Sublogger(subname string) Logger {
	name := subname
	if imp.name != "" {
		name = imp.name + "." + subname
	}
	return globalLoggerRegistry.getOrRegister(name, &impl{
		name:      name,
		level:     NewAtomicLevelAt(imp.level.Get()),
		inUTC:     imp.inUTC,
		appenders: imp.appenders,
	})
}

// Sync flushes every appender.
func (imp *impl) Sync() error {
	var err error
	for _, appender := range imp.appenders {
		err = multierr.Append(err, appender.Sync())
	}
	return err
}

// enabled reports whether a log at level is emitted. A debug mode context forces debug logs on.
func (imp *impl) enabled(ctx context.Context, level Level) bool {
	return level >= imp.level.Get() || (level == DEBUG && IsDebugMode(ctx))
}

func (imp *impl) print(ctx context.Context, level Level, args ...interface{}) {
	if imp.enabled(ctx, level) {
		imp.emit(level, fmt.Sprint(args...), nil)
	}
}

func (imp *impl) printf(ctx context.Context, level Level, template string, args ...interface{}) {
	if imp.enabled(ctx, level) {
		imp.emit(level, fmt.Sprintf(template, args...), nil)
	}
}

func (imp *impl) printw(ctx context.Context, level Level, msg string, keysAndValues ...interface{}) {
	if imp.enabled(ctx, level) {
		imp.emit(level, msg, toFields(keysAndValues))
	}
}

// emit must be called exactly two frames below the public logging method so the caller lookup
// lands on user code.
func (imp *impl) emit(level Level, msg string, fields []zapcore.Field) {
	entry := zapcore.Entry{
		Level:      level.AsZap(),
		Time:       time.Now(),
		LoggerName: imp.name,
		Message:    msg,
		Caller:     getCaller(),
	}
	if imp.inUTC {
		entry.Time = entry.Time.UTC()
	}
	for _, appender := range imp.appenders {
		if err := appender.Write(entry, fields); err != nil {
			fmt.Fprint(os.Stderr, err)
		}
	}
}

// toFields pairs up alternating keys and values. A trailing key without a value is kept with an
// error value rather than dropped.
func toFields(keysAndValues []interface{}) []zapcore.Field {
	fields := make([]zapcore.Field, 0, (len(keysAndValues)+1)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprint(keysAndValues[i])
		if i+1 == len(keysAndValues) {
			fields = append(fields, zap.Any(key, errors.New("unpaired log key")))
			break
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}

func (imp *impl) Debug(args ...interface{}) { imp.print(context.Background(), DEBUG, args...) }

func (imp *impl) Debugf(template string, args ...interface{}) {
	imp.printf(context.Background(), DEBUG, template, args...)
}

func (imp *impl) Debugw(msg string, keysAndValues ...interface{}) {
	imp.printw(context.Background(), DEBUG, msg, keysAndValues...)
}

func (imp *impl) CDebug(ctx context.Context, args ...interface{}) { imp.print(ctx, DEBUG, args...) }

func (imp *impl) CDebugf(ctx context.Context, template string, args ...interface{}) {
	imp.printf(ctx, DEBUG, template, args...)
}

func (imp *impl) CDebugw(ctx context.Context, msg string, keysAndValues ...interface{}) {
	imp.printw(ctx, DEBUG, msg, keysAndValues...)
}

func (imp *impl) Info(args ...interface{}) { imp.print(context.Background(), INFO, args...) }

func (imp *impl) Infof(template string, args ...interface{}) {
	imp.printf(context.Background(), INFO, template, args...)
}

func (imp *impl) Infow(msg string, keysAndValues ...interface{}) {
	imp.printw(context.Background(), INFO, msg, keysAndValues...)
}

func (imp *impl) Warn(args ...interface{}) { imp.print(context.Background(), WARN, args...) }

func (imp *impl) Warnf(template string, args ...interface{}) {
	imp.printf(context.Background(), WARN, template, args...)
}

func (imp *impl) Warnw(msg string, keysAndValues ...interface{}) {
	imp.printw(context.Background(), WARN, msg, keysAndValues...)
}

func (imp *impl) Error(args ...interface{}) { imp.print(context.Background(), ERROR, args...) }

func (imp *impl) Errorf(template string, args ...interface{}) {
	imp.printf(context.Background(), ERROR, template, args...)
}

func (imp *impl) Errorw(msg string, keysAndValues ...interface{}) {
	imp.printw(context.Background(), ERROR, msg, keysAndValues...)
}

// getCaller returns the location of the code that called the public logging method.
func getCaller() zapcore.EntryCaller {
	// getCaller, emit, print*, the public method, then the caller.
	const skip = 4
	var caller zapcore.EntryCaller
	var ok bool
	caller.PC, caller.File, caller.Line, ok = runtime.Caller(skip)
	if !ok {
		return caller
	}
	caller.Defined = true
	if fn := runtime.FuncForPC(caller.PC); fn != nil {
		caller.Function = fn.Name()
	}
	return caller
}
