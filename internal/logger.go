package internal

import (
	"context"
	"fmt"
	"golang.org/x/exp/slog"
	"io"
	"os"
	"sync"
	"time"
	"wxpay/entity"
	"wxpay/services"
)

const (
	databaseWriteTimeout = 5 * time.Second
	databaseQueueSize    = 256
)

// Logger implements services.LogHandler on top of slog and mirrors every
// record to the log database when one is set. Records are written by a
// single worker; when the queue is full they are dropped, so a slow
// database never delays the caller.
type Logger struct {
	category string
	logger   *slog.Logger
	database services.Database
	records  chan *entity.LogMessage
	done     chan struct{}
	mutex    sync.RWMutex
	closed   bool
}

// NewLogger writes text records to stderr; debug enables the debug level.
func NewLogger(category string, debug bool, database services.Database) *Logger {
	return newLogger(os.Stderr, category, debug, database)
}

func newLogger(w io.Writer, category string, debug bool, database services.Database) *Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	l := &Logger{
		category: category,
		logger:   slog.New(handler).With(slog.String("category", category)),
		database: database,
	}
	if database != nil {
		l.records = make(chan *entity.LogMessage, databaseQueueSize)
		l.done = make(chan struct{})
		go l.run()
	}
	return l
}

func (l *Logger) Debug(text string) {
	if !l.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	l.logger.Debug(text)
	l.store(slog.LevelDebug, text, nil)
}

func (l *Logger) Info(text string) {
	l.logger.Info(text)
	l.store(slog.LevelInfo, text, nil)
}

func (l *Logger) Warn(text string) {
	l.logger.Warn(text)
	l.store(slog.LevelWarn, text, nil)
}

func (l *Logger) Error(text string, err error) {
	l.logger.Error(text, slog.Any("error", err))
	l.store(slog.LevelError, text, err)
}

func (l *Logger) store(level slog.Level, text string, err error) {
	if l.database == nil {
		return
	}
	message := &entity.LogMessage{
		Time:     time.Now(),
		Level:    level.String(),
		Category: l.category,
		Text:     text,
	}
	if err != nil {
		message.Error = err.Error()
	}

	l.mutex.RLock()
	defer l.mutex.RUnlock()
	if l.closed {
		return
	}
	select {
	case l.records <- message:
	default:
		l.logger.Warn("log database queue is full, record dropped")
	}
}

func (l *Logger) run() {
	defer close(l.done)
	for message := range l.records {
		ctx, cancel := context.WithTimeout(context.Background(), databaseWriteTimeout)
		err := l.database.WriteLogMessage(ctx, message)
		cancel()
		if err != nil {
			// not mirrored again, that would loop
			l.logger.Warn(fmt.Sprintf("write log message: %v", err))
		}
	}
}

// Close writes the queued records and stops the database worker.
// Records logged afterwards go to the text output only.
func (l *Logger) Close() {
	if l.database == nil {
		return
	}
	l.mutex.Lock()
	if !l.closed {
		l.closed = true
		close(l.records)
	}
	l.mutex.Unlock()
	<-l.done
}
