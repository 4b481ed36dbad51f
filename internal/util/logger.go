package util

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const LOG_BUFFER_SIZE = 1000

var (
	ErrLogNotInitialized      = errors.New("log object is not initialized yet")
	ErrUnknownLogLevel        = errors.New("unknown log level")
	LOG_FOLDER_NAME_WITH_PATH = ".." + string(os.PathSeparator) + "log"
	globalLogLevel            = LOG_LEVEL_INFO
)

const (
	LOG_LEVEL_ERROR = iota + 1
	LOG_LEVEL_WARN
	LOG_LEVEL_INFO
	LOG_LEVEL_DEBUG
)

// MetricsLogger writes leveled events to a log file (and stderr) through a
// buffered channel drained by one writer goroutine.
type MetricsLogger struct {
	mu                sync.RWMutex
	logBuffer         chan LeveledLogger
	handle            *os.File
	wg                *sync.WaitGroup
	loggerInitialized bool
	zapLogger         *zap.Logger
}

type LeveledLogger struct {
	level  int
	logMsg string
	fields []zap.Field
}

func (m *MetricsLogger) Init(logFileName string, rewrite bool) error {

	var (
		err             error
		fileWithRelPath string
	)
	m.wg = new(sync.WaitGroup)
	m.logBuffer = make(chan LeveledLogger, LOG_BUFFER_SIZE)

	m.handle = nil
	fileWithRelPath = filepath.Join(LOG_FOLDER_NAME_WITH_PATH, logFileName)

	flag := os.O_RDWR | os.O_CREATE | os.O_APPEND
	if rewrite {
		flag = os.O_RDWR | os.O_CREATE | os.O_TRUNC
	}
	m.handle, err = os.OpenFile(fileWithRelPath, flag, 0666)
	if err != nil {
		return err
	}

	m.zapLoggerInit()

	m.wg.Add(1)
	go m.logWritter()

	m.mu.Lock()
	m.loggerInitialized = true
	m.mu.Unlock()
	return nil
}

func (m *MetricsLogger) zapLoggerInit() {
	config := zap.NewProductionEncoderConfig()
	config.EncodeTime = zapcore.ISO8601TimeEncoder

	config.EncodeLevel = zapcore.CapitalLevelEncoder //To Print level in Uppercase.
	fileEncoder := zapcore.NewConsoleEncoder(config) //To Print Lines in non json format.

	level := GlobalLogLevelSetter()
	core := zapcore.NewTee(
		zapcore.NewCore(fileEncoder, zapcore.Lock(m.handle), level),
		zapcore.NewCore(fileEncoder, zapcore.Lock(os.Stderr), level),
	)
	m.zapLogger = zap.New(core, zap.AddCaller())
}

func GlobalLogLevelSetter() zapcore.Level {
	switch globalLogLevel {
	case LOG_LEVEL_ERROR:
		return zapcore.ErrorLevel
	case LOG_LEVEL_WARN:
		return zapcore.WarnLevel
	case LOG_LEVEL_DEBUG:
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}

// ParseLogLevel maps a configured level name onto a LOG_LEVEL_* value.
func ParseLogLevel(name string) (int, error) {
	switch strings.ToLower(name) {
	case "error":
		return LOG_LEVEL_ERROR, nil
	case "warn", "warning":
		return LOG_LEVEL_WARN, nil
	case "info", "":
		return LOG_LEVEL_INFO, nil
	case "debug":
		return LOG_LEVEL_DEBUG, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLogLevel, name)
}

func (m *MetricsLogger) logWritter() {
	defer m.wg.Done()
	for logdata := range m.logBuffer {
		switch logdata.level {
		case LOG_LEVEL_ERROR:
			m.zapLogger.Error(logdata.logMsg, logdata.fields...)
		case LOG_LEVEL_WARN:
			m.zapLogger.Warn(logdata.logMsg, logdata.fields...)
		case LOG_LEVEL_DEBUG:
			m.zapLogger.Debug(logdata.logMsg, logdata.fields...)
		default:
			m.zapLogger.Info(logdata.logMsg, logdata.fields...)
		}
	}
}

// LogEvent queues one event. Unknown levels are logged as info.
func (m *MetricsLogger) LogEvent(level int, msg string, fields ...zap.Field) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.loggerInitialized {
		return ErrLogNotInitialized
	}
	m.logBuffer <- LeveledLogger{level: level, logMsg: msg, fields: fields}
	return nil
}

// Zap returns the underlying logger for components that log synchronously.
// It is a no-op logger until Init succeeds.
func (m *MetricsLogger) Zap() *zap.Logger {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.loggerInitialized {
		return zap.NewNop()
	}
	return m.zapLogger
}

func (m *MetricsLogger) DeInit() {
	m.mu.Lock()
	if !m.loggerInitialized {
		m.mu.Unlock()
		return
	}
	m.loggerInitialized = false
	close(m.logBuffer)
	m.mu.Unlock()

	m.wg.Wait()

	_ = m.zapLogger.Sync()
	m.handle.Close()
}

func SetCommonLoggerAttributes(GlobalLogLevel int) {
	globalLogLevel = GlobalLogLevel
}

func SetLoggerPath(logPath string) {
	LOG_FOLDER_NAME_WITH_PATH = logPath
}

func CheckAndCreateLogFolder(FolderNameWithPath string) error {
	_, err := os.Stat(FolderNameWithPath)

	if os.IsNotExist(err) {
		if err := os.MkdirAll(FolderNameWithPath, 0755); err != nil {
			return fmt.Errorf("failed to create folder %s: %w", FolderNameWithPath, err)
		}
	}
	return nil
}
