package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/songquanpeng/image-studio/common/config"
	"github.com/songquanpeng/image-studio/common/helper"
)

const (
	loggerDEBUG = "debug"
	loggerINFO  = "info"
	loggerWarn  = "warn"
	loggerError = "error"
	loggerFatal = "fatal"
)

// LogEntry is one JSON log line.
type LogEntry struct {
	Ts        string `json:"ts"`
	Level     string `json:"level"`
	RequestId string `json:"request_id,omitempty"`
	Msg       string `json:"msg"`
	Service   string `json:"service"`
	Instance  string `json:"instance"`
}

var setupLogLock sync.Mutex
var setupLogWorking bool
var currentLogDate string
var generalLogFile *os.File
var errorLogFile *os.File

// SetupLogger points gin's writers at stdout/stderr tee'd into daily files
// under LogDir. It is re-run lazily so files roll over at midnight.
func SetupLogger() {
	if LogDir == "" {
		return
	}
	ok := setupLogLock.TryLock()
	if !ok {
		return
	}
	defer func() {
		setupLogLock.Unlock()
		setupLogWorking = false
	}()

	dateStr := time.Now().Format("20060102")
	if dateStr == currentLogDate {
		return
	}

	generalLogPath := filepath.Join(LogDir, fmt.Sprintf("image-studio-%s.log", dateStr))
	fd, err := os.OpenFile(generalLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Fatal("failed to open general log file")
	}

	errorLogPath := filepath.Join(LogDir, fmt.Sprintf("image-studio-error-%s.log", dateStr))
	errFd, err := os.OpenFile(errorLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Fatal("failed to open error log file")
	}

	if generalLogFile != nil {
		generalLogFile.Close()
	}
	if errorLogFile != nil {
		errorLogFile.Close()
	}

	generalLogFile = fd
	errorLogFile = errFd
	currentLogDate = dateStr

	gin.DefaultWriter = io.MultiWriter(os.Stdout, generalLogFile)
	gin.DefaultErrorWriter = io.MultiWriter(os.Stderr, errorLogFile)
}

func writeJSONLog(writer io.Writer, level, requestId, msg string) {
	entry := LogEntry{
		Ts:        time.Now().Format(time.RFC3339Nano),
		Level:     level,
		RequestId: requestId,
		Msg:       msg,
		Service:   config.ServiceName,
		Instance:  config.InstanceId,
	}
	jsonBytes, err := json.Marshal(entry)
	if err != nil {
		_, _ = fmt.Fprintf(writer, `{"ts":"%s","level":"%s","msg":"json marshal error","service":"%s","instance":"%s"}`+"\n",
			entry.Ts, level, config.ServiceName, config.InstanceId)
		return
	}
	_, _ = writer.Write(append(jsonBytes, '\n'))
}

func SysLog(s string) {
	writeJSONLog(gin.DefaultWriter, loggerINFO, "", s)
}

func SysError(s string) {
	writeJSONLog(gin.DefaultErrorWriter, loggerError, "", s)
}

func Debug(ctx context.Context, msg string) {
	if config.DebugEnabled {
		logHelper(ctx, loggerDEBUG, msg)
	}
}

func Info(ctx context.Context, msg string) {
	logHelper(ctx, loggerINFO, msg)
}

func Warn(ctx context.Context, msg string) {
	logHelper(ctx, loggerWarn, msg)
}

func Error(ctx context.Context, msg string) {
	logHelper(ctx, loggerError, msg)
}

func Debugf(ctx context.Context, format string, a ...any) {
	Debug(ctx, fmt.Sprintf(format, a...))
}

func Infof(ctx context.Context, format string, a ...any) {
	Info(ctx, fmt.Sprintf(format, a...))
}

func Warnf(ctx context.Context, format string, a ...any) {
	Warn(ctx, fmt.Sprintf(format, a...))
}

func Errorf(ctx context.Context, format string, a ...any) {
	Error(ctx, fmt.Sprintf(format, a...))
}

// RequestIdFromContext returns the id stored by the request-id middleware.
func RequestIdFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v := ctx.Value(RequestIdKey); v != nil {
		return fmt.Sprintf("%v", v)
	}
	return ""
}

func logHelper(ctx context.Context, level string, msg string) {
	writer := gin.DefaultWriter
	if level == loggerError {
		writer = gin.DefaultErrorWriter
	}

	id := RequestIdFromContext(ctx)
	if id == "" {
		id = helper.GenRequestID()
	}

	writeJSONLog(writer, level, id, msg)

	if LogDir != "" && !setupLogWorking {
		setupLogWorking = true
		go SetupLogger()
	}
}

func FatalLog(v ...any) {
	msg := fmt.Sprint(v...)
	writeJSONLog(gin.DefaultErrorWriter, loggerFatal, "", msg)
	os.Exit(1)
}
