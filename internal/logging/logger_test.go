package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriterLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger("sim", &buf, INFO)

	l.Debug("скрытое сообщение")
	l.Info("кадр %d", 7)
	l.Error("ошибка %s", "x")

	out := buf.String()
	assert.NotContains(t, out, "скрытое", "DEBUG не должен попадать в консоль при пороге INFO")
	assert.Contains(t, out, "[INFO] [sim] кадр 7")
	assert.Contains(t, out, "[ERROR] [sim] ошибка x")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestDefaultLoggerRedirect(t *testing.T) {
	prev := defaultLogger
	defer func() { defaultLogger = prev }()

	var buf bytes.Buffer
	SetDefaultLogger(NewWriterLogger("test", &buf, TRACE))

	Trace("t")
	Warn("w %d", 1)

	assert.Contains(t, buf.String(), "[TRACE] [test] t")
	assert.Contains(t, buf.String(), "[WARN] [test] w 1")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, ERROR, ParseLevel("ERROR"))
	assert.Equal(t, INFO, ParseLevel("что-то"))
	assert.Equal(t, "WARN", WARN.String())
}

func TestLoggerManagerWithoutFiles(t *testing.T) {
	prevDir := LogDir
	LogDir = ""
	defer func() { LogDir = prevDir }()

	lm := &LoggerManager{loggers: make(map[string]*Logger)}
	a, err := lm.GetLogger("sim")
	assert.NoError(t, err)
	b, err := lm.GetLogger("sim")
	assert.NoError(t, err)
	assert.Same(t, a, b, "повторный запрос должен вернуть тот же логгер")
	assert.Equal(t, []string{"sim"}, lm.ListComponents())

	assert.NoError(t, lm.SetLogLevel("sim", ERROR, ERROR))
	assert.Error(t, lm.SetLogLevel("нет", INFO, INFO))
	assert.NoError(t, lm.CloseAll())
	assert.Empty(t, lm.ListComponents())
}

func TestSetConsoleLevel(t *testing.T) {
	defer SetConsoleLevel(INFO)

	l := GetComponentLogger("console-level-test")
	SetConsoleLevel(WARN)
	assert.Equal(t, WARN, l.minConsoleLevel)
	assert.Equal(t, WARN, defaultLogger.minConsoleLevel)

	fresh, err := NewLogger("console-level-fresh")
	assert.NoError(t, err)
	assert.Equal(t, WARN, fresh.minConsoleLevel, "новые логгеры получают текущий порог")
}
