package logging

import (
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Known topics. Any string works, these are the ones the simulator uses.
const (
	TopicSim    = "sim"
	TopicLedger = "ledger"
	TopicTrend  = "trend"
	TopicSMA    = "sma"
	TopicFeed   = "feed"
)

// Logger provides topic-based logging with minimal overhead when disabled.
// Loggers are usually package vars, so the enabled flag is re-read on every
// call to pick up Configure made after the var was initialised.
type Logger struct {
	topic string
}

var enabledTopics atomic.Pointer[map[string]bool]

func init() {
	// DEBUG_TOPICS=sim,trend or DEBUG_TOPICS=all
	Configure(os.Getenv("DEBUG_TOPICS"))
}

// Configure replaces the enabled topic set from a comma-separated list.
// "all" enables everything. Any enabled topic switches slog to DEBUG.
func Configure(topics string) {
	enabled := make(map[string]bool)

	if strings.TrimSpace(topics) == "all" {
		enabled["*"] = true
	} else {
		for _, topic := range strings.Split(topics, ",") {
			topic = strings.TrimSpace(topic)
			if topic != "" {
				enabled[topic] = true
			}
		}
	}

	enabledTopics.Store(&enabled)

	if len(enabled) > 0 {
		configureSlog()
	}
}

// configureSlog sets slog's default logger to DEBUG level
func configureSlog() {
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	handler := slog.NewTextHandler(os.Stderr, opts)
	slog.SetDefault(slog.New(handler))
}

// New creates a new topic-specific logger
// Usage: var simLog = logging.New(logging.TopicSim)
func New(topic string) *Logger {
	return &Logger{topic: topic}
}

// Debug logs a debug message if this topic is enabled
func (l *Logger) Debug(msg string, args ...any) {
	if !l.Enabled() {
		return
	}
	slog.Debug(msg, l.withTopic(args)...)
}

// Info logs an info message if this topic is enabled
func (l *Logger) Info(msg string, args ...any) {
	if !l.Enabled() {
		return
	}
	slog.Info(msg, l.withTopic(args)...)
}

// Warn logs regardless of topic. Warnings are never gated.
func (l *Logger) Warn(msg string, args ...any) {
	slog.Warn(msg, l.withTopic(args)...)
}

// Enabled returns true if this logger's topic is enabled
func (l *Logger) Enabled() bool {
	topics := enabledTopics.Load()
	if topics == nil {
		return false
	}
	return (*topics)["*"] || (*topics)[l.topic]
}

func (l *Logger) Topic() string {
	return l.topic
}

func (l *Logger) withTopic(args []any) []any {
	return append([]any{"topic", l.topic}, args...)
}
