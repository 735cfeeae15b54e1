package logger

import "github.com/harrison/batchimport/internal/models"

// Sink is the set of methods every logger in this package implements.
type Sink interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
	LogOutcome(outcome models.ImportOutcome)
	LogProgress(current, total int)
	LogSummary(summary models.RunSummary)
}

// MultiLogger fans every call out to several sinks, in order.
type MultiLogger struct {
	sinks []Sink
}

// NewMultiLogger creates a MultiLogger. Nil sinks are dropped.
func NewMultiLogger(sinks ...Sink) *MultiLogger {
	m := &MultiLogger{}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

func (m *MultiLogger) LogTrace(message string) {
	for _, s := range m.sinks {
		s.LogTrace(message)
	}
}

func (m *MultiLogger) LogDebug(message string) {
	for _, s := range m.sinks {
		s.LogDebug(message)
	}
}

func (m *MultiLogger) LogInfo(message string) {
	for _, s := range m.sinks {
		s.LogInfo(message)
	}
}

func (m *MultiLogger) LogWarn(message string) {
	for _, s := range m.sinks {
		s.LogWarn(message)
	}
}

func (m *MultiLogger) LogError(message string) {
	for _, s := range m.sinks {
		s.LogError(message)
	}
}

func (m *MultiLogger) LogOutcome(outcome models.ImportOutcome) {
	for _, s := range m.sinks {
		s.LogOutcome(outcome)
	}
}

func (m *MultiLogger) LogProgress(current, total int) {
	for _, s := range m.sinks {
		s.LogProgress(current, total)
	}
}

func (m *MultiLogger) LogSummary(summary models.RunSummary) {
	for _, s := range m.sinks {
		s.LogSummary(summary)
	}
}
