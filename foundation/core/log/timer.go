// File: timer.go
// Title: Operation Timer
// Description: Measures an operation and logs its duration on completion.
// Author: msto63
// Version: v0.1.0
// Created: 2025-01-24
// Modified: 2025-01-24

package log

import "time"

// Timer measures the duration of an operation
type Timer struct {
	logger *Logger
	start  time.Time
	msg    string
}

// StartTimer starts timing an operation described by msg
func (l *Logger) StartTimer(msg string) *Timer {
	return &Timer{logger: l, start: time.Now(), msg: msg}
}

// Stop logs the elapsed time at debug level and returns it
func (t *Timer) Stop(fields ...Fields) time.Duration {
	d := time.Since(t.start)
	t.logger.log(LevelDebug, t.msg, nil, d, fields...)
	return d
}

// StopWithError logs the elapsed time; a non-nil err raises the entry to error level
func (t *Timer) StopWithError(err error, fields ...Fields) time.Duration {
	d := time.Since(t.start)
	level := LevelDebug
	if err != nil {
		level = LevelError
	}
	t.logger.log(level, t.msg, err, d, fields...)
	return d
}
