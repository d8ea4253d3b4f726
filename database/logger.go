/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/tomoncle/userstore/utils"
)

const loggerName = "DATABASE"

// LogLevel is the verbosity of a Logger. The values map onto logrus levels.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

var logrusLevels = map[LogLevel]logrus.Level{
	LogLevelDebug: logrus.DebugLevel,
	LogLevelInfo:  logrus.InfoLevel,
	LogLevelWarn:  logrus.WarnLevel,
	LogLevelError: logrus.ErrorLevel,
}

func (l LogLevel) toLogrus() logrus.Level {
	if lvl, ok := logrusLevels[l]; ok {
		return lvl
	}
	return logrus.DebugLevel
}

func (l LogLevel) String() string {
	return l.toLogrus().String()
}

// Logger is the structured logger used by the pool and its query hooks.
// Fields are alternating key/value pairs.
type Logger interface {
	SetLevel(LogLevel)
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
}

var (
	packageLogger   Logger
	packageLoggerMu sync.Mutex
)

// InitLogger installs log as the package default used by pools and hooks
// built without one. The first non-nil logger wins.
func InitLogger(log Logger) {
	if log == nil {
		return
	}
	packageLoggerMu.Lock()
	defer packageLoggerMu.Unlock()
	if packageLogger == nil {
		packageLogger = log
	}
}

// GetLogger returns the package default, falling back to a DefaultLogger.
func GetLogger() Logger {
	packageLoggerMu.Lock()
	defer packageLoggerMu.Unlock()
	if packageLogger == nil {
		packageLogger = NewDefaultLogger()
	}
	return packageLogger
}

// DefaultLogger writes through the named logrus logger of the utils package.
type DefaultLogger struct {
	logger *utils.Logger
}

func NewDefaultLogger() *DefaultLogger {
	return &DefaultLogger{logger: utils.NewLogger(loggerName)}
}

func (l *DefaultLogger) Debug(msg string, fields ...interface{}) {
	l.entry(fields).Debug(msg)
}

func (l *DefaultLogger) Info(msg string, fields ...interface{}) {
	l.entry(fields).Info(msg)
}

func (l *DefaultLogger) Warn(msg string, fields ...interface{}) {
	l.entry(fields).Warn(msg)
}

func (l *DefaultLogger) Error(msg string, fields ...interface{}) {
	l.entry(fields).Error(msg)
}

func (l *DefaultLogger) SetLevel(level LogLevel) {
	l.logger.SetLevel(level.toLogrus())
}

func (l *DefaultLogger) entry(fields []interface{}) *logrus.Entry {
	data := make(logrus.Fields, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		data[fmt.Sprint(fields[i])] = fields[i+1]
	}
	return l.logger.WithFields(data)
}

type nopLogger struct{}

func (nopLogger) SetLevel(LogLevel)            {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// NopLogger discards everything.
func NopLogger() Logger { return nopLogger{} }
