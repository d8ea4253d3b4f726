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

package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]logrus.Level{
		"trace":   logrus.TraceLevel,
		"DEBUG":   logrus.DebugLevel,
		" info ":  logrus.InfoLevel,
		"":        logrus.InfoLevel,
		"warning": logrus.WarnLevel,
		"warn":    logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"bogus":   logrus.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestNewLoggerIsRegistered(t *testing.T) {
	a := NewLogger("REGISTRY_TEST")
	b := NewLogger("REGISTRY_TEST")
	if a != b {
		t.Fatal("NewLogger returned a second instance for the same name")
	}

	if !SetLoggerLevel("REGISTRY_TEST", "error") || a.GetLevel() != logrus.ErrorLevel {
		t.Errorf("level = %s", a.GetLevel())
	}
	if SetLoggerLevel("NO_SUCH_LOGGER", "debug") {
		t.Error("unknown logger reported as set")
	}
}

func TestLog4jColorFormatter(t *testing.T) {
	f := &Log4jColorFormatter{LoggerName: "DATABASE", NameWidth: 10}
	entry := &logrus.Entry{
		Time:    time.Date(2025, 3, 4, 5, 6, 7, 8_000_000, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "slow query",
		Data:    logrus.Fields{"query": "SELECT 1", "duration": "2s"},
	}
	b, err := f.Format(entry)
	if err != nil {
		t.Fatal(err)
	}
	out := string(b)
	for _, want := range []string{"2025-03-04 05:06:07.008", "WARNING", "DATABASE", "slow query duration=2s query=SELECT 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("%q misses %q", out, want)
		}
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("missing newline")
	}
}

func TestJSONLogFormatter(t *testing.T) {
	f := &JSONLogFormatter{LoggerName: "DATABASE"}
	b, err := f.Format(&logrus.Entry{
		Time:    time.Now(),
		Level:   logrus.ErrorLevel,
		Message: "query failed",
		Data:    logrus.Fields{"error": errors.New("no such table: user"), "rows": 3},
	})
	if err != nil {
		t.Fatal(err)
	}

	var rec struct {
		Level   string                 `json:"level"`
		Model   string                 `json:"model"`
		Message string                 `json:"message"`
		Fields  map[string]interface{} `json:"fields"`
	}
	if err := json.Unmarshal(b, &rec); err != nil {
		t.Fatalf("invalid json %s: %v", b, err)
	}
	if rec.Level != "error" || rec.Model != "DATABASE" || rec.Message != "query failed" {
		t.Errorf("got %+v", rec)
	}
	if rec.Fields["error"] != "no such table: user" || rec.Fields["rows"] != float64(3) {
		t.Errorf("fields = %v", rec.Fields)
	}
}

func TestConfigureConsoleLogFormat(t *testing.T) {
	var buf bytes.Buffer
	ConfigureOutput(&buf)
	defer ConfigureOutput(nil)
	defer ConfigureConsoleLogFormat("text")

	l := NewLogger("FORMAT_TEST")
	l.SetLevel(logrus.InfoLevel)
	ConfigureConsoleLogFormat("JSON")
	l.Info("hello")

	if !json.Valid(bytes.TrimSpace(buf.Bytes())) {
		t.Errorf("not json: %s", buf.String())
	}
}

func TestFormatDuration(t *testing.T) {
	if got := FormatDuration(1234567 * time.Nanosecond); got != "1.235ms" {
		t.Errorf("got %s", got)
	}
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("USERSTORE_TEST_STRING", "value")
	t.Setenv("USERSTORE_TEST_BOOL", "true")
	t.Setenv("USERSTORE_TEST_EMPTY", "")

	if EnvDefaultString("USERSTORE_TEST_STRING", "x") != "value" || EnvDefaultString("USERSTORE_TEST_EMPTY", "x") != "x" {
		t.Error("EnvDefaultString")
	}
	if !EnvDefaultBool("USERSTORE_TEST_BOOL", false) || !EnvDefaultBool("USERSTORE_TEST_EMPTY", true) {
		t.Error("EnvDefaultBool")
	}
}
