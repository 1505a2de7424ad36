// Copyright 2026 The typelens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package telemetry is the engine's ambient logging surface. No
// third-party structured-logging library (zap, zerolog, logrus) appears
// anywhere in the retrieved example pack, so this package adapts the
// teacher's own convention instead of reaching for stdlib log directly:
// golang-tools/internal/telemetry/event rolls a small Event/Exporter pair
// rather than importing one, and that is the pattern reproduced here (see
// SPEC_FULL.md §2.1).
package telemetry

import (
	"fmt"
	"sync"
	"time"
)

// Kind discriminates the small set of event shapes the engine emits.
type Kind uint8

const (
	KindLog Kind = iota
	KindStartSpan
	KindEndSpan
)

// Event is a single structured log/span record.
type Event struct {
	Kind    Kind
	At      time.Time
	Message string
	Err     error
	Tags    map[string]interface{}
}

// Exporter receives every emitted Event. Embedders supply their own to
// route events to whatever sink they use; the engine never writes directly
// to stdout/stderr.
type Exporter interface {
	ProcessEvent(Event)
}

var (
	mu       sync.Mutex
	exporter Exporter = noopExporter{}
)

type noopExporter struct{}

func (noopExporter) ProcessEvent(Event) {}

// SetExporter installs exporter as the destination for future events. A nil
// exporter restores the no-op default.
func SetExporter(e Exporter) {
	mu.Lock()
	defer mu.Unlock()
	if e == nil {
		e = noopExporter{}
	}
	exporter = e
}

func current() Exporter {
	mu.Lock()
	defer mu.Unlock()
	return exporter
}

// Log emits a message event, optionally tagged with key/value pairs.
func Log(message string, tags map[string]interface{}) {
	current().ProcessEvent(Event{Kind: KindLog, At: now(), Message: message, Tags: tags})
}

// LogError emits a message event carrying err.
func LogError(message string, err error) {
	current().ProcessEvent(Event{Kind: KindLog, At: now(), Message: message, Err: err})
}

// Span brackets a named operation (ingest, finalize) with start/end events,
// mirroring source.StartSpan/done in golang-tools/internal/lsp/source.
type Span struct {
	name  string
	start time.Time
}

// StartSpan begins a span and emits its start event.
func StartSpan(name string) *Span {
	s := &Span{name: name, start: now()}
	current().ProcessEvent(Event{Kind: KindStartSpan, At: s.start, Message: name})
	return s
}

// End emits the span's end event, tagged with its elapsed duration.
func (s *Span) End() {
	current().ProcessEvent(Event{
		Kind:    KindEndSpan,
		At:      now(),
		Message: s.name,
		Tags:    map[string]interface{}{"elapsed": now().Sub(s.start)},
	})
}

func now() time.Time { return time.Now() }

// NewLineExporter returns an Exporter that writes one line per event to w,
// for tests and for embedders with no structured-logging sink of their own.
func NewLineExporter(w writer) Exporter {
	return &lineExporter{w: w}
}

// writer is satisfied by *os.File, *bytes.Buffer, etc.; kept minimal so
// this package does not need to import io directly for one method.
type writer interface {
	Write(p []byte) (n int, err error)
}

type lineExporter struct {
	w writer
}

func (l *lineExporter) ProcessEvent(e Event) {
	line := fmt.Sprintf("%s %s", e.At.Format("15:04:05.000"), e.Message)
	if e.Err != nil {
		line += ": " + e.Err.Error()
	}
	for k, v := range e.Tags {
		line += fmt.Sprintf(" %s=%v", k, v)
	}
	line += "\n"
	l.w.Write([]byte(line))
}
