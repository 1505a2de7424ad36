// Copyright 2026 The typelens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package telemetry

import (
	"bytes"
	"strings"
	"testing"
)

func TestLineExporterReceivesEvents(t *testing.T) {
	var buf bytes.Buffer
	SetExporter(NewLineExporter(&buf))
	defer SetExporter(nil)

	Log("hello", nil)
	span := StartSpan("ingest")
	span.End()

	out := buf.String()
	if !strings.Contains(out, "hello") {
		t.Errorf("expected log message in output, got %q", out)
	}
	if !strings.Contains(out, "ingest") {
		t.Errorf("expected span name in output, got %q", out)
	}
}

func TestNilExporterRestoresNoop(t *testing.T) {
	SetExporter(nil)
	// Must not panic with no exporter installed.
	Log("noop", nil)
}
