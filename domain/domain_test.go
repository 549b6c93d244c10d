package domain

import (
	"errors"
	"testing"
)

// Error tests

func TestDomainError_Error(t *testing.T) {
	// Without cause
	err := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
	}
	expected := "[TEST_ERROR] Test message"
	if err.Error() != expected {
		t.Errorf("Expected '%s', got '%s'", expected, err.Error())
	}

	// With cause
	cause := errors.New("underlying error")
	errWithCause := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
		Cause:   cause,
	}
	expectedWithCause := "[TEST_ERROR] Test message: underlying error"
	if errWithCause.Error() != expectedWithCause {
		t.Errorf("Expected '%s', got '%s'", expectedWithCause, errWithCause.Error())
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewConfigError("bad config", cause)
	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to find the cause")
	}

	noCause := DomainError{Code: "X", Message: "y"}
	if noCause.Unwrap() != nil {
		t.Error("Expected nil cause")
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		fatal bool
	}{
		{"scan error", NewScanError("/missing", errors.New("no such file")), true},
		{"config error", NewConfigError("bad yaml", nil), true},
		{"output error", NewOutputError("write failed", nil), false},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFatal(tt.err); got != tt.fatal {
				t.Errorf("IsFatal() = %v, want %v", got, tt.fatal)
			}
		})
	}
}

func TestNewScanError_NamesPath(t *testing.T) {
	err := NewScanError("/does/not/exist", nil)
	if ErrorCode(err) != ErrCodeScanError {
		t.Errorf("Expected code %s, got %s", ErrCodeScanError, ErrorCode(err))
	}
	expected := "[SCAN_ERROR] cannot scan /does/not/exist"
	if err.Error() != expected {
		t.Errorf("Expected '%s', got '%s'", expected, err.Error())
	}
}

// Priority tests

func TestParsePriority(t *testing.T) {
	for _, in := range []string{"P0", "p1", " P2 "} {
		if _, err := ParsePriority(in); err != nil {
			t.Errorf("ParsePriority(%q) unexpected error: %v", in, err)
		}
	}
	if _, err := ParsePriority("P3"); err == nil {
		t.Error("Expected error for P3")
	}
}

func TestPriority_AtLeast(t *testing.T) {
	if !PriorityP0.AtLeast(PriorityP1) {
		t.Error("P0 should be at least P1")
	}
	if PriorityP2.AtLeast(PriorityP1) {
		t.Error("P2 should not reach P1")
	}
	if !PriorityP1.AtLeast(PriorityP1) {
		t.Error("P1 should reach P1")
	}
}

func TestPriority_Escalate(t *testing.T) {
	if PriorityP2.Escalate() != PriorityP1 {
		t.Error("P2 should escalate to P1")
	}
	if PriorityP1.Escalate() != PriorityP0 {
		t.Error("P1 should escalate to P0")
	}
	if PriorityP0.Escalate() != PriorityP0 {
		t.Error("P0 should stay P0")
	}
}

// Layer tests

func TestLayer_Rank(t *testing.T) {
	order := []Layer{LayerApp, LayerPages, LayerWidgets, LayerFeatures, LayerEntities, LayerShared}
	for i := 1; i < len(order); i++ {
		if order[i-1].Rank() <= order[i].Rank() {
			t.Errorf("Expected %s to rank above %s", order[i-1], order[i])
		}
	}
	if LayerLib.Rank() != LayerShared.Rank() || LayerDomain.Rank() != LayerShared.Rank() {
		t.Error("lib, domain and shared should share the bottom rank")
	}
	if LayerUnknown.Rank() != 0 {
		t.Error("unknown layer should rank 0")
	}
}

// Snapshot tests

func TestNewSnapshot_OrdersModulesAndEdges(t *testing.T) {
	a := &ModuleRecord{Path: "/r/src/b.ts", RelPath: "src/b.ts"}
	b := &ModuleRecord{Path: "/r/src/a.ts", RelPath: "src/a.ts"}
	edges := []ImportEdge{
		{From: a.Path, Specifier: "./a", To: b.Path, Line: 3},
		{From: a.Path, Specifier: "react", External: true, Line: 1},
		{From: b.Path, Specifier: "lodash", External: true, Line: 1},
	}

	s, err := NewSnapshot("/r", []*ModuleRecord{a, b}, edges)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	mods := s.Modules()
	if mods[0].RelPath != "src/a.ts" || mods[1].RelPath != "src/b.ts" {
		t.Errorf("Modules not sorted by relative path: %s, %s", mods[0].RelPath, mods[1].RelPath)
	}

	all := s.Edges()
	if all[0].From != b.Path {
		t.Errorf("Expected edges of src/a.ts first, got %s", all[0].From)
	}
	out := s.Outgoing(a.Path)
	if len(out) != 2 || out[0].Specifier != "react" {
		t.Errorf("Expected outgoing edges ordered by line, got %+v", out)
	}
	in := s.Incoming(b.Path)
	if len(in) != 1 || in[0].From != a.Path {
		t.Errorf("Expected one incoming edge from b.ts, got %+v", in)
	}
}

func TestNewSnapshot_RejectsEdgeFromUnknownModule(t *testing.T) {
	m := &ModuleRecord{Path: "/r/x.ts", RelPath: "x.ts"}
	_, err := NewSnapshot("/r", []*ModuleRecord{m}, []ImportEdge{{From: "/r/y.ts", Specifier: "./x"}})
	if err == nil {
		t.Fatal("Expected error for edge from unknown module")
	}
}

func TestParseOutputFormat(t *testing.T) {
	if f, err := ParseOutputFormat("JSON"); err != nil || f != OutputFormatJSON {
		t.Errorf("Expected json, got %v (%v)", f, err)
	}
	if f, _ := ParseOutputFormat(""); f != OutputFormatText {
		t.Errorf("Expected text default, got %v", f)
	}
	_, err := ParseOutputFormat("html")
	if ErrorCode(err) != ErrCodeUnsupportedFormat {
		t.Errorf("Expected unsupported format error, got %v", err)
	}
}
