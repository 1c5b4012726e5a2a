package ui

import (
	"strings"
	"testing"
)

func TestHeaderUppercasesTitle(t *testing.T) {
	out := NewHeader("list bottles", "cellarctl bottles", nil).Render()

	if !strings.Contains(out, "LIST BOTTLES") {
		t.Error("header missing uppercased title")
	}
	if !strings.Contains(out, "cellarctl bottles") {
		t.Error("header missing command line")
	}
}

func TestHeaderRendersParams(t *testing.T) {
	out := RenderCommandHeader(HeaderConfig{
		Title:   "WATCH EVENTS",
		Command: "cellarctl watch",
		Params:  map[string]string{"Server": "http://10.0.0.5:8080"},
	})

	if !strings.Contains(out, "Server:") {
		t.Error("header missing param key")
	}
	if !strings.Contains(out, "http://10.0.0.5:8080") {
		t.Error("header missing param value")
	}
}

func TestHeaderSetWidthOverridesDetection(t *testing.T) {
	h := NewHeader("DISCOVER SERVERS", "cellarctl discover", nil).SetWidth(80)

	if h.Width != 80 {
		t.Errorf("Width = %d, want 80", h.Width)
	}
	if out := h.Render(); !strings.Contains(out, "DISCOVER SERVERS") {
		t.Error("header missing title after width override")
	}
}
