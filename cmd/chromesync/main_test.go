package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/1broseidon/chromesync/internal/config"
	"github.com/1broseidon/chromesync/internal/ipc"
)

func TestParseSwitch(t *testing.T) {
	tests := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{"on", true, false},
		{"ON", true, false},
		{" true ", true, false},
		{"1", true, false},
		{"off", false, false},
		{"no", false, false},
		{"disabled", false, false},
		{"maybe", false, true},
		{"", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseSwitch(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSwitch(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseSwitch(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPrintStatus(t *testing.T) {
	st := &ipc.StatusData{
		Config: ipc.ConfigData{PreserveFrame: true, Blur: true, Resizable: true},
		Chrome: ipc.ChromeData{
			TitleBarVisible: true,
			Background:      "#1e1e2e",
			Translucent:     true,
			Glyph:           "restore",
			WindowState:     "maximized",
		},
		Handle:         0x2a00003,
		TopLevel:       true,
		PersistedFlags: map[string]bool{"CHROMESYNC_NO_PRESERVE_FRAME": false, "CHROMESYNC_NO_NATIVE_TITLEBAR": true},
		Warnings:       []string{"set blur on window 0x2a00003: no compositor"},
		UptimeSeconds:  42,
		DaemonRunning:  true,
	}

	var buf bytes.Buffer
	printStatus(&buf, st)
	out := buf.String()

	for _, want := range []string{
		"window:            0x2a00003",
		"window_state:      maximized",
		"blur:              true",
		"background:        #1e1e2e (translucent)",
		"maximize_glyph:    restore",
		"center_enabled:    false",
		"env CHROMESYNC_NO_NATIVE_TITLEBAR: true",
		"uptime_seconds:    42",
		"warning: set blur on window 0x2a00003: no compositor",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "CHROMESYNC_NO_NATIVE_TITLEBAR") > strings.Index(out, "CHROMESYNC_NO_PRESERVE_FRAME") {
		t.Errorf("persisted flags not sorted:\n%s", out)
	}
}

func TestPrintStatus_NoWindow(t *testing.T) {
	var buf bytes.Buffer
	printStatus(&buf, &ipc.StatusData{DaemonRunning: true})
	if !strings.Contains(buf.String(), "window:            none") {
		t.Fatalf("output:\n%s", buf.String())
	}
}

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceFile, File: "/c.yaml", Line: 3, Column: 5}, "file:/c.yaml:3:5"},
		{config.Source{Kind: config.SourceFile, File: "/c.yaml"}, "file:/c.yaml"},
		{config.Source{Kind: config.SourceFile}, "file"},
		{config.Source{Kind: config.SourceDefault, Name: "defaults"}, "default:defaults"},
		{config.Source{Kind: config.SourceDefault}, "default"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Errorf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}
