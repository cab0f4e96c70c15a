package platform

import (
	"strings"
	"testing"
)

func TestGateCheck(t *testing.T) {
	cases := []struct {
		name       string
		version    string
		compatible bool
	}{
		{"below minimum", "3.4.9", false},
		{"exact minimum", "3.5.0", true},
		{"above minimum", "4.0.0", true},
		{"missing version", "", false},
		{"garbage version", "not-a-version", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gate := NewGate()
			got := gate.Check(Info{Name: "Storefront", Version: tc.version})
			if got != tc.compatible {
				t.Fatalf("Check(%q) = %v, want %v", tc.version, got, tc.compatible)
			}
			if gate.Enabled() != tc.compatible {
				t.Errorf("Enabled() = %v, want %v", gate.Enabled(), tc.compatible)
			}

			notices := gate.AdminNotices()
			if tc.compatible {
				if len(notices) != 0 {
					t.Errorf("expected no admin notices, got %v", notices)
				}
				return
			}
			if len(notices) != 1 {
				t.Fatalf("expected one admin notice, got %d", len(notices))
			}
		})
	}
}

func TestGateWarningNoticeContent(t *testing.T) {
	gate := NewGate()
	gate.Check(Info{Name: "Storefront", Version: "3.0.0"})

	notices := gate.AdminNotices()
	if len(notices) != 1 {
		t.Fatalf("expected one notice, got %d", len(notices))
	}
	for _, want := range []string{PluginName, "Storefront", MinPlatformVersion} {
		if !strings.Contains(notices[0], want) {
			t.Errorf("notice missing %q: %s", want, notices[0])
		}
	}
}
