package models

import "testing"

func TestStatusTerminal(t *testing.T) {
	for _, s := range []Status{StatusQueued, StatusDownloading, StatusTranscribing, StatusAnalyzing, StatusEditing, StatusUploading} {
		if s.Terminal() {
			t.Errorf("%s must not be terminal", s)
		}
	}
	for _, s := range []Status{StatusCompleted, StatusFailed} {
		if !s.Terminal() {
			t.Errorf("%s must be terminal", s)
		}
	}
}

func TestCanAdvanceTo(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusQueued, StatusDownloading, true},
		{StatusDownloading, StatusTranscribing, true},
		{StatusTranscribing, StatusAnalyzing, true},
		{StatusAnalyzing, StatusEditing, true},
		{StatusEditing, StatusUploading, true},
		{StatusUploading, StatusCompleted, true},

		// Uploading is skippable when publishing is not configured.
		{StatusEditing, StatusCompleted, true},

		// Failure is reachable from any active state.
		{StatusQueued, StatusFailed, true},
		{StatusEditing, StatusFailed, true},

		// No backward moves.
		{StatusAnalyzing, StatusTranscribing, false},
		{StatusUploading, StatusDownloading, false},
		{StatusDownloading, StatusDownloading, false},

		// Terminal states are frozen.
		{StatusCompleted, StatusUploading, false},
		{StatusCompleted, StatusFailed, false},
		{StatusFailed, StatusDownloading, false},
		{StatusFailed, StatusFailed, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanAdvanceTo(tc.to); got != tc.want {
			t.Errorf("CanAdvanceTo(%s -> %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
