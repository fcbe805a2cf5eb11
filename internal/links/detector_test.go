package links

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		name        string
		location    string
		description string
		want        string
	}{
		{
			name:     "zoom in location",
			location: "https://acme.zoom.us/j/123456789?pwd=abc",
			want:     "https://acme.zoom.us/j/123456789?pwd=abc",
		},
		{
			name:        "location wins over description",
			location:    "https://meet.google.com/abc-defg-hij",
			description: "https://acme.zoom.us/j/1",
			want:        "https://meet.google.com/abc-defg-hij",
		},
		{
			name:        "known service beats earlier generic url",
			description: "Agenda: https://example.com/doc then https://acme.webex.com/meet/bob",
			want:        "https://acme.webex.com/meet/bob",
		},
		{
			name:        "generic fallback",
			description: "Notes at https://example.com/notes",
			want:        "https://example.com/notes",
		},
		{
			name:     "nothing",
			location: "Room 4",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.location, tt.description); got != tt.want {
				t.Errorf("Detect() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectFromEvent(t *testing.T) {
	if got := DetectFromEvent("", "https://meet.google.com/x-y-z", "https://example.com"); got != "https://meet.google.com/x-y-z" {
		t.Errorf("non-meeting URL field should not win, got %q", got)
	}
	if got := DetectFromEvent("", "https://meet.google.com/x-y-z", "https://acme.zoom.us/j/42"); got != "https://acme.zoom.us/j/42" {
		t.Errorf("meeting URL field should win, got %q", got)
	}
}

func TestDetectAll(t *testing.T) {
	got := DetectAll(
		"https://acme.zoom.us/j/42",
		"Docs https://example.com/doc and again https://acme.zoom.us/j/42",
		"https://example.com/event",
	)
	want := []Link{
		{Service: "Zoom", URL: "https://acme.zoom.us/j/42"},
		{URL: "https://example.com/event"},
		{URL: "https://example.com/doc"},
	}
	if len(got) != len(want) {
		t.Fatalf("DetectAll() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("link %d = %v, want %v", i, got[i], want[i])
		}
	}
	if got[0].Label() != "Join Zoom" || got[1].Label() != "https://example.com/event" {
		t.Errorf("unexpected labels %q, %q", got[0].Label(), got[1].Label())
	}
}

func TestService(t *testing.T) {
	for url, want := range map[string]string{
		"https://teams.microsoft.com/l/meetup-join/19%3ameeting/0": "Teams",
		"https://meet.google.com/abc":                              "Meet",
		"https://example.com":                                      "",
	} {
		if got := Service(url); got != want {
			t.Errorf("Service(%q) = %q, want %q", url, got, want)
		}
	}
}
