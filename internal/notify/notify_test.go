package notify

import (
	"errors"
	"testing"
	"unicode/utf8"
)

// fakeNotifier records deliveries and optionally fails.
type fakeNotifier struct {
	name     string
	err      error
	received []Notification
}

func (f *fakeNotifier) Name() string { return f.name }

func (f *fakeNotifier) Notify(n Notification) error {
	f.received = append(f.received, n)
	return f.err
}

func TestNotification_Text(t *testing.T) {
	tests := []struct {
		name         string
		notification Notification
		want         string
	}{
		{
			name:         "subject only",
			notification: Notification{Subject: "FULL TIME"},
			want:         "FULL TIME",
		},
		{
			name:         "subject and detail",
			notification: Notification{Subject: "GOOOOAL Brazil!!!", Detail: "NEYMAR (76') Brazil 1 - 2 Belgium"},
			want:         "GOOOOAL Brazil!!! NEYMAR (76') Brazil 1 - 2 Belgium",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.notification.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDispatcher_Dispatch(t *testing.T) {
	a := &fakeNotifier{name: "sms"}
	b := &fakeNotifier{name: "slack", err: errors.New("channel_not_found")}
	c := &fakeNotifier{name: "telegram"}

	d := NewDispatcher(a, b, c)
	n := Notification{Subject: "HALF TIME", Detail: "Brazil 0 - 2 Belgium"}

	results := d.Dispatch(n)

	if len(results) != 3 {
		t.Fatalf("Dispatch() returned %d deliveries, want 3", len(results))
	}

	// The failing middle channel must not stop the rest.
	for _, f := range []*fakeNotifier{a, b, c} {
		if len(f.received) != 1 {
			t.Errorf("channel %s received %d notifications, want 1", f.name, len(f.received))
		}
	}

	if results[0].Err != nil {
		t.Errorf("sms delivery error = %v, want nil", results[0].Err)
	}
	if results[1].Err == nil {
		t.Error("slack delivery error = nil, want failure")
	}
	if results[2].Err != nil {
		t.Errorf("telegram delivery error = %v, want nil", results[2].Err)
	}
}

func TestDispatcher_Dispatch_NoChannels(t *testing.T) {
	d := NewDispatcher()
	if results := d.Dispatch(Notification{Subject: "x"}); len(results) != 0 {
		t.Errorf("Dispatch() with no channels = %v, want empty", results)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short enough", "GOOOOAL Brazil!!!", 280, "GOOOOAL Brazil!!!"},
		{"exactly max", "abcde", 5, "abcde"},
		{"over limit", "abcdefghij", 8, "abcde..."},
		{"multi-byte name within limit", "GOOOOAL NICOLÁS OTAMENDI", 280, "GOOOOAL NICOLÁS OTAMENDI"},
		{"cut lands inside accented name", "GOOOOAL NICOLÁS OTAMENDI", 17, "GOOOOAL NICOLÁ..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.max)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate(%q, %d) produced invalid UTF-8: %q", tt.in, tt.max, got)
			}
			if n := utf8.RuneCountInString(got); n > tt.max {
				t.Errorf("truncate(%q, %d) is %d characters", tt.in, tt.max, n)
			}
		})
	}
}
