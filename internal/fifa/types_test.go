package fifa

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "upstream layout with fractional seconds",
			input: `"2018-06-27T18:18:39.61Z"`,
			want:  time.Date(2018, 6, 27, 18, 18, 39, 610000000, time.UTC),
		},
		{
			name:  "upstream layout without fraction",
			input: `"2018-07-06T19:31:32Z"`,
			want:  time.Date(2018, 7, 6, 19, 31, 32, 0, time.UTC),
		},
		{
			name:  "rfc3339 with offset",
			input: `"2018-07-06T19:31:32+02:00"`,
			want:  time.Date(2018, 7, 6, 17, 31, 32, 0, time.UTC),
		},
		{
			name:  "null is zero",
			input: `null`,
			want:  time.Time{},
		},
		{
			name:  "empty string is zero",
			input: `""`,
			want:  time.Time{},
		},
		{
			name:    "garbage",
			input:   `"yesterday"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			err := json.Unmarshal([]byte(tt.input), &ts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && !ts.Time.Equal(tt.want) {
				t.Errorf("Unmarshal(%s) = %v, want %v", tt.input, ts.Time, tt.want)
			}
		})
	}
}

func TestTimestamp_MarshalRoundTrip(t *testing.T) {
	orig := Timestamp{Time: time.Date(2018, 7, 6, 19, 31, 32, 520000000, time.UTC)}

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var parsed Timestamp
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Unmarshal(%s) error: %v", data, err)
	}
	if !parsed.Time.Equal(orig.Time) {
		t.Errorf("round trip = %v, want %v", parsed.Time, orig.Time)
	}
}

func TestTeam_DisplayName(t *testing.T) {
	named := Team{Name: []LocalizedName{{Locale: "en-GB", Description: "Brazil"}}}
	if got := named.DisplayName(); got != "Brazil" {
		t.Errorf("DisplayName() = %q, want Brazil", got)
	}

	var unnamed Team
	if got := unnamed.DisplayName(); got != "" {
		t.Errorf("DisplayName() of unnamed team = %q, want empty", got)
	}
}
