package transfer

import "testing"

func TestFormatSize(t *testing.T) {
	tests := []struct {
		name  string
		bytes uint64
		want  string
	}{
		{name: "zero", bytes: 0, want: "0 B"},
		{name: "below_one_kb", bytes: 1023, want: "1023 B"},
		{name: "one_kb", bytes: 1024, want: "1 KB"},
		{name: "one_and_a_half_kb", bytes: 1536, want: "1.5 KB"},
		{name: "one_mb", bytes: 1 << 20, want: "1 MB"},
		{name: "one_gb", bytes: 1 << 30, want: "1 GB"},
		{name: "two_and_a_quarter_gb", bytes: 2415919104, want: "2.25 GB"},
		{name: "one_tb", bytes: 1 << 40, want: "1 TB"},
		{name: "one_pb", bytes: 1 << 50, want: "1 PB"},
		{name: "beyond_pb_stays_pb", bytes: 1 << 60, want: "1024 PB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatSize(tt.bytes); got != tt.want {
				t.Errorf("FormatSize(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		want    string
	}{
		{name: "zero", seconds: 0, want: "00:00:00"},
		{name: "sub_second_truncates", seconds: 0.9, want: "00:00:00"},
		{name: "one_minute", seconds: 60, want: "00:01:00"},
		{name: "hour_minute_second", seconds: 3661, want: "01:01:01"},
		{name: "just_under_a_minute", seconds: 59.9, want: "00:00:59"},
		{name: "hours_uncapped", seconds: 90000, want: "25:00:00"},
		{name: "negative_clamps", seconds: -5, want: "00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDuration(tt.seconds); got != tt.want {
				t.Errorf("FormatDuration(%v) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}
