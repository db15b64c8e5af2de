package domain

import (
	"testing"
	"time"
)

func TestPeriodKey(t *testing.T) {
	p := PeriodOf(time.Date(2024, time.March, 31, 23, 59, 0, 0, time.UTC))
	if got := p.Key(); got != "2024-03" {
		t.Errorf("Key() = %q, want %q", got, "2024-03")
	}
}

func TestPeriodFormat(t *testing.T) {
	p := Period{Year: 2024, Month: time.March}

	tests := []struct {
		layout string
		want   string
	}{
		{"2006-01", "2024-03"},
		{"2006-01 Monthly", "2024-03 Monthly"},
		{"Jan 2006", "Mar 2024"},
	}
	for _, tt := range tests {
		if got := p.Format(tt.layout); got != tt.want {
			t.Errorf("Format(%q) = %q, want %q", tt.layout, got, tt.want)
		}
	}
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		name   string
		layout string
		want   Period
		ok     bool
	}{
		{"2024-03", "2006-01", Period{2024, time.March}, true},
		{"2024-12", "2006-01", Period{2024, time.December}, true},
		{"Weekly Plan", "2006-01", Period{}, false},
		{"2024-13", "2006-01", Period{}, false},
		{"", "2006-01", Period{}, false},
	}
	for _, tt := range tests {
		got, ok := ParsePeriod(tt.name, tt.layout)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParsePeriod(%q) = %v, %v, want %v, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}
