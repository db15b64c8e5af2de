package timex

import (
	"testing"
	"time"
)

func TestTimeUnixAccessors(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tt := Time(fixed)

	if tt.Unix() != fixed.Unix() {
		t.Errorf("Unix() = %v, want %v", tt.Unix(), fixed.Unix())
	}
	if tt.UnixMilli() != fixed.UnixMilli() {
		t.Errorf("UnixMilli() = %v, want %v", tt.UnixMilli(), fixed.UnixMilli())
	}
	if tt.UnixMicro() != fixed.UnixMicro() {
		t.Errorf("UnixMicro() = %v, want %v", tt.UnixMicro(), fixed.UnixMicro())
	}
	if tt.UnixNano() != fixed.UnixNano() {
		t.Errorf("UnixNano() = %v, want %v", tt.UnixNano(), fixed.UnixNano())
	}

	// 值类型应保持创建时刻, 而不是每次取 time.Now()
	time.Sleep(10 * time.Millisecond)
	if tt.Unix() != fixed.Unix() {
		t.Errorf("Unix() drifted after sleep: got %v, want %v", tt.Unix(), fixed.Unix())
	}
}
