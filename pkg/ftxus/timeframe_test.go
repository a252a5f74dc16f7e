package ftxus

import "testing"

// go test -v --run TestParseTimeframe
func TestParseTimeframe(t *testing.T) {
	meta, err := ParseTimeframe(240)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Label != "4h" || meta.Minutes != 240 {
		t.Errorf("unexpected meta: %+v", meta)
	}

	if _, err := ParseTimeframe(7); err == nil {
		t.Error("expected error for unsupported duration")
	}
}

// go test -v --run TestIsValidTimeframe
func TestIsValidTimeframe(t *testing.T) {
	for _, minutes := range []int{1, 5, 10, 15, 30, 60, 120, 240, 360, 720, 1440} {
		if !IsValidTimeframe(minutes) {
			t.Errorf("%d minutes should be supported", minutes)
		}
	}
	for _, minutes := range []int{0, 2, 45, 480, 10080} {
		if IsValidTimeframe(minutes) {
			t.Errorf("%d minutes should not be supported", minutes)
		}
	}
}
