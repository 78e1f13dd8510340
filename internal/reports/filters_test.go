package reports

import (
	"testing"
	"time"
)

func TestGetDateRangePresets(t *testing.T) {
	now := time.Now()

	start, end, err := GetDateRange(DateRangeDaily, "", "")
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	if start.Hour() != 0 || start.Day() != now.Day() {
		t.Fatalf("daily start not local midnight: %v", start)
	}
	if !end.After(start) || end.Sub(start) >= 24*time.Hour {
		t.Fatalf("daily window wrong: %v .. %v", start, end)
	}

	start, end, err = GetDateRange(DateRangeWeekly, "", "")
	if err != nil {
		t.Fatalf("weekly: %v", err)
	}
	if days := end.Sub(start).Hours() / 24; days < 6 || days > 7 {
		t.Fatalf("weekly span: %.2f days", days)
	}

	start, _, err = GetDateRange(DateRangeMonthly, "", "")
	if err != nil {
		t.Fatalf("monthly: %v", err)
	}
	if start.Day() != 1 {
		t.Fatalf("monthly start not first of month: %v", start)
	}

	start, end, err = GetDateRange(DateRangeYearly, "", "")
	if err != nil {
		t.Fatalf("yearly: %v", err)
	}
	if start.Month() != time.January || start.Day() != 1 || end.Month() != time.December {
		t.Fatalf("yearly window wrong: %v .. %v", start, end)
	}
}

func TestGetDateRangeCustom(t *testing.T) {
	start, end, err := GetDateRange(DateRangeCustom, "2026-01-10", "2026-01-20")
	if err != nil {
		t.Fatalf("custom: %v", err)
	}
	if start.Day() != 10 || end.Day() != 20 {
		t.Fatalf("custom bounds: %v .. %v", start, end)
	}
	// End bound covers the whole last day.
	if end.Hour() != 23 || end.Minute() != 59 {
		t.Fatalf("custom end not end of day: %v", end)
	}

	if _, _, err := GetDateRange(DateRangeCustom, "", ""); err == nil {
		t.Fatalf("custom without dates accepted")
	}
	if _, _, err := GetDateRange(DateRangeCustom, "2026-02-01", "2026-01-01"); err == nil {
		t.Fatalf("inverted custom range accepted")
	}
	if _, _, err := GetDateRange(DateRangeCustom, "not-a-date", "2026-01-01"); err == nil {
		t.Fatalf("malformed date accepted")
	}
}

func TestGetDateRangeDefaultsToWeekly(t *testing.T) {
	start, end, err := GetDateRange("bogus", "", "")
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	ws, we, err := GetDateRange(DateRangeWeekly, "", "")
	if err != nil {
		t.Fatalf("weekly: %v", err)
	}
	if start.Day() != ws.Day() || end.Day() != we.Day() {
		t.Fatalf("default is not the weekly window: %v .. %v", start, end)
	}
}
