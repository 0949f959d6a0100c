package shared

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseDateNormalizesToUTCDate(t *testing.T) {
	got, err := ParseDate("2024-03-15T18:30:00+07:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	got, err = ParseDate("2024-03-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestParseDateEmptyAndInvalid(t *testing.T) {
	got, err := ParseDate("")
	if err != nil || !got.IsZero() {
		t.Fatalf("expected zero time for empty input, got %v, %v", got, err)
	}
	if _, err := ParseDate("15/03/2024"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestParsePageQueryDefaultsAndCap(t *testing.T) {
	page := ParsePageQuery(httptest.NewRequest("GET", "/payslips", nil))
	if page.Limit != DefaultPageSize || page.Offset != 0 {
		t.Fatalf("unexpected defaults: %+v", page)
	}

	page = ParsePageQuery(httptest.NewRequest("GET", "/payslips?limit=1000&offset=20", nil))
	if page.Limit != MaxPageSize {
		t.Fatalf("expected limit capped at %d, got %d", MaxPageSize, page.Limit)
	}
	if page.Offset != 20 {
		t.Fatalf("expected offset 20, got %d", page.Offset)
	}

	page = ParsePageQuery(httptest.NewRequest("GET", "/payslips?limit=-5&offset=-1", nil))
	if page.Limit != DefaultPageSize || page.Offset != 0 {
		t.Fatalf("expected invalid values ignored, got %+v", page)
	}
}
