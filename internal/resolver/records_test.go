package resolver_test

import (
	"errors"
	"testing"

	"wikiepisodes/internal/resolver"
	"wikiepisodes/internal/services"
)

func TestBuildRecordsPairsInOrder(t *testing.T) {
	markup := `{{Episode table |episodes=
{{Episode list
 | EpisodeNumber = 1
 | Title = [[Pilot (Breaking Bad)|Pilot]]
 | ShortSummary = Walter White, a ''chemistry'' instructor<ref>cite</ref>, is diagnosed.
}}
{{Episode list
 | EpisodeNumber = 2
 | Title = Cat's in the Bag...
 | ShortSummary = Walt and [[Jesse Pinkman|Jesse]] clean up.
}}
}}`

	records, err := resolver.BuildRecords(markup, 3)
	if err != nil {
		t.Fatalf("BuildRecords returned error: %v", err)
	}
	want := []resolver.EpisodeRecord{
		{Season: 3, Title: "Pilot", Plot: `Walter White, a "chemistry" instructor, is diagnosed.`},
		{Season: 3, Title: "Cat's in the Bag...", Plot: "Walt and Jesse clean up."},
	}
	if len(records) != len(want) {
		t.Fatalf("expected %d records, got %d: %+v", len(want), len(records), records)
	}
	for i := range want {
		if records[i] != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, records[i], want[i])
		}
	}
}

func TestBuildRecordsMismatchKeepsPairs(t *testing.T) {
	markup := "| Title = One\n| ShortSummary = First.\n| Title = Two\n"

	records, err := resolver.BuildRecords(markup, 1)
	if !errors.Is(err, services.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	var pairing *resolver.PairingError
	if !errors.As(err, &pairing) || pairing.Titles != 2 || pairing.Plots != 1 {
		t.Fatalf("unexpected pairing error: %#v", err)
	}
	if len(records) != 1 || records[0].Title != "One" || records[0].Plot != "First." {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestBuildRecordsEmptyMarkup(t *testing.T) {
	records, err := resolver.BuildRecords("", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %+v", records)
	}
}
