package listutil

import (
	"net/url"
	"testing"
)

func TestParsePageParams(t *testing.T) {
	tests := []struct {
		name  string
		query url.Values
		want  PageParams
	}{
		{"defaults", url.Values{}, PageParams{Page: 1, PerPage: DefaultPerPage}},
		{"valid", url.Values{"page": {"3"}, "per_page": {"50"}}, PageParams{Page: 3, PerPage: 50}},
		{"per_page not offered", url.Values{"per_page": {"25"}}, PageParams{Page: 1, PerPage: DefaultPerPage}},
		{"negative page", url.Values{"page": {"-1"}}, PageParams{Page: 1, PerPage: DefaultPerPage}},
		{"garbage page", url.Values{"page": {"x"}}, PageParams{Page: 1, PerPage: DefaultPerPage}},
		{"limit", url.Values{"limit": {"5"}}, PageParams{Page: 1, PerPage: 5}},
		{"limit too large", url.Values{"limit": {"500"}}, PageParams{Page: 1, PerPage: DefaultPerPage}},
		{"per_page wins over limit", url.Values{"limit": {"5"}, "per_page": {"10"}}, PageParams{Page: 1, PerPage: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParsePageParams(tt.query); got != tt.want {
				t.Errorf("ParsePageParams(%v) = %+v, want %+v", tt.query, got, tt.want)
			}
		})
	}
}

func TestNewPageInfo(t *testing.T) {
	tests := []struct {
		name       string
		params     PageParams
		total      int
		wantPage   int
		wantPages  int
		wantOffset int
		wantNext   bool
	}{
		{"empty", PageParams{Page: 1, PerPage: 20}, 0, 1, 1, 0, false},
		{"exact fit", PageParams{Page: 1, PerPage: 10}, 10, 1, 1, 0, false},
		{"second of three", PageParams{Page: 2, PerPage: 10}, 25, 2, 3, 10, true},
		{"past the end clamps", PageParams{Page: 9, PerPage: 10}, 25, 3, 3, 20, false},
		{"zero per page uses default", PageParams{Page: 1}, 45, 1, 3, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewPageInfo(tt.params, tt.total)
			if info.Page != tt.wantPage || info.TotalPages != tt.wantPages {
				t.Errorf("page %d of %d, want %d of %d", info.Page, info.TotalPages, tt.wantPage, tt.wantPages)
			}
			if info.Offset() != tt.wantOffset {
				t.Errorf("Offset = %d, want %d", info.Offset(), tt.wantOffset)
			}
			if info.HasNext() != tt.wantNext {
				t.Errorf("HasNext = %v, want %v", info.HasNext(), tt.wantNext)
			}
			if info.Total != tt.total {
				t.Errorf("Total = %d, want %d", info.Total, tt.total)
			}
		})
	}
}
