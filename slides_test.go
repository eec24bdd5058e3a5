package bizdoc

import "testing"

func TestCoverSubtitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		label   string
		company string
		want    string
	}{
		{label: "견적서", company: "주식회사 예시", want: "견적서 | 주식회사 예시"},
		{label: "회의록", company: "", want: "회의록"},
	}

	for _, tt := range tests {
		if got := coverSubtitle(tt.label, tt.company); got != tt.want {
			t.Errorf("coverSubtitle(%q, %q) = %q, want %q", tt.label, tt.company, got, tt.want)
		}
	}
}

func TestIssueDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format string
		want   string
	}{
		{format: "auto:korean", want: "2026년 10월 16일"},
		{format: "auto", want: "2026-10-16"},
		{format: "2025년 1월 1일", want: "2025년 1월 1일"},
		{format: "auto:", want: "2026-10-16"},
	}

	for _, tt := range tests {
		if got := issueDate(tt.format, testNow); got != tt.want {
			t.Errorf("issueDate(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}
}
