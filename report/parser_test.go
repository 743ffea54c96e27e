package report

import (
	"reflect"
	"testing"
)

func TestParseSections(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []Section
	}{
		{
			name: "two sections",
			text: "Overview:\nLine A\nLine B\nRisk:\nLine C\n",
			want: []Section{
				{Title: "Overview:", Body: []string{"Line A", "Line B"}},
				{Title: "Risk:", Body: []string{"Line C"}},
			},
		},
		{
			name: "document title is not a boundary",
			text: DocumentTitle + "\n====================\nOverview:\nBody line\n",
			want: []Section{
				{Title: "Overview:", Body: []string{"Body line"}},
			},
		},
		{
			name: "short colon line stays in body",
			text: "Overview:\nQ3:\nmore text\n",
			want: []Section{
				{Title: "Overview:", Body: []string{"Q3:", "more text"}},
			},
		},
		{
			name: "text before first heading is dropped",
			text: "stray preamble\nOverview:\nkept\n",
			want: []Section{
				{Title: "Overview:", Body: []string{"kept"}},
			},
		},
		{
			name: "blank lines ignored",
			text: "Overview:\n\nLine A\n\n\nLine B\n",
			want: []Section{
				{Title: "Overview:", Body: []string{"Line A", "Line B"}},
			},
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseSections(tc.text)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("ParseSections() = %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestParseSectionsDropsEmptySection(t *testing.T) {
	got := ParseSections("First heading:\nSecond heading:\ncontent\n")
	if len(got) != 1 {
		t.Fatalf("expected 1 section, got %d: %#v", len(got), got)
	}
	if got[0].Title != "Second heading:" || !reflect.DeepEqual(got[0].Body, []string{"content"}) {
		t.Errorf("section = %#v", got[0])
	}
}
