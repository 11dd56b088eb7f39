package document

import (
	"slices"
	"testing"
)

func TestLocate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		texts   []string
		aliases []string
		want    int
		found   bool
	}{
		{
			name:    "first matching paragraph",
			texts:   []string{"John Doe", "Summary", "text", "Summary again"},
			aliases: []string{"summary"},
			want:    1,
			found:   true,
		},
		{
			name:    "alias priority beats document position",
			texts:   []string{"Summary", "intro", "Profile Summary", "text"},
			aliases: Aliases(SectionSummary),
			want:    2,
			found:   true,
		},
		{
			name:    "case insensitive and trimmed",
			texts:   []string{"name", "   CORE COMPETENCIES  "},
			aliases: Aliases(SectionSkills),
			want:    1,
			found:   true,
		},
		{
			name:    "not found",
			texts:   []string{"name", "education"},
			aliases: Aliases(SectionExperience),
			want:    -1,
			found:   false,
		},
		{
			name:    "empty aliases",
			texts:   []string{"skills"},
			aliases: nil,
			want:    -1,
			found:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			doc := New(tt.texts...)
			got, ok := Locate(doc, tt.aliases)
			if got != tt.want || ok != tt.found {
				t.Fatalf("expected (%d, %v), got (%d, %v)", tt.want, tt.found, got, ok)
			}

			again, _ := Locate(doc, tt.aliases)
			if again != got {
				t.Fatalf("locate is not idempotent: %d then %d", got, again)
			}
		})
	}
}

func TestAliasesReturnsCopy(t *testing.T) {
	aliases := Aliases(SectionSkills)
	aliases[0] = "changed"

	if Aliases(SectionSkills)[0] != "core competencies" {
		t.Fatalf("heading aliases were mutated through the returned slice")
	}
}

func TestApplyLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		texts []string
		start int
		lines []string
		want  []string
	}{
		{
			name:  "overwrite inside document",
			texts: []string{"a", "b", "c", "d"},
			start: 1,
			lines: []string{"x", "y"},
			want:  []string{"a", "x", "y", "d"},
		},
		{
			name:  "append past the end",
			texts: []string{"a", "b"},
			start: 1,
			lines: []string{"x", "y", "z"},
			want:  []string{"a", "x", "y", "z"},
		},
		{
			name:  "start after the end appends",
			texts: []string{"a"},
			start: 5,
			lines: []string{"x"},
			want:  []string{"a", "x"},
		},
		{
			name:  "shorter section leaves stale paragraphs",
			texts: []string{"Skills", "old 1", "old 2", "old 3"},
			start: 1,
			lines: []string{"new"},
			want:  []string{"Skills", "new", "old 2", "old 3"},
		},
		{
			name:  "no lines",
			texts: []string{"a"},
			start: 0,
			lines: nil,
			want:  []string{"a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			doc := New(tt.texts...)
			before := doc.Texts()

			ApplyLines(doc, tt.start, tt.lines)

			got := doc.Texts()
			if !slices.Equal(got, tt.want) {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
			if len(got) < len(before) {
				t.Fatalf("document shrank from %d to %d paragraphs", len(before), len(got))
			}
			for i := 0; i < tt.start && i < len(before); i++ {
				if got[i] != before[i] {
					t.Fatalf("paragraph %d before start changed: %q -> %q", i, before[i], got[i])
				}
			}
		})
	}
}
