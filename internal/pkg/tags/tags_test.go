package tags

import (
	"reflect"
	"testing"
)

func TestExtractOrder(t *testing.T) {
	got := Extract("As a [Role], I want to [Action], so that [Why]")
	want := []string{"Role", "Action", "Why"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract = %v, want %v", got, want)
	}
}

func TestExtractKeepsDuplicates(t *testing.T) {
	got := Extract("[Role] asks [Role] about [Topic]")
	want := []string{"Role", "Role", "Topic"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract = %v, want %v", got, want)
	}
}

func TestExtractNone(t *testing.T) {
	if got := Extract("no placeholders here"); len(got) != 0 {
		t.Errorf("Extract = %v, want empty", got)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"As a [Role], I want to [Action]", true},
		{"As a [Role, I want to [Action]", false}, // unbalanced brackets
		{"plain text", true},
		{"[]", false},       // empty tag
		{"[  ]", false},     // whitespace-only tag
		{"a ] b [ c", true}, // balanced counts, no tags
		{"[A][B][C]", true},
	}
	for _, c := range cases {
		if got := Validate(c.text); got != c.want {
			t.Errorf("Validate(%q) = %v, want %v", c.text, got, c.want)
		}
	}
}
