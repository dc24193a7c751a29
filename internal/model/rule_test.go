package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewRuleSet_KeepsFirstPositionLastValue(t *testing.T) {
	rs := NewRuleSet(
		AgentRule{Agent: "*", Rule: Many("/")},
		AgentRule{Agent: "Fred", Rule: Many()},
		AgentRule{Agent: "*", Rule: Single("/private")},
	)

	want := RuleSet{Entries: []AgentRule{
		{Agent: "*", Rule: DisallowRule{Paths: []string{"/private"}, Single: true}},
		{Agent: "Fred", Rule: DisallowRule{}},
	}}
	if diff := cmp.Diff(want, rs); diff != "" {
		t.Fatalf("rule set mismatch (-want +got):\n%s", diff)
	}
}

func TestRuleSet_SetDoesNotMutateReceiver(t *testing.T) {
	base := NewRuleSet(AgentRule{Agent: "*", Rule: Many("/")})
	next := base.Set("Fred", Many("/a", "/b"))

	if base.Len() != 1 {
		t.Fatalf("base len=%d, want=1", base.Len())
	}
	if next.Len() != 2 {
		t.Fatalf("next len=%d, want=2", next.Len())
	}
	if _, ok := base.Get("Fred"); ok {
		t.Fatalf("base should not see Fred")
	}
}

func TestMany_CopiesInput(t *testing.T) {
	paths := []string{"/a", "/b"}
	r := Many(paths...)
	paths[0] = "/changed"
	if r.Paths[0] != "/a" {
		t.Fatalf("paths[0]=%q, want=%q", r.Paths[0], "/a")
	}
}

func TestDisallowRule_AllowAll(t *testing.T) {
	tests := []struct {
		name string
		rule DisallowRule
		want bool
	}{
		{"empty many", Many(), true},
		{"many with path", Many("/"), false},
		{"single", Single("/"), false},
		{"single empty path", Single(""), false},
	}
	for _, tt := range tests {
		if got := tt.rule.AllowAll(); got != tt.want {
			t.Fatalf("%s: AllowAll()=%v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestHostConfig_CloneIsDeep(t *testing.T) {
	hc := HostConfig{
		"martha": {Envs: EnvironmentMap{"*": DisallowAll()}},
	}
	cp := hc.Clone()
	cp["martha"].Envs["*"].Entries[0].Rule.Paths[0] = "/x"

	if got := hc["martha"].Envs["*"].Entries[0].Rule.Paths[0]; got != "/" {
		t.Fatalf("original mutated through clone: %q", got)
	}
}
