package model

// Wildcard is the fallback key at every level: default user-agent,
// default environment and default host.
const Wildcard = "*"

// DisallowRule is the list of paths attached to one user-agent.
//
// Single marks a rule written as a bare path string; it always carries
// exactly one path. A non-single rule with no paths means "allow all" and
// renders as an empty "Disallow:" line.
type DisallowRule struct {
	Paths  []string
	Single bool
}

func Single(path string) DisallowRule {
	return DisallowRule{Paths: []string{path}, Single: true}
}

// Many copies paths, so callers may reuse their slice.
func Many(paths ...string) DisallowRule {
	return DisallowRule{Paths: copyPaths(paths)}
}

func (r DisallowRule) AllowAll() bool {
	return !r.Single && len(r.Paths) == 0
}

func (r DisallowRule) clone() DisallowRule {
	return DisallowRule{Paths: copyPaths(r.Paths), Single: r.Single}
}

func copyPaths(paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	out := make([]string, len(paths))
	copy(out, paths)
	return out
}

type AgentRule struct {
	Agent string
	Rule  DisallowRule
}

// RuleSet is an ordered user-agent -> rule mapping. Order of Entries is the
// output order. Build it with NewRuleSet or Set to keep agents unique.
type RuleSet struct {
	Entries []AgentRule
}

// NewRuleSet keeps the first position of an agent and the last value written
// for it, like assigning keys of an insertion-ordered map.
func NewRuleSet(entries ...AgentRule) RuleSet {
	var rs RuleSet
	for _, e := range entries {
		rs = rs.Set(e.Agent, e.Rule)
	}
	return rs
}

func (rs RuleSet) Len() int { return len(rs.Entries) }

func (rs RuleSet) Get(agent string) (DisallowRule, bool) {
	for _, e := range rs.Entries {
		if e.Agent == agent {
			return e.Rule, true
		}
	}
	return DisallowRule{}, false
}

// Set returns a copy of rs with agent bound to rule; rs is left untouched.
func (rs RuleSet) Set(agent string, rule DisallowRule) RuleSet {
	out := rs.Clone()
	for i := range out.Entries {
		if out.Entries[i].Agent == agent {
			out.Entries[i].Rule = rule.clone()
			return out
		}
	}
	out.Entries = append(out.Entries, AgentRule{Agent: agent, Rule: rule.clone()})
	return out
}

// Clone deep-copies the rule set.
func (rs RuleSet) Clone() RuleSet {
	if rs.Entries == nil {
		return RuleSet{}
	}
	out := RuleSet{Entries: make([]AgentRule, len(rs.Entries))}
	for i, e := range rs.Entries {
		out.Entries[i] = AgentRule{Agent: e.Agent, Rule: e.Rule.clone()}
	}
	return out
}

// DisallowAll is the built-in policy: every agent is denied everything.
func DisallowAll() RuleSet {
	return NewRuleSet(AgentRule{Agent: Wildcard, Rule: Many("/")})
}
