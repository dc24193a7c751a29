package model

// EnvironmentMap selects a RuleSet by deployment environment name.
// A normalized map always has a Wildcard entry.
type EnvironmentMap map[string]RuleSet

// HostEntry is the value of one host key: either a bare RuleSet (Envs == nil)
// or an environment layer of its own.
type HostEntry struct {
	Rules RuleSet
	Envs  EnvironmentMap
}

func (h HostEntry) HasEnvs() bool { return h.Envs != nil }

// HostConfig selects a HostEntry by request host name. A normalized map
// always has a Wildcard entry.
type HostConfig map[string]HostEntry

// Configuration is built once at startup (see config.Normalize) and is
// read-only afterwards; it is shared by all requests without locking.
type Configuration struct {
	Hosts      HostConfig // nil: no host layer
	Envs       EnvironmentMap
	ActiveEnv  string
	Sitemaps   []string
	ForceHTTPS bool
	Verbose    bool
}

func (m EnvironmentMap) Clone() EnvironmentMap {
	if m == nil {
		return nil
	}
	out := make(EnvironmentMap, len(m))
	for k, rs := range m {
		out[k] = rs.Clone()
	}
	return out
}

func (h HostEntry) Clone() HostEntry {
	return HostEntry{Rules: h.Rules.Clone(), Envs: h.Envs.Clone()}
}

func (c HostConfig) Clone() HostConfig {
	if c == nil {
		return nil
	}
	out := make(HostConfig, len(c))
	for k, e := range c {
		out[k] = e.Clone()
	}
	return out
}
