// Package resolve selects the robots policy for one request.
//
// Lookup is two-level: host, then environment. Each level falls back to its
// "*" entry; when nothing matches the result is an empty RuleSet. Matching is
// exact and case-sensitive. Resolution never fails and reads nothing but its
// arguments.
package resolve

import "github.com/John-Robertt/robotstxt-go/internal/model"

// Source tells which layer produced a Resolution.
type Source string

const (
	SourceHost    Source = "host"     // bare RuleSet under a host key
	SourceHostEnv Source = "host_env" // environment map under a host key
	SourceEnv     Source = "env"      // global environment map
	SourceEmpty   Source = "empty"    // no "*" anywhere on the chosen path
)

type Resolution struct {
	RuleSet model.RuleSet
	Host    string // host key that matched ("" when there is no host layer or no match)
	Env     string // environment key that matched ("" for SourceHost and SourceEmpty)
	Source  Source
}

// Resolve returns the RuleSet for req. See Explain for the provenance.
func Resolve(cfg *model.Configuration, req model.RequestContext) model.RuleSet {
	return Explain(cfg, req).RuleSet
}

// Explain resolves req against cfg and reports which keys were used.
// The returned RuleSet is a copy; callers may keep it.
func Explain(cfg *model.Configuration, req model.RequestContext) Resolution {
	if cfg == nil {
		return Resolution{Source: SourceEmpty}
	}

	var res Resolution
	envs := cfg.Envs
	if cfg.Hosts != nil {
		if key, entry, ok := lookupHost(cfg.Hosts, req.Host); ok {
			res.Host = key
			if !entry.HasEnvs() {
				res.RuleSet = entry.Rules.Clone()
				res.Source = SourceHost
				return res
			}
			envs = entry.Envs
		}
	}

	key, rs, ok := lookupEnv(envs, cfg.ActiveEnv)
	if !ok {
		res.Source = SourceEmpty
		return res
	}
	res.RuleSet = rs.Clone()
	res.Env = key
	res.Source = SourceEnv
	if res.Host != "" {
		res.Source = SourceHostEnv
	}
	return res
}

func lookupHost(hosts model.HostConfig, host string) (string, model.HostEntry, bool) {
	if entry, ok := hosts[host]; ok {
		return host, entry, true
	}
	if entry, ok := hosts[model.Wildcard]; ok {
		return model.Wildcard, entry, true
	}
	return "", model.HostEntry{}, false
}

func lookupEnv(envs model.EnvironmentMap, env string) (string, model.RuleSet, bool) {
	if rs, ok := envs[env]; ok {
		return env, rs, true
	}
	if rs, ok := envs[model.Wildcard]; ok {
		return model.Wildcard, rs, true
	}
	return "", model.RuleSet{}, false
}
