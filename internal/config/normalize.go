package config

import "github.com/John-Robertt/robotstxt-go/internal/model"

// Normalize applies the built-in defaults to opt and returns a Configuration
// that shares no memory with opt.
//
// Defaults: envs {"*": {"*": ["/"]}}, env = deployEnv (or "*" when empty),
// no sitemaps, forceHttps=false, verbose=true.
//
// After normalization every environment map has a "*" entry and, when a
// host layer is configured, so does the host map:
//   - a missing global "*" env is the built-in deny-all policy;
//   - a host's own environment map without "*" borrows the global "*" rules;
//   - a missing "*" host falls back to the global environment map.
func Normalize(opt Options, deployEnv string) model.Configuration {
	envs := opt.Envs.Clone()
	if envs == nil {
		envs = model.EnvironmentMap{}
	}
	if _, ok := envs[model.Wildcard]; !ok {
		envs[model.Wildcard] = model.DisallowAll()
	}

	var hosts model.HostConfig
	if opt.Hosts != nil {
		hosts = opt.Hosts.Clone()
		for name, entry := range hosts {
			if !entry.HasEnvs() {
				continue
			}
			if _, ok := entry.Envs[model.Wildcard]; !ok {
				entry.Envs[model.Wildcard] = envs[model.Wildcard].Clone()
			}
			hosts[name] = entry
		}
		if _, ok := hosts[model.Wildcard]; !ok {
			hosts[model.Wildcard] = model.HostEntry{Envs: envs.Clone()}
		}
	}

	active := deployEnv
	if opt.Env != nil {
		active = *opt.Env
	}
	if active == "" {
		active = model.Wildcard
	}

	verbose := true
	if opt.Verbose != nil {
		verbose = *opt.Verbose
	}

	var sitemaps []string
	if len(opt.Sitemaps) > 0 {
		sitemaps = append([]string(nil), opt.Sitemaps...)
	}

	return model.Configuration{
		Hosts:      hosts,
		Envs:       envs,
		ActiveEnv:  active,
		Sitemaps:   sitemaps,
		ForceHTTPS: opt.ForceHTTPS,
		Verbose:    verbose,
	}
}
