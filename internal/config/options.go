package config

import (
	"fmt"

	"github.com/John-Robertt/robotstxt-go/internal/model"
)

// Options is the user-supplied option set before defaults are applied.
// nil maps and pointers mean "not set".
type Options struct {
	Envs       model.EnvironmentMap // nil: built-in deny-all
	Env        *string              // nil: deployment environment
	Hosts      model.HostConfig     // nil: no host layer
	Sitemaps   []string
	ForceHTTPS bool
	Verbose    *bool // nil: true
}

const (
	hintRuleSet = `expected: {"<user-agent>": "<path>" | ["<path>", ...] | []}`
	hintEnvs    = `expected: {"<env>": {"<user-agent>": [...]}, "*": {...}}`
	hintSitemap = `expected: "<path-or-url>" | ["<path-or-url>", ...]`
)

func optionsFromNode(source string, root node) (Options, error) {
	var opt Options
	if root.kind == kindNull {
		// Empty document: everything defaults.
		return opt, nil
	}
	if root.kind != kindMap {
		return Options{}, validateError(source, root, "", "配置顶层必须是 mapping", "expected keys: envs, env, hosts, sitemap, forceHttps, verbose")
	}

	for _, f := range root.fields {
		var err error
		switch f.key {
		case "envs":
			opt.Envs, err = environmentMapFromNode(source, f.value, "envs")
		case "env":
			if f.value.kind != kindString {
				return Options{}, validateError(source, f.value, "env", "env 必须是字符串", "")
			}
			env := f.value.text
			opt.Env = &env
		case "hosts":
			opt.Hosts, err = hostConfigFromNode(source, f.value)
		case "sitemap":
			opt.Sitemaps, err = sitemapsFromNode(source, f.value)
		case "forceHttps", "force_https":
			if f.value.kind != kindBool {
				return Options{}, validateError(source, f.value, f.key, f.key+" 必须是布尔值", "")
			}
			opt.ForceHTTPS = f.value.truth
		case "verbose":
			if f.value.kind != kindBool {
				return Options{}, validateError(source, f.value, "verbose", "verbose 必须是布尔值", "")
			}
			v := f.value.truth
			opt.Verbose = &v
		default:
			return Options{}, validateError(source, f.value, f.key, fmt.Sprintf("不支持的配置项：%s", f.key),
				"expected keys: envs, env, hosts, sitemap, forceHttps, verbose")
		}
		if err != nil {
			return Options{}, err
		}
	}
	return opt, nil
}

func environmentMapFromNode(source string, n node, path string) (model.EnvironmentMap, error) {
	if n.kind != kindMap {
		return nil, validateError(source, n, path, path+" 必须是 mapping", hintEnvs)
	}
	envs := make(model.EnvironmentMap, len(n.fields))
	for _, f := range n.fields {
		rs, err := ruleSetFromNode(source, f.value, path+"."+f.key)
		if err != nil {
			return nil, err
		}
		envs[f.key] = rs
	}
	return envs, nil
}

// hostConfigFromNode tells the two host value shapes apart: a mapping whose
// values are all mappings is an environment layer, one with no mapping values
// is a RuleSet, and a mix of both is rejected.
func hostConfigFromNode(source string, n node) (model.HostConfig, error) {
	if n.kind != kindMap {
		return nil, validateError(source, n, "hosts", "hosts 必须是 mapping", "")
	}
	hosts := make(model.HostConfig, len(n.fields))
	for _, f := range n.fields {
		path := "hosts." + f.key
		if f.value.kind != kindMap {
			return nil, validateError(source, f.value, path, path+" 必须是 mapping", hintRuleSet)
		}

		nested := 0
		for _, inner := range f.value.fields {
			if inner.value.kind == kindMap {
				nested++
			}
		}
		switch {
		case nested > 0 && nested == len(f.value.fields):
			envs, err := environmentMapFromNode(source, f.value, path)
			if err != nil {
				return nil, err
			}
			hosts[f.key] = model.HostEntry{Envs: envs}
		case nested > 0:
			return nil, validateError(source, f.value, path,
				path+" 不能同时包含环境（mapping）与 user-agent 规则", hintEnvs)
		default:
			rs, err := ruleSetFromNode(source, f.value, path)
			if err != nil {
				return nil, err
			}
			hosts[f.key] = model.HostEntry{Rules: rs}
		}
	}
	return hosts, nil
}

func ruleSetFromNode(source string, n node, path string) (model.RuleSet, error) {
	if n.kind != kindMap {
		return model.RuleSet{}, validateError(source, n, path, path+" 必须是 mapping", hintRuleSet)
	}
	var rs model.RuleSet
	for _, f := range n.fields {
		rule, err := ruleFromNode(source, f.value, path+"."+f.key)
		if err != nil {
			return model.RuleSet{}, err
		}
		rs = rs.Set(f.key, rule)
	}
	return rs, nil
}

func ruleFromNode(source string, n node, path string) (model.DisallowRule, error) {
	switch n.kind {
	case kindString:
		return model.Single(n.text), nil
	case kindList:
		paths := make([]string, 0, len(n.items))
		for _, item := range n.items {
			if item.kind != kindString {
				return model.DisallowRule{}, validateError(source, item, path,
					fmt.Sprintf("%s 的路径必须是字符串，得到 %s", path, item.kind), hintRuleSet)
			}
			paths = append(paths, item.text)
		}
		return model.Many(paths...), nil
	default:
		return model.DisallowRule{}, validateError(source, n, path,
			fmt.Sprintf("%s 必须是路径字符串或字符串列表，得到 %s", path, n.kind), hintRuleSet)
	}
}

func sitemapsFromNode(source string, n node) ([]string, error) {
	switch n.kind {
	case kindString:
		return []string{n.text}, nil
	case kindList:
		out := make([]string, 0, len(n.items))
		for _, item := range n.items {
			if item.kind != kindString {
				return nil, validateError(source, item, "sitemap", "sitemap 列表元素必须是字符串", hintSitemap)
			}
			out = append(out, item.text)
		}
		return out, nil
	default:
		return nil, validateError(source, n, "sitemap", "sitemap 必须是字符串或字符串列表", hintSitemap)
	}
}
