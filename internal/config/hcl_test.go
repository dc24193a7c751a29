package config

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/John-Robertt/robotstxt-go/internal/model"
)

func TestParseHCL_FullDocument(t *testing.T) {
	src := `
env         = "staging"
force_https = true
verbose     = false
sitemap     = ["/sitemap.xml", "https://cdn.example.com/news.xml"]

envs = {
  "*" = { "*" = ["/"] }
  staging = {
    "*"       = ["/"]
    Fred      = []
    Googlebot = "/private"
  }
}

hosts = {
  martha = {
    "*"  = ["/"]
    Fred = []
  }
  "shop.example.com" = {
    production = { "*" = [] }
  }
}
`
	opt, err := ParseHCL("robots.hcl", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Options{
		Envs: model.EnvironmentMap{
			"*": model.DisallowAll(),
			"staging": model.NewRuleSet(
				model.AgentRule{Agent: "*", Rule: model.Many("/")},
				model.AgentRule{Agent: "Fred", Rule: model.Many()},
				model.AgentRule{Agent: "Googlebot", Rule: model.Single("/private")},
			),
		},
		Env: ptr("staging"),
		Hosts: model.HostConfig{
			"martha": {Rules: model.NewRuleSet(
				model.AgentRule{Agent: "*", Rule: model.Many("/")},
				model.AgentRule{Agent: "Fred", Rule: model.Many()},
			)},
			"shop.example.com": {Envs: model.EnvironmentMap{
				"production": model.NewRuleSet(model.AgentRule{Agent: "*", Rule: model.Many()}),
			}},
		},
		Sitemaps:   []string{"/sitemap.xml", "https://cdn.example.com/news.xml"},
		ForceHTTPS: true,
		Verbose:    ptr(false),
	}
	if diff := cmp.Diff(want, opt); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestParseHCL_PreservesAgentOrder(t *testing.T) {
	src := `
envs = {
  "*" = {
    Zed   = "/z"
    Alpha = "/a"
    "*"   = "/"
  }
}
`
	opt, err := ParseHCL("robots.hcl", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var agents []string
	for _, e := range opt.Envs["*"].Entries {
		agents = append(agents, e.Agent)
	}
	if diff := cmp.Diff([]string{"Zed", "Alpha", "*"}, agents); diff != "" {
		t.Fatalf("agent order mismatch (-want +got):\n%s", diff)
	}
}

func TestParseHCL_SitemapString(t *testing.T) {
	opt, err := ParseHCL("robots.hcl", `sitemap = "/sitemap.xml"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"/sitemap.xml"}, opt.Sitemaps); diff != "" {
		t.Fatalf("sitemaps mismatch (-want +got):\n%s", diff)
	}
}

func TestParseHCL_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{"syntax", `envs = {`, "CONFIG_PARSE_ERROR"},
		{"block", "envs {\n}\n", "CONFIG_VALIDATE_ERROR"},
		{"variable reference", `env = var.name`, "CONFIG_PARSE_ERROR"},
		{"duplicate agent", "envs = {\n  \"*\" = {\n    Fred = []\n    Fred = \"/\"\n  }\n}\n", "CONFIG_PARSE_ERROR"},
		{"unknown key", `userAgents = {}`, "CONFIG_VALIDATE_ERROR"},
		{"path not string", "envs = {\n  \"*\" = { \"*\" = [true] }\n}\n", "CONFIG_VALIDATE_ERROR"},
	}
	for _, tt := range tests {
		_, err := ParseHCL("robots.hcl", tt.src)
		var ce *ConfigError
		if !errors.As(err, &ce) {
			t.Fatalf("%s: expected *ConfigError, got %T: %v", tt.name, err, err)
		}
		if ce.AppError.Code != tt.code {
			t.Fatalf("%s: code=%q, want=%q (err=%v)", tt.name, ce.AppError.Code, tt.code, err)
		}
	}
}
