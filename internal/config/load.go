package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/John-Robertt/robotstxt-go/internal/fetch"
	"github.com/John-Robertt/robotstxt-go/internal/model"
)

type Format string

const (
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
)

// FormatFromName picks the decoder from a file name or URL path extension.
// Anything that is not .hcl is read as YAML.
func FormatFromName(name string) Format {
	if u, err := url.Parse(name); err == nil && u.Scheme != "" && u.Path != "" {
		name = u.Path
	}
	if strings.EqualFold(path.Ext(name), ".hcl") {
		return FormatHCL
	}
	return FormatYAML
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "yaml", "yml":
		return FormatYAML, nil
	case "hcl":
		return FormatHCL, nil
	default:
		return "", &ConfigError{
			AppError: model.AppError{
				Code:    "INVALID_ARGUMENT",
				Message: "不支持的配置格式（仅支持 yaml/hcl）",
				Stage:   Stage,
				Snippet: s,
			},
		}
	}
}

// Parse decodes content in the given format.
func Parse(format Format, source, content string) (Options, error) {
	switch format {
	case FormatHCL:
		return ParseHCL(source, content)
	default:
		return ParseYAML(source, content)
	}
}

type LoadOptions struct {
	FetchTimeout time.Duration // remote documents only; default per fetch package
}

// Load reads an options document from a local path or an http/https URL.
// An empty location yields zero Options (all defaults).
func Load(ctx context.Context, location string, opt LoadOptions) (Options, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return Options{}, nil
	}

	var content string
	if isRemote(location) {
		text, err := fetch.FetchTextWithOptions(ctx, location, fetch.Options{Timeout: opt.FetchTimeout})
		if err != nil {
			return Options{}, err
		}
		content = text
	} else {
		b, err := os.ReadFile(location)
		if err != nil {
			return Options{}, &ConfigError{
				AppError: model.AppError{
					Code:    "CONFIG_READ_ERROR",
					Message: fmt.Sprintf("读取配置文件失败：%s", location),
					Stage:   Stage,
					URL:     location,
				},
				Cause: err,
			}
		}
		content = string(b)
	}

	return Parse(FormatFromName(location), location, content)
}

func isRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
