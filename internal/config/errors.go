package config

import (
	"fmt"
	"strings"

	"github.com/John-Robertt/robotstxt-go/internal/model"
)

// Stage is the AppError stage of every ConfigError.
const Stage = "load_config"

type ConfigError struct {
	AppError model.AppError
	Cause    error
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.AppError.Code, e.AppError.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.AppError.Code, e.AppError.Message, e.Cause)
}

func (e *ConfigError) Unwrap() error { return e.Cause }

func parseError(source, content string, cause error) *ConfigError {
	return &ConfigError{
		AppError: model.AppError{
			Code:    "CONFIG_PARSE_ERROR",
			Message: "配置文档解析失败",
			Stage:   Stage,
			URL:     source,
			Snippet: truncateSnippet(content, 200),
		},
		Cause: cause,
	}
}

func validateError(source string, n node, path, message, hint string) *ConfigError {
	return &ConfigError{
		AppError: model.AppError{
			Code:    "CONFIG_VALIDATE_ERROR",
			Message: message,
			Stage:   Stage,
			URL:     source,
			Line:    n.line,
			Snippet: truncateSnippet(path, 200),
			Hint:    hint,
		},
	}
}

func truncateSnippet(s string, max int) string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", "")
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	return s[:max]
}
