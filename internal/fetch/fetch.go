// Package fetch downloads remote robots config documents at startup
// (-config https://...). Requests are bounded by timeout, redirect count and
// body size; the body must be UTF-8 text.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"

	"github.com/John-Robertt/robotstxt-go/internal/model"
)

// Stage is the AppError stage of every error returned by this package.
const Stage = "fetch_config"

// DefaultMaxBytes bounds a remote config document.
const DefaultMaxBytes = 1 * 1024 * 1024

type Options struct {
	Timeout      time.Duration // default 15s
	MaxBytes     int64         // default DefaultMaxBytes
	MaxRedirects int           // default 5
}

func (o Options) withDefaults() Options {
	if o.Timeout == 0 {
		o.Timeout = 15 * time.Second
	}
	if o.MaxRedirects == 0 {
		o.MaxRedirects = 5
	}
	if o.MaxBytes == 0 {
		o.MaxBytes = DefaultMaxBytes
	}
	return o
}

type FetchError struct {
	Status   int
	AppError model.AppError
	Cause    error
}

func (e *FetchError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.AppError.Code, e.AppError.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.AppError.Code, e.AppError.Message, e.Cause)
}

func (e *FetchError) Unwrap() error { return e.Cause }

var (
	errTooManyRedirects   = errors.New("too many redirects")
	errRedirectBadScheme  = errors.New("redirect target scheme is not http/https")
	errInvalidURLOrScheme = errors.New("invalid url or scheme")
)

func fetchError(status int, code, message, rawURL string, cause error) *FetchError {
	return &FetchError{
		Status: status,
		AppError: model.AppError{
			Code:    code,
			Message: message,
			Stage:   Stage,
			URL:     rawURL,
		},
		Cause: cause,
	}
}

func timeoutError(rawURL string, cause error) *FetchError {
	return fetchError(http.StatusGatewayTimeout, "FETCH_TIMEOUT", "拉取远程配置超时", rawURL, cause)
}

func isTimeout(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// FetchText downloads a remote config document with default limits.
func FetchText(ctx context.Context, rawURL string) (string, error) {
	return FetchTextWithOptions(ctx, rawURL, Options{})
}

func FetchTextWithOptions(ctx context.Context, rawURL string, opt Options) (string, error) {
	opt = opt.withDefaults()
	if opt.MaxBytes <= 0 {
		return "", fetchError(http.StatusBadRequest, "INVALID_ARGUMENT", "响应大小上限必须大于 0", rawURL, nil)
	}

	u, err := url.Parse(rawURL)
	if err != nil || u == nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fetchError(http.StatusBadRequest, "INVALID_ARGUMENT", "仅允许 http/https URL", rawURL,
			errors.Join(errInvalidURLOrScheme, err))
	}

	maxRedirects := opt.MaxRedirects
	client := &http.Client{
		Timeout:   opt.Timeout,
		Transport: http.DefaultTransport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			// 1st redirect => len(via)==1.
			if len(via) > maxRedirects {
				return errTooManyRedirects
			}
			if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
				return errRedirectBadScheme
			}
			return nil
		},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fetchError(http.StatusBadRequest, "INVALID_ARGUMENT", "请求 URL 不合法", rawURL, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		switch {
		case errors.Is(err, errTooManyRedirects):
			return "", fetchError(http.StatusBadGateway, "FETCH_FAILED",
				fmt.Sprintf("重定向次数超过上限（>%d）", maxRedirects), rawURL, err)
		case errors.Is(err, errRedirectBadScheme):
			return "", fetchError(http.StatusBadRequest, "INVALID_ARGUMENT", "重定向目标仅允许 http/https", rawURL, err)
		case isTimeout(err):
			return "", timeoutError(rawURL, err)
		default:
			return "", fetchError(http.StatusBadGateway, "FETCH_FAILED", "拉取远程配置失败", rawURL, err)
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fetchError(http.StatusBadGateway, "FETCH_FAILED",
			fmt.Sprintf("上游返回非 2xx 状态码：%d", resp.StatusCode), rawURL, nil)
	}

	// Read at most MaxBytes+1 to detect overflow deterministically.
	body, err := io.ReadAll(io.LimitReader(resp.Body, opt.MaxBytes+1))
	if err != nil {
		if isTimeout(err) {
			return "", timeoutError(rawURL, err)
		}
		return "", fetchError(http.StatusBadGateway, "FETCH_FAILED", "读取上游响应失败", rawURL, err)
	}
	if int64(len(body)) > opt.MaxBytes {
		return "", fetchError(http.StatusUnprocessableEntity, "TOO_LARGE",
			fmt.Sprintf("远程配置过大（>%d bytes）", opt.MaxBytes), rawURL, nil)
	}
	if !utf8.Valid(body) {
		return "", fetchError(http.StatusUnprocessableEntity, "FETCH_INVALID_UTF8", "远程配置不是合法 UTF-8 文本", rawURL, nil)
	}

	return string(body), nil
}
