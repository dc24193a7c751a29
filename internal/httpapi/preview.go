package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/John-Robertt/robotstxt-go/internal/config"
	"github.com/John-Robertt/robotstxt-go/internal/model"
	"github.com/John-Robertt/robotstxt-go/internal/render"
	"github.com/John-Robertt/robotstxt-go/internal/resolve"
)

const maxPreviewBytes = 1 * 1024 * 1024

type previewRequest struct {
	Host    string
	HasHost bool
	Env     string
	HasEnv  bool
	Format  config.Format
}

// handlePreview renders a candidate config document posted in the body
// without touching the served configuration.
func (h robotsHandler) handlePreview(w http.ResponseWriter, r *http.Request) {
	preq, err := parsePreviewQuery(r.URL.Query())
	if err != nil {
		writeErrorFromErr(w, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPreviewBytes))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeErrorFromErr(w, apiError(http.StatusRequestEntityTooLarge, model.AppError{
				Code:    "TOO_LARGE",
				Message: fmt.Sprintf("请求体过大（>%d bytes）", maxPreviewBytes),
				Stage:   "validate_request",
			}, err))
			return
		}
		writeErrorFromErr(w, apiError(http.StatusBadRequest, model.AppError{
			Code:    "INVALID_ARGUMENT",
			Message: "读取请求体失败",
			Stage:   "validate_request",
		}, err))
		return
	}

	opt, err := config.Parse(preq.Format, "request body", string(body))
	if err != nil {
		writeErrorFromErr(w, err)
		return
	}
	cfg := config.Normalize(opt, h.opt.DeployEnv)
	if preq.HasEnv {
		cfg.ActiveEnv = preq.Env
	}

	req := requestContext(r)
	if preq.HasHost {
		req.Host = preq.Host
	}
	res := resolve.Explain(&cfg, req)
	out := render.Render(res.RuleSet, &cfg, serverContext(r, h.opt.PublicBaseURL))

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Robots-Source", string(res.Source))
	w.Header().Set("X-Robots-Host", res.Host)
	w.Header().Set("X-Robots-Env", res.Env)
	WriteText(w, http.StatusOK, out)
}

func parsePreviewQuery(q url.Values) (previewRequest, error) {
	for key := range q {
		switch key {
		case "host", "env", "format":
		default:
			return previewRequest{}, requestError("INVALID_ARGUMENT", fmt.Sprintf("不支持的 query 参数：%s", key), "")
		}
	}

	var preq previewRequest
	var err error
	if preq.Host, preq.HasHost, err = singleQuery(q, "host"); err != nil {
		return previewRequest{}, err
	}
	if preq.Env, preq.HasEnv, err = singleQuery(q, "env"); err != nil {
		return previewRequest{}, err
	}
	formatStr, _, err := singleQuery(q, "format")
	if err != nil {
		return previewRequest{}, err
	}
	if preq.Format, err = config.ParseFormat(formatStr); err != nil {
		return previewRequest{}, requestError("INVALID_ARGUMENT", "不支持的 format（仅支持 yaml/hcl）", "expected: format=yaml|hcl")
	}
	return preq, nil
}

func singleQuery(q url.Values, key string) (string, bool, error) {
	values, ok := q[key]
	if !ok || len(values) == 0 {
		return "", false, nil
	}
	if len(values) != 1 {
		return "", false, requestError("INVALID_ARGUMENT", fmt.Sprintf("%s 参数只能出现一次", key), "")
	}
	return values[0], true, nil
}
