package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/John-Robertt/robotstxt-go/internal/config"
	"github.com/John-Robertt/robotstxt-go/internal/httpapi"
	"github.com/John-Robertt/robotstxt-go/internal/model"
	"github.com/John-Robertt/robotstxt-go/internal/render"
	"github.com/John-Robertt/robotstxt-go/internal/resolve"
)

const defaultListen = "127.0.0.1:8080"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		os.Exit(healthcheckMain(os.Args[2:]))
	}

	listen := flag.String("listen", defaultListen, "HTTP 监听地址")
	configPath := flag.String("config", "", "robots 配置文件路径或 http/https URL（.hcl 为 HCL，其余按 YAML 解析）；为空时使用内置默认值")
	env := flag.String("env", "", "部署环境名（默认读取 ROBOTS_ENV，其次 APP_ENV）")
	publicBaseURL := flag.String("public-base-url", "", "对外访问的 base URL，用于补全相对 sitemap 路径（默认从请求推导）")
	routerKind := flag.String("router", "std", "HTTP 路由实现：std | gin")
	readHeaderTimeout := flag.Duration("read-header-timeout", 5*time.Second, "HTTP ReadHeaderTimeout（请求头读取超时）")
	fetchTimeout := flag.Duration("fetch-timeout", 15*time.Second, "远程配置拉取超时")
	shutdownTimeout := flag.Duration("shutdown-timeout", 10*time.Second, "收到退出信号后的优雅退出等待时间")
	logLevel := flag.String("log-level", "info", "日志级别：debug | info | warn | error")
	logFormat := flag.String("log-format", "text", "日志格式：text | json")
	flag.Parse()

	logger, err := newLogger(os.Stderr, *logLevel, *logFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	slog.SetDefault(logger)

	if err := httpapi.ValidatePublicBaseURL(*publicBaseURL); err != nil {
		logger.Error("invalid -public-base-url", "value", *publicBaseURL, "err", err)
		os.Exit(2)
	}

	deployEnv := deploymentEnv(*env, os.Getenv)

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), *fetchTimeout+time.Second)
	opt, err := config.Load(loadCtx, *configPath, config.LoadOptions{FetchTimeout: *fetchTimeout})
	cancelLoad()
	if err != nil {
		logger.Error("load config failed", "config", *configPath, "err", err)
		os.Exit(1)
	}
	cfg := config.Normalize(opt, deployEnv)
	logPolicy(logger, &cfg)

	apiOpt := httpapi.Options{
		Config:        &cfg,
		DeployEnv:     deployEnv,
		PublicBaseURL: *publicBaseURL,
		Logger:        logger,
	}

	var handler http.Handler
	switch *routerKind {
	case "std":
		handler = httpapi.NewHandlerWithOptions(apiOpt)
	case "gin":
		gin.SetMode(gin.ReleaseMode)
		handler = httpapi.NewGinEngine(apiOpt)
	default:
		logger.Error("unknown -router", "value", *routerKind)
		os.Exit(2)
	}

	srv := &http.Server{
		Addr:              *listen,
		Handler:           handler,
		ReadHeaderTimeout: *readHeaderTimeout,
	}

	logger.Info("listening", "addr", "http://"+*listen, "router", *routerKind, "env", cfg.ActiveEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")

		shCtx, cancel := context.WithTimeout(context.Background(), *shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shCtx); err != nil {
			logger.Warn("graceful shutdown failed", "err", err)
			_ = srv.Close()
		}

		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}
}

// deploymentEnv resolves the deployment environment name: the -env flag,
// then ROBOTS_ENV, then APP_ENV. Empty means "*" after normalization.
func deploymentEnv(flagValue string, getenv func(string) string) string {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v
	}
	for _, key := range []string{"ROBOTS_ENV", "APP_ENV"} {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
	}
	return ""
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid -log-level %q: %w", level, err)
	}
	hopt := &slog.HandlerOptions{Level: lvl}
	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(w, hopt)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, hopt)), nil
	default:
		return nil, fmt.Errorf("invalid -log-format %q (text|json)", format)
	}
}

// logPolicy logs the document served to hosts that match no host key.
func logPolicy(logger *slog.Logger, cfg *model.Configuration) {
	if !cfg.Verbose {
		return
	}
	res := resolve.Explain(cfg, model.RequestContext{})
	body := render.Render(res.RuleSet, cfg, model.ServerContext{Scheme: "http"})
	logger.Info("robots policy loaded",
		"env", cfg.ActiveEnv,
		"hosts", len(cfg.Hosts),
		"sitemaps", len(cfg.Sitemaps),
		"source", string(res.Source),
		"body", body,
	)
}

func healthcheckMain(args []string) int {
	fs := flag.NewFlagSet("healthcheck", flag.ContinueOnError)
	rawURL := fs.String("url", "", "healthz URL（默认由 -listen 推导）")
	listen := fs.String("listen", defaultListen, "服务监听地址")
	timeout := fs.Duration("timeout", 2*time.Second, "请求超时")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	target := strings.TrimSpace(*rawURL)
	if target == "" {
		u, err := deriveHealthzURL(*listen)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		target = u
	}
	if err := runHealthcheck(target, *timeout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// deriveHealthzURL maps a listen address to a URL reachable from the same
// host. Wildcard binds are probed on loopback.
func deriveHealthzURL(listen string) (string, error) {
	listen = strings.TrimSpace(listen)
	if strings.HasPrefix(listen, "http://") || strings.HasPrefix(listen, "https://") {
		u, err := url.Parse(listen)
		if err != nil {
			return "", err
		}
		u.Path = "/healthz"
		u.RawQuery = ""
		u.Fragment = ""
		return u.String(), nil
	}
	if !strings.Contains(listen, ":") {
		listen = ":" + listen
	}
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		return "", fmt.Errorf("invalid listen address %q: %w", listen, err)
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port) + "/healthz", nil
}

func runHealthcheck(target string, timeout time.Duration) error {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(target)
	if err != nil {
		return fmt.Errorf("healthcheck request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("healthcheck unexpected status: %d", resp.StatusCode)
	}
	return nil
}
