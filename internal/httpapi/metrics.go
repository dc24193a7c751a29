package httpapi

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// metricsStore holds a few process-wide counters rendered by /metrics.
type metricsStore struct {
	mu sync.Mutex

	httpRequestsTotal uint64
	httpByPattern     map[reqKey]uint64

	documents map[string]uint64 // by resolve.Source

	appErrors map[errKey]uint64
}

type reqKey struct {
	Pattern string
	Status  int
}

type errKey struct {
	Stage string
	Code  string
}

func newMetricsStore() *metricsStore {
	return &metricsStore{
		httpByPattern: make(map[reqKey]uint64),
		documents:     make(map[string]uint64),
		appErrors:     make(map[errKey]uint64),
	}
}

var metrics = newMetricsStore()

func metricsIncRequest(pattern string, status int) {
	if status == 0 {
		status = http.StatusOK
	}
	if pattern == "" {
		pattern = "(unknown)"
	}

	metrics.mu.Lock()
	metrics.httpRequestsTotal++
	metrics.httpByPattern[reqKey{Pattern: pattern, Status: status}]++
	metrics.mu.Unlock()
}

func metricsIncDocument(source string) {
	if source == "" {
		source = "(unknown)"
	}

	metrics.mu.Lock()
	metrics.documents[source]++
	metrics.mu.Unlock()
}

func metricsIncAppError(stage, code string) {
	stage = strings.TrimSpace(stage)
	code = strings.TrimSpace(code)
	if stage == "" {
		stage = "(unknown)"
	}
	if code == "" {
		code = "(unknown)"
	}

	metrics.mu.Lock()
	metrics.appErrors[errKey{Stage: stage, Code: code}]++
	metrics.mu.Unlock()
}

type reqMetric struct {
	reqKey
	N uint64
}

type errMetric struct {
	errKey
	N uint64
}

type docMetric struct {
	Source string
	N      uint64
}

type metricsView struct {
	httpTotal uint64
	reqs      []reqMetric
	docs      []docMetric
	errs      []errMetric
}

func metricsSnapshot() metricsView {
	metrics.mu.Lock()
	defer metrics.mu.Unlock()

	v := metricsView{httpTotal: metrics.httpRequestsTotal}

	for k, n := range metrics.httpByPattern {
		v.reqs = append(v.reqs, reqMetric{reqKey: k, N: n})
	}
	for src, n := range metrics.documents {
		v.docs = append(v.docs, docMetric{Source: src, N: n})
	}
	for k, n := range metrics.appErrors {
		v.errs = append(v.errs, errMetric{errKey: k, N: n})
	}

	sort.Slice(v.reqs, func(i, j int) bool {
		if v.reqs[i].Pattern != v.reqs[j].Pattern {
			return v.reqs[i].Pattern < v.reqs[j].Pattern
		}
		return v.reqs[i].Status < v.reqs[j].Status
	})
	sort.Slice(v.docs, func(i, j int) bool { return v.docs[i].Source < v.docs[j].Source })
	sort.Slice(v.errs, func(i, j int) bool {
		if v.errs[i].Stage != v.errs[j].Stage {
			return v.errs[i].Stage < v.errs[j].Stage
		}
		return v.errs[i].Code < v.errs[j].Code
	})
	return v
}

func handleMetrics(w http.ResponseWriter, r *http.Request) {
	// Plain text, Prometheus exposition format.
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")

	v := metricsSnapshot()

	var b strings.Builder

	b.WriteString("# HELP robotstxt_http_requests_total Total HTTP requests.\n")
	b.WriteString("# TYPE robotstxt_http_requests_total counter\n")
	b.WriteString("robotstxt_http_requests_total ")
	b.WriteString(strconv.FormatUint(v.httpTotal, 10))
	b.WriteByte('\n')

	b.WriteString("# HELP robotstxt_http_requests_by_pattern_total HTTP requests by ServeMux pattern and status.\n")
	b.WriteString("# TYPE robotstxt_http_requests_by_pattern_total counter\n")
	for _, m := range v.reqs {
		b.WriteString("robotstxt_http_requests_by_pattern_total{pattern=\"")
		b.WriteString(promLabelEscape(m.Pattern))
		b.WriteString("\",status=\"")
		b.WriteString(strconv.Itoa(m.Status))
		b.WriteString("\"} ")
		b.WriteString(strconv.FormatUint(m.N, 10))
		b.WriteByte('\n')
	}

	b.WriteString("# HELP robotstxt_documents_total robots.txt documents served by resolution source.\n")
	b.WriteString("# TYPE robotstxt_documents_total counter\n")
	for _, m := range v.docs {
		b.WriteString("robotstxt_documents_total{source=\"")
		b.WriteString(promLabelEscape(m.Source))
		b.WriteString("\"} ")
		b.WriteString(strconv.FormatUint(m.N, 10))
		b.WriteByte('\n')
	}

	b.WriteString("# HELP robotstxt_app_errors_total Application errors returned to clients.\n")
	b.WriteString("# TYPE robotstxt_app_errors_total counter\n")
	for _, m := range v.errs {
		b.WriteString("robotstxt_app_errors_total{stage=\"")
		b.WriteString(promLabelEscape(m.Stage))
		b.WriteString("\",code=\"")
		b.WriteString(promLabelEscape(m.Code))
		b.WriteString("\"} ")
		b.WriteString(strconv.FormatUint(m.N, 10))
		b.WriteByte('\n')
	}

	_, _ = fmt.Fprint(w, b.String())
}

func promLabelEscape(s string) string {
	// Prometheus label value escaping: backslash and double quote.
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
