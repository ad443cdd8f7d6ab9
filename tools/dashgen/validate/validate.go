// Package validate checks generated Grafana dashboards and Prometheus rule
// files for broken PromQL and references to metrics the service does not
// export.
package validate

import (
	"fmt"
	"strings"

	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/grafana/grafana-foundation-sdk/go/prometheus"
	"github.com/prometheus/prometheus/promql/parser"

	"github.com/mfreitas/promo-radar/tools/dashgen/rules"
)

// Result collects validation findings. Errors fail the build, warnings are
// informational.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether validation found no errors.
func (r Result) Ok() bool {
	return len(r.Errors) == 0
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Dashboard validates every Prometheus query in a built dashboard: the PromQL
// must parse and every metric it selects must appear in known.
func Dashboard(dash dashboard.Dashboard, known map[string]bool) Result {
	var res Result

	for _, p := range dash.Panels {
		switch {
		case p.Panel != nil:
			checkPanel(&res, *p.Panel, known)
		case p.RowPanel != nil:
			for _, inner := range p.RowPanel.Panels {
				checkPanel(&res, inner, known)
			}
		}
	}

	return res
}

// Rules validates every expression in a PrometheusRule CR.
func Rules(cr rules.PrometheusRule, known map[string]bool) Result {
	var res Result

	for _, group := range cr.Spec.Groups {
		for _, rule := range group.Rules {
			name := rule.Record
			if name == "" {
				name = rule.Alert
			}
			checkExpr(&res, fmt.Sprintf("rule %q", name), rule.Expr, known)
		}
	}

	return res
}

func checkPanel(res *Result, p dashboard.Panel, known map[string]bool) {
	title := "untitled panel"
	if p.Title != nil && *p.Title != "" {
		title = fmt.Sprintf("panel %q", *p.Title)
	}

	if len(p.Targets) == 0 {
		res.warnf("%s has no targets", title)
		return
	}

	for _, target := range p.Targets {
		expr := exprOf(target)
		if expr == "" {
			res.warnf("%s has a non-Prometheus or empty target", title)
			continue
		}
		checkExpr(res, title, expr, known)
	}
}

func checkExpr(res *Result, where, expr string, known map[string]bool) {
	if expr == "" {
		res.errorf("%s has an empty expression", where)
		return
	}

	parsed, err := parser.ParseExpr(expr)
	if err != nil {
		res.errorf("%s: invalid PromQL %q: %v", where, expr, err)
		return
	}

	parser.Inspect(parsed, func(node parser.Node, _ []parser.Node) error {
		vs, ok := node.(*parser.VectorSelector)
		if !ok || vs.Name == "" {
			return nil
		}
		if !known[baseMetric(vs.Name)] {
			res.warnf("%s references unknown metric %q", where, vs.Name)
		}
		return nil
	})
}

func exprOf(target any) string {
	switch q := target.(type) {
	case prometheus.Dataquery:
		return q.Expr
	case *prometheus.Dataquery:
		return q.Expr
	}
	return ""
}

// baseMetric strips histogram series suffixes so that bucket, sum, and count
// selectors validate against the histogram's base name.
func baseMetric(name string) string {
	for _, suffix := range []string{"_bucket", "_sum", "_count"} {
		trimmed := strings.TrimSuffix(name, suffix)
		if trimmed != name && knownSuffixBase(trimmed) {
			return trimmed
		}
	}
	return name
}

func knownSuffixBase(name string) bool {
	// Only strip a suffix when what remains still looks like one of our
	// namespaced metrics, so counters like *_hits_total keep their name.
	return strings.HasPrefix(name, "pradar_")
}
