// Command dashgen generates the Grafana overview dashboard and Prometheus
// rule files for promo-radar from typed builders, validating every PromQL
// expression against the metrics the service exports.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mfreitas/promo-radar/tools/dashgen/dashboards"
	"github.com/mfreitas/promo-radar/tools/dashgen/rules"
	"github.com/mfreitas/promo-radar/tools/dashgen/validate"
)

const generatedHeader = "# Code generated by dashgen. DO NOT EDIT.\n"

func main() {
	validateOnly := flag.Bool("validate", false, "validate generated artifacts without writing files")
	outputDir := flag.String("output", "", "override output directory")
	flag.Parse()

	cfg := DefaultConfig()
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, *validateOnly); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg Config, validateOnly bool) error {
	dash, err := dashboards.BuildOverview().Build()
	if err != nil {
		return fmt.Errorf("building overview dashboard: %w", err)
	}

	recording := rules.RecordingRules()
	alerts := rules.AlertRules()

	for _, check := range []struct {
		name   string
		result validate.Result
	}{
		{"overview dashboard", validate.Dashboard(dash, KnownMetrics)},
		{"recording rules", validate.Rules(recording, KnownMetrics)},
		{"alert rules", validate.Rules(alerts, KnownMetrics)},
	} {
		for _, w := range check.result.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s: %s\n", check.name, w)
		}
		if !check.result.Ok() {
			return fmt.Errorf("%s failed validation: %v", check.name, check.result.Errors)
		}
	}

	if validateOnly {
		fmt.Println("validation passed")
		return nil
	}

	if cfg.DashboardEnabled {
		data, err := json.MarshalIndent(dash, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling dashboard: %w", err)
		}
		data = append(data, '\n')
		if err := writeFile(filepath.Join(cfg.OutputDir, "grafana", "data", "pradar-overview.json"), data); err != nil {
			return err
		}
	}

	if cfg.RulesEnabled {
		if err := writeRuleFile(filepath.Join(cfg.OutputDir, "prometheus", "pradar-recording-rules.yaml"), recording); err != nil {
			return err
		}
		if err := writeRuleFile(filepath.Join(cfg.OutputDir, "prometheus", "pradar-alerts.yaml"), alerts); err != nil {
			return err
		}
	}

	return nil
}

func writeRuleFile(path string, cr rules.PrometheusRule) error {
	data, err := yaml.Marshal(cr)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", filepath.Base(path), err)
	}
	return writeFile(path, append([]byte(generatedHeader), data...))
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
