package config

import (
	"fmt"
	"strings"

	"factory-generator/internal/diagnostic"
	"factory-generator/internal/gen"
	"factory-generator/internal/match"
	"factory-generator/internal/plan"
)

// Validate checks a loaded config. Problems are reported as diagnostics.
func Validate(c *Config) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if c == nil {
		res.AddError("config_is_nil", "config is nil", "", "")

		return res
	}

	if c.Version != CurrentVersion {
		res.AddError("unsupported_version",
			fmt.Sprintf("unsupported config version %q (want %q)", c.Version, CurrentVersion), "", "version")
	}

	if strings.ContainsAny(c.RuntimeImport, " \t") {
		res.AddError("invalid_runtime_import",
			fmt.Sprintf("runtime_import %q is not an import path", c.RuntimeImport), "", "runtime_import")
	}

	if !strings.HasSuffix(c.OutputSuffix, ".go") || c.OutputSuffix == ".go" ||
		strings.HasSuffix(c.OutputSuffix, "_test.go") || strings.ContainsAny(c.OutputSuffix, `/\`) {
		res.AddError("invalid_output_suffix",
			fmt.Sprintf("output_suffix %q must be a file name suffix ending in .go", c.OutputSuffix), "", "output_suffix")
	}

	if !isColumnName(c.Defaults.IDName) {
		res.AddError("invalid_id_name",
			fmt.Sprintf("defaults.id_name %q is not a column name", c.Defaults.IDName), "", "defaults.id_name")
	}

	if _, err := match.ParseTypeString(c.Defaults.IDType); err != nil {
		res.AddError("invalid_id_type", err.Error(), "", "defaults.id_type")
	}

	if _, err := plan.ParseConnection(c.Defaults.Connection); err != nil {
		res.AddError("invalid_connection", err.Error(), "", "defaults.connection")
	}

	return res
}

func isColumnName(s string) bool {
	return s != "" && !strings.ContainsAny(s, " \t\"'`.")
}

// AnalyzerConfig returns the analyzer settings of c.
func (c *Config) AnalyzerConfig() plan.Config {
	return plan.Config{
		IDName:     c.Defaults.IDName,
		IDType:     c.Defaults.IDType,
		Connection: c.Defaults.Connection,
	}
}

// GeneratorConfig returns the generator settings of c.
func (c *Config) GeneratorConfig() gen.GeneratorConfig {
	return gen.GeneratorConfig{
		RuntimeImport:    c.RuntimeImport,
		OutputSuffix:     c.OutputSuffix,
		GenerateComments: c.CommentsEnabled(),
		DebugUnformatted: c.DebugEnabled(),
	}
}
