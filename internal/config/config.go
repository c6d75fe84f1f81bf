// Package config loads the optional HCL run-configuration file. Everything
// has a sensible default; the file only needs to mention what it changes:
//
//	analysis {
//	  simplify  = true
//	  verify    = true
//	  tolerance = 1e-6
//	}
//
//	output {
//	  dir    = "converted"
//	  merged = true
//	  indent = true
//	}
package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Analysis controls how each computation is processed.
type Analysis struct {
	Simplify  bool
	Verify    bool
	Tolerance float64
}

// Output controls where and how processed documents are written.
type Output struct {
	Dir    string
	Merged bool
	Indent bool
}

// Config is the merged, validated run configuration.
type Config struct {
	Analysis Analysis
	Output   Output
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Analysis: Analysis{Simplify: true, Verify: true, Tolerance: 1e-6},
		Output:   Output{Dir: "converted", Merged: false, Indent: true},
	}
}

// fileSchema mirrors the HCL file structure. All attributes are optional so
// a partial file overlays the defaults.
type fileSchema struct {
	Analysis *analysisBlock `hcl:"analysis,block"`
	Output   *outputBlock   `hcl:"output,block"`
}

type analysisBlock struct {
	Simplify  *bool    `hcl:"simplify,optional"`
	Verify    *bool    `hcl:"verify,optional"`
	Tolerance *float64 `hcl:"tolerance,optional"`
}

type outputBlock struct {
	Dir    *string `hcl:"dir,optional"`
	Merged *bool   `hcl:"merged,optional"`
	Indent *bool   `hcl:"indent,optional"`
}

// Load parses an HCL configuration file and overlays it on the defaults.
func Load(filePath string) (Config, error) {
	cfg := Default()

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return cfg, fmt.Errorf("parsing config %s: %w", filePath, diags)
	}

	var schema fileSchema
	if diags := gohcl.DecodeBody(file.Body, nil, &schema); diags.HasErrors() {
		return cfg, fmt.Errorf("decoding config %s: %w", filePath, diags)
	}

	if a := schema.Analysis; a != nil {
		if a.Simplify != nil {
			cfg.Analysis.Simplify = *a.Simplify
		}
		if a.Verify != nil {
			cfg.Analysis.Verify = *a.Verify
		}
		if a.Tolerance != nil {
			if *a.Tolerance < 0 {
				return cfg, fmt.Errorf("config %s: tolerance must not be negative", filePath)
			}
			cfg.Analysis.Tolerance = *a.Tolerance
		}
	}
	if o := schema.Output; o != nil {
		if o.Dir != nil {
			cfg.Output.Dir = *o.Dir
		}
		if o.Merged != nil {
			cfg.Output.Merged = *o.Merged
		}
		if o.Indent != nil {
			cfg.Output.Indent = *o.Indent
		}
	}
	return cfg, nil
}
