package config

import (
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// parseHCL decodes an HCL file. Expressions may refer to environment
// variables through the env object and call a small function library, e.g.
//
//	token = trimspace(file("token.txt"))
func parseHCL(path string, data []byte, fc *fileConfig) error {
	parser := hclparse.NewParser()

	file, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return diags
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": GetEnvObject(),
		},
		Functions: configFunctions(filepath.Dir(path)),
	}

	diags = gohcl.DecodeBody(file.Body, evalCtx, fc)
	if diags.HasErrors() {
		return diags
	}
	return nil
}
