// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 🧩 extParser selects files by extension and hands the bytes to decode
type extParser struct {
	name       string
	extensions []string
	decode     func(data []byte) (*Config, error)
}

var (
	// YAML reads .yaml and .yml files; unknown keys are errors
	YAML Parser = &extParser{name: "yaml", extensions: []string{".yaml", ".yml"}, decode: decodeYAML}
	// JSON reads .json files; unknown keys are errors
	JSON Parser = &extParser{name: "json", extensions: []string{".json"}, decode: decodeJSON}
	// HCL reads .hcl files; env("NAME") is available in expressions
	HCL Parser = &extParser{name: "hcl", extensions: []string{".hcl"}, decode: decodeHCL}
)

func init() {
	Register(YAML)
	Register(JSON)
	Register(HCL)
}

func (p *extParser) String() string {
	return p.name
}

func (p *extParser) CanParse(filename string) bool {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
	for _, e := range p.extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func (p *extParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	return p.decode(data)
}

// an empty document is an empty config
func decodeYAML(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &cfg, nil
}

func decodeJSON(data []byte) (*Config, error) {
	var cfg Config
	if len(bytes.TrimSpace(data)) == 0 {
		return &cfg, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing JSON: %w", err)
	}
	if dec.More() {
		return nil, errors.Errorf("parsing JSON: unexpected data after the config object")
	}
	return &cfg, nil
}

func decodeHCL(data []byte) (*Config, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, "backportrc.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
		Functions: map[string]function.Function{
			"env": envFunc,
		},
	}

	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, evalCtx, &cfg); diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}
	return &cfg, nil
}

// envFunc exposes environment variables to HCL expressions
var envFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "name", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		return cty.StringVal(os.Getenv(args[0].AsString())), nil
	},
})
