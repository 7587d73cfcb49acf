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

package operation

import (
	"context"

	"github.com/walteh/backportrc/pkg/config"
	"github.com/walteh/backportrc/pkg/content"
	"github.com/walteh/backportrc/pkg/filelist"
	"github.com/walteh/backportrc/pkg/log"
	"github.com/walteh/backportrc/pkg/provider"
	"github.com/walteh/backportrc/pkg/status"
	"github.com/walteh/backportrc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// ErrSameBranch is returned when the working tree would be both source and target
var ErrSameBranch = errors.Base("source and target branch are the same")

// 🎯 Operation is one step of a backport run
type Operation interface {
	// Name identifies the step in logs
	Name() string
	// Execute runs the step; a returned error aborts the run
	Execute(ctx context.Context) error
}

// 🔧 Options contains everything a backport run needs
type Options struct {
	// Config is the validated configuration
	Config *config.Config
	// List is the parsed file list
	List *filelist.List
	// Worktree is switched to the target branch and receives staged files
	Worktree provider.Worktree
	// Source serves file content at the source branch
	Source provider.Source
	// Files writes into the working tree and tracks per-file results
	Files *status.Manager
	// Logger prints per-file lines to the console
	Logger *log.Logger
	// Replacer applies text replacements; defaults to the simple replacer
	Replacer text.TextReplacer
}

// 🎮 Operator runs the checkout, copy and stage steps over one file list
type Operator struct {
	Options

	codec   content.Codec
	rules   []text.ReplacementRule
	target  string
	written []string
}

// 🏭 New creates a new operator with the given options
func New(opts Options) (*Operator, error) {
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}
	if opts.List == nil {
		return nil, errors.Errorf("file list is required")
	}
	if opts.Worktree == nil {
		return nil, errors.Errorf("worktree is required")
	}
	if opts.Source == nil {
		return nil, errors.Errorf("source is required")
	}
	if opts.Files == nil {
		return nil, errors.Errorf("file manager is required")
	}
	if opts.Logger == nil {
		return nil, errors.Errorf("logger is required")
	}
	if opts.Replacer == nil {
		opts.Replacer = text.NewLiteralReplacer()
	}

	codec, err := content.LookupCodec(opts.Config.Encoding)
	if err != nil {
		return nil, errors.Errorf("resolving encoding: %w", err)
	}

	rules := ReplacementRules(opts.Config.Replacements)
	if err := opts.Replacer.ValidateRules(rules); err != nil {
		return nil, errors.Errorf("validating replacements: %w", err)
	}

	return &Operator{
		Options: opts,
		codec:   codec,
		rules:   rules,
	}, nil
}

// ReplacementRules converts configured replacements into text rules.
func ReplacementRules(replacements []config.Replacement) []text.ReplacementRule {
	rules := make([]text.ReplacementRule, 0, len(replacements))
	for _, r := range replacements {
		rule := text.ReplacementRule{FromText: r.Old, ToText: r.New}
		if r.File != nil {
			rule.FileFilterGlob = *r.File
		}
		rules = append(rules, rule)
	}
	return rules
}

// Target returns the branch the run resolved as its target. It is empty until
// the checkout step has run.
func (o *Operator) Target() string {
	return o.target
}

// Written returns the paths written to the working tree so far.
func (o *Operator) Written() []string {
	out := make([]string, len(o.written))
	copy(out, o.written)
	return out
}

// 🔄 Sync switches to the target branch, copies every listed file and stages
// what was written. Per-file failures are part of the report, not the error;
// a staging failure is recorded as Report.StageErr.
func (o *Operator) Sync(ctx context.Context) (*status.Report, error) {
	runner := NewRunner()

	if err := runner.Run(ctx, &checkoutOperation{o}, &copyOperation{o}); err != nil {
		return nil, err
	}

	report := o.Files.Report(ctx)
	report.DryRun = o.Config.DryRun

	if err := runner.Run(ctx, &stageOperation{o}); err != nil {
		report.StageErr = err
	}

	return report, nil
}

// Sync builds an operator from opts and runs it.
func Sync(ctx context.Context, opts Options) (*status.Report, error) {
	op, err := New(opts)
	if err != nil {
		return nil, err
	}
	return op.Sync(ctx)
}
