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

// Package execx runs external commands and captures their output. It is the
// single place backportrc shells out, so every failure carries the command
// line, exit code and stderr of the program that failed.
package execx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Result holds the output of a finished command
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner runs a program with arguments
type Runner interface {
	Run(ctx context.Context, args []string, opts ...Option) (*Result, error)
}

// Options configures a single command execution
type Options struct {
	// WorkingDir is the directory the command runs in
	WorkingDir string
	// Env is appended to the current environment
	Env map[string]string
	// Stdin is fed to the command when set
	Stdin io.Reader
	// StderrWriter receives a copy of stderr as it is produced
	StderrWriter io.Writer
}

// Option modifies Options
type Option func(*Options)

// WithWorkingDir sets the working directory
func WithWorkingDir(dir string) Option {
	return func(o *Options) {
		o.WorkingDir = dir
	}
}

// WithEnvVar adds a single environment variable
func WithEnvVar(key, value string) Option {
	return func(o *Options) {
		if o.Env == nil {
			o.Env = make(map[string]string)
		}
		o.Env[key] = value
	}
}

// WithStdin feeds r to the command
func WithStdin(r io.Reader) Option {
	return func(o *Options) {
		o.Stdin = r
	}
}

// WithStderrWriter tees stderr into w
func WithStderrWriter(w io.Writer) Option {
	return func(o *Options) {
		o.StderrWriter = w
	}
}

// ExitError is returned when a command ran and exited non-zero, or could not
// be started at all (ExitCode -1).
type ExitError struct {
	Program  string
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.CommandLine(), e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// CommandLine returns the program and its arguments joined by spaces.
func (e *ExitError) CommandLine() string {
	return strings.TrimSpace(e.Program + " " + strings.Join(e.Args, " "))
}

// 🔧 Program runs commands for one executable, e.g. "git"
type Program struct {
	name string
	opts []Option
}

// New creates a Program. Default options apply to every Run.
func New(name string, opts ...Option) *Program {
	return &Program{name: name, opts: opts}
}

// Name returns the executable name.
func (p *Program) Name() string {
	return p.name
}

// Run executes the program with args and waits for it to finish.
func (p *Program) Run(ctx context.Context, args []string, opts ...Option) (*Result, error) {
	options := &Options{}
	for _, opt := range append(append([]Option{}, p.opts...), opts...) {
		opt(options)
	}

	cmd := exec.CommandContext(ctx, p.name, args...)
	setupCommand(cmd, options)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	if options.StderrWriter != nil {
		cmd.Stderr = io.MultiWriter(&stderr, options.StderrWriter)
	} else {
		cmd.Stderr = &stderr
	}

	zerolog.Ctx(ctx).Debug().
		Str("program", p.name).
		Strs("args", args).
		Str("dir", options.WorkingDir).
		Msg("running command")

	err := cmd.Run()

	result := &Result{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
		}
		return result, errors.WithStack(&ExitError{
			Program:  p.name,
			Args:     args,
			ExitCode: result.ExitCode,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		})
	}

	return result, nil
}

func setupCommand(cmd *exec.Cmd, options *Options) {
	if options.WorkingDir != "" {
		cmd.Dir = options.WorkingDir
	}

	if len(options.Env) > 0 {
		cmd.Env = os.Environ()
		for k, v := range options.Env {
			cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
		}
	}

	if options.Stdin != nil {
		cmd.Stdin = options.Stdin
	}
}

// AsExitError extracts an ExitError from err.
func AsExitError(err error) (*ExitError, bool) {
	var e *ExitError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
