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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog"
	"github.com/walteh/backportrc/cmd/backportrc/commands"
	"github.com/walteh/backportrc/cmd/backportrc/opts"
	"github.com/walteh/backportrc/pkg/execx"
	"github.com/walteh/backportrc/pkg/log"
	"gitlab.com/tozd/go/errors"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) (code int) {
	o := &opts.RootOpts{Stdout: stdout, Stderr: stderr}

	// flags are parsed by cobra, so the level is raised once they are known
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: true}).
		With().Timestamp().Logger().
		Level(zerolog.WarnLevel)
	logger := log.New(stdout, zlog)

	ctx = zlog.WithContext(ctx)
	ctx = log.NewContext(ctx, logger)

	defer func() {
		if r := recover(); r != nil {
			zlog.Error().
				Str("panic", fmt.Sprint(r)).
				Bytes("stack", debug.Stack()).
				Msg("internal panic")
			logger.Errorf("internal panic: %v", r)
			code = 1
		}
	}()

	cmd := newRootCmd(o)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		reportError(logger, zlog, err)
		return 1
	}
	return 0
}

// reportError prints a fatal error. Failed git commands also get their
// arguments, exit code and stderr logged.
func reportError(logger *log.Logger, zlog zerolog.Logger, err error) {
	if errors.Is(err, commands.ErrSyncFailed) {
		// the summary already listed every failure
		return
	}

	logger.Error(err.Error())

	if exitErr, ok := execx.AsExitError(err); ok {
		zlog.Error().
			Str("command", exitErr.CommandLine()).
			Int("exit_code", exitErr.ExitCode).
			Str("stderr", exitErr.Stderr).
			Msg("external command failed")
	}
}
