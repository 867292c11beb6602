// SPDX-License-Identifier: MPL-2.0

// Package compiler runs the external TypeScript build for one script unit.
package compiler

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/shell"
)

// DefaultCommand compiles the yarn workspace "<project>.<unit>" and lists
// the emitted files.
const DefaultCommand = "yarn workspace $PROJECT.$UNIT tsc --listEmittedFiles"

// emittedPrefix marks an emitted file in tsc --listEmittedFiles output.
const emittedPrefix = "TSFILE: "

type (
	// Compiler runs Command in WorkDir. Command is split with shell rules;
	// $PROJECT and $UNIT expand to the arguments of Compile and other
	// variables come from the environment.
	Compiler struct {
		Command string
		WorkDir string
	}

	// Result is the outcome of one compiler run. Outputs lists the files the
	// compiler reported emitting, as absolute paths; packaging discovers the
	// unit's output directory and only uses Outputs to warn about files that
	// landed elsewhere. Output holds the combined stdout and stderr. Err is set when the process could not be run at
	// all; a non-zero ExitCode alone is reported through Failure.
	Result struct {
		Unit     string
		Args     []string
		Outputs  []string
		ExitCode int
		Output   string
		Err      error
	}
)

// Args expands the command line for a project and unit.
func (c Compiler) Args(project, unit string) ([]string, error) {
	command := c.Command
	if strings.TrimSpace(command) == "" {
		command = DefaultCommand
	}
	fields, err := shell.Fields(command, func(name string) string {
		switch name {
		case "PROJECT":
			return project
		case "UNIT":
			return unit
		default:
			return os.Getenv(name)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("expanding compiler command %q: %w", command, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("compiler command %q expands to nothing", command)
	}
	return fields, nil
}

// Compile runs the compiler for one unit and waits for it to exit. The
// process output is fully drained before the exit status is read.
func (c Compiler) Compile(ctx context.Context, project, unit string) Result {
	result := Result{Unit: unit}

	args, err := c.Args(project, unit)
	if err != nil {
		result.ExitCode = 1
		result.Err = err
		return result
	}
	result.Args = args

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = c.WorkDir
	out, err := cmd.CombinedOutput()
	result.Output = string(out)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = 1
			result.Err = fmt.Errorf("failed to run %s: %w", args[0], err)
		}
		return result
	}

	result.Outputs = emittedFiles(result.Output, c.WorkDir)
	return result
}

// Failure returns nil for a successful run and an *ExternalProcessFailure
// otherwise.
func (r Result) Failure() error {
	if r.Err == nil && r.ExitCode == 0 {
		return nil
	}
	return &ExternalProcessFailure{Unit: r.Unit, ExitCode: r.ExitCode, Output: r.Output, Err: r.Err}
}

// emittedFiles extracts emitted paths from compiler output. TSFILE lines win;
// without any, every line naming an existing file counts. Relative paths are
// resolved against dir.
func emittedFiles(output, dir string) []string {
	var listed, existing []string
	sc := bufio.NewScanner(strings.NewReader(output))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if p, ok := strings.CutPrefix(line, emittedPrefix); ok {
			listed = append(listed, resolve(strings.TrimSpace(p), dir))
			continue
		}
		p := resolve(line, dir)
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			existing = append(existing, p)
		}
	}
	if len(listed) > 0 {
		return listed
	}
	return existing
}

func resolve(p, dir string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(dir, p)
}
