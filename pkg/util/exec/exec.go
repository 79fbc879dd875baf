/*
Copyright 2016 The Rook Authors. All rights reserved.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package exec runs external tools and captures their output.
package exec

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/coreos/pkg/capnslog"
)

var logger = capnslog.NewPackageLogger("github.com/rook/cephfs-provisioner", "exec")

// CephCommandsTimeout is the default timeout applied to commands run against the
// ceph cluster. It can be overridden by callers that know better.
var CephCommandsTimeout = 15 * time.Second

// Executor is the interface for running console commands. All interaction with
// external binaries flows through an Executor so tests can substitute a mock.
type Executor interface {
	ExecuteCommandWithOutput(command string, arg ...string) (string, error)
	ExecuteCommandWithTimeout(timeout time.Duration, command string, arg ...string) (string, error)
}

// CommandExecutor is the implementation of Executor that shells out to the host.
type CommandExecutor struct{}

// ExecuteCommandWithOutput runs the command and returns its trimmed stdout.
func (*CommandExecutor) ExecuteCommandWithOutput(command string, arg ...string) (string, error) {
	logCommand(command, arg...)
	cmd := exec.Command(command, arg...) //nolint:gosec // the caller controls the command
	out, err := cmd.Output()
	output := strings.TrimSpace(string(out))
	if err != nil {
		return output, createCommandError(err, command)
	}
	return output, nil
}

// ExecuteCommandWithTimeout runs the command and kills it if it does not
// complete within the given timeout.
func (*CommandExecutor) ExecuteCommandWithTimeout(timeout time.Duration, command string, arg ...string) (string, error) {
	logCommand(command, arg...)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, command, arg...) //nolint:gosec // the caller controls the command
	out, err := cmd.CombinedOutput()
	output := strings.TrimSpace(string(out))

	if ctx.Err() == context.DeadlineExceeded {
		return output, createCommandError(ctx.Err(), command)
	}
	if err != nil {
		return output, createCommandError(err, command)
	}
	return output, nil
}

func logCommand(command string, arg ...string) {
	logger.Debugf("Running command: %s %s", command, strings.Join(arg, " "))
}
