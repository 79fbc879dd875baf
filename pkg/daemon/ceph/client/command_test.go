/*
Copyright 2019 The Rook Authors. All rights reserved.

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

package client

import (
	"context"
	"testing"
	"time"

	"github.com/rook/cephfs-provisioner/pkg/clusterd"
	exectest "github.com/rook/cephfs-provisioner/pkg/util/exec/test"
	"github.com/stretchr/testify/assert"
)

func TestFinalizeCephCommandArgs(t *testing.T) {
	configDir := "/var/lib/provisioner"
	clusterInfo := AdminTestClusterInfo("ceph")
	expectedCommand := "ceph"
	args := []string{"auth", "get", "client.foo"}
	expectedArgs := []string{
		"auth",
		"get",
		"client.foo",
		"--connect-timeout=15",
		"--cluster=ceph",
		"--conf=/var/lib/provisioner/ceph/ceph.config",
		"--name=client.admin",
		"--keyring=/var/lib/provisioner/ceph/client.admin.keyring",
	}

	cmd, args := FinalizeCephCommandArgs(expectedCommand, clusterInfo, args, configDir)
	assert.Exactly(t, expectedCommand, cmd)
	assert.Exactly(t, expectedArgs, args)
}

func TestNewCephCommand(t *testing.T) {
	clusterInfo := AdminTestClusterInfo("ceph")

	executor := &exectest.MockExecutor{}
	executor.MockExecuteCommandWithOutput = func(command string, args ...string) (string, error) {
		assert.Contains(t, args, "--format")
		assert.Contains(t, args, "json")
		return "{}", nil
	}
	executor.MockExecuteCommandWithTimeout = func(timeout time.Duration, command string, args ...string) (string, error) {
		assert.Equal(t, time.Minute, timeout)
		return "{}", nil
	}
	clusterdContext := &clusterd.Context{Executor: executor}

	cmd := NewCephCommand(clusterdContext, clusterInfo, []string{"status"})
	_, err := cmd.Run()
	assert.NoError(t, err)

	_, err = cmd.RunWithTimeout(time.Minute)
	assert.NoError(t, err)
}

func TestCephCommandCancelledContext(t *testing.T) {
	clusterInfo := AdminTestClusterInfo("ceph")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	clusterInfo.Context = ctx

	executor := &exectest.MockExecutor{}
	clusterdContext := &clusterd.Context{Executor: executor}

	_, err := NewCephCommand(clusterdContext, clusterInfo, []string{"status"}).Run()
	assert.Error(t, err)
}
