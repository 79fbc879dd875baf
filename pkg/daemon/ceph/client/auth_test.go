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
package client

import (
	"syscall"
	"testing"

	"github.com/rook/cephfs-provisioner/pkg/clusterd"
	exectest "github.com/rook/cephfs-provisioner/pkg/util/exec/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// import TestMockExecHelperProcess
func TestMockExecHelperProcess(t *testing.T) {
	exectest.TestMockExecHelperProcess(t)
}

func TestAuthGet(t *testing.T) {
	executor := &exectest.MockExecutor{}
	executor.MockExecuteCommandWithOutput = func(command string, args ...string) (string, error) {
		assert.Equal(t, CephTool, command)
		assert.Equal(t, []string{"auth", "get", "client.foo"}, args[0:3])
		return `[{"entity":"client.foo","key":"AQBY0pViXwBBAAUpP==","caps":{"mds":"allow r","mon":"allow r"}}]`, nil
	}
	context := &clusterd.Context{Executor: executor}

	entity, err := AuthGet(context, AdminTestClusterInfo("ceph"), "client.foo")
	require.NoError(t, err)
	assert.Equal(t, "client.foo", entity.Entity)
	assert.Equal(t, "AQBY0pViXwBBAAUpP==", entity.Key)
	assert.Equal(t, "allow r", entity.Caps["mds"])
}

func TestAuthGetNotFound(t *testing.T) {
	executor := &exectest.MockExecutor{}
	executor.MockExecuteCommandWithOutput = func(command string, args ...string) (string, error) {
		return "", exectest.MockExecCommandReturns(t, "", "Error ENOENT: failed to find entity", int(syscall.ENOENT))
	}
	context := &clusterd.Context{Executor: executor}

	_, err := AuthGet(context, AdminTestClusterInfo("ceph"), "client.gone")
	require.Error(t, err)
	assert.True(t, IsAuthEntityNotFound(err))
}

func TestAuthGetGenericFailureIsNotNotFound(t *testing.T) {
	executor := &exectest.MockExecutor{}
	executor.MockExecuteCommandWithOutput = func(command string, args ...string) (string, error) {
		return "", exectest.MockExecCommandReturns(t, "", "Error EACCES: access denied", int(syscall.EACCES))
	}
	context := &clusterd.Context{Executor: executor}

	_, err := AuthGet(context, AdminTestClusterInfo("ceph"), "client.foo")
	require.Error(t, err)
	assert.False(t, IsAuthEntityNotFound(err))
}

func TestAuthGetInconsistentResponse(t *testing.T) {
	executor := &exectest.MockExecutor{}
	context := &clusterd.Context{Executor: executor}
	clusterInfo := AdminTestClusterInfo("ceph")

	// more than one entity returned
	executor.MockExecuteCommandWithOutput = func(command string, args ...string) (string, error) {
		return `[{"entity":"client.foo"},{"entity":"client.bar"}]`, nil
	}
	_, err := AuthGet(context, clusterInfo, "client.foo")
	assert.Error(t, err)

	// a different entity than requested
	executor.MockExecuteCommandWithOutput = func(command string, args ...string) (string, error) {
		return `[{"entity":"client.bar"}]`, nil
	}
	_, err = AuthGet(context, clusterInfo, "client.foo")
	assert.Error(t, err)
}

func TestAuthGetOrCreate(t *testing.T) {
	caps := map[string]string{
		"mds": "allow r,allow rw path=/volumes/kubernetes/test",
		"osd": "allow rw pool=cephfs_data namespace=fsvolumens_test",
		"mon": "allow r",
	}

	executor := &exectest.MockExecutor{}
	executor.MockExecuteCommandWithOutput = func(command string, args ...string) (string, error) {
		assert.Equal(t, []string{"auth", "get-or-create", "client.foo"}, args[0:3])
		// caps are flattened in sorted subsystem order
		assert.Equal(t, []string{
			"mds", caps["mds"],
			"mon", caps["mon"],
			"osd", caps["osd"],
		}, args[3:9])
		return `[{"entity":"client.foo","key":"AQB="}]`, nil
	}
	context := &clusterd.Context{Executor: executor}

	entity, err := AuthGetOrCreate(context, AdminTestClusterInfo("ceph"), "client.foo", caps)
	require.NoError(t, err)
	assert.Equal(t, "client.foo", entity.Entity)
	assert.Equal(t, "AQB=", entity.Key)
	// the requested caps are reported when the mon omits them
	assert.Equal(t, caps, entity.Caps)
}

func TestAuthUpdateCaps(t *testing.T) {
	executor := &exectest.MockExecutor{}
	executor.MockExecuteCommandWithOutput = func(command string, args ...string) (string, error) {
		assert.Equal(t, []string{"auth", "caps", "client.foo", "mds", "allow r", "osd", "allow r pool=p namespace=n"}, args[0:7])
		return "", nil
	}
	context := &clusterd.Context{Executor: executor}

	// empty subsystems are skipped
	err := AuthUpdateCaps(context, AdminTestClusterInfo("ceph"), "client.foo", map[string]string{
		"mds": "allow r",
		"osd": "allow r pool=p namespace=n",
		"mon": "",
	})
	assert.NoError(t, err)
}

func TestAuthDelete(t *testing.T) {
	var deleted bool
	executor := &exectest.MockExecutor{}
	executor.MockExecuteCommandWithOutput = func(command string, args ...string) (string, error) {
		assert.Equal(t, []string{"auth", "del", "client.foo"}, args[0:3])
		deleted = true
		return "", nil
	}
	context := &clusterd.Context{Executor: executor}

	err := AuthDelete(context, AdminTestClusterInfo("ceph"), "client.foo")
	assert.NoError(t, err)
	assert.True(t, deleted)
}
