/*
Copyright 2021 The Rook Authors. All rights reserved.

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
	"testing"

	"github.com/rook/cephfs-provisioner/pkg/clusterd"
	exectest "github.com/rook/cephfs-provisioner/pkg/util/exec/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVolumePath(t *testing.T) {
	v := NewVolumePath("", "test")
	assert.Equal(t, DefaultVolumeGroup, v.Group)
	assert.Equal(t, "/volumes/kubernetes/test", v.Path())

	v = NewVolumePath("mygroup", "share1")
	assert.Equal(t, "/volumes/mygroup/share1", v.Path())
}

func TestCreateSubvolume(t *testing.T) {
	executor := &exectest.MockExecutor{}
	executor.MockExecuteCommandWithOutput = func(command string, args ...string) (string, error) {
		assert.Equal(t, []string{"fs", "subvolume", "create", "myfs", "test", "--group_name", "kubernetes", "--namespace-isolated"}, args[0:8])
		return "", nil
	}
	context := &clusterd.Context{Executor: executor}

	err := CreateSubvolume(context, AdminTestClusterInfo("ceph"), "myfs", NewVolumePath("", "test"))
	assert.NoError(t, err)
}

func TestGetSubvolumeInfo(t *testing.T) {
	executor := &exectest.MockExecutor{}
	executor.MockExecuteCommandWithOutput = func(command string, args ...string) (string, error) {
		assert.Equal(t, []string{"fs", "subvolume", "info", "myfs", "test", "--group_name", "kubernetes"}, args[0:7])
		return `{"data_pool":"cephfs_data","pool_namespace":"fsvolumens_test","bytes_quota":"infinite"}`, nil
	}
	context := &clusterd.Context{Executor: executor}

	info, err := GetSubvolumeInfo(context, AdminTestClusterInfo("ceph"), "myfs", NewVolumePath("", "test"))
	require.NoError(t, err)
	assert.Equal(t, "cephfs_data", info.DataPool)
	assert.Equal(t, "fsvolumens_test", info.PoolNamespace)
}

func TestGetSubvolumePath(t *testing.T) {
	executor := &exectest.MockExecutor{}
	executor.MockExecuteCommandWithOutput = func(command string, args ...string) (string, error) {
		assert.Equal(t, []string{"fs", "subvolume", "getpath", "myfs", "test", "--group_name", "kubernetes"}, args[0:7])
		return "/volumes/kubernetes/test/5643a3f1", nil
	}
	context := &clusterd.Context{Executor: executor}

	path, err := GetSubvolumePath(context, AdminTestClusterInfo("ceph"), "myfs", NewVolumePath("", "test"))
	require.NoError(t, err)
	assert.Equal(t, "/volumes/kubernetes/test/5643a3f1", path)
}

func TestGetMonAddresses(t *testing.T) {
	executor := &exectest.MockExecutor{}
	executor.MockExecuteCommandWithOutput = func(command string, args ...string) (string, error) {
		assert.Equal(t, []string{"mon", "dump"}, args[0:2])
		return `{"mons":[{"name":"a","addr":"172.24.0.4:6789/0"},{"name":"b","addr":"172.24.0.5:6789/0"}]}`, nil
	}
	context := &clusterd.Context{Executor: executor}

	addresses, err := GetMonAddresses(context, AdminTestClusterInfo("ceph"))
	require.NoError(t, err)
	assert.Equal(t, []string{"172.24.0.4:6789", "172.24.0.5:6789"}, addresses)
}

func TestParseMonEndpoints(t *testing.T) {
	mons := ParseMonEndpoints("172.24.0.4:6789")
	require.Len(t, mons, 1)
	assert.Equal(t, "172.24.0.4:6789", mons["mon0"].Endpoint)

	mons = ParseMonEndpoints("a=1.2.3.4:6789,b=1.2.3.5:6789")
	require.Len(t, mons, 2)
	assert.Equal(t, "1.2.3.4:6789", mons["a"].Endpoint)
	assert.Equal(t, "1.2.3.5:6789", mons["b"].Endpoint)
}
