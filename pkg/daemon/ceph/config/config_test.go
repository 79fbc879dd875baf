/*
Copyright 2018 The Rook Authors. All rights reserved.

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

package config

import (
	"os"
	"testing"

	"github.com/go-ini/ini"
	"github.com/rook/cephfs-provisioner/pkg/clusterd"
	"github.com/rook/cephfs-provisioner/pkg/daemon/ceph/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateConnectionConfig(t *testing.T) {
	configDir := t.TempDir()
	context := &clusterd.Context{ConfigDir: configDir}
	clusterInfo := client.AdminTestClusterInfo("ceph")

	filePath, err := GenerateConnectionConfig(context, clusterInfo)
	require.NoError(t, err)
	assert.Equal(t, client.CephConfFilePath(configDir, "ceph"), filePath)

	conf, err := ini.Load(filePath)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:6789", conf.Section("global").Key("mon_host").Value())
	assert.Equal(t, "cephx", conf.Section("global").Key("auth_client_required").Value())

	keyringPath := client.CephKeyringFilePath(configDir, "ceph", "client.admin")
	assert.Equal(t, keyringPath, conf.Section("client.admin").Key("keyring").Value())

	keyring, err := os.ReadFile(keyringPath)
	require.NoError(t, err)
	assert.Equal(t, "[client.admin]\nkey = testkey\n", string(keyring))

	info, err := os.Stat(keyringPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestGetQualifiedUser(t *testing.T) {
	assert.Equal(t, "client.foo", getQualifiedUser("foo"))
	assert.Equal(t, "client.admin", getQualifiedUser("client.admin"))
	assert.Equal(t, "mds.a", getQualifiedUser("mds.a"))
}

func TestCephKeyring(t *testing.T) {
	keyring := CephKeyring(client.CephCred{Username: "client.foo", Secret: "mykey"})
	assert.Equal(t, "[client.foo]\nkey = mykey\n", keyring)

	// an unqualified user gets the client prefix
	keyring = CephKeyring(client.CephCred{Username: "foo", Secret: "mykey"})
	assert.Equal(t, "[client.foo]\nkey = mykey\n", keyring)
}
