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

package cephfs

import (
	"github.com/rook/cephfs-provisioner/pkg/clusterd"
	"github.com/rook/cephfs-provisioner/pkg/daemon/ceph/client"
)

// cephPathResolver resolves a share's pool layout from the subvolume
// metadata the mds keeps.
type cephPathResolver struct {
	context     *clusterd.Context
	clusterInfo *client.ClusterInfo
	fsName      string
}

func (r *cephPathResolver) Resolve(v client.VolumePath) (PoolLayout, error) {
	info, err := client.GetSubvolumeInfo(r.context, r.clusterInfo, r.fsName, v)
	if err != nil {
		return PoolLayout{}, err
	}
	return PoolLayout{Pool: info.DataPool, Namespace: info.PoolNamespace}, nil
}

// cephAuthManager drives the cluster's auth subsystem through the ceph tool.
type cephAuthManager struct {
	context     *clusterd.Context
	clusterInfo *client.ClusterInfo
}

func (a *cephAuthManager) GetEntity(name string) (*client.AuthEntity, error) {
	return client.AuthGet(a.context, a.clusterInfo, name)
}

func (a *cephAuthManager) CreateEntity(name string, caps map[string]string) (*client.AuthEntity, error) {
	return client.AuthGetOrCreate(a.context, a.clusterInfo, name, caps)
}

func (a *cephAuthManager) UpdateCaps(name string, caps map[string]string) error {
	return client.AuthUpdateCaps(a.context, a.clusterInfo, name, caps)
}

func (a *cephAuthManager) DeleteEntity(name string) error {
	return client.AuthDelete(a.context, a.clusterInfo, name)
}
