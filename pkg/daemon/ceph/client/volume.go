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
	"encoding/json"
	"path"

	"github.com/pkg/errors"
	"github.com/rook/cephfs-provisioner/pkg/clusterd"
)

// DefaultVolumeGroup is the subvolume group shares are created in when the
// caller does not pick one.
const DefaultVolumeGroup = "kubernetes"

// VolumePath identifies a share inside a subvolume group of a CephFS
// filesystem.
type VolumePath struct {
	Group string
	Name  string
}

func NewVolumePath(group, name string) VolumePath {
	if group == "" {
		group = DefaultVolumeGroup
	}
	return VolumePath{Group: group, Name: name}
}

// Path returns the filesystem path the share is rooted at.
func (v VolumePath) Path() string {
	return path.Join("/volumes", v.Group, v.Name)
}

// SubvolumeInfo is the subset of 'fs subvolume info' output the provisioner
// needs: the backing data pool and the rados namespace isolating the share.
type SubvolumeInfo struct {
	DataPool      string `json:"data_pool"`
	PoolNamespace string `json:"pool_namespace"`
}

// CreateSubvolumeGroup creates the subvolume group shares live in. Creation
// is idempotent on the ceph side.
func CreateSubvolumeGroup(context *clusterd.Context, clusterInfo *ClusterInfo, fsName, groupName string) error {
	logger.Infof("creating cephfs %q subvolume group %q", fsName, groupName)
	args := []string{"fs", "subvolumegroup", "create", fsName, groupName}
	cmd := NewCephCommand(context, clusterInfo, args)
	cmd.JsonOutput = false
	output, err := cmd.Run()
	if err != nil {
		return errors.Wrapf(err, "failed to create subvolume group %q. %s", groupName, output)
	}
	return nil
}

// CreateSubvolume creates the subvolume backing a share. The subvolume gets
// its own rados namespace so osd caps can be scoped to it.
func CreateSubvolume(context *clusterd.Context, clusterInfo *ClusterInfo, fsName string, v VolumePath) error {
	logger.Infof("creating cephfs %q subvolume %q in group %q", fsName, v.Name, v.Group)
	args := []string{"fs", "subvolume", "create", fsName, v.Name, "--group_name", v.Group, "--namespace-isolated"}
	cmd := NewCephCommand(context, clusterInfo, args)
	cmd.JsonOutput = false
	output, err := cmd.Run()
	if err != nil {
		return errors.Wrapf(err, "failed to create subvolume %q. %s", v.Name, output)
	}

	logger.Infof("successfully created cephfs %q subvolume %q", fsName, v.Name)
	return nil
}

// DeleteSubvolume removes the subvolume backing a share.
func DeleteSubvolume(context *clusterd.Context, clusterInfo *ClusterInfo, fsName string, v VolumePath) error {
	logger.Infof("deleting cephfs %q subvolume %q in group %q", fsName, v.Name, v.Group)
	args := []string{"fs", "subvolume", "rm", fsName, v.Name, "--group_name", v.Group}
	cmd := NewCephCommand(context, clusterInfo, args)
	cmd.JsonOutput = false
	output, err := cmd.Run()
	if err != nil {
		return errors.Wrapf(err, "failed to delete subvolume %q. %s", v.Name, output)
	}
	return nil
}

// GetSubvolumePath looks up the mount path of the subvolume backing a share.
func GetSubvolumePath(context *clusterd.Context, clusterInfo *ClusterInfo, fsName string, v VolumePath) (string, error) {
	args := []string{"fs", "subvolume", "getpath", fsName, v.Name, "--group_name", v.Group}
	cmd := NewCephCommand(context, clusterInfo, args)
	cmd.JsonOutput = false
	output, err := cmd.Run()
	if err != nil {
		return "", errors.Wrapf(err, "failed to get path of subvolume %q. %s", v.Name, output)
	}
	return string(output), nil
}

// GetSubvolumeInfo looks up the data pool and rados namespace of the
// subvolume backing a share.
func GetSubvolumeInfo(context *clusterd.Context, clusterInfo *ClusterInfo, fsName string, v VolumePath) (*SubvolumeInfo, error) {
	args := []string{"fs", "subvolume", "info", fsName, v.Name, "--group_name", v.Group}
	buf, err := NewCephCommand(context, clusterInfo, args).Run()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get info of subvolume %q", v.Name)
	}

	var info SubvolumeInfo
	if err := json.Unmarshal(buf, &info); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal info of subvolume %q", v.Name)
	}
	return &info, nil
}
