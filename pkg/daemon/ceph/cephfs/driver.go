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

// Package cephfs provisions CephFS-backed shares and the scoped auth
// entities that access them.
package cephfs

import (
	"fmt"
	"strings"

	"github.com/coreos/pkg/capnslog"
	"github.com/pkg/errors"
	"github.com/rook/cephfs-provisioner/pkg/clusterd"
	"github.com/rook/cephfs-provisioner/pkg/daemon/ceph/client"
)

var logger = capnslog.NewPackageLogger("github.com/rook/cephfs-provisioner", "cephfs")

// PoolLayout is the backing data pool and rados namespace of a share path.
type PoolLayout struct {
	Pool      string
	Namespace string
}

// PathResolver looks up the pool layout backing a share.
type PathResolver interface {
	Resolve(v client.VolumePath) (PoolLayout, error)
}

// AuthManager is the auth service the driver converges entities against.
// GetEntity reports absence with a typed not-found error
// (client.IsAuthEntityNotFound) so absence is never inferred from generic
// failures.
type AuthManager interface {
	GetEntity(name string) (*client.AuthEntity, error)
	CreateEntity(name string, caps map[string]string) (*client.AuthEntity, error)
	UpdateCaps(name string, caps map[string]string) error
	DeleteEntity(name string) error
}

// ShareExport is the mount information returned for a newly created share.
type ShareExport struct {
	// Path is the mount target, "mon1,mon2:/volumes/<group>/<name>"
	Path string `json:"path"`
	User string `json:"user"`
	Key  string `json:"auth"`
}

// Driver provisions CephFS shares. A single call either completes or fails;
// no state is kept between calls. Racing calls on the same entity are not
// coordinated here: the last writer wins unless the auth backend provides
// compare-and-swap semantics, which is not assumed.
type Driver struct {
	context     *clusterd.Context
	clusterInfo *client.ClusterInfo
	fsName      string
	resolver    PathResolver
	auth        AuthManager
}

// NewDriver builds a driver with explicit collaborators. Missing
// collaborators are a configuration error caught here, not at use.
func NewDriver(context *clusterd.Context, clusterInfo *client.ClusterInfo, fsName string, resolver PathResolver, auth AuthManager) (*Driver, error) {
	if context == nil || context.Executor == nil {
		return nil, errors.New("an executor context is required")
	}
	if err := clusterInfo.IsInitialized(); err != nil {
		return nil, errors.Wrap(err, "cluster info is not initialized")
	}
	if fsName == "" {
		return nil, errors.New("a filesystem name is required")
	}
	if resolver == nil {
		return nil, errors.New("a path resolver is required")
	}
	if auth == nil {
		return nil, errors.New("an auth manager is required")
	}

	return &Driver{
		context:     context,
		clusterInfo: clusterInfo,
		fsName:      fsName,
		resolver:    resolver,
		auth:        auth,
	}, nil
}

// NewCephDriver builds a driver whose collaborators talk to the cluster
// through the ceph tool.
func NewCephDriver(context *clusterd.Context, clusterInfo *client.ClusterInfo, fsName string) (*Driver, error) {
	resolver := &cephPathResolver{context: context, clusterInfo: clusterInfo, fsName: fsName}
	auth := &cephAuthManager{context: context, clusterInfo: clusterInfo}
	return NewDriver(context, clusterInfo, fsName, resolver, auth)
}

// Authorize converges the caps of the entity so it can access the share at
// exactly the requested access level. The entity is created on first use;
// an existing entity keeps every unrelated grant it already holds.
func (d *Driver) Authorize(v client.VolumePath, entityID string, readonly bool) (*client.AuthEntity, error) {
	layout, err := d.resolver.Resolve(v)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve pool layout for %q", v.Path())
	}

	level := client.ReadWrite
	if readonly {
		level = client.ReadOnly
	}
	unwantedLevel := level.Complement()

	name := entityName(entityID)
	sharePath := v.Path()

	wantMDS := client.MDSCaps(level, sharePath)
	wantOSD := client.OSDPoolToken(level, layout.Pool, layout.Namespace)

	entity, err := d.auth.GetEntity(name)
	if err != nil {
		if !client.IsAuthEntityNotFound(err) {
			return nil, errors.Wrapf(err, "failed to fetch auth entity %q", name)
		}

		// first authorization of this entity, there is no prior state to
		// reconcile against
		logger.Infof("creating auth entity %q for share %q", name, sharePath)
		created, err := d.auth.CreateEntity(name, map[string]string{
			"mds": wantMDS,
			"osd": wantOSD,
			"mon": client.MonDefaultCaps,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create auth entity %q", name)
		}
		return created, nil
	}

	mdsCaps, err := client.ReconcileCaps(entity.Caps["mds"], wantMDS, client.MDSPathToken(unwantedLevel, sharePath))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to reconcile mds caps for %q", name)
	}
	osdCaps, err := client.ReconcileCaps(entity.Caps["osd"], wantOSD, client.OSDPoolToken(unwantedLevel, layout.Pool, layout.Namespace))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to reconcile osd caps for %q", name)
	}

	logger.Infof("updating auth entity %q for share %q", name, sharePath)
	caps := map[string]string{
		"mds": mdsCaps,
		"osd": osdCaps,
		// the mon capability is preserved unchanged
		"mon": entity.Caps["mon"],
	}
	if err := d.auth.UpdateCaps(name, caps); err != nil {
		return nil, errors.Wrapf(err, "failed to update caps of auth entity %q", name)
	}

	// re-fetch so the caller sees the server-confirmed state
	updated, err := d.auth.GetEntity(name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch auth entity %q after updating its caps", name)
	}
	if updated.Entity != name {
		// never retried silently, a mismatch means the auth database answered
		// for a different entity than requested
		return nil, errors.Errorf("auth entity %q is inconsistent: got entity %q", name, updated.Entity)
	}

	return updated, nil
}

// Deauthorize strips the entity's grants on the share. The entity itself is
// deleted once it holds no grant on any share.
func (d *Driver) Deauthorize(v client.VolumePath, entityID string) error {
	layout, err := d.resolver.Resolve(v)
	if err != nil {
		return errors.Wrapf(err, "failed to resolve pool layout for %q", v.Path())
	}

	name := entityName(entityID)
	sharePath := v.Path()

	entity, err := d.auth.GetEntity(name)
	if err != nil {
		if client.IsAuthEntityNotFound(err) {
			logger.Infof("auth entity %q is already gone", name)
			return nil
		}
		return errors.Wrapf(err, "failed to fetch auth entity %q", name)
	}

	mdsSet := client.ParseCaps(entity.Caps["mds"])
	osdSet := client.ParseCaps(entity.Caps["osd"])
	for _, level := range []client.AccessLevel{client.ReadOnly, client.ReadWrite} {
		mdsSet.Discard(client.MDSPathToken(level, sharePath))
		osdSet.Discard(client.OSDPoolToken(level, layout.Pool, layout.Namespace))
	}

	// a leftover mds "allow r" grants nothing on its own once the last
	// path-scoped grant is gone
	if len(osdSet) == 0 && mdsSet.Format() == "allow r" {
		mdsSet.Discard("allow r")
	}

	if len(mdsSet) == 0 && len(osdSet) == 0 {
		logger.Infof("deleting auth entity %q, no grants remain", name)
		if err := d.auth.DeleteEntity(name); err != nil {
			return errors.Wrapf(err, "failed to delete auth entity %q", name)
		}
		return nil
	}

	logger.Infof("narrowing caps of auth entity %q", name)
	caps := map[string]string{
		"mds": mdsSet.Format(),
		"osd": osdSet.Format(),
		"mon": entity.Caps["mon"],
	}
	if err := d.auth.UpdateCaps(name, caps); err != nil {
		return errors.Wrapf(err, "failed to update caps of auth entity %q", name)
	}
	return nil
}

// CreateShare creates the subvolume backing a share and authorizes the user
// for read-write access to it.
func (d *Driver) CreateShare(v client.VolumePath, userID string) (*ShareExport, error) {
	if err := client.CreateSubvolumeGroup(d.context, d.clusterInfo, d.fsName, v.Group); err != nil {
		return nil, err
	}
	if err := client.CreateSubvolume(d.context, d.clusterInfo, d.fsName, v); err != nil {
		return nil, err
	}

	mountPath, err := client.GetSubvolumePath(d.context, d.clusterInfo, d.fsName, v)
	if err != nil {
		return nil, err
	}
	monAddresses, err := client.GetMonAddresses(d.context, d.clusterInfo)
	if err != nil {
		return nil, err
	}

	entity, err := d.Authorize(v, userID, false)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to authorize user %q on share %q", userID, v.Name)
	}

	return &ShareExport{
		Path: fmt.Sprintf("%s:%s", strings.Join(monAddresses, ","), mountPath),
		User: entity.Entity,
		Key:  entity.Key,
	}, nil
}

// DeleteShare revokes the user's access to the share and removes its
// subvolume.
func (d *Driver) DeleteShare(v client.VolumePath, userID string) error {
	if err := d.Deauthorize(v, userID); err != nil {
		return errors.Wrapf(err, "failed to deauthorize user %q on share %q", userID, v.Name)
	}
	return client.DeleteSubvolume(d.context, d.clusterInfo, d.fsName, v)
}

func entityName(entityID string) string {
	return fmt.Sprintf("client.%s", entityID)
}
