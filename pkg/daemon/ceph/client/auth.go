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
	"encoding/json"
	"sort"
	"syscall"

	"github.com/pkg/errors"
	"github.com/rook/cephfs-provisioner/pkg/clusterd"
	"github.com/rook/cephfs-provisioner/pkg/util/exec"
)

// ErrAuthEntityNotFound indicates the requested auth entity does not exist.
// It is detected from the ENOENT exit status of the ceph tool, never inferred
// from a generic failure, so transport errors are not mistaken for absence.
var ErrAuthEntityNotFound = errors.New("auth entity not found")

// IsAuthEntityNotFound returns true if the error says the entity does not exist.
func IsAuthEntityNotFound(err error) bool {
	return errors.Is(err, ErrAuthEntityNotFound)
}

// AuthEntity is a named ceph authentication identity with its secret key and
// the capability string granted per subsystem (mds, osd, mon).
type AuthEntity struct {
	Entity string            `json:"entity"`
	Key    string            `json:"key"`
	Caps   map[string]string `json:"caps"`
}

// AuthGet fetches the entity with the given name. The mon returns a list; the
// provisioner requires exactly one match for the requested name and treats
// anything else as an inconsistency in the auth database.
func AuthGet(context *clusterd.Context, clusterInfo *ClusterInfo, name string) (*AuthEntity, error) {
	args := []string{"auth", "get", name}
	buf, err := NewCephCommand(context, clusterInfo, args).Run()
	if err != nil {
		if code, ok := exec.ExitStatus(err); ok && code == int(syscall.ENOENT) {
			return nil, errors.Wrapf(ErrAuthEntityNotFound, "entity %q", name)
		}
		return nil, errors.Wrapf(err, "failed to get auth entity %q", name)
	}

	entity, err := decodeAuthEntity(buf, name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode auth get response for %q", name)
	}
	return entity, nil
}

// AuthGetOrCreate creates the entity with the given caps, or fetches it with
// its existing key if it already exists.
func AuthGetOrCreate(context *clusterd.Context, clusterInfo *ClusterInfo, name string, caps map[string]string) (*AuthEntity, error) {
	args := append([]string{"auth", "get-or-create", name}, flattenCaps(caps)...)
	buf, err := NewCephCommand(context, clusterInfo, args).Run()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to auth get-or-create for %q", name)
	}

	entity, err := decodeAuthEntity(buf, name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode auth get-or-create response for %q", name)
	}
	// older mons omit the caps from the get-or-create response
	if len(entity.Caps) == 0 {
		entity.Caps = caps
	}
	return entity, nil
}

// AuthUpdateCaps updates the capabilities for the given entity.
func AuthUpdateCaps(context *clusterd.Context, clusterInfo *ClusterInfo, name string, caps map[string]string) error {
	args := append([]string{"auth", "caps", name}, flattenCaps(caps)...)
	cmd := NewCephCommand(context, clusterInfo, args)
	cmd.JsonOutput = false
	if _, err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "failed to update caps for %q", name)
	}
	return nil
}

// AuthDelete will delete the given entity.
func AuthDelete(context *clusterd.Context, clusterInfo *ClusterInfo, name string) error {
	args := []string{"auth", "del", name}
	cmd := NewCephCommand(context, clusterInfo, args)
	cmd.JsonOutput = false
	if _, err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "failed to delete auth for %q", name)
	}
	return nil
}

// flattenCaps renders a caps map as the "<subsystem> <capability>" argument
// pairs the ceph tool expects, in sorted subsystem order so command lines are
// deterministic. Empty capability strings are skipped.
func flattenCaps(caps map[string]string) []string {
	subsystems := make([]string, 0, len(caps))
	for subsystem, capability := range caps {
		if capability == "" {
			continue
		}
		subsystems = append(subsystems, subsystem)
	}
	sort.Strings(subsystems)

	args := make([]string, 0, 2*len(subsystems))
	for _, subsystem := range subsystems {
		args = append(args, subsystem, caps[subsystem])
	}
	return args
}

// decodeAuthEntity unmarshals the entity list returned by the mon and
// verifies it holds exactly one entity with the expected name.
func decodeAuthEntity(buf []byte, name string) (*AuthEntity, error) {
	var entities []AuthEntity
	if err := json.Unmarshal(buf, &entities); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal entity list")
	}

	if len(entities) != 1 {
		return nil, errors.Errorf("expected exactly one entity, got %d", len(entities))
	}
	if entities[0].Entity != name {
		return nil, errors.Errorf("expected entity %q, got %q", name, entities[0].Entity)
	}

	entity := entities[0]
	if entity.Caps == nil {
		entity.Caps = map[string]string{}
	}
	return &entity, nil
}
