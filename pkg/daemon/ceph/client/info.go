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
	"context"
	"fmt"
	"strings"
)

// ClusterInfo is a collection of information about the Ceph cluster the
// provisioner talks to. It configures every invocation of the ceph tool.
type ClusterInfo struct {
	// Name is the ceph cluster name, e.g. "ceph"
	Name     string
	Monitors map[string]*MonInfo
	CephCred CephCred

	// Context is the lifetime of the current invocation. Commands are not
	// started once it has been cancelled.
	Context context.Context
}

// MonInfo is a collection of information about a Ceph mon.
type MonInfo struct {
	Name     string `json:"name"`
	Endpoint string `json:"endpoint"`
}

// CephCred represents the Ceph cluster username and key used by the provisioner.
type CephCred struct {
	Username string `json:"name"`
	Secret   string `json:"secret"`
}

func NewClusterInfo(name string) *ClusterInfo {
	return &ClusterInfo{
		Name:     name,
		Monitors: map[string]*MonInfo{},
		Context:  context.Background(),
	}
}

// IsInitialized returns an error if the critical connection information has
// not been filled in.
func (c *ClusterInfo) IsInitialized() error {
	if c == nil {
		return fmt.Errorf("cluster info is nil")
	}
	if c.Name == "" {
		return fmt.Errorf("cluster name is not set")
	}
	if len(c.Monitors) == 0 {
		return fmt.Errorf("no monitor endpoints are set")
	}
	if c.CephCred.Username == "" || c.CephCred.Secret == "" {
		return fmt.Errorf("ceph credentials are not set")
	}
	if c.Context == nil {
		return fmt.Errorf("context is not set")
	}
	return nil
}

// AdminTestClusterInfo returns a cluster info with canned admin credentials
// for unit tests.
func AdminTestClusterInfo(name string) *ClusterInfo {
	clusterInfo := NewClusterInfo(name)
	clusterInfo.Monitors["a"] = &MonInfo{Name: "a", Endpoint: "127.0.0.1:6789"}
	clusterInfo.CephCred = CephCred{Username: "client.admin", Secret: "testkey"}
	return clusterInfo
}

// ParseMonEndpoints parses a comma separated list of monitor endpoints,
// either in "name=endpoint" form or as bare endpoints which are assigned
// generated names.
func ParseMonEndpoints(input string) map[string]*MonInfo {
	mons := map[string]*MonInfo{}
	for i, rawMon := range strings.Split(input, ",") {
		rawMon = strings.TrimSpace(rawMon)
		if rawMon == "" {
			continue
		}
		parts := strings.SplitN(rawMon, "=", 2)
		if len(parts) == 2 {
			mons[parts[0]] = &MonInfo{Name: parts[0], Endpoint: parts[1]}
			continue
		}
		name := fmt.Sprintf("mon%d", i)
		mons[name] = &MonInfo{Name: name, Endpoint: rawMon}
	}
	return mons
}
