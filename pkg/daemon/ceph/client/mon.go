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

package client

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/rook/cephfs-provisioner/pkg/clusterd"
)

// MonDump is the subset of 'mon dump' output needed to report the monitor
// addresses clients mount shares with.
type MonDump struct {
	Mons []MonDumpEntry `json:"mons"`
}

type MonDumpEntry struct {
	Name string `json:"name"`
	Addr string `json:"addr"`
}

// GetMonAddresses returns the address of every monitor in the cluster, with
// the connection nonce stripped.
func GetMonAddresses(context *clusterd.Context, clusterInfo *ClusterInfo) ([]string, error) {
	args := []string{"mon", "dump"}
	buf, err := NewCephCommand(context, clusterInfo, args).Run()
	if err != nil {
		return nil, errors.Wrap(err, "failed to dump mons")
	}

	var dump MonDump
	if err := json.Unmarshal(buf, &dump); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal mon dump")
	}

	addresses := make([]string, 0, len(dump.Mons))
	for _, mon := range dump.Mons {
		// an address is reported as "1.2.3.4:6789/0"; the trailing nonce is
		// not part of the mount target
		addr := mon.Addr
		if i := strings.Index(addr, "/"); i >= 0 {
			addr = addr[:i]
		}
		if addr == "" {
			continue
		}
		addresses = append(addresses, addr)
	}

	if len(addresses) == 0 {
		return nil, errors.New("mon dump reported no monitor addresses")
	}
	return addresses, nil
}
