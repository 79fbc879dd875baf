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

// Package clusterd carries the context shared by all operations against a
// Ceph cluster.
package clusterd

import (
	"github.com/rook/cephfs-provisioner/pkg/util/exec"
)

// Context is the collection of external dependencies an operation needs to
// interact with the Ceph cluster from the host it runs on.
type Context struct {
	// The implementation of executing a console command
	Executor exec.Executor

	// The root configuration directory used by services
	ConfigDir string

	// The full path to a config file that can be used to override generated settings
	ConfigFileOverride string
}
