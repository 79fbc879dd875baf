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
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/rook/cephfs-provisioner/pkg/daemon/ceph/client"
)

const keyringTemplate = `[%s]
key = %s
`

// CephKeyring returns the keyring file content for the given credentials.
func CephKeyring(cred client.CephCred) string {
	user := cred.Username
	if user == "" {
		user = client.AdminUsername
	}
	return fmt.Sprintf(keyringTemplate, getQualifiedUser(user), cred.Secret)
}

func writeKeyring(keyring, keyringPath string) error {
	// keyrings hold the cluster secret, keep them out of reach of other users
	if err := os.WriteFile(keyringPath, []byte(keyring), 0600); err != nil {
		return errors.Wrapf(err, "failed to write keyring %q", keyringPath)
	}
	return nil
}
