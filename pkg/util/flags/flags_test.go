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
package flags

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestVerifyRequiredFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("mon", "", "")
	cmd.Flags().String("auth-id", "", "")

	err := VerifyRequiredFlags(cmd, []string{"mon", "auth-id"})
	assert.EqualError(t, err, "mon,auth-id are required for test")

	assert.NoError(t, cmd.Flags().Set("mon", "1.2.3.4:6789"))
	err = VerifyRequiredFlags(cmd, []string{"mon", "auth-id"})
	assert.EqualError(t, err, "auth-id is required for test")

	assert.NoError(t, cmd.Flags().Set("auth-id", "admin"))
	assert.NoError(t, VerifyRequiredFlags(cmd, []string{"mon", "auth-id"}))
}

func TestSetFlagsFromEnv(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("auth-id", "", "")
	cmd.Flags().String("cluster-name", "ceph", "")

	t.Setenv("CEPH_AUTH_ID", "admin")
	SetFlagsFromEnv(cmd.Flags(), "CEPH")

	authID, err := cmd.Flags().GetString("auth-id")
	assert.NoError(t, err)
	assert.Equal(t, "admin", authID)

	// unset env vars leave the default alone
	clusterName, err := cmd.Flags().GetString("cluster-name")
	assert.NoError(t, err)
	assert.Equal(t, "ceph", clusterName)
}

func TestGetFlagsAndValues(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("mon", "1.2.3.4:6789", "")
	cmd.Flags().String("auth-key", "supersecret", "")

	values := GetFlagsAndValues(cmd.Flags(), "auth-key")
	assert.Contains(t, values, "--mon=1.2.3.4:6789")
	assert.Contains(t, values, "--auth-key=*****")
	assert.NotContains(t, values, "--auth-key=supersecret")
}
