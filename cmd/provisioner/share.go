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
package main

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	cephclient "github.com/rook/cephfs-provisioner/pkg/daemon/ceph/client"
	"github.com/rook/cephfs-provisioner/pkg/daemon/ceph/cephfs"
	cephconfig "github.com/rook/cephfs-provisioner/pkg/daemon/ceph/config"
	"github.com/rook/cephfs-provisioner/pkg/util/flags"
)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Manages CephFS-backed shares",
}

var shareCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Creates a share and prints its export location and credentials as JSON",
}

var shareDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Revokes access to a share and removes it",
}

var (
	shareName string
	shareUser string
)

func init() {
	for _, cmd := range []*cobra.Command{shareCreateCmd, shareDeleteCmd} {
		cmd.Flags().StringVarP(&shareName, "name", "n", "", "name of the share (required)")
		cmd.Flags().StringVarP(&shareUser, "user", "u", "", "ceph user id the share is authorized for (required)")
		addCephFlags(cmd)
	}

	shareCreateCmd.RunE = createShare
	shareDeleteCmd.RunE = deleteShare
	shareCmd.AddCommand(shareCreateCmd, shareDeleteCmd)
}

func newShareDriver(cmd *cobra.Command) (*cephfs.Driver, error) {
	if err := flags.VerifyRequiredFlags(cmd, []string{"name", "user"}); err != nil {
		return nil, err
	}
	if err := verifyCephFlags(cmd); err != nil {
		return nil, err
	}

	setLogLevel()
	logStartupInfo(cmd)

	context := createContext()
	clusterInfo := createClusterInfo(cmd)

	if _, err := cephconfig.GenerateConnectionConfig(context, clusterInfo); err != nil {
		return nil, errors.Wrap(err, "failed to generate the connection config")
	}

	return cephfs.NewCephDriver(context, clusterInfo, cfg.fsName)
}

func createShare(cmd *cobra.Command, args []string) error {
	driver, err := newShareDriver(cmd)
	if err != nil {
		return err
	}

	export, err := driver.CreateShare(cephclient.NewVolumePath(cfg.volumeGroup, shareName), shareUser)
	if err != nil {
		return errors.Wrapf(err, "failed to create share %q", shareName)
	}

	out, err := json.Marshal(export)
	if err != nil {
		return errors.Wrap(err, "failed to marshal the share export")
	}

	// the export location is the command output, everything else goes to the logger
	fmt.Println(string(out))
	return nil
}

func deleteShare(cmd *cobra.Command, args []string) error {
	driver, err := newShareDriver(cmd)
	if err != nil {
		return err
	}

	if err := driver.DeleteShare(cephclient.NewVolumePath(cfg.volumeGroup, shareName), shareUser); err != nil {
		return errors.Wrapf(err, "failed to delete share %q", shareName)
	}
	return nil
}
