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
	"os"
	"strings"

	"github.com/coreos/pkg/capnslog"
	"github.com/spf13/cobra"

	"github.com/rook/cephfs-provisioner/pkg/clusterd"
	cephclient "github.com/rook/cephfs-provisioner/pkg/daemon/ceph/client"
	"github.com/rook/cephfs-provisioner/pkg/util"
	"github.com/rook/cephfs-provisioner/pkg/util/exec"
	"github.com/rook/cephfs-provisioner/pkg/util/flags"
)

// CephEnvVarPrefix makes each connection flag configurable by environment
// variable, e.g. CEPH_MON, CEPH_AUTH_ID, CEPH_AUTH_KEY, CEPH_CLUSTER_NAME.
const CephEnvVarPrefix = "CEPH"

var rootCmd = &cobra.Command{
	Use:   "cephfs-provisioner",
	Short: "Provisions CephFS-backed shares and their scoped auth entities",
}

var (
	logLevelRaw string
	logger      = capnslog.NewPackageLogger("github.com/rook/cephfs-provisioner", "provisioner")
)

type config struct {
	monEndpoints string
	authID       string
	authKey      string
	clusterName  string
	configDir    string
	fsName       string
	volumeGroup  string
}

var cfg = &config{}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevelRaw, "log-level", "INFO", "logging level for logging/tracing output (valid values: ERROR,WARNING,INFO,DEBUG)")

	// load the environment variables
	flags.SetFlagsFromEnv(rootCmd.PersistentFlags(), CephEnvVarPrefix)
}

func addCommands() {
	rootCmd.AddCommand(shareCmd)
}

// addCephFlags registers the cluster connection flags. Each one can also be
// supplied by environment variable with the CEPH_ prefix.
func addCephFlags(command *cobra.Command) {
	command.Flags().StringVar(&cfg.monEndpoints, "mon", "", "comma separated ceph monitor endpoints (required)")
	command.Flags().StringVar(&cfg.authID, "auth-id", "", "ceph auth identity the provisioner connects as (required)")
	command.Flags().StringVar(&cfg.authKey, "auth-key", "", "cephx key for the auth identity (required)")
	command.Flags().StringVar(&cfg.clusterName, "cluster-name", "ceph", "the ceph cluster name")
	command.Flags().StringVar(&cfg.configDir, "config-dir", "/etc/ceph", "directory for the generated config and keyring")
	command.Flags().StringVar(&cfg.fsName, "filesystem", "cephfs", "name of the cephfs filesystem shares are created in")
	command.Flags().StringVar(&cfg.volumeGroup, "volume-group", cephclient.DefaultVolumeGroup, "subvolume group shares are created in")

	flags.SetFlagsFromEnv(command.Flags(), CephEnvVarPrefix)
}

func verifyCephFlags(command *cobra.Command) error {
	return flags.VerifyRequiredFlags(command, []string{"mon", "auth-id", "auth-key"})
}

func createContext() *clusterd.Context {
	return &clusterd.Context{
		Executor:  &exec.CommandExecutor{},
		ConfigDir: cfg.configDir,
	}
}

func createClusterInfo(cmd *cobra.Command) *cephclient.ClusterInfo {
	clusterInfo := cephclient.NewClusterInfo(cfg.clusterName)
	clusterInfo.Monitors = cephclient.ParseMonEndpoints(cfg.monEndpoints)
	clusterInfo.CephCred = cephclient.CephCred{
		Username: qualifyUsername(cfg.authID),
		Secret:   cfg.authKey,
	}
	clusterInfo.Context = cmd.Context()
	return clusterInfo
}

func qualifyUsername(authID string) string {
	if strings.Contains(authID, ".") {
		return authID
	}
	return "client." + authID
}

func setLogLevel() {
	util.SetGlobalLogLevel(logLevelRaw, logger)
}

// logStartupInfo logs the arguments and final flag values, with secrets
// filtered out.
func logStartupInfo(cmd *cobra.Command) {
	flagValues := flags.GetFlagsAndValues(cmd.Flags(), "auth-key")
	logger.Infof("starting cephfs-provisioner with arguments %q", strings.Join(os.Args, " "))
	logger.Infof("flag values: %s", strings.Join(flagValues, ", "))
}
