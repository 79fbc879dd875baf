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

// Package config provides methods for creating and formatting Ceph configuration files.
package config

import (
	"os"
	"path"
	"strings"

	"github.com/coreos/pkg/capnslog"
	"github.com/go-ini/ini"
	"github.com/pkg/errors"
	"github.com/rook/cephfs-provisioner/pkg/clusterd"
	"github.com/rook/cephfs-provisioner/pkg/daemon/ceph/client"
)

var logger = capnslog.NewPackageLogger("github.com/rook/cephfs-provisioner", "cephconfig")

// GlobalConfig represents the [global] section of Ceph's config file.
type GlobalConfig struct {
	MonHost             string `ini:"mon_host"`
	AuthClusterRequired string `ini:"auth_cluster_required"`
	AuthServiceRequired string `ini:"auth_service_required"`
	AuthClientRequired  string `ini:"auth_client_required"`
}

// CephConfig represents an entire Ceph config including all sections.
type CephConfig struct {
	*GlobalConfig `ini:"global,omitempty"`
}

// CreateDefaultCephConfig creates the minimal config a client needs to reach
// the cluster monitors with cephx authentication.
func CreateDefaultCephConfig(clusterInfo *client.ClusterInfo) *CephConfig {
	monHosts := make([]string, 0, len(clusterInfo.Monitors))
	for _, mon := range clusterInfo.Monitors {
		monHosts = append(monHosts, mon.Endpoint)
	}

	return &CephConfig{
		GlobalConfig: &GlobalConfig{
			MonHost:             strings.Join(monHosts, ","),
			AuthClusterRequired: "cephx",
			AuthServiceRequired: "cephx",
			AuthClientRequired:  "cephx",
		},
	}
}

// GenerateConnectionConfig generates and writes the config file and keyring
// the ceph tool needs to connect with the provisioner's credentials. It
// returns the path to the written config file.
func GenerateConnectionConfig(context *clusterd.Context, clusterInfo *client.ClusterInfo) (string, error) {
	root := path.Join(context.ConfigDir, clusterInfo.Name)
	if err := os.MkdirAll(root, 0744); err != nil {
		return "", errors.Wrapf(err, "failed to create config directory %q", root)
	}

	keyringPath := client.CephKeyringFilePath(context.ConfigDir, clusterInfo.Name, clusterInfo.CephCred.Username)
	if err := writeKeyring(CephKeyring(clusterInfo.CephCred), keyringPath); err != nil {
		return "", errors.Wrapf(err, "failed to write keyring to %q", root)
	}

	configFile, err := createGlobalConfigFileSection(context, clusterInfo)
	if err != nil {
		return "", errors.Wrap(err, "failed to create global config section")
	}

	qualifiedUser := getQualifiedUser(clusterInfo.CephCred.Username)
	if err := addClientConfigFileSection(configFile, qualifiedUser, keyringPath); err != nil {
		return "", errors.Wrap(err, "failed to add client config section")
	}

	filePath := client.CephConfFilePath(context.ConfigDir, clusterInfo.Name)
	logger.Infof("writing config file %s", filePath)
	if err := configFile.SaveTo(filePath); err != nil {
		return "", errors.Wrapf(err, "failed to save config file %s", filePath)
	}

	return filePath, nil
}

// prepends "client." if a user namespace is not already specified
func getQualifiedUser(user string) string {
	if !strings.Contains(user, ".") {
		return "client." + user
	}

	return user
}

// create a config file with global settings configured, and return an ini file
func createGlobalConfigFileSection(context *clusterd.Context, clusterInfo *client.ClusterInfo) (*ini.File, error) {
	ceph := CreateDefaultCephConfig(clusterInfo)

	configFile := ini.Empty()
	err := ini.ReflectFrom(configFile, ceph)
	if err != nil {
		return nil, err
	}

	if context.ConfigFileOverride != "" {
		if err := configFile.Append(context.ConfigFileOverride); err != nil {
			return nil, errors.Wrapf(err, "failed to append config override %q", context.ConfigFileOverride)
		}
	}

	return configFile, nil
}

// add client config to the ini file
func addClientConfigFileSection(configFile *ini.File, clientName, keyringPath string) error {
	s, err := configFile.NewSection(clientName)
	if err != nil {
		return err
	}

	if _, err := s.NewKey("keyring", keyringPath); err != nil {
		return err
	}

	return nil
}
