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
	"fmt"
	"path"
	"strconv"
	"time"

	"github.com/coreos/pkg/capnslog"
	"github.com/rook/cephfs-provisioner/pkg/clusterd"
	"github.com/rook/cephfs-provisioner/pkg/util/exec"
)

var logger = capnslog.NewPackageLogger("github.com/rook/cephfs-provisioner", "cephclient")

const (
	// AdminUsername is the name of the admin user
	AdminUsername = "client.admin"
	// CephTool is the name of the CLI tool for 'ceph'
	CephTool = "ceph"
)

// CephConfFilePath returns the location of the cluster's config file.
func CephConfFilePath(configDir, clusterName string) string {
	confFile := fmt.Sprintf("%s.config", clusterName)
	return path.Join(configDir, clusterName, confFile)
}

// CephKeyringFilePath returns the location of the keyring for the given user.
func CephKeyringFilePath(configDir, clusterName, username string) string {
	keyringFile := fmt.Sprintf("%s.keyring", username)
	return path.Join(configDir, clusterName, keyringFile)
}

// FinalizeCephCommandArgs builds the command line to be called
func FinalizeCephCommandArgs(command string, clusterInfo *ClusterInfo, args []string, configDir string) (string, []string) {
	timeout := strconv.Itoa(int(exec.CephCommandsTimeout.Seconds()))
	args = append(args, "--connect-timeout="+timeout)

	// Append the standard flags for config and keyring
	configArgs := []string{
		fmt.Sprintf("--cluster=%s", clusterInfo.Name),
		fmt.Sprintf("--conf=%s", CephConfFilePath(configDir, clusterInfo.Name)),
		fmt.Sprintf("--name=%s", clusterInfo.CephCred.Username),
		fmt.Sprintf("--keyring=%s", CephKeyringFilePath(configDir, clusterInfo.Name, clusterInfo.CephCred.Username)),
	}

	return command, append(args, configArgs...)
}

type CephToolCommand struct {
	context     *clusterd.Context
	clusterInfo *ClusterInfo
	tool        string
	args        []string
	timeout     time.Duration
	JsonOutput  bool
}

func newCephToolCommand(tool string, context *clusterd.Context, clusterInfo *ClusterInfo, args []string) *CephToolCommand {
	return &CephToolCommand{
		context:     context,
		tool:        tool,
		clusterInfo: clusterInfo,
		args:        args,
		JsonOutput:  true,
	}
}

func NewCephCommand(context *clusterd.Context, clusterInfo *ClusterInfo, args []string) *CephToolCommand {
	return newCephToolCommand(CephTool, context, clusterInfo, args)
}

func (c *CephToolCommand) run() ([]byte, error) {
	// Return if the context has been canceled
	if c.clusterInfo.Context.Err() != nil {
		return nil, c.clusterInfo.Context.Err()
	}

	command, args := FinalizeCephCommandArgs(c.tool, c.clusterInfo, c.args, c.context.ConfigDir)

	if c.JsonOutput {
		args = append(args, "--format", "json")
	} else {
		args = append(args, "--format", "plain")
	}

	var output string
	var err error

	if c.timeout == 0 {
		output, err = c.context.Executor.ExecuteCommandWithOutput(command, args...)
	} else {
		output, err = c.context.Executor.ExecuteCommandWithTimeout(c.timeout, command, args...)
	}

	return []byte(output), err
}

func (c *CephToolCommand) Run() ([]byte, error) {
	c.timeout = 0
	return c.run()
}

func (c *CephToolCommand) RunWithTimeout(timeout time.Duration) ([]byte, error) {
	c.timeout = timeout
	return c.run()
}
