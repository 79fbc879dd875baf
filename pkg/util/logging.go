/*
Copyright 2021 The Rook Authors. All rights reserved.

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

package util

import (
	"github.com/coreos/pkg/capnslog"
)

const DefaultLogLevel = capnslog.INFO

// SetGlobalLogLevel parses the user's log level selection and applies it to
// all package loggers, reverting to the default on an unknown value.
func SetGlobalLogLevel(userLogLevelSelection string, logger *capnslog.PackageLogger) {
	logLevel, err := capnslog.ParseLevel(userLogLevelSelection)
	if err != nil {
		logger.Errorf("failed to parse log level %q. defaulting to %q. %v", userLogLevelSelection, DefaultLogLevel.String(), err)
		logLevel = DefaultLogLevel
	}

	capnslog.SetGlobalLogLevel(logLevel)
}
