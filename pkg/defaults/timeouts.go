// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package defaults

import "time"

// Collector timeouts for data collection operations.
const (
	// CommandTimeout bounds a single external diagnostic command (dmesg, lsusb, ...).
	// A value of zero in the configuration disables the bound.
	CommandTimeout = 60 * time.Second

	// SystemdTimeout is the timeout for D-Bus queries against systemd.
	SystemdTimeout = 10 * time.Second
)

// Archive settings.
const (
	// ArchiveCopyBufferSize is the buffer used when the archive has to be
	// copied across filesystems instead of renamed.
	ArchiveCopyBufferSize = 1 << 20

	// FreeSpaceMargin is added to the archive size when checking that the
	// removable volume can hold it.
	FreeSpaceMargin = 1 << 20
)

// File permissions for generated artifacts.
const (
	// DirPerm is the permission used for the staging workspace.
	DirPerm = 0o755

	// FilePerm is the permission used for generated report files.
	FilePerm = 0o644
)
