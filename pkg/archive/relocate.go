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

package archive

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/zbs3d/logbundle/pkg/defaults"
	"github.com/zbs3d/logbundle/pkg/errors"
)

var (
	renameFn    = os.Rename
	freeSpaceFn = freeSpace
)

// errUnsupported is returned by freeSpace on platforms without statfs.
var errUnsupported = stderrors.New("free space check not supported on this platform")

// Relocate moves archive into the directory mountPoint and returns the new
// path. The mount point is checked first; if it is gone the error has code
// MOUNT_VANISHED and names the path. With checkSpace set, a volume that
// cannot hold the archive fails with INSUFFICIENT_SPACE before anything is
// moved. Moves across filesystems fall back to copy and remove.
func Relocate(archive, mountPoint string, checkSpace bool) (string, error) {
	fi, err := os.Stat(mountPoint)
	if err != nil || !fi.IsDir() {
		if err == nil {
			err = syscall.ENOTDIR
		}
		return "", errors.WrapWithContext(errors.ErrCodeMountVanished,
			fmt.Sprintf("mount point %s no longer exists", mountPoint), err,
			map[string]any{"path": mountPoint})
	}

	src, err := os.Stat(archive)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, fmt.Sprintf("failed to stat archive %s", archive), err)
	}

	if checkSpace {
		if err := ensureSpace(mountPoint, uint64(src.Size())); err != nil {
			return "", err
		}
	}

	dst := filepath.Join(mountPoint, filepath.Base(archive))
	slog.Info("moving archive", "from", archive, "to", dst, "size", humanize.IBytes(uint64(src.Size())))

	err = renameFn(archive, dst)
	if err == nil {
		return dst, nil
	}
	if !stderrors.Is(err, syscall.EXDEV) {
		return "", errors.Wrap(errors.ErrCodeIO, fmt.Sprintf("failed to move archive to %s", dst), err)
	}

	slog.Debug("rename crosses filesystems, copying", "to", dst)
	if err := copyFile(archive, dst, src.Mode().Perm()); err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, fmt.Sprintf("failed to copy archive to %s", dst), err)
	}
	if err := os.Remove(archive); err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, fmt.Sprintf("failed to remove %s after copy", archive), err)
	}
	return dst, nil
}

func ensureSpace(mountPoint string, size uint64) error {
	free, err := freeSpaceFn(mountPoint)
	if stderrors.Is(err, errUnsupported) {
		slog.Debug("skipping free space check", "path", mountPoint)
		return nil
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, fmt.Sprintf("failed to query free space on %s", mountPoint), err)
	}

	need := size + defaults.FreeSpaceMargin
	if free < need {
		return errors.NewWithContext(errors.ErrCodeInsufficientSpace,
			fmt.Sprintf("not enough space on %s: need %s, have %s", mountPoint, humanize.IBytes(need), humanize.IBytes(free)),
			map[string]any{"path": mountPoint, "need": need, "free": free})
	}
	return nil
}

// copyFile copies src to dst and syncs it. A partial dst is removed.
func copyFile(src, dst string, perm os.FileMode) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			out.Close()
			os.Remove(dst)
		}
	}()

	buf := make([]byte, defaults.ArchiveCopyBufferSize)
	if _, err = io.CopyBuffer(out, in, buf); err != nil {
		return err
	}
	if err = out.Sync(); err != nil {
		return err
	}
	return out.Close()
}
