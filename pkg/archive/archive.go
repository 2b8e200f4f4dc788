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
	"archive/tar"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/zbs3d/logbundle/pkg/errors"
)

// Extension is appended to the workspace path to name the archive.
const Extension = ".tar.gz"

// osOpen wraps os.Open to allow faking out during tests.
var osOpen = func(name string) (io.ReadCloser, error) {
	return os.Open(name)
}

// PathFor returns the archive path for a workspace.
func PathFor(workspace string) string {
	return filepath.Clean(workspace) + Extension
}

// Create writes a gzip-compressed tarball of workspace next to it and returns
// its path. Only regular files are stored, named relative to the workspace's
// parent so they extract into a directory named after the workspace. A
// partial archive is removed on failure.
func Create(ctx context.Context, workspace string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	workspace = filepath.Clean(workspace)
	dst := PathFor(workspace)

	slog.Info("creating archive", "workspace", workspace, "archive", dst)

	f, err := os.Create(dst)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, fmt.Sprintf("failed to create archive %s", dst), err)
	}

	if err := writeArchive(ctx, f, workspace); err != nil {
		f.Close()
		os.Remove(dst)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(dst)
		return "", errors.Wrap(errors.ErrCodeIO, fmt.Sprintf("failed to close archive %s", dst), err)
	}

	return dst, nil
}

func writeArchive(ctx context.Context, w io.Writer, workspace string) error {
	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)
	parent := filepath.Dir(workspace)

	err := filepath.WalkDir(workspace, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if !info.Mode().IsRegular() {
			slog.Debug("skipping non-regular file", "path", path)
			return nil
		}

		rel, err := filepath.Rel(parent, path)
		if err != nil {
			return err
		}

		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		// owner names would need a user database lookup
		hdr.Uname, hdr.Gname = "", ""

		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}

		file, err := osOpen(path)
		if err != nil {
			return err
		}
		_, err = io.Copy(tw, file)
		file.Close()
		return err
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.Wrap(errors.ErrCodeIO, fmt.Sprintf("failed to archive %s", workspace), err)
	}

	if err := tw.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, "failed to finish tar stream", err)
	}
	if err := gz.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, "failed to finish gzip stream", err)
	}
	return nil
}

// Entry is one member of an archive.
type Entry struct {
	Name string
	Size int64
	Mode fs.FileMode
	Dir  bool
}

// List returns the entries of a gzip-compressed tarball in stored order.
func List(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, fmt.Sprintf("failed to open archive %s", path), err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, fmt.Sprintf("%s is not a gzip stream", path), err)
	}
	defer gz.Close()

	var entries []Entry
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRequest, fmt.Sprintf("failed to read archive %s", path), err)
		}
		entries = append(entries, Entry{
			Name: strings.TrimSuffix(hdr.Name, "/"),
			Size: hdr.Size,
			Mode: hdr.FileInfo().Mode(),
			Dir:  hdr.Typeflag == tar.TypeDir,
		})
	}
	return entries, nil
}

// Cleanup removes the workspace and everything in it.
func Cleanup(workspace string) error {
	if err := os.RemoveAll(workspace); err != nil {
		return errors.Wrap(errors.ErrCodeIO, fmt.Sprintf("failed to remove workspace %s", workspace), err)
	}
	slog.Debug("workspace removed", "path", workspace)
	return nil
}
