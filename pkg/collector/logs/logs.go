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

package logs

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/zbs3d/logbundle/pkg/artifact"
	"github.com/zbs3d/logbundle/pkg/errors"
)

// Name is the collector name used in results.
const Name = "logs"

// Collector copies known application log files into the workspace.
type Collector struct {
	Paths []string
}

// Name implements collector.Collector.
func (c *Collector) Name() string { return Name }

// Collect copies every existing log file into dir, keeping its mode and
// modification time. Missing files are skipped; unreadable sources are
// recorded as failed. Only a failure to write into dir is returned.
func (c *Collector) Collect(ctx context.Context, dir string) ([]artifact.Result, error) {
	slog.Info("copying application logs", "count", len(c.Paths))

	results := make([]artifact.Result, 0, len(c.Paths))
	for _, src := range c.Paths {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		info, err := os.Stat(src)
		if stderrors.Is(err, fs.ErrNotExist) {
			slog.Debug("log file not present", "path", src)
			results = append(results, artifact.Skipped(Name, src, "not present"))
			continue
		}
		if err != nil {
			slog.Warn("cannot stat log file", "path", src, "error", err)
			results = append(results, artifact.Failed(Name, src, "", err))
			continue
		}
		if !info.Mode().IsRegular() {
			results = append(results, artifact.Failed(Name, src, "", fmt.Errorf("%s is not a regular file", src)))
			continue
		}

		dst := filepath.Join(dir, filepath.Base(src))
		res, err := copyFile(src, dst, info)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}

	return results, nil
}

// copyFile copies src to dst and applies the source permissions and mtime.
// Errors opening or reading src become a failed result; errors on dst are returned.
func copyFile(src, dst string, info fs.FileInfo) (artifact.Result, error) {
	in, err := os.Open(src)
	if err != nil {
		slog.Warn("cannot open log file", "path", src, "error", err)
		return artifact.Failed(Name, src, "", err), nil
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return artifact.Result{}, errors.Wrap(errors.ErrCodeIO, fmt.Sprintf("failed to create %s", dst), err)
	}

	_, copyErr := io.Copy(out, sourceReader{in})
	closeErr := out.Close()

	var readErr *readError
	switch {
	case stderrors.As(copyErr, &readErr):
		slog.Warn("log file read interrupted", "path", src, "error", readErr.err)
		return artifact.Failed(Name, src, dst, readErr.err), nil
	case copyErr != nil:
		return artifact.Result{}, errors.Wrap(errors.ErrCodeIO, fmt.Sprintf("failed to write %s", dst), copyErr)
	case closeErr != nil:
		return artifact.Result{}, errors.Wrap(errors.ErrCodeIO, fmt.Sprintf("failed to write %s", dst), closeErr)
	}

	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		slog.Debug("failed to copy permissions", "path", dst, "error", err)
	}
	// zero atime leaves it unchanged
	if err := os.Chtimes(dst, time.Time{}, info.ModTime()); err != nil {
		slog.Debug("failed to copy modification time", "path", dst, "error", err)
	}

	slog.Debug("copied log file", "src", src, "dst", dst, "bytes", info.Size())
	return artifact.Collected(Name, src, dst), nil
}

// readError marks a failure on the source side of a copy.
type readError struct {
	err error
}

func (e *readError) Error() string { return e.err.Error() }

func (e *readError) Unwrap() error { return e.err }

type sourceReader struct {
	r io.Reader
}

func (s sourceReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && err != io.EOF {
		return n, &readError{err: err}
	}
	return n, err
}
