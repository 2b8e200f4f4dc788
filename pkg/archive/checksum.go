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
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/zbs3d/logbundle/pkg/defaults"
	"github.com/zbs3d/logbundle/pkg/errors"
)

// ChecksumExtension is appended to the archive path to name its sidecar.
const ChecksumExtension = ".sha256"

// GetChecksumFilePath returns the sidecar path for an archive.
func GetChecksumFilePath(archive string) string {
	return archive + ChecksumExtension
}

// WriteChecksum writes "<sha256>  <archive name>" next to the archive, in
// the format sha256sum -c accepts, and returns the sidecar path.
func WriteChecksum(ctx context.Context, archive string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context cancelled: %w", err)
	}

	sum, err := fileSHA256(archive)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, fmt.Sprintf("failed to read %s for checksum", archive), err)
	}

	path := GetChecksumFilePath(archive)
	content := fmt.Sprintf("%s  %s\n", sum, filepath.Base(archive))
	if err := os.WriteFile(path, []byte(content), defaults.FilePerm); err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, "failed to write checksum", err)
	}

	slog.Debug("checksum generated", "path", path, "sha256", sum)
	return path, nil
}

// VerifyChecksum compares the archive against its sidecar. It returns false
// with no error when there is no sidecar.
func VerifyChecksum(archive string) (bool, error) {
	b, err := os.ReadFile(GetChecksumFilePath(archive))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeIO, "failed to read checksum", err)
	}

	want, _, ok := strings.Cut(strings.TrimSpace(string(b)), "  ")
	if !ok {
		return false, errors.New(errors.ErrCodeInvalidRequest, fmt.Sprintf("malformed checksum file for %s", archive))
	}

	got, err := fileSHA256(archive)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeIO, fmt.Sprintf("failed to read %s for checksum", archive), err)
	}
	if got != want {
		return false, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("checksum mismatch for %s", archive),
			map[string]any{"want": want, "got": got})
	}
	return true, nil
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
