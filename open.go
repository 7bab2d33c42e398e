package rnaseq

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

const (
	// TempFilePrefix is the prefix used for temporary files written by
	// WriteOutput before they are renamed into place.
	TempFilePrefix = "rnaseq-tmp-"
)

// IsGoogleStoragePath reports whether path names a gs:// object.
func IsGoogleStoragePath(path string) bool {
	return strings.HasPrefix(path, "gs://")
}

// SplitGoogleStoragePath splits gs://bucket/object into its bucket and object
// names.
func SplitGoogleStoragePath(path string) (bucket, object string, err error) {
	pathParts := strings.SplitN(strings.TrimPrefix(path, "gs://"), "/", 2)
	if len(pathParts) != 2 || pathParts[0] == "" || pathParts[1] == "" {
		return "", "", fmt.Errorf("Tried to split your google storage path into 2 parts, but got %d: %v", len(pathParts), pathParts)
	}

	return pathParts[0], pathParts[1], nil
}

// OpenRaw opens a local file or, when client is non-nil, a gs:// object. No
// decompression is applied.
func OpenRaw(ctx context.Context, path string, client *storage.Client) (io.ReadCloser, error) {
	if IsGoogleStoragePath(path) {
		if client == nil {
			return nil, fmt.Errorf("%s: a google storage client is required for gs:// paths", path)
		}
		bucketName, pathName, err := SplitGoogleStoragePath(path)
		if err != nil {
			return nil, err
		}

		rdr, err := client.Bucket(bucketName).Object(pathName).NewReader(ctx)
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("%s: %s", path, err))
		}

		return rdr, nil
	}

	local, err := ExpandHome(path)
	if err != nil {
		return nil, err
	}

	return os.Open(local)
}

// OpenInput opens a local or gs:// table and transparently decompresses it.
func OpenInput(ctx context.Context, path string, client *storage.Client) (io.ReadCloser, error) {
	rc, err := OpenRaw(ctx, path, client)
	if err != nil {
		return nil, err
	}

	out, err := MaybeDecompress(rc)
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return out, nil
}

// ReadInput reads a local or gs:// object fully, without decompression.
func ReadInput(ctx context.Context, path string, client *storage.Client) ([]byte, error) {
	rc, err := OpenRaw(ctx, path, client)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

// WriteOutput writes data to a gs:// object or, for local paths, to a temp file
// in the destination directory which is then renamed over path. A reader of
// path sees either the old contents or the new ones.
func WriteOutput(ctx context.Context, path string, data []byte, client *storage.Client) error {
	if IsGoogleStoragePath(path) {
		if client == nil {
			return fmt.Errorf("%s: a google storage client is required for gs:// paths", path)
		}
		bucketName, pathName, err := SplitGoogleStoragePath(path)
		if err != nil {
			return err
		}

		w := client.Bucket(bucketName).Object(pathName).NewWriter(ctx)
		if _, err := w.Write(data); err != nil {
			w.Close()
			return pfx.Err(fmt.Errorf("%s: %s", path, err))
		}

		// The object only becomes visible once Close succeeds.
		if err := w.Close(); err != nil {
			return pfx.Err(fmt.Errorf("%s: %s", path, err))
		}

		return nil
	}

	local, err := ExpandHome(path)
	if err != nil {
		return err
	}

	return writeFileAtomic(local, data, 0644)
}

func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)

	tmpFile, err := os.CreateTemp(dir, TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tmpFile.Name(), perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), filename); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", filename, err)
	}

	return nil
}
