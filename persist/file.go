package persist

import (
	"context"
	"io"

	"cloud.google.com/go/storage"
	rnaseq "github.com/JennyZadeh/bioc-rnaseq"
	"github.com/JennyZadeh/bioc-rnaseq/experiment"
)

// WriteFile saves a snapshot of c to a local path, replaced atomically, or to
// a gs:// object. client is only needed for gs:// paths.
func WriteFile(ctx context.Context, path string, c *experiment.Container, client *storage.Client) error {
	data, err := Marshal(c)
	if err != nil {
		return err
	}

	return rnaseq.WriteOutput(ctx, path, data, client)
}

// ReadFile restores a snapshot written by WriteFile. Snapshots that were
// compressed after being written are decompressed transparently.
func ReadFile(ctx context.Context, path string, client *storage.Client) (*experiment.Container, error) {
	data, err := ReadBytes(ctx, path, client)
	if err != nil {
		return nil, err
	}

	return Unmarshal(data)
}

// ReadBytes returns the raw snapshot at path, decompressed if needed, for
// callers that want to Inspect it before decoding.
func ReadBytes(ctx context.Context, path string, client *storage.Client) ([]byte, error) {
	rc, err := rnaseq.OpenInput(ctx, path, client)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(rc)
}
