// Package inventory builds the in-memory picture of what a bucket directory
// currently holds. The inventory is rebuilt from scratch on every run.
package inventory

import (
	"context"

	"github.com/alikonainofficial/supabase-file-upload-manager/internal/storage"
	"github.com/alikonainofficial/supabase-file-upload-manager/pkg/logger"
)

// DefaultPageLimit matches the bound the storage API accepts per list call.
const DefaultPageLimit = 10000

// Inventory is the set of file names present under one bucket directory,
// with the subset whose stored size is zero. Zero-byte objects are leftovers
// of interrupted uploads, not valid content.
type Inventory struct {
	Names    map[string]struct{}
	ZeroByte map[string]struct{}
}

// New returns an empty inventory.
func New() Inventory {
	return Inventory{
		Names:    make(map[string]struct{}),
		ZeroByte: make(map[string]struct{}),
	}
}

// Has reports whether name is present in the bucket directory at all.
func (inv Inventory) Has(name string) bool {
	_, ok := inv.Names[name]
	return ok
}

// IsZeroByte reports whether name was listed with a stored size of zero.
func (inv Inventory) IsZeroByte(name string) bool {
	_, ok := inv.ZeroByte[name]
	return ok
}

// Len returns the number of distinct names seen.
func (inv Inventory) Len() int {
	return len(inv.Names)
}

// Add records one listed object. Only objects whose size metadata is
// actually present can be classified as zero-byte; entries listed without
// metadata count as present, never as failed uploads.
func (inv Inventory) Add(obj storage.ObjectInfo) {
	inv.Names[obj.Name] = struct{}{}
	if obj.SizeKnown && obj.Size == 0 {
		inv.ZeroByte[obj.Name] = struct{}{}
	}
}

// Fetch pages through the directory listing with an offset cursor until a
// page comes back empty or shorter than pageLimit. A transport error is
// logged and yields an empty inventory; callers cannot distinguish that from
// a truly empty directory.
func Fetch(ctx context.Context, client storage.Client, dir string, pageLimit int) Inventory {
	if pageLimit <= 0 {
		pageLimit = DefaultPageLimit
	}

	inv := New()
	offset := 0
	for {
		page, err := client.List(ctx, dir, storage.ListOptions{Limit: pageLimit, Offset: offset})
		if err != nil {
			logger.Log.Error().Err(err).Str("dir", dir).Msg("failed to fetch bucket file list")
			return New()
		}
		if len(page) == 0 {
			logger.Log.Info().Msg("stopping fetch: no more files found")
			break
		}

		for _, obj := range page {
			inv.Add(obj)
		}
		logger.Log.Info().Int("count", len(page)).Int("offset", offset).Msg("fetched files")

		// A short page means the listing is exhausted.
		if len(page) < pageLimit {
			break
		}
		offset += pageLimit
	}

	logger.Log.Info().Int("total", inv.Len()).Int("zero_byte", len(inv.ZeroByte)).Msg("bucket inventory complete")
	return inv
}
