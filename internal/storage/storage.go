package storage

import "context"

// ObjectInfo represents metadata for a remote file/object. Listings can
// return entries without size metadata (folder placeholders, for one);
// SizeKnown distinguishes those from true zero-byte objects.
type ObjectInfo struct {
	Name      string
	Size      int64
	SizeKnown bool
}

// ListOptions bound a single page of a bucket directory listing.
type ListOptions struct {
	Limit  int
	Offset int
}

// RemoveResult is the status object returned by a bulk remove call.
type RemoveResult struct {
	StatusCode int
	Message    string
}

// UploadResult carries the raw outcome of an upload so callers can decide
// how to interpret non-2xx bodies.
type UploadResult struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the upload was accepted.
func (r UploadResult) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client captures the minimal bucket operations the reconciliation flow needs.
type Client interface {
	List(ctx context.Context, dir string, opts ListOptions) ([]ObjectInfo, error)
	Remove(ctx context.Context, paths []string) (RemoveResult, error)
	Upload(ctx context.Context, path string, data []byte) (UploadResult, error)
}
