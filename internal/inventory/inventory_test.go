package inventory

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alikonainofficial/supabase-file-upload-manager/internal/storage"
)

// pagedClient serves pre-built pages in order, recording each request.
// When err is set it fires on every call, or only on call number failOnCall
// (1-based) when that is non-zero.
type pagedClient struct {
	pages      [][]storage.ObjectInfo
	err        error
	failOnCall int
	calls      []storage.ListOptions
	nextIdx    int
}

func (c *pagedClient) List(ctx context.Context, dir string, opts storage.ListOptions) ([]storage.ObjectInfo, error) {
	c.calls = append(c.calls, opts)
	if c.err != nil && (c.failOnCall == 0 || len(c.calls) == c.failOnCall) {
		return nil, c.err
	}
	if c.nextIdx >= len(c.pages) {
		return nil, nil
	}
	page := c.pages[c.nextIdx]
	c.nextIdx++
	return page, nil
}

func (c *pagedClient) Remove(ctx context.Context, paths []string) (storage.RemoveResult, error) {
	return storage.RemoveResult{}, errors.New("not implemented")
}

func (c *pagedClient) Upload(ctx context.Context, path string, data []byte) (storage.UploadResult, error) {
	return storage.UploadResult{}, errors.New("not implemented")
}

func makePage(start, n int) []storage.ObjectInfo {
	page := make([]storage.ObjectInfo, 0, n)
	for i := 0; i < n; i++ {
		page = append(page, storage.ObjectInfo{Name: fmt.Sprintf("%d.txt", start+i), Size: 12, SizeKnown: true})
	}
	return page
}

func TestFetchPagesUntilShortPage(t *testing.T) {
	client := &pagedClient{
		pages: [][]storage.ObjectInfo{
			makePage(0, 10000),
			makePage(10000, 10000),
			makePage(20000, 3),
		},
	}

	inv := Fetch(context.Background(), client, "contents", 10000)

	// The short third page must terminate paging; no fourth request.
	require.Len(t, client.calls, 3)
	require.Equal(t, 0, client.calls[0].Offset)
	require.Equal(t, 10000, client.calls[1].Offset)
	require.Equal(t, 20000, client.calls[2].Offset)
	for _, call := range client.calls {
		require.Equal(t, 10000, call.Limit)
	}

	// Union of all pages survives, nothing lost across page boundaries.
	require.Equal(t, 20003, inv.Len())
	require.True(t, inv.Has("0.txt"))
	require.True(t, inv.Has("9999.txt"))
	require.True(t, inv.Has("10000.txt"))
	require.True(t, inv.Has("20002.txt"))
	require.False(t, inv.Has("20003.txt"))
}

func TestFetchStopsOnEmptyPage(t *testing.T) {
	client := &pagedClient{
		pages: [][]storage.ObjectInfo{
			makePage(0, 2),
		},
	}

	inv := Fetch(context.Background(), client, "contents", 2)

	// Full first page forces a second request, which comes back empty.
	require.Len(t, client.calls, 2)
	require.Equal(t, 2, inv.Len())
}

func TestFetchTracksZeroByteFiles(t *testing.T) {
	client := &pagedClient{
		pages: [][]storage.ObjectInfo{
			{
				{Name: "1.txt", Size: 42, SizeKnown: true},
				{Name: "2.txt", Size: 0, SizeKnown: true},
			},
		},
	}

	inv := Fetch(context.Background(), client, "contents", 10000)

	require.True(t, inv.Has("1.txt"))
	require.True(t, inv.Has("2.txt"))
	require.False(t, inv.IsZeroByte("1.txt"))
	require.True(t, inv.IsZeroByte("2.txt"))
}

func TestFetchUnknownSizeIsNotZeroByte(t *testing.T) {
	// Entries listed without size metadata count as present, not as
	// interrupted uploads.
	client := &pagedClient{
		pages: [][]storage.ObjectInfo{
			{
				{Name: "7.txt"},
				{Name: "8.txt", Size: 0, SizeKnown: true},
			},
		},
	}

	inv := Fetch(context.Background(), client, "contents", 10000)

	require.True(t, inv.Has("7.txt"))
	require.False(t, inv.IsZeroByte("7.txt"))
	require.True(t, inv.IsZeroByte("8.txt"))
}

func TestFetchTransportErrorYieldsEmptyInventory(t *testing.T) {
	client := &pagedClient{err: errors.New("connection refused")}

	inv := Fetch(context.Background(), client, "contents", 10000)

	require.Equal(t, 0, inv.Len())
	require.Empty(t, inv.ZeroByte)
}

func TestFetchErrorMidPagingDiscardsPartialPages(t *testing.T) {
	client := &pagedClient{
		pages:      [][]storage.ObjectInfo{makePage(0, 2)},
		err:        errors.New("connection reset"),
		failOnCall: 2,
	}

	inv := Fetch(context.Background(), client, "contents", 2)

	// The full first page forces a second request, which fails; the
	// partially accumulated names must not survive.
	require.Len(t, client.calls, 2)
	require.Equal(t, 0, inv.Len())
	require.Empty(t, inv.ZeroByte)
}
