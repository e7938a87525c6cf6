package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SupabaseConfig encapsulates the connection info for a Supabase project.
type SupabaseConfig struct {
	URL    string
	Key    string
	Bucket string
}

// SupabaseClient implements Client against the Supabase Storage object API.
// Paths are relative to the configured bucket.
type SupabaseClient struct {
	baseURL string
	key     string
	bucket  string
	http    *http.Client
}

// NewSupabaseClient builds a new SupabaseClient for one bucket.
func NewSupabaseClient(cfg SupabaseConfig) (*SupabaseClient, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("supabase url must be provided")
	}
	if cfg.Key == "" {
		return nil, fmt.Errorf("supabase key must be provided")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("supabase bucket must be provided")
	}

	return &SupabaseClient{
		baseURL: strings.TrimSuffix(cfg.URL, "/"),
		key:     cfg.Key,
		bucket:  cfg.Bucket,
		http:    &http.Client{Timeout: 60 * time.Second},
	}, nil
}

type listRequest struct {
	Prefix string `json:"prefix"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

type listedObject struct {
	Name     string `json:"name"`
	Metadata *struct {
		Size int64 `json:"size"`
	} `json:"metadata"`
}

type removeRequest struct {
	Prefixes []string `json:"prefixes"`
}

// List fetches one page of the bucket directory listing.
func (c *SupabaseClient) List(ctx context.Context, dir string, opts ListOptions) ([]ObjectInfo, error) {
	body, err := json.Marshal(listRequest{Prefix: dir, Limit: opts.Limit, Offset: opts.Offset})
	if err != nil {
		return nil, fmt.Errorf("failed to encode list request: %w", err)
	}

	url := fmt.Sprintf("%s/storage/v1/object/list/%s", c.baseURL, c.bucket)
	resp, raw, err := c.do(ctx, http.MethodPost, url, body, "application/json")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list %s/%s returned status %d: %s", c.bucket, dir, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var objects []listedObject
	if err := json.Unmarshal(raw, &objects); err != nil {
		return nil, fmt.Errorf("failed to decode list response: %w", err)
	}

	results := make([]ObjectInfo, 0, len(objects))
	for _, obj := range objects {
		info := ObjectInfo{Name: obj.Name}
		if obj.Metadata != nil {
			info.Size = obj.Metadata.Size
			info.SizeKnown = true
		}
		results = append(results, info)
	}
	return results, nil
}

// Remove issues one bulk delete for all given paths.
func (c *SupabaseClient) Remove(ctx context.Context, paths []string) (RemoveResult, error) {
	body, err := json.Marshal(removeRequest{Prefixes: paths})
	if err != nil {
		return RemoveResult{}, fmt.Errorf("failed to encode remove request: %w", err)
	}

	url := fmt.Sprintf("%s/storage/v1/object/%s", c.baseURL, c.bucket)
	resp, raw, err := c.do(ctx, http.MethodDelete, url, body, "application/json")
	if err != nil {
		return RemoveResult{}, err
	}

	return RemoveResult{
		StatusCode: resp.StatusCode,
		Message:    strings.TrimSpace(string(raw)),
	}, nil
}

// Upload stores data at path inside the bucket. Non-2xx outcomes are returned
// in the result, not as an error; only transport failures error out.
func (c *SupabaseClient) Upload(ctx context.Context, path string, data []byte) (UploadResult, error) {
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, c.bucket, strings.TrimPrefix(path, "/"))
	resp, raw, err := c.do(ctx, http.MethodPost, url, data, "application/octet-stream")
	if err != nil {
		return UploadResult{}, err
	}

	return UploadResult{
		StatusCode: resp.StatusCode,
		Body:       raw,
	}, nil
}

func (c *SupabaseClient) do(ctx context.Context, method, url string, body []byte, contentType string) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("apikey", c.key)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response from %s: %w", url, err)
	}
	return resp, raw, nil
}

var _ Client = (*SupabaseClient)(nil)
