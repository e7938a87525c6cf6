package resolver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/alikonainofficial/supabase-file-upload-manager/internal/storage"
	"github.com/alikonainofficial/supabase-file-upload-manager/pkg/logger"
)

// PurgeLimit bounds the single listing a folder purge issues; folders larger
// than this need a second run.
const PurgeLimit = 10000

// PurgeFolder deletes every object directly under folder with one bulk remove
// call. An empty or failed listing is treated as nothing to delete. Returns
// the paths that were removed.
func PurgeFolder(ctx context.Context, client storage.Client, folder string) ([]string, error) {
	page, err := client.List(ctx, folder, storage.ListOptions{Limit: PurgeLimit})
	if err != nil {
		logger.Log.Warn().Err(err).Str("folder", folder).Msg("folder is empty, does not exist, or an error occurred")
		return nil, nil
	}
	if len(page) == 0 {
		logger.Log.Info().Str("folder", folder).Msg("folder is empty or does not exist, nothing to delete")
		return nil, nil
	}

	paths := make([]string, 0, len(page))
	for _, obj := range page {
		paths = append(paths, fmt.Sprintf("%s/%s", folder, obj.Name))
	}

	res, err := client.Remove(ctx, paths)
	if err != nil {
		return nil, fmt.Errorf("an error occurred while deleting folder %s: %w", folder, err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to delete folder %s: status %d %s", folder, res.StatusCode, res.Message)
	}

	logger.Log.Info().Int("count", len(paths)).Str("folder", folder).Msg("all files in folder have been deleted")
	return paths, nil
}
