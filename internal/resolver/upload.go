// Package resolver acts on a computed missing-identifier list: re-uploading
// files from a local directory, deleting orphaned database rows, or purging a
// bucket folder outright.
package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alikonainofficial/supabase-file-upload-manager/internal/reconcile"
	"github.com/alikonainofficial/supabase-file-upload-manager/internal/storage"
	"github.com/alikonainofficial/supabase-file-upload-manager/pkg/logger"
)

// UploadStats summarizes one upload batch.
type UploadStats struct {
	Uploaded int
	Skipped  int
	Failed   int
}

type uploadErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// UploadMissing uploads each identifier's file from localDir to
// bucketDir/{id}.{ext}. Files absent locally are skipped, and each upload is
// independent: a failure never aborts the rest of the batch.
func UploadMissing(ctx context.Context, client storage.Client, ids []string, localDir, bucketDir, ext string) UploadStats {
	var stats UploadStats

	for _, id := range ids {
		fileName := reconcile.FileName(id, ext)
		localPath := filepath.Join(localDir, fileName)

		data, err := os.ReadFile(localPath)
		if err != nil {
			if os.IsNotExist(err) {
				logger.Log.Warn().Str("file", fileName).Str("dir", localDir).Msg("file not found in local directory, skipping")
				stats.Skipped++
			} else {
				logger.Log.Error().Err(err).Str("file", fileName).Msg("failed to read local file")
				stats.Failed++
			}
			continue
		}

		remotePath := fmt.Sprintf("%s/%s", bucketDir, fileName)
		res, err := client.Upload(ctx, remotePath, data)
		if err != nil {
			logger.Log.Error().Err(err).Str("file", fileName).Msg("an error occurred while uploading")
			stats.Failed++
			continue
		}

		if res.OK() {
			logger.Log.Info().Str("file", fileName).Msg("successfully uploaded")
			stats.Uploaded++
			continue
		}

		stats.Failed++
		var body uploadErrorBody
		if err := json.Unmarshal(res.Body, &body); err == nil && (body.Error != "" || body.Message != "") {
			msg := body.Error
			if msg == "" {
				msg = body.Message
			}
			logger.Log.Error().Str("file", fileName).Int("status", res.StatusCode).Str("error", msg).Msg("failed to upload")
		} else {
			logger.Log.Error().Str("file", fileName).Int("status", res.StatusCode).Str("response", string(res.Body)).Msg("failed to upload")
		}
	}

	return stats
}
