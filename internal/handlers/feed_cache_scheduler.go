package handlers

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const mediaSweepQuery = `SELECT storage_path, COALESCE(thumbnail_path, '') FROM media`

// MaintenanceHandler runs the background jobs: warming the grouped feed
// cache and sweeping media files whose database rows are gone.
type MaintenanceHandler struct {
	postgres    *pgxpool.Pool
	redis       *redis.Client
	logger      *zap.SugaredLogger
	mediaDir    string
	cronManager *cron.Cron
}

func NewMaintenanceHandler(postgres *pgxpool.Pool, redisClient *redis.Client, logger *zap.SugaredLogger, mediaDir string) *MaintenanceHandler {
	h := &MaintenanceHandler{
		postgres:    postgres,
		redis:       redisClient,
		logger:      logger,
		mediaDir:    mediaDir,
		cronManager: cron.New(cron.WithLocation(time.UTC)),
	}

	h.cronManager.AddFunc("0 * * * *", h.warmFeedCaches)
	h.cronManager.AddFunc("30 3 * * *", h.sweepOrphanedMedia)

	return h
}

func (h *MaintenanceHandler) Start() {
	h.cronManager.Start()
}

func (h *MaintenanceHandler) Stop() {
	ctx := h.cronManager.Stop()
	<-ctx.Done()
}

// warmFeedCaches rebuilds the grouped feed for every author so the first
// request after an idle period doesn't pay the grouping cost.
func (h *MaintenanceHandler) warmFeedCaches() {
	ctx := context.Background()

	rows, err := h.postgres.Query(ctx, `SELECT uid FROM users`)
	if err != nil {
		h.logger.Errorw("feed warm: failed to list users", "error", err)
		return
	}

	uids, err := scanUIDs(rows)
	if err != nil {
		h.logger.Errorw("feed warm: failed to read users", "error", err)
		return
	}

	warmed := 0
	for _, uid := range uids {
		response, err := buildJourneyFeed(ctx, h.postgres, uid)
		if err != nil {
			h.logger.Warnw("feed warm: failed to build feed", "user_uid", uid, "error", err)
			continue
		}
		data, err := json.Marshal(response)
		if err != nil {
			continue
		}
		if err := h.redis.Set(ctx, feedCacheKey(uid), data, time.Hour).Err(); err != nil {
			h.logger.Warnw("feed warm: failed to cache feed", "user_uid", uid, "error", err)
			continue
		}
		warmed++
	}

	h.logger.Infow("feed cache warm complete", "users", len(uids), "warmed", warmed)
}

// sweepOrphanedMedia removes files under the media directory that no media
// row references anymore. Uploads land on disk before their row commits, so
// files newer than an hour are left alone.
func (h *MaintenanceHandler) sweepOrphanedMedia() {
	ctx := context.Background()

	rows, err := h.postgres.Query(ctx, mediaSweepQuery)
	if err != nil {
		h.logger.Errorw("media sweep: failed to list media rows", "error", err)
		return
	}

	referenced, err := collectMediaPaths(rows)
	if err != nil {
		h.logger.Errorw("media sweep: failed to read media rows", "error", err)
		return
	}

	entries, err := os.ReadDir(h.mediaDir)
	if err != nil {
		h.logger.Errorw("media sweep: failed to read media dir", "dir", h.mediaDir, "error", err)
		return
	}

	cutoff := time.Now().Add(-time.Hour)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || referenced[entry.Name()] {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(h.mediaDir, entry.Name())); err != nil {
			h.logger.Warnw("media sweep: failed to remove file", "file", entry.Name(), "error", err)
			continue
		}
		removed++
	}

	h.logger.Infow("orphaned media sweep complete", "removed", removed)
}

func scanUIDs(rows pgx.Rows) ([]string, error) {
	defer rows.Close()
	var uids []string
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return nil, err
		}
		uids = append(uids, uid)
	}
	return uids, rows.Err()
}

// collectMediaPaths indexes every stored file by base name so the sweep can
// tell referenced files from orphans. A partial read must not pass for a full
// one, or the sweep would delete files whose rows it never saw.
func collectMediaPaths(rows pgx.Rows) (map[string]bool, error) {
	defer rows.Close()
	referenced := make(map[string]bool)
	for rows.Next() {
		var storagePath, thumbPath string
		if err := rows.Scan(&storagePath, &thumbPath); err != nil {
			return nil, err
		}
		if storagePath != "" {
			referenced[filepath.Base(storagePath)] = true
		}
		if thumbPath != "" {
			referenced[filepath.Base(thumbPath)] = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return referenced, nil
}
