package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	trip "io.wandr.triplog/internal/models/trip"
)

// dateLayout is the wire format for day-granular dates.
const dateLayout = "2006-01-02"

var (
	errPostNotFound  = errors.New("post not found")
	errInvalidBounds = errors.New("invalid viewport bounds")
)

func feedCacheKey(userUID string) string {
	return fmt.Sprintf("journey_feed:%s", userUID)
}

func postCacheKey(postID string) string {
	return fmt.Sprintf("post:%s", postID)
}

func milestonesCacheKey(userUID string) string {
	return fmt.Sprintf("milestones:%s", userUID)
}

// invalidateFeedCaches drops the derived caches after any write to posts,
// media, or milestones. The grouped feed is rebuilt on the next read.
func invalidateFeedCaches(ctx context.Context, redisClient *redis.Client, userUID string) {
	redisClient.Del(ctx, feedCacheKey(userUID), milestonesCacheKey(userUID))
}

// fetchMilestones loads an author's milestones ordered by display_order.
func fetchMilestones(ctx context.Context, pool *pgxpool.Pool, userUID string) ([]trip.Milestone, error) {
	query := `
		SELECT id, name, COALESCE(description, ''), latitude, longitude, display_order, arrival_date, departure_date, created_at
		FROM milestones
		WHERE user_uid = $1
		ORDER BY display_order
	`
	rows, err := pool.Query(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("failed to query milestones: %w", err)
	}
	defer rows.Close()

	milestones := make([]trip.Milestone, 0)
	for rows.Next() {
		var m trip.Milestone
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.Latitude, &m.Longitude,
			&m.DisplayOrder, &m.ArrivalDate, &m.DepartureDate, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan milestone: %w", err)
		}
		milestones = append(milestones, m)
	}
	return milestones, rows.Err()
}

// fetchPosts loads all of an author's posts with tags and media hydrated,
// ordered by effective timestamp.
func fetchPosts(ctx context.Context, pool *pgxpool.Pool, userUID string) ([]trip.Post, error) {
	query := `
		SELECT id, user_uid, body, latitude, longitude, COALESCE(location_name, ''), created_at, captured_at
		FROM posts
		WHERE user_uid = $1
		ORDER BY COALESCE(captured_at, created_at)
	`
	rows, err := pool.Query(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := make([]trip.Post, 0)
	index := make(map[string]int)
	ids := make([]string, 0)
	for rows.Next() {
		var p trip.Post
		if err := rows.Scan(&p.ID, &p.UserUID, &p.Body, &p.Latitude, &p.Longitude,
			&p.LocationName, &p.CreatedAt, &p.CapturedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		p.Tags = []string{}
		p.Media = []trip.Media{}
		index[p.ID] = len(posts)
		ids = append(ids, p.ID)
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return posts, nil
	}

	tagRows, err := pool.Query(ctx, `SELECT post_id, tag FROM post_tags WHERE post_id = ANY($1) ORDER BY created_at`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var postID, tag string
		if err := tagRows.Scan(&postID, &tag); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		if i, ok := index[postID]; ok {
			posts[i].Tags = append(posts[i].Tags, tag)
		}
	}
	if err := tagRows.Err(); err != nil {
		return nil, err
	}

	mediaRows, err := pool.Query(ctx, `
		SELECT id, post_id, type, storage_path, COALESCE(thumbnail_path, ''), COALESCE(width, 0), COALESCE(height, 0),
			latitude, longitude, captured_at, display_order, created_at
		FROM media
		WHERE post_id = ANY($1)
		ORDER BY display_order
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query media: %w", err)
	}
	defer mediaRows.Close()
	for mediaRows.Next() {
		var m trip.Media
		if err := mediaRows.Scan(&m.ID, &m.PostID, &m.Type, &m.StoragePath, &m.ThumbnailPath,
			&m.Width, &m.Height, &m.Latitude, &m.Longitude, &m.CapturedAt, &m.DisplayOrder, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan media: %w", err)
		}
		if i, ok := index[m.PostID]; ok {
			posts[i].Media = append(posts[i].Media, m)
		}
	}
	return posts, mediaRows.Err()
}

// fetchPost loads one post with tags and media, scoped to its owner.
func fetchPost(ctx context.Context, pool *pgxpool.Pool, userUID, postID string) (*trip.Post, error) {
	var p trip.Post
	query := `
		SELECT id, user_uid, body, latitude, longitude, COALESCE(location_name, ''), created_at, captured_at
		FROM posts
		WHERE id = $1 AND user_uid = $2
	`
	err := pool.QueryRow(ctx, query, postID, userUID).Scan(
		&p.ID, &p.UserUID, &p.Body, &p.Latitude, &p.Longitude, &p.LocationName, &p.CreatedAt, &p.CapturedAt)
	if err != nil {
		return nil, errPostNotFound
	}

	p.Tags = []string{}
	p.Media = []trip.Media{}

	tagRows, err := pool.Query(ctx, `SELECT tag FROM post_tags WHERE post_id = $1 ORDER BY created_at`, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var tag string
		if err := tagRows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		p.Tags = append(p.Tags, tag)
	}
	if err := tagRows.Err(); err != nil {
		return nil, err
	}

	mediaRows, err := pool.Query(ctx, `
		SELECT id, post_id, type, storage_path, COALESCE(thumbnail_path, ''), COALESCE(width, 0), COALESCE(height, 0),
			latitude, longitude, captured_at, display_order, created_at
		FROM media
		WHERE post_id = $1
		ORDER BY display_order
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to query media: %w", err)
	}
	defer mediaRows.Close()
	for mediaRows.Next() {
		var m trip.Media
		if err := mediaRows.Scan(&m.ID, &m.PostID, &m.Type, &m.StoragePath, &m.ThumbnailPath,
			&m.Width, &m.Height, &m.Latitude, &m.Longitude, &m.CapturedAt, &m.DisplayOrder, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan media: %w", err)
		}
		p.Media = append(p.Media, m)
	}
	if err := mediaRows.Err(); err != nil {
		return nil, err
	}

	return &p, nil
}

// setClause renders one "col = $n" fragment for a dynamic update.
func setClause(col string, n int) string {
	return fmt.Sprintf("%s = $%d", col, n)
}

// buildUpdateQuery assembles an owner-scoped UPDATE from set fragments.
func buildUpdateQuery(table string, sets []string, idArg, uidArg int) string {
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d AND user_uid = $%d",
		table, strings.Join(sets, ", "), idArg, uidArg)
}

// parseDateField validates a "YYYY-MM-DD" wire date. Empty input is allowed
// and yields nil; a malformed date is an error, never an Invalid-Date
// sentinel.
func parseDateField(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return &t, nil
}
