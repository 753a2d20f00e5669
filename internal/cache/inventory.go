package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Key formats for cached read models.
const (
	UserKeyPrefix       = "user:%d"
	PostDetailKeyPrefix = "post:%d:detail"
	TopTagsKeyPrefix    = "tags:top:%d"
	FeedKeyPrefix       = "feed:%d:%d"
)

// TTLs per key class. Aggregates are invalidated on write, so these bound
// staleness only for writers outside this process.
const (
	UserTTL       = 5 * time.Minute
	PostDetailTTL = 10 * time.Minute
	TopTagsTTL    = 5 * time.Minute
	FeedTTL       = time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostDetailKey(postID uint) string {
	return fmt.Sprintf(PostDetailKeyPrefix, postID)
}

func TopTagsKey(limit int) string {
	return fmt.Sprintf(TopTagsKeyPrefix, limit)
}

func FeedKey(page, pageSize int) string {
	return fmt.Sprintf(FeedKeyPrefix, page, pageSize)
}

// KeyClass reduces a key to its first segment for metric labels.
func KeyClass(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}

// Invalidate removes a single key, best-effort.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateUser drops the cached user read model.
func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidatePost drops the cached detail aggregate for the post and every
// feed page, used after any write that touches the aggregate.
func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostDetailKey(postID))
	InvalidateFeed(ctx)
}

// InvalidateFeed drops all cached feed pages.
func InvalidateFeed(ctx context.Context) {
	invalidatePattern(ctx, "feed:*")
}

// InvalidateTopTags drops cached top-tag lists after association churn.
func InvalidateTopTags(ctx context.Context) {
	invalidatePattern(ctx, "tags:top:*")
}

// invalidatePattern deletes every key matching pattern, best-effort. SCAN
// keeps the walk incremental; KEYS would block the server on a large keyspace.
func invalidatePattern(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	var cursor uint64
	for {
		keys, next, err := client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return
		}
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		if next == 0 {
			return
		}
		cursor = next
	}
}
