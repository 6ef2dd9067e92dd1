// Package cache keeps a local snapshot of fetched sessions on disk, bucketed
// by day, so the calendar can render immediately on startup and stay usable
// offline. The backend remains authoritative; buckets are rewritten after
// every successful fetch.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"github.com/Guisb12/lusia-cal/pkg/session"
)

const (
	bucketPrefix = "sessions"
	dayLayout    = "2006-01-02"
)

// Cache is a diskv-backed day-bucket store.
type Cache struct {
	d *diskv.Diskv
}

// Open creates a cache rooted at basePath.
func Open(basePath string) (*Cache, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, fmt.Errorf("cache: base path required")
	}
	return &Cache{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	})}, nil
}

// Day returns the cached sessions for one calendar day. A missing bucket is
// an empty day, not an error.
func (c *Cache) Day(date time.Time) []session.Session {
	val, err := c.d.Read(dayKey(date))
	if err != nil {
		return nil
	}
	var sessions []session.Session
	if err := json.Unmarshal(val, &sessions); err != nil {
		return nil
	}
	return sessions
}

// Range returns every cached session whose bucket falls in [from, to],
// ordered by start time.
func (c *Cache) Range(ctx context.Context, from, to time.Time) []session.Session {
	var all []session.Session
	for key := range c.d.Keys(ctx.Done()) {
		pk := keyToPathTransform(key)
		if len(pk.Path) == 0 || pk.Path[0] != bucketPrefix {
			continue
		}
		day, err := time.ParseInLocation(dayLayout, pk.FileName, from.Location())
		if err != nil {
			continue
		}
		if day.Before(truncateDay(from)) || day.After(truncateDay(to)) {
			continue
		}
		val, err := c.d.Read(key)
		if err != nil {
			continue
		}
		var sessions []session.Session
		if err := json.Unmarshal(val, &sessions); err != nil {
			continue
		}
		all = append(all, sessions...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].StartsAt.Before(all[j].StartsAt)
	})
	return all
}

// PutRange replaces every day bucket in [from, to] with the given sessions.
// Days in the range with no sessions are erased so deletions propagate.
func (c *Cache) PutRange(from, to time.Time, sessions []session.Session) error {
	byDay := session.GroupByDay(sessions)
	for day := truncateDay(from); !day.After(truncateDay(to)); day = day.AddDate(0, 0, 1) {
		key := dayKey(day)
		bucket := byDay[day.Format(dayLayout)]
		if len(bucket) == 0 {
			if c.d.Has(key) {
				if err := c.d.Erase(key); err != nil {
					return fmt.Errorf("cache: erase %s: %w", key, err)
				}
			}
			continue
		}
		data, err := json.Marshal(bucket)
		if err != nil {
			return fmt.Errorf("cache: encode %s: %w", key, err)
		}
		if err := c.d.Write(key, data); err != nil {
			return fmt.Errorf("cache: write %s: %w", key, err)
		}
	}
	return nil
}

func dayKey(date time.Time) string {
	return bucketPrefix + "-" + date.Format(dayLayout)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func keyToPathTransform(s string) *diskv.PathKey {
	idx := strings.Index(s, "-")
	if idx < 0 {
		return &diskv.PathKey{FileName: s}
	}
	return &diskv.PathKey{
		Path:     []string{s[:idx]},
		FileName: s[idx+1:],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	if len(pathKey.Path) == 0 {
		return pathKey.FileName
	}
	return strings.Join(pathKey.Path, "-") + "-" + pathKey.FileName
}
