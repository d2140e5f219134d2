// Package cache memoizes whole-profile footprint reports.
package cache

import (
	"fmt"
	"log/slog"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/NERVsystems/footprintmcp/pkg/footprint"
	"github.com/NERVsystems/footprintmcp/pkg/monitoring"
	"github.com/NERVsystems/footprintmcp/pkg/tracing"
)

// DefaultReportCacheSize is used when a non-positive size is requested
const DefaultReportCacheSize = 256

// ReportCache is a bounded LRU of reports keyed by profile contents.
// Concurrent requests for the same uncached profile share one computation.
type ReportCache struct {
	reports *lru.Cache[string, footprint.Report]
	group   singleflight.Group
	logger  *slog.Logger
}

// NewReportCache creates a cache holding up to size reports
func NewReportCache(size int, logger *slog.Logger) (*ReportCache, error) {
	if size <= 0 {
		size = DefaultReportCacheSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	reports, err := lru.New[string, footprint.Report](size)
	if err != nil {
		return nil, fmt.Errorf("create report cache: %w", err)
	}

	return &ReportCache{reports: reports, logger: logger}, nil
}

// Key returns the cache key of a profile. Profiles with equal quantities
// share a key.
func Key(p footprint.Profile) string {
	return fmt.Sprintf("%+v", p)
}

// Report returns the report of p, computing and storing it on a miss.
// Invalid profiles are never cached. The bool reports a cache hit. The
// returned Lines are the caller's own copy.
func (c *ReportCache) Report(p footprint.Profile) (footprint.Report, bool, error) {
	key := Key(p)

	if report, ok := c.reports.Get(key); ok {
		monitoring.RecordCacheHit(tracing.CacheTypeReport)
		c.logger.Debug("report cache hit", "key", key)
		return detach(report), true, nil
	}
	monitoring.RecordCacheMiss(tracing.CacheTypeReport)

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		report, err := p.Report()
		if err != nil {
			return nil, err
		}
		c.reports.Add(key, report)
		monitoring.UpdateCacheSize(tracing.CacheTypeReport, c.reports.Len())
		return report, nil
	})
	if err != nil {
		return footprint.Report{}, false, err
	}

	return detach(v.(footprint.Report)), false, nil
}

// detach copies the slice a cached report shares with the cache entry.
func detach(r footprint.Report) footprint.Report {
	r.Lines = slices.Clone(r.Lines)
	return r
}

// Len returns the number of cached reports
func (c *ReportCache) Len() int {
	return c.reports.Len()
}

// Purge drops every cached report
func (c *ReportCache) Purge() {
	c.reports.Purge()
	monitoring.UpdateCacheSize(tracing.CacheTypeReport, 0)
}
