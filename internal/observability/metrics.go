package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quorum_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quorum_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// ContentMutations counts create/update/delete operations on forum content.
	ContentMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quorum_content_mutations_total",
		Help: "Total number of content mutations by kind and action",
	}, []string{"kind", "action"})

	// LikeToggles counts like toggles by outcome (liked or unliked).
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quorum_like_toggles_total",
		Help: "Total number of like toggles by outcome",
	}, []string{"outcome"})

	// AuthEvents counts registration, login and logout attempts by result.
	AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quorum_auth_events_total",
		Help: "Total number of authentication events by type and result",
	}, []string{"event", "result"})

	// CacheLookups counts cache-aside lookups by cache name and result (hit, miss, error).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quorum_cache_lookups_total",
		Help: "Total number of cache lookups by cache and result",
	}, []string{"cache", "result"})
)

const queryStartKey = "quorum:query_start"

// QueryMetricsPlugin is a gorm plugin recording per-statement latency into DatabaseQueryLatency.
type QueryMetricsPlugin struct{}

// Name implements gorm.Plugin.
func (QueryMetricsPlugin) Name() string { return "quorum:query_metrics" }

// Initialize implements gorm.Plugin.
func (p QueryMetricsPlugin) Initialize(db *gorm.DB) error {
	ops := []func() error{
		func() error {
			if err := db.Callback().Create().Before("gorm:create").Register("metrics:before_create", start); err != nil {
				return err
			}
			return db.Callback().Create().After("gorm:create").Register("metrics:after_create", observe("create"))
		},
		func() error {
			if err := db.Callback().Query().Before("gorm:query").Register("metrics:before_query", start); err != nil {
				return err
			}
			return db.Callback().Query().After("gorm:query").Register("metrics:after_query", observe("query"))
		},
		func() error {
			if err := db.Callback().Update().Before("gorm:update").Register("metrics:before_update", start); err != nil {
				return err
			}
			return db.Callback().Update().After("gorm:update").Register("metrics:after_update", observe("update"))
		},
		func() error {
			if err := db.Callback().Delete().Before("gorm:delete").Register("metrics:before_delete", start); err != nil {
				return err
			}
			return db.Callback().Delete().After("gorm:delete").Register("metrics:after_delete", observe("delete"))
		},
		func() error {
			if err := db.Callback().Raw().Before("gorm:raw").Register("metrics:before_raw", start); err != nil {
				return err
			}
			return db.Callback().Raw().After("gorm:raw").Register("metrics:after_raw", observe("raw"))
		},
	}
	for _, register := range ops {
		if err := register(); err != nil {
			return err
		}
	}
	return nil
}

func start(db *gorm.DB) {
	db.InstanceSet(queryStartKey, time.Now())
}

func observe(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		v, ok := db.InstanceGet(queryStartKey)
		if !ok {
			return
		}
		began, ok := v.(time.Time)
		if !ok {
			return
		}
		table := db.Statement.Table
		if table == "" {
			table = "unknown"
		}
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(began).Seconds())
	}
}
