// Package services holds the application services between the raw loaders
// and the HTTP transport.
//
// DatasetService owns the load-once lifecycle of the experiment datasets:
// each dataset is read from disk at most once per process (or per manual
// invalidation), concurrent first requests share a single in-flight load,
// and the cached results are treated as immutable.
//
// SummaryService answers the descriptive-statistics queries the dashboard
// frontend renders: per-EC growth means, the optimal EC, and environment
// overviews. It is pull-based; nothing is computed until asked for.
package services
