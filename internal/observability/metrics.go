package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "threadline_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// FeedPagesServed counts feed and comment pages by kind.
	FeedPagesServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "threadline_feed_pages_total",
		Help: "Total number of feed and comment pages served",
	}, []string{"kind"})

	// FeedPageSize records how many items each page carried.
	FeedPageSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "threadline_feed_page_size",
		Help:    "Number of items returned per page",
		Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
	}, []string{"kind"})

	// UploadsTotal counts file uploads by storage provider and result.
	UploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "threadline_uploads_total",
		Help: "Total number of file uploads by provider and result",
	}, []string{"provider", "result"})
)

// ObservePage records a served page of the given kind ("posts" or "comments").
func ObservePage(kind string, size int) {
	FeedPagesServed.WithLabelValues(kind).Inc()
	FeedPageSize.WithLabelValues(kind).Observe(float64(size))
}

// ObserveUpload records an upload attempt.
func ObserveUpload(provider string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	UploadsTotal.WithLabelValues(provider, result).Inc()
}
