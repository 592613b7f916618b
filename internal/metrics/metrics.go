// Package metrics exposes prometheus instruments of the sync job.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rssposter"

// Image lookup results.
const (
	ImageFound = "found"
	ImageNone  = "none"
	ImageError = "error"
)

var (
	JobRuns = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "job_runs_total",
		Help:      "Number of feed sync job runs",
	})

	JobFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "job_failures_total",
		Help:      "Number of job runs aborted by an unexpected error",
	})

	PostsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_published_total",
		Help:      "Number of entries published to the channel",
	})

	PublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "publish_failures_total",
		Help:      "Number of failed publish attempts",
	})

	FeedErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feed_errors_total",
		Help:      "Number of feed fetch or parse failures",
	}, []string{"source"})

	ImageLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "image_lookups_total",
		Help:      "Image lookups by result",
	}, []string{"result"})

	SaveFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "save_failures_total",
		Help:      "Number of failed Posted-Set saves",
	})

	PostedLinks = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "posted_links",
		Help:      "Number of links in the Posted-Set",
	})

	LastRun = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time of the last finished job run",
	})
)
