package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "imagetor_requests_total",
		Help: "Ingest requests by action and outcome.",
	}, []string{"action", "outcome"})

	pipelineFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "imagetor_pipeline_failures_total",
		Help: "Failed variant pipelines by failure kind.",
	}, []string{"kind"})

	uploadedBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "imagetor_uploaded_bytes_total",
		Help: "Total bytes committed to object storage.",
	})
)
