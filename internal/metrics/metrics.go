// Package metrics содержит счетчики Prometheus пакетного конвейера
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BrandResolutions количество разрешений брендов по ярусам уверенности
	BrandResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodpipeline_brand_resolutions_total",
		Help: "Brand resolutions by confidence tier",
	}, []string{"tier"})

	// PipelineErrors количество ошибок обработки строк каталога
	PipelineErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foodpipeline_pipeline_errors_total",
		Help: "Per-row processing errors in batch pipelines",
	})

	// PipelineDuration длительность пакетных прогонов
	PipelineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "foodpipeline_pipeline_duration_seconds",
		Help:    "Batch pipeline run duration",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	})

	// HarvestRequests исходящие запросы скрейпинга по результату
	HarvestRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodpipeline_harvest_requests_total",
		Help: "Scraping API requests by outcome",
	}, []string{"outcome"})
)
