package service

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"block-builder-backend/internal/blocks"
	"block-builder-backend/internal/models"
	"block-builder-backend/pkg/logger"
)

var (
	generatorMetricsOnce sync.Once
	generationsTotal     *prometheus.CounterVec
	generationDuration   *prometheus.HistogramVec
)

func initGeneratorMetrics() {
	generatorMetricsOnce.Do(func() {
		generationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "block_builder",
			Subsystem: "generator",
			Name:      "generations_total",
			Help:      "Number of HTML/CSS generations by resolved template type.",
		}, []string{"template"})

		generationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "block_builder",
			Subsystem: "generator",
			Name:      "generation_duration_seconds",
			Help:      "Time spent rendering and minifying a block.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
		}, []string{"template"})
	})
}

// GeneratorService renders block configurations and records generation metrics.
type GeneratorService struct {
	generator *blocks.Generator
}

func NewGeneratorService(generator *blocks.Generator) *GeneratorService {
	initGeneratorMetrics()
	if generator == nil {
		generator = blocks.NewGenerator()
	}
	return &GeneratorService{generator: generator}
}

func (s *GeneratorService) Generate(cfg models.BlockConfigData, templateType string) models.GeneratedCode {
	start := time.Now()

	resolved := models.TemplateCustom
	if desc, exact := s.generator.Registry().Lookup(templateType); desc != nil {
		resolved = desc.Metadata.Type
		if !exact {
			logger.Debug("Unknown template type, rendering fallback", map[string]interface{}{
				"requested": templateType,
				"fallback":  string(resolved),
			})
		}
	}

	code := s.generator.Generate(cfg, templateType)

	generationsTotal.WithLabelValues(string(resolved)).Inc()
	generationDuration.WithLabelValues(string(resolved)).Observe(time.Since(start).Seconds())

	return code
}

func (s *GeneratorService) Templates() []blocks.TemplateMetadata {
	return s.generator.Registry().ListMetadata()
}
