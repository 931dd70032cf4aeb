package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PromptsGeneratedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashseo_prompts_generated_total",
		Help: "Prompts assembled, by template id.",
	}, []string{"template"})

	AssembleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dashseo_prompt_assemble_duration_seconds",
		Help:    "Time spent substituting and transforming a template.",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	})

	PromptsRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dashseo_prompts_recorded_total",
		Help: "Prompt rows successfully written to the database.",
	})

	PromptRecordErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dashseo_prompt_record_errors_total",
		Help: "Prompt recording failures, including a full write queue.",
	})

	TemplateWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashseo_template_writes_total",
		Help: "Template save and delete attempts.",
	}, []string{"op", "result"})

	TemplatesTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dashseo_templates_total",
		Help: "Templates visible across all tiers at the last listing.",
	})
)
