package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Métricas de negócio
	ActiveCaptureSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "comanda_active_capture_sessions",
		Help: "Número de sessões de captura de voz ativas",
	})

	OrdersPlacedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "comanda_orders_placed_total",
		Help: "Total de pedidos criados",
	}, []string{"type", "origin"})

	OrderRevenueTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "comanda_order_revenue_brl_total",
		Help: "Receita total de pedidos fechados em BRL",
	})

	OrderStatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "comanda_order_status_transitions_total",
		Help: "Total de transições de status de pedidos",
	}, []string{"from", "to"})

	TranscriptionAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "comanda_transcription_attempts_total",
		Help: "Total de tentativas de transcrição por provedor",
	}, []string{"provider", "status"})

	TranscriptionFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "comanda_transcription_failures_total",
		Help: "Total de falhas de transcrição por tipo",
	}, []string{"provider", "kind"})

	TranscriptionLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "comanda_transcription_latency_seconds",
		Help:    "Latência da transcrição de voz",
		Buckets: prometheus.DefBuckets,
	})

	ExtractionLinesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "comanda_extraction_lines_total",
		Help: "Total de linhas extraídas de pedidos por voz",
	}, []string{"resolution"})

	PaymentsCompletedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "comanda_payments_completed_total",
		Help: "Total de pagamentos concluídos por método",
	}, []string{"method", "provider"})

	// Métricas de infraestrutura
	KitchenFeedMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "comanda_kitchen_feed_messages_total",
		Help: "Total de mensagens no feed da cozinha",
	}, []string{"event", "direction"})

	DatabaseLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "comanda_database_latency_seconds",
		Help:    "Latência de queries no banco",
		Buckets: prometheus.DefBuckets,
	})
)
