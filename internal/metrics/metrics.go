package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Area command metrics
var (
	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCommandsTotal,
			Help: HelpTextCommandsTotal,
		},
		[]string{LabelAreaType, LabelKind},
	)

	CommandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameCommandDuration,
			Help:    HelpTextCommandDuration,
			Buckets: CommandLatencyBuckets,
		},
		[]string{LabelAreaType, LabelKind},
	)

	CommandErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCommandErrors,
			Help: HelpTextCommandErrors,
		},
		[]string{LabelAreaType, LabelKind, LabelErrorKind},
	)

	BroadcastsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameBroadcastsTotal,
			Help: HelpTextBroadcastsTotal,
		},
		[]string{LabelArea},
	)

	BroadcastDrops = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameBroadcastDrops,
			Help: HelpTextBroadcastDrops,
		},
		[]string{LabelArea},
	)

	Occupants = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricNameOccupants,
			Help: HelpTextOccupants,
		},
		[]string{LabelArea},
	)

	PersistenceRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePersistenceRetries,
			Help: HelpTextPersistenceRetries,
		},
		[]string{LabelOperation},
	)

	WebsocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameWebsocketClients,
			Help: HelpTextWebsocketClients,
		},
	)
)

// Event metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Business metrics
var (
	CheckoutsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCheckoutsCompleted,
			Help: HelpTextCheckoutsCompleted,
		},
	)

	CheckoutRevenue = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCheckoutRevenue,
			Help: HelpTextCheckoutRevenue,
		},
	)

	TradeOffersPosted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameTradeOffersPosted,
			Help: HelpTextTradeOffersPosted,
		},
	)

	TradeOffersAccepted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameTradeOffersAccepted,
			Help: HelpTextTradeOffersAccepted,
		},
	)

	TradeOffersCancelled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameTradeOffersCancelled,
			Help: HelpTextTradeOffersCancelled,
		},
	)
)
