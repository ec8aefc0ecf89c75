package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Area command metric names
const (
	MetricNameCommandsTotal        = "area_commands_total"
	MetricNameCommandDuration      = "area_command_duration_seconds"
	MetricNameCommandErrors        = "area_command_errors_total"
	MetricNameBroadcastsTotal      = "area_broadcasts_total"
	MetricNameBroadcastDrops       = "area_broadcast_drops_total"
	MetricNameOccupants            = "area_occupants"
	MetricNamePersistenceRetries   = "player_db_persistence_retries_total"
	MetricNameWebsocketClients     = "websocket_clients_connected"
	MetricNameEventsPublished      = "events_published_total"
	MetricNameEventHandlerErrors   = "event_handler_errors_total"
	MetricNameCheckoutsCompleted   = "checkouts_completed_total"
	MetricNameTradeOffersPosted    = "trade_offers_posted_total"
	MetricNameTradeOffersAccepted  = "trade_offers_accepted_total"
	MetricNameTradeOffersCancelled = "trade_offers_cancelled_total"
	MetricNameCheckoutRevenue      = "checkout_revenue_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Area command metric help text
const (
	HelpTextCommandsTotal        = "Total number of area commands processed"
	HelpTextCommandDuration      = "Area command processing latency in seconds"
	HelpTextCommandErrors        = "Total number of area commands rejected, by error kind"
	HelpTextBroadcastsTotal      = "Total number of area model broadcasts"
	HelpTextBroadcastDrops       = "Total number of broadcast frames dropped for slow clients"
	HelpTextOccupants            = "Current number of occupants per area"
	HelpTextPersistenceRetries   = "Total number of retried player database operations"
	HelpTextWebsocketClients     = "Current number of connected websocket clients"
	HelpTextEventsPublished      = "Total number of events published"
	HelpTextEventHandlerErrors   = "Total number of event handler errors"
	HelpTextCheckoutsCompleted   = "Total number of completed grocery checkouts"
	HelpTextTradeOffersPosted    = "Total number of trading offers posted"
	HelpTextTradeOffersAccepted  = "Total number of trading offers accepted"
	HelpTextTradeOffersCancelled = "Total number of trading offers cancelled"
	HelpTextCheckoutRevenue      = "Total currency charged at grocery checkouts"
)

// ============================================================================
// Label Names
// ============================================================================

const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelArea      = "area"
	LabelAreaType  = "area_type"
	LabelKind      = "kind"
	LabelErrorKind = "error_kind"
	LabelOperation = "operation"
	LabelType      = "type"
)

// HTTPLatencyBuckets are the histogram buckets for HTTP request duration
var HTTPLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// CommandLatencyBuckets are the histogram buckets for area command duration
var CommandLatencyBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}
