package contracts

// Topic names used when patrol runs against a Redpanda/Kafka broker.
const (
	// TopicErrorsRaw carries raw error-event payloads from telemetry sinks.
	TopicErrorsRaw = "patrol.errors.raw"

	// TopicAnalysisResults carries produced AnalysisResult JSON.
	TopicAnalysisResults = "patrol.analysis.results"
)
