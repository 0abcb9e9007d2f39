// Package observability turns validation outcomes into log records.
//
// [LogSink] implements httpvalidator.Sink and writes one record per
// validated request. Rendered by [LineHandler], a successful request looks
// like:
//
//	INFO openapi_validation method="GET" path="/example/{uuid}" success=true duration_ms=2 timestamp=1642752000000
//
// A failed one is logged at WARN with an error attribute before timestamp.
//
// [NewLogger] builds a *slog.Logger from a [Config], fanning records out
// to the console and an optional log file.
package observability
