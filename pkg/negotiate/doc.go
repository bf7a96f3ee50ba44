// Package negotiate implements two-stage content negotiation for HTTP
// exchanges. Inbound, it resolves a request's declared Content-Type and
// decodes the body into the handler's typed value. Outbound, it selects the
// response format from the Accept header before the handler runs, lets the
// handler emit a typed value behind a type-erased payload, and serializes
// that value after the handler returns using the format selected up front.
//
// The per-exchange state machine is:
//
//	AwaitingNegotiation -> FormatSelected -> HandlerRunning ->
//	{PassThrough | Reencoding} ->
//	Terminal(Success | NegotiationFailed | EncodeFailed | DecodeFailed)
//
// with FormatSelected and HandlerRunning skipped together when phase-1
// selection fails.
package negotiate
