package hitbeat

import "errors"

var (
	// ErrParseConfig indicates environment variables could not be parsed
	// into the configuration struct.
	ErrParseConfig = errors.New("hitbeat: failed to parse environment")

	// ErrMissingAPIKey indicates the client is enabled but has no API key.
	ErrMissingAPIKey = errors.New("hitbeat: api key is required")

	// ErrDisabled indicates instrumentation is switched off by configuration.
	ErrDisabled = errors.New("hitbeat: instrumentation disabled")

	// ErrInvalidPayload indicates the caller-supplied event data failed
	// client-side validation and was never sent.
	ErrInvalidPayload = errors.New("hitbeat: invalid event payload")

	// ErrDeliveryFailed indicates the collector rejected the request or was
	// unreachable.
	ErrDeliveryFailed = errors.New("hitbeat: event delivery failed")
)
