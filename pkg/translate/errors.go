package translate

import "errors"

var (
	// ErrEmptyDocument is returned when translate is called with a
	// document that has no lines; the run fails before any HTTP activity.
	ErrEmptyDocument = errors.New("document has no translatable lines")

	// ErrUnknownProvider is returned when a ProviderConfig names a
	// provider tag outside the recognized closed set.
	ErrUnknownProvider = errors.New("unrecognized provider tag")

	// ErrHTTPStatus is returned by the Ollama/LM Studio path when the
	// server responds with a non-2xx status code. The SDK-backed providers
	// report HTTP failures with their SDK's own error instead.
	ErrHTTPStatus = errors.New("non-2xx response from provider")

	// ErrEmptyResponseBody is returned by the Ollama/LM Studio path when
	// the server responds with an empty body.
	ErrEmptyResponseBody = errors.New("empty response body from provider")

	// ErrMissingContentPath is returned when a provider's response JSON
	// does not contain the content path this provider's protocol
	// requires.
	ErrMissingContentPath = errors.New("response JSON missing expected content path")

	// ErrMalformedTranslations is returned when the cleaned model
	// output still does not parse as {"translations":[...]}.
	ErrMalformedTranslations = errors.New("cleaned content did not parse as a translations object")
)
