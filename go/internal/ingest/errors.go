package ingest

import "errors"

// ErrInvalidRecord is returned for a record whose identifier coerces to an empty string.
// Callers drop the record and keep going.
var ErrInvalidRecord = errors.New("invalid record")

// ErrMalformedPayload is returned when a payload does not have the expected JSON shape
var ErrMalformedPayload = errors.New("malformed payload")

// ErrUnknownEvent is returned for push kinds this client does not consume
var ErrUnknownEvent = errors.New("unknown event")
