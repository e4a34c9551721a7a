package statesync

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for statesync spans.
const defaultTracerName = "statesync"

// Span attributes recorded per processed update.
var (
	attrPath   = attribute.Key("statesync.path")
	attrResult = attribute.Key("statesync.result")
)

// DefaultTracer returns a tracer from the global OpenTelemetry provider,
// for use with WithTracer:
//
//	statesync.Synchronize(src, mappings,
//	    statesync.WithTracer(statesync.DefaultTracer()))
func DefaultTracer() trace.Tracer {
	return otel.Tracer(defaultTracerName)
}
