// Copyright (c) flowgate authors. All rights reserved.
// Licensed under the MIT License.

// Package flowgateobs provides OpenTelemetry and zap integration for
// flowgate delegates. It enables transparent propagation of trace context
// from a producer's call to [flowgate.Writer.Yield] through to the
// consumer's delegate callouts, plus tracing, metrics, and structured
// logging layered around those callouts, without requiring either side to
// handle any of it manually.
package flowgateobs
