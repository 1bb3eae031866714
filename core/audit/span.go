// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path"
	"runtime/trace"
	"strconv"
	"time"

	servertiming "github.com/mitchellh/go-server-timing"
	"github.com/rs/zerolog/log"
)

// Span instruments one HTTP request, either serving a user or calling
// GitHub. Fill the exported fields, then Begin before the request runs
// and End plus Log once it finishes.
type Span struct {
	task     *trace.Task
	start    time.Time
	duration time.Duration
	metric   *servertiming.Metric

	Destination TrafficDestination
	RequestID   string
	Method      string
	URL         string
	StatusCode  int
	Error       error

	// Body is only kept for response saving, never logged inline.
	Body []byte

	responseFilename string
}

// TrafficDestination is the logical peer of a request.
type TrafficDestination string

const (
	ToUser   TrafficDestination = "user"
	ToGitHub TrafficDestination = "github"

	responseFileMode = 0o600
)

// Response saving, wired from the development config.
var (
	SaveResponses     bool
	ResponseDirectory string
)

// ServerTimingName builds a metric name that survives the header's
// token syntax: the URL is base64-encoded without padding.
func (span Span) ServerTimingName() string {
	return string(span.Destination) + "$" + span.Method + "$" +
		base64.RawURLEncoding.EncodeToString([]byte(span.URL))
}

// Begin starts the span's trace task and, when the request carries a
// Server-Timing collector, its metric.
func (span *Span) Begin(ctx context.Context) context.Context {
	span.start = time.Now()
	ctx, span.task = trace.NewTask(ctx, "http."+string(span.Destination))

	if timing := servertiming.FromContext(ctx); timing != nil {
		span.metric = timing.NewMetric(span.ServerTimingName())
		span.metric.Extra = map[string]string{
			"start": strconv.FormatFloat(float64(span.start.UnixNano())/float64(time.Millisecond), 'f', -1, 64),
		}
	}

	return ctx
}

// End closes the trace task and fixes the duration. Only the first
// call counts.
func (span *Span) End() {
	if span.task == nil {
		return
	}

	span.duration = time.Since(span.start)
	span.task.End()
	span.task = nil

	if span.metric != nil {
		span.metric.Duration = span.duration
	}
}

// Log emits the span as a debug log line. GitHub response bodies are
// first written to the response directory when saving is enabled, and
// the filename joins the log line.
func (span Span) Log() {
	if span.Destination == ToGitHub && len(span.Body) > 0 && SaveResponses {
		filename := path.Join(ResponseDirectory, span.RequestID)

		if err := os.WriteFile(filename, span.Body, responseFileMode); err != nil {
			log.Err(err).Str("request_id", span.RequestID).Msg("Response body could not be saved")
		} else {
			span.responseFilename = filename
		}
	}

	event := log.Debug().
		Str("sys", "http").
		Str("method", span.Method).
		Str("url", span.URL).
		Int("status_code", span.StatusCode).
		Str("len", humanizeSize(len(span.Body))).
		Dur("dur", span.duration).
		Str("destination", string(span.Destination)).
		Str("request_id", span.RequestID)

	if span.responseFilename != "" {
		event = event.Str("response_filename", span.responseFilename)
	}

	if span.Error != nil {
		event = event.Err(span.Error)
	}

	event.Send()
}

// humanizeSize renders a byte count with a short K/M/G suffix.
func humanizeSize(n int) string {
	const step = 1024

	if n < step {
		return strconv.Itoa(n)
	}

	value := float64(n)
	suffixes := []string{"K", "M", "G"}

	i := 0
	for value /= step; value >= step && i < len(suffixes)-1; i++ {
		value /= step
	}

	return fmt.Sprintf("%.2f%s", value, suffixes[i])
}
