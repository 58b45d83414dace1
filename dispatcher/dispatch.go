package dispatcher

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gruhabuddy/gruha/dispatcher/worker"
	"github.com/gruhabuddy/gruha/pkg/design"
	"github.com/gruhabuddy/gruha/pkg/eventstream"
	"github.com/gruhabuddy/gruha/pkg/llm"
	"github.com/gruhabuddy/gruha/pkg/metrics"
	"github.com/gruhabuddy/gruha/pkg/normalize"
	"github.com/gruhabuddy/gruha/pkg/prompt"
)

// unknownActionLabel keeps metric label values bounded.
const unknownActionLabel = "unknown"

// trace collects what one request did, for logging, metrics and events.
type trace struct {
	requestID      string
	eventType      string
	action         design.Action
	path           string
	started        time.Time
	streaming      bool
	upstreamStatus int
	outcome        string
	conforming     *bool
	usage          *llm.Usage
}

func (d *Dispatcher) newTrace(path string) *trace {
	return &trace{
		requestID: uuid.NewString(),
		eventType: eventstream.EventTypeDesignCompleted,
		path:      path,
		started:   time.Now(),
		outcome:   eventstream.OutcomeError,
	}
}

// Dispatch runs one design action request to completion and returns the
// status and envelope for the client. It never returns an error: every
// failure is expressed as an error envelope.
func (d *Dispatcher) Dispatch(ctx context.Context, req design.Request) design.Outcome {
	return d.dispatch(ctx, req, "")
}

func (d *Dispatcher) dispatch(ctx context.Context, req design.Request, path string) design.Outcome {
	t := d.newTrace(path)
	out := d.run(ctx, t, req)
	d.finish(t, out)
	return out
}

func (d *Dispatcher) run(ctx context.Context, t *trace, req design.Request) design.Outcome {
	action, err := design.ParseAction(req.Action)
	if err != nil {
		return failure(http.StatusBadRequest, MsgUnknownAction)
	}
	t.action = action

	payload, err := design.DecodePayload(action, req.Data)
	if err != nil {
		d.logger.Debug("invalid action data", zap.String("action", action.String()), zap.Error(err))
		return failure(http.StatusBadRequest, MsgInvalidData)
	}

	pair, err := prompt.Build(payload)
	if err != nil {
		return d.internal(t, err)
	}

	callStarted := time.Now()
	resp, err := d.gateway.Complete(ctx, pair)
	if err != nil {
		return d.internal(t, err)
	}
	t.upstreamStatus = resp.StatusCode
	metrics.UpstreamDuration.
		WithLabelValues(action.String(), strconv.Itoa(resp.StatusCode)).
		Observe(time.Since(callStarted).Seconds())

	if !resp.OK() {
		upErr := &UpstreamError{StatusCode: resp.StatusCode, Body: string(resp.Body)}
		if !upErr.RateLimited() && !upErr.CreditsExhausted() {
			d.logger.Error("AI gateway error",
				zap.String("request_id", t.requestID),
				zap.Int("status", upErr.StatusCode),
				zap.String("body", upErr.Body),
			)
		}
		return failure(upErr.ClientStatus(), upErr.ClientMessage())
	}

	content, err := d.gateway.Content(resp.Body)
	if err != nil {
		return d.internal(t, err)
	}
	t.usage = content.Usage

	result := normalize.Normalize(content.Message.GetText())
	t.outcome = result.Kind()
	metrics.NormalizeOutcomes.WithLabelValues(action.String(), result.Kind()).Inc()
	d.checkShape(t, result)

	return design.Outcome{Status: http.StatusOK, Envelope: design.Success(result.Payload())}
}

// checkShape records whether parsed output matches the requested shape.
// The result sent to the client is never changed.
func (d *Dispatcher) checkShape(t *trace, result normalize.Result) {
	if result.Kind() != normalize.KindParsed {
		return
	}

	violations, err := d.checker.Check(t.action, result)
	if err != nil {
		d.logger.Warn("response shape check failed", zap.Error(err))
		return
	}

	conforming := len(violations) == 0
	t.conforming = &conforming
	if !conforming {
		metrics.SchemaMismatches.WithLabelValues(t.action.String()).Inc()
		d.logger.Debug("model output differs from requested shape",
			zap.String("request_id", t.requestID),
			zap.String("action", t.action.String()),
			zap.Strings("violations", violations),
		)
	}
}

func (d *Dispatcher) internal(t *trace, err error) design.Outcome {
	level := d.logger.Error
	if errors.Is(err, context.Canceled) {
		level = d.logger.Debug
	}
	level("dispatch failed",
		zap.String("request_id", t.requestID),
		zap.String("action", t.action.String()),
		zap.Error(err),
	)
	return failure(http.StatusInternalServerError, err.Error())
}

// finish records metrics and enqueues the design event without blocking.
func (d *Dispatcher) finish(t *trace, out design.Outcome) {
	if out.Envelope.IsError() {
		t.outcome = eventstream.OutcomeError
	}

	label := t.action.String()
	if label == "" {
		label = unknownActionLabel
	}
	if t.eventType == eventstream.EventTypeChatCompleted {
		metrics.ChatStreams.WithLabelValues(strconv.Itoa(out.Status)).Inc()
	} else {
		metrics.DispatchRequests.WithLabelValues(label, strconv.Itoa(out.Status)).Inc()
	}

	completed := time.Now()
	d.logger.Info("request completed",
		zap.String("request_id", t.requestID),
		zap.String("action", label),
		zap.Int("status", out.Status),
		zap.String("outcome", t.outcome),
		zap.Duration("duration", completed.Sub(t.started)),
	)

	event := &eventstream.DesignEvent{
		SchemaVersion: eventstream.SchemaVersionV1,
		EventType:     t.eventType,
		EventID:       uuid.NewString(),
		EmittedAt:     completed,
		Source: eventstream.EventSource{
			Provider: d.gateway.Provider().Name(),
			Model:    d.gateway.Model(),
		},
		Request: eventstream.RequestMeta{
			RequestID:   t.requestID,
			Action:      t.action.String(),
			Path:        t.path,
			StartedAt:   t.started,
			CompletedAt: completed,
			DurationMs:  completed.Sub(t.started).Milliseconds(),
			Streaming:   t.streaming,
			HTTPStatus:  out.Status,
		},
		Result: eventstream.ResultMeta{
			Outcome:          t.outcome,
			UpstreamStatus:   t.upstreamStatus,
			SchemaConforming: t.conforming,
			Usage:            t.usage,
		},
	}

	if !d.workerPool.Enqueue(worker.Job{Event: event}) {
		metrics.EventsDropped.Inc()
	}
}
