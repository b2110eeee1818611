package circulation

import (
	"context"
	"fmt"
	"math"
	"time"
)

const (
	// MetricOperationDuration tracks Library mutation durations (OpenTelemetry-compatible, seconds).
	MetricOperationDuration = "circulation_operation_duration_seconds"

	// MetricOperations counts Library mutations by operation and status.
	MetricOperations = "circulation_operations_total"

	// MetricErrors counts rejected Library mutations by operation and error type.
	MetricErrors = "circulation_errors_total"

	// MetricEventRecordingFailures counts domain events the EventRecorder refused.
	MetricEventRecordingFailures = "circulation_event_recording_failures_total"

	// MetricBooksOnLoan is the number of books held by users according to the ledger.
	MetricBooksOnLoan = "circulation_books_on_loan"

	// StatusSuccess indicates the operation changed state.
	StatusSuccess = "success"

	// StatusIdempotent indicates a soft failure: nothing changed and no error was raised.
	StatusIdempotent = "idempotent"

	// StatusError indicates the operation was rejected.
	StatusError = "error"

	spanNamePrefix = "circulation."

	logMsgOperationStarted   = "circulation operation started"
	logMsgOperationCompleted = "circulation operation completed"
	logMsgOperationNoop      = "circulation operation changed nothing"
	logMsgOperationRejected  = "circulation operation rejected"
	logMsgRecordingFailed    = "recording domain event failed"

	logAttrOperation  = "operation"
	logAttrStatus     = "status"
	logAttrDurationMS = "duration_ms"
	logAttrError      = "error"
	logAttrErrorType  = "error_type"
	logAttrReason     = "reason"
	logAttrEventType  = "event_type"

	labelOperation = "operation"
	labelStatus    = "status"
	labelErrorType = "error_type"

	attrBookID   = "book_id"
	attrUserID   = "user_id"
	attrAuthorID = "author_id"
	attrGroupID  = "group_id"
	attrQuantity = "quantity"
)

const (
	operationInsertBook           = "insert_book"
	operationInsertBooksByGroupID = "insert_books_by_group_id"
	operationInsertAuthor         = "insert_author"
	operationInsertUser           = "insert_user"
	operationRemoveBook           = "remove_book"
	operationRemoveAuthor         = "remove_author"
	operationRemoveUser           = "remove_user"
	operationBorrowBook           = "borrow_book"
	operationReturnBook           = "return_book"
)

// operationObserver encapsulates span, timing, logging and metrics for one Library mutation.
type operationObserver struct {
	l         *Library
	ctx       context.Context
	operation string
	span      SpanContext
	startedAt time.Time
}

func (l *Library) startOperation(
	ctx context.Context,
	operation string,
	attrs map[string]string,
) (*operationObserver, context.Context) {

	spanAttrs := map[string]string{labelOperation: operation}
	for key, value := range attrs {
		spanAttrs[key] = value
	}

	if l.tracingCollector != nil {
		var span SpanContext
		ctx, span = l.tracingCollector.StartSpan(ctx, spanNamePrefix+operation, spanAttrs)

		o := &operationObserver{l: l, ctx: ctx, operation: operation, span: span, startedAt: time.Now()}
		o.logDebug(logMsgOperationStarted)

		return o, ctx
	}

	o := &operationObserver{l: l, ctx: ctx, operation: operation, startedAt: time.Now()}
	o.logDebug(logMsgOperationStarted)

	return o, ctx
}

func (o *operationObserver) finishSuccess(args ...any) {
	duration := time.Since(o.startedAt)

	o.recordOutcome(StatusSuccess, duration)
	o.finishSpan(StatusSuccess, duration, nil)
	o.logInfo(logMsgOperationCompleted, append([]any{logAttrDurationMS, toMilliseconds(duration)}, args...)...)
}

func (o *operationObserver) finishIdempotent(reason string, args ...any) {
	duration := time.Since(o.startedAt)

	o.recordOutcome(StatusIdempotent, duration)
	o.finishSpan(StatusIdempotent, duration, map[string]string{logAttrReason: reason})
	o.logInfo(logMsgOperationNoop, append([]any{logAttrReason, reason, logAttrDurationMS, toMilliseconds(duration)}, args...)...)
}

// finishError records the rejection and hands err back so callers can return it directly.
func (o *operationObserver) finishError(err error) error {
	duration := time.Since(o.startedAt)
	errType := errorType(err)

	o.recordOutcome(StatusError, duration)
	o.incrementCounter(MetricErrors, map[string]string{labelOperation: o.operation, labelErrorType: errType})
	o.finishSpan(StatusError, duration, map[string]string{logAttrErrorType: errType})
	o.logWarn(logMsgOperationRejected, logAttrError, err.Error(), logAttrErrorType, errType)

	return err
}

func (o *operationObserver) recordingFailed(eventType string, err error) {
	o.incrementCounter(MetricEventRecordingFailures, map[string]string{labelOperation: o.operation})
	o.logError(logMsgRecordingFailed, logAttrEventType, eventType, logAttrError, err.Error())
}

func (o *operationObserver) recordBooksOnLoan(count int) {
	collector := o.l.metricsCollector
	if collector == nil {
		return
	}

	// Library-wide value: one series, not one per operation.
	if contextual, ok := collector.(ContextualMetricsCollector); ok {
		contextual.RecordValueContext(o.ctx, MetricBooksOnLoan, float64(count), nil)
		return
	}

	collector.RecordValue(MetricBooksOnLoan, float64(count), nil)
}

func (o *operationObserver) recordOutcome(status string, duration time.Duration) {
	collector := o.l.metricsCollector
	if collector == nil {
		return
	}

	labels := map[string]string{labelOperation: o.operation, labelStatus: status}

	if contextual, ok := collector.(ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(o.ctx, MetricOperationDuration, duration, labels)
		contextual.IncrementCounterContext(o.ctx, MetricOperations, labels)
		return
	}

	collector.RecordDuration(MetricOperationDuration, duration, labels)
	collector.IncrementCounter(MetricOperations, labels)
}

func (o *operationObserver) incrementCounter(metric string, labels map[string]string) {
	collector := o.l.metricsCollector
	if collector == nil {
		return
	}

	if contextual, ok := collector.(ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(o.ctx, metric, labels)
		return
	}

	collector.IncrementCounter(metric, labels)
}

func (o *operationObserver) finishSpan(status string, duration time.Duration, attrs map[string]string) {
	if o.span == nil || o.l.tracingCollector == nil {
		return
	}

	o.span.SetStatus(status)
	o.span.AddAttribute(logAttrDurationMS, fmt.Sprintf("%.2f", toMilliseconds(duration)))

	o.l.tracingCollector.FinishSpan(o.span, status, attrs)
}

func (o *operationObserver) logDebug(msg string, args ...any) {
	args = append([]any{logAttrOperation, o.operation}, args...)

	if o.l.contextualLogger != nil {
		o.l.contextualLogger.DebugContext(o.ctx, msg, args...)
		return
	}

	if o.l.logger != nil {
		o.l.logger.Debug(msg, args...)
	}
}

func (o *operationObserver) logInfo(msg string, args ...any) {
	args = append([]any{logAttrOperation, o.operation}, args...)

	if o.l.contextualLogger != nil {
		o.l.contextualLogger.InfoContext(o.ctx, msg, args...)
		return
	}

	if o.l.logger != nil {
		o.l.logger.Info(msg, args...)
	}
}

func (o *operationObserver) logWarn(msg string, args ...any) {
	args = append([]any{logAttrOperation, o.operation}, args...)

	if o.l.contextualLogger != nil {
		o.l.contextualLogger.WarnContext(o.ctx, msg, args...)
		return
	}

	if o.l.logger != nil {
		o.l.logger.Warn(msg, args...)
	}
}

func (o *operationObserver) logError(msg string, args ...any) {
	args = append([]any{logAttrOperation, o.operation}, args...)

	if o.l.contextualLogger != nil {
		o.l.contextualLogger.ErrorContext(o.ctx, msg, args...)
		return
	}

	if o.l.logger != nil {
		o.l.logger.Error(msg, args...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
