package errors

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"growlab/internal/dataprocessing"
	"growlab/internal/files"
	"growlab/internal/infrastructure"
	"growlab/internal/services"
)

// ErrorHandler converts errors into RFC 7807 responses and logs them.
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates an error handler.
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger.With(slog.String("component", "error_handler")),
	}
}

// HandleError logs the error and writes the problem response.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	traceID := infrastructure.GetTraceID(r.Context())

	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("trace_id", traceID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	problem := h.ErrorToProblem(err, r)
	problem.WithExtension("trace_id", traceID)

	if writeErr := problem.WriteResponse(w); writeErr != nil {
		h.logger.ErrorContext(r.Context(), "failed to write problem response",
			slog.String("error", writeErr.Error()))
	}
}

// ErrorToProblem maps an error value to RFC 7807 problem details.
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewProblemDetails(
			http.StatusGatewayTimeout,
			TypeTimeout,
			"Request Timeout",
			"The request took too long to process and was cancelled",
			r.URL.Path,
		)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErrorToProblem(apiErr, r)
	}

	var notFound *dataprocessing.FileNotFoundError
	if errors.As(err, &notFound) {
		return NewProblemDetails(
			http.StatusNotFound,
			TypeDataMissing,
			"Dataset File Missing",
			notFound.Error(),
			r.URL.Path,
		)
	}

	if errors.Is(err, files.ErrNotFound) {
		return NewProblemDetails(
			http.StatusNotFound,
			TypeDataMissing,
			"File Not Found",
			err.Error(),
			r.URL.Path,
		)
	}

	var tsErr *dataprocessing.TimestampError
	var parseErr *dataprocessing.ParseError
	if errors.As(err, &tsErr) || errors.As(err, &parseErr) || errors.Is(err, dataprocessing.ErrEmptyWorkbook) {
		return NewProblemDetails(
			http.StatusUnprocessableEntity,
			TypeDataInvalid,
			"Dataset Unreadable",
			err.Error(),
			r.URL.Path,
		)
	}

	if errors.Is(err, dataprocessing.ErrNoData) {
		return NewProblemDetails(
			http.StatusNotFound,
			TypeDataEmpty,
			"No Data",
			"The requested aggregation has no data to summarize",
			r.URL.Path,
		)
	}

	if errors.Is(err, services.ErrUnknownMetric) {
		return NewProblemDetails(
			http.StatusBadRequest,
			TypeValidation,
			"Unknown Metric",
			err.Error(),
			r.URL.Path,
		)
	}

	if errors.Is(err, services.ErrNoUsableData) {
		return NewProblemDetails(
			http.StatusServiceUnavailable,
			TypeDataEmpty,
			"No Usable Data",
			"Neither environment nor growth data could be loaded; reporting is halted",
			r.URL.Path,
		)
	}

	return NewProblemDetails(
		http.StatusInternalServerError,
		TypeInternal,
		"Internal Server Error",
		"An unexpected error occurred while processing the request",
		r.URL.Path,
	)
}

func apiErrorToProblem(apiErr *APIError, r *http.Request) *ProblemDetails {
	problemType := TypeInternal
	switch apiErr.StatusCode {
	case http.StatusBadRequest:
		problemType = TypeValidation
	case http.StatusNotFound:
		problemType = TypeNotFound
	case http.StatusTooManyRequests:
		problemType = TypeRateLimit
	}

	problem := NewProblemDetails(
		apiErr.StatusCode,
		problemType,
		http.StatusText(apiErr.StatusCode),
		apiErr.Message,
		r.URL.Path,
	).WithExtension("error_code", apiErr.ErrorCode)

	if apiErr.Details != nil {
		problem.WithExtension("details", apiErr.Details)
	}

	return problem
}
