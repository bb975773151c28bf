package server

import (
	"context"
	stderrors "errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/adminshell/pkg/router"
)

// Resolution outcomes used as metric labels and span attributes.
const (
	outcomeMatched    = "matched"
	outcomeRedirected = "redirected"
)

// resolve runs a traced, measured resolution of target.
func (s *Server) resolve(ctx context.Context, target string) (*router.Location, error) {
	_, span := s.tracer.Start(ctx, "router.resolve",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("router.target", target)),
	)
	defer span.End()

	start := time.Now()
	loc, err := s.router.Resolve(target)
	s.metrics.resolveDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		outcome := failureOutcome(err)
		s.metrics.resolutions.WithLabelValues("none", outcome).Inc()
		span.SetAttributes(attribute.String("router.outcome", outcome))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	outcome := outcomeMatched
	if loc.RedirectedFrom != "" {
		outcome = outcomeRedirected
		s.metrics.redirects.WithLabelValues(loc.RedirectedFrom, loc.Route.Path).Inc()
	}
	s.metrics.resolutions.WithLabelValues(loc.Route.Path, outcome).Inc()

	span.SetAttributes(
		attribute.String("router.path", loc.Path),
		attribute.String("router.route", loc.Route.Path),
		attribute.String("router.name", loc.Name),
		attribute.String("router.outcome", outcome),
	)
	if loc.RedirectedFrom != "" {
		span.SetAttributes(attribute.String("router.redirected_from", loc.RedirectedFrom))
	}
	span.SetStatus(codes.Ok, "")
	return loc, nil
}

// failureOutcome names a navigation failure for metrics.
func failureOutcome(err error) string {
	var navErr *router.NavigationError
	if stderrors.As(err, &navErr) {
		return navErr.Kind.String()
	}
	return "error"
}
