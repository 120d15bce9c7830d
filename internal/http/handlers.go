package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"financecontroller/internal/auth"
	"financecontroller/internal/core"
	"financecontroller/internal/log"
	"financecontroller/internal/middleware/trace"
	"financecontroller/internal/services"
)

// handleHealth reports that the process is alive.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Data(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).String(),
	}).Write(w)
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]string)

	if s.ready == nil {
		checks["storage"] = "not_checked"
	} else if err := s.ready.Ping(ctx); err != nil {
		checks["storage"] = fmt.Sprintf("failed: %v", err)
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["storage"] = "ok"
	}

	checks["rate_limiter"] = fmt.Sprintf("ok (%d active clients)", s.limiter.ActiveClients())

	NewJSONResponse().Status(httpStatus).Data(map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}).Write(w)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if s.metrics == nil {
		NotFoundError("metrics disabled").Write(w)
		return
	}
	s.metrics.SetRateLimitClients(s.limiter.ActiveClients())
	s.metrics.Handler().ServeHTTP(w, r)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.FromContext(r.Context())
	if !ok {
		UnauthorizedError("no active session").Write(w)
		return
	}
	NewJSONResponse().Data(sess.User).Write(w)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Data(map[string]any{
		"categories": s.service.Categories(),
	}).Write(w)
}

// handleDashboard answers with the highlight cards and the transaction list.
// Storage failures still render an empty dashboard, with status 503.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	d, err := s.service.Dashboard(ctx)
	if errors.Is(err, auth.ErrNoSession) {
		UnauthorizedError("no active session").Write(w)
		return
	}
	if err != nil {
		s.logFailure(ctx, "Dashboard read failed", log.OpRead, err, nil)
		NewJSONResponse().Status(http.StatusServiceUnavailable).Data(struct {
			services.Dashboard
			Error string `json:"error"`
		}{d, "transactions are temporarily unavailable"}).Write(w)
		return
	}
	NewJSONResponse().Data(d).Write(w)
}

// handleResume answers with the category breakdown of one month.
func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params, err := ParseMonthParams(r.URL.Query(), s.now().In(s.loc))
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	res, err := s.service.Resume(ctx, params.Year, params.Month)
	switch {
	case err == nil:
		NewJSONResponse().Data(res).Write(w)
	case errors.Is(err, auth.ErrNoSession):
		UnauthorizedError("no active session").Write(w)
	case errors.Is(err, core.ErrInvalidMonth):
		BadRequestError(err.Error()).Write(w)
	default:
		s.logFailure(ctx, "Resume read failed", log.OpSummary, err, log.NewFields().WithMonth(params.Year, params.Month))
		NewJSONResponse().Status(http.StatusServiceUnavailable).Data(struct {
			services.Resume
			Error string `json:"error"`
		}{res, "transactions are temporarily unavailable"}).Write(w)
	}
}

// handleCreateTransaction registers one transaction from a JSON or form body.
func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("malformed request body").Write(w)
		return
	}

	in := services.RegisterInput{
		Name:     p.Get("name"),
		Amount:   p.Get("amount"),
		Type:     p.Get("type"),
		Category: p.Get("category"),
		Date:     p.Get("date"),
	}

	t, err := s.service.RegisterTransaction(ctx, in)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrNoSession):
		UnauthorizedError("no active session").Write(w)
		return
	case services.IsValidationError(err):
		UnprocessableEntityError("invalid transaction", err).Write(w)
		return
	default:
		s.logFailure(ctx, "Transaction registration failed", log.OpAppend, err, nil)
		InternalServerError("could not save transaction").Write(w)
		return
	}

	NewJSONResponse().
		Status(http.StatusCreated).
		Data(map[string]string{
			"id":       t.ID,
			"type":     string(t.Type),
			"name":     t.Name,
			"amount":   t.Amount.String(),
			"category": t.Category,
			"date":     t.Date.Format(time.DateOnly),
		}).
		Write(w)
}

func (s *Server) logFailure(ctx context.Context, msg, op string, err error, fields log.LogFields) {
	if fields == nil {
		fields = log.NewFields()
	}
	fields = fields.WithRequestID(trace.GetRequestID(ctx))
	if id, idErr := auth.UserID(ctx); idErr == nil {
		fields = fields.WithUser(id)
	}
	log.NewStructuredLogger(s.logger).LogError(ctx, msg, err, log.ComponentSummary, op, fields)
}
