// Package assistant orchestrates classification, SQL generation, guarded
// execution and conversation history for the dashboard query assistant.
package assistant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dercryptomuslim/umrahcheck-crm-dashboard-sub001/internal/assistant/classifier"
	"github.com/dercryptomuslim/umrahcheck-crm-dashboard-sub001/internal/assistant/sqlbuilder"
	"github.com/dercryptomuslim/umrahcheck-crm-dashboard-sub001/internal/assistant/sqlguard"
	"github.com/dercryptomuslim/umrahcheck-crm-dashboard-sub001/internal/common/config"
	stderrors "github.com/dercryptomuslim/umrahcheck-crm-dashboard-sub001/internal/common/errors"
	"github.com/dercryptomuslim/umrahcheck-crm-dashboard-sub001/internal/common/logger"
	"github.com/dercryptomuslim/umrahcheck-crm-dashboard-sub001/internal/common/metrics"
	"github.com/dercryptomuslim/umrahcheck-crm-dashboard-sub001/internal/models"
)

const lowConfidenceThreshold = 0.5

// Service ties the query pipeline together. All SQL it executes is generated
// internally and re-checked by the guard before it reaches the database.
type Service struct {
	cfg        config.AssistantConfig
	db         *sql.DB
	redis      *redis.Client
	classifier *classifier.Classifier
	builder    *sqlbuilder.Builder
	log        logger.Logger
	now        func() time.Time
}

func NewService(cfg config.AssistantConfig, db *sql.DB, redisClient *redis.Client, log logger.Logger) *Service {
	return &Service{
		cfg:        cfg,
		db:         db,
		redis:      redisClient,
		classifier: classifier.New(log),
		builder:    sqlbuilder.New(log),
		log:        log,
		now:        time.Now,
	}
}

// Query runs the full pipeline for one natural language question.
func (s *Service) Query(ctx context.Context, req *QueryRequest) (*QueryResponse, error) {
	started := s.now()

	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	classification := s.classifier.Parse(req.Text, req.Context, s.now())
	metrics.QueriesClassified.WithLabelValues(string(classification.Domain), string(classification.Intent)).Inc()
	metrics.ClassificationConfidence.Observe(classification.Confidence)

	if classification.Domain == models.DomainUnknown {
		metrics.QueryBuildFailures.WithLabelValues("unknown_domain").Inc()
		return nil, stderrors.NewUnsupportedDomainError(
			"the question did not match any known data domain; try mentioning leads, bookings, revenue or contacts")
	}

	built, err := s.builder.Build(classification, req.TenantID)
	if err != nil {
		if errors.Is(err, sqlbuilder.ErrUnsupportedDomain) {
			metrics.QueryBuildFailures.WithLabelValues("unsupported_domain").Inc()
			return nil, stderrors.NewUnsupportedDomainError(string(classification.Domain))
		}
		metrics.QueryBuildFailures.WithLabelValues("build_error").Inc()
		return nil, stderrors.NewQueryExecutionError(err.Error())
	}

	// Defense in depth. The builder only emits parameterized SELECTs, but
	// every statement still passes the guard before touching the database.
	if !sqlguard.Validate(built.SQL) {
		metrics.GuardRejections.Inc()
		s.log.Warn("Generated SQL rejected by guard", map[string]interface{}{
			"tenant_id": req.TenantID,
			"domain":    classification.Domain,
		})
		return nil, stderrors.NewSecurityRejectedError()
	}

	resp := &QueryResponse{
		Domain:            classification.Domain,
		Intent:            classification.Intent,
		Confidence:        classification.Confidence,
		LowConfidence:     classification.Confidence < lowConfidenceThreshold,
		VisualizationType: built.VisualizationType,
		Columns:           built.ExpectedColumns,
	}

	cacheKey := s.cacheKey(req)
	if cached, ok := s.cacheGet(ctx, cacheKey); ok {
		resp.Rows = cached
		resp.RowCount = len(cached)
		resp.Cached = true
		metrics.QueryDuration.WithLabelValues(string(classification.Domain)).Observe(s.now().Sub(started).Seconds())
		return resp, nil
	}

	rows, err := s.execute(ctx, built)
	if err != nil {
		return nil, err
	}
	resp.Rows = rows
	resp.RowCount = len(rows)

	s.cacheSet(ctx, cacheKey, rows)
	s.appendHistory(ctx, req, classification, resp)

	metrics.QueryDuration.WithLabelValues(string(classification.Domain)).Observe(s.now().Sub(started).Seconds())
	return resp, nil
}

func (s *Service) validateRequest(req *QueryRequest) error {
	if req.TenantID == "" {
		return stderrors.NewInvalidRequestError("tenantId is required")
	}
	length := len([]rune(req.Text))
	if length < s.cfg.MinQueryLength {
		return stderrors.NewInvalidRequestError(
			fmt.Sprintf("query text must be at least %d characters", s.cfg.MinQueryLength))
	}
	if length > s.cfg.MaxQueryLength {
		return stderrors.NewInvalidRequestError(
			fmt.Sprintf("query text must be at most %d characters", s.cfg.MaxQueryLength))
	}
	return nil
}

// execute runs the built statement under the configured timeout and scans
// rows generically, since each template has its own column set.
func (s *Service) execute(ctx context.Context, built *models.BuiltQuery) ([]map[string]interface{}, error) {
	execCtx, cancel := context.WithTimeout(ctx, s.cfg.QueryTimeoutDuration())
	defer cancel()

	dbRows, err := s.db.QueryContext(execCtx, built.SQL, built.Params...)
	if err != nil {
		if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
			return nil, stderrors.NewQueryTimeoutError()
		}
		s.log.WithError(err).Error("Query execution failed", map[string]interface{}{
			"tables": built.Tables,
		})
		return nil, stderrors.NewQueryExecutionError("datastore query failed")
	}
	defer dbRows.Close()

	columns, err := dbRows.Columns()
	if err != nil {
		return nil, stderrors.NewQueryExecutionError("could not read result columns")
	}

	results := []map[string]interface{}{}
	for dbRows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := dbRows.Scan(pointers...); err != nil {
			return nil, stderrors.NewQueryExecutionError("result scan failed")
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		results = append(results, row)
	}
	if err := dbRows.Err(); err != nil {
		return nil, stderrors.NewQueryExecutionError("result iteration failed")
	}
	return results, nil
}
