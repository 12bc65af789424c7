package assistant

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	stderrors "github.com/dercryptomuslim/umrahcheck-crm-dashboard-sub001/internal/common/errors"
	"github.com/dercryptomuslim/umrahcheck-crm-dashboard-sub001/internal/models"
)

const insertMessageSQL = `
	INSERT INTO assistant_messages (id, tenant_id, role, content, domain, confidence, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

const selectHistorySQL = `
	SELECT id, tenant_id, role, content, domain, confidence, created_at
	FROM assistant_messages
	WHERE tenant_id = $1
	ORDER BY created_at DESC
	LIMIT $2`

// appendHistory records the exchange. Best effort: a history write failure
// must never fail the query itself.
func (s *Service) appendHistory(ctx context.Context, req *QueryRequest, classification *models.QueryClassification, resp *QueryResponse) {
	now := s.now().UTC()

	messages := []models.ConversationMessage{
		{
			ID:        uuid.New(),
			TenantID:  req.TenantID,
			Role:      models.RoleUser,
			Content:   req.Text,
			CreatedAt: now,
		},
		{
			ID:         uuid.New(),
			TenantID:   req.TenantID,
			Role:       models.RoleAssistant,
			Content:    fmt.Sprintf("%d rows from %s", resp.RowCount, classification.Domain),
			Domain:     classification.Domain,
			Confidence: classification.Confidence,
			CreatedAt:  now,
		},
	}

	for _, msg := range messages {
		_, err := s.db.ExecContext(ctx, insertMessageSQL,
			msg.ID, msg.TenantID, msg.Role, msg.Content, msg.Domain, msg.Confidence, msg.CreatedAt)
		if err != nil {
			s.log.WithError(err).Warn("History write failed", map[string]interface{}{
				"tenant_id": msg.TenantID,
				"role":      msg.Role,
			})
			return
		}
	}
}

// History returns the most recent messages for a tenant, newest first.
func (s *Service) History(ctx context.Context, tenantID string, limit int) ([]models.ConversationMessage, error) {
	if tenantID == "" {
		return nil, stderrors.NewInvalidRequestError("tenantId is required")
	}
	if limit <= 0 || limit > s.cfg.HistoryLimit {
		limit = s.cfg.HistoryLimit
	}

	rows, err := s.db.QueryContext(ctx, selectHistorySQL, tenantID, limit)
	if err != nil {
		return nil, stderrors.NewHistoryReadError("history query failed")
	}
	defer rows.Close()

	messages := []models.ConversationMessage{}
	for rows.Next() {
		var msg models.ConversationMessage
		if err := rows.Scan(&msg.ID, &msg.TenantID, &msg.Role, &msg.Content, &msg.Domain, &msg.Confidence, &msg.CreatedAt); err != nil {
			return nil, stderrors.NewHistoryReadError("history scan failed")
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, stderrors.NewHistoryReadError("history iteration failed")
	}
	return messages, nil
}
