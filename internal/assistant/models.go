package assistant

import (
	"github.com/dercryptomuslim/umrahcheck-crm-dashboard-sub001/internal/models"
)

// QueryRequest is the parsed body of an assistant query call.
type QueryRequest struct {
	Text     string             `json:"text"`
	TenantID string             `json:"tenantId"`
	Context  models.QueryDomain `json:"context,omitempty"`
}

// QueryResponse carries the classified interpretation plus the executed
// result set. Rows is nil for refused or empty queries.
type QueryResponse struct {
	Domain            models.QueryDomain       `json:"domain"`
	Intent            models.QueryIntent       `json:"intent"`
	Confidence        float64                  `json:"confidence"`
	LowConfidence     bool                     `json:"lowConfidence"`
	VisualizationType models.VisualizationType `json:"visualizationType"`
	Columns           []string                 `json:"columns"`
	Rows              []map[string]interface{} `json:"rows"`
	RowCount          int                      `json:"rowCount"`
	Cached            bool                     `json:"cached"`
}
