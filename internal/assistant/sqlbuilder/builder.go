// internal/assistant/sqlbuilder/builder.go
package sqlbuilder

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dercryptomuslim/umrahcheck-crm-dashboard-sub001/internal/common/logger"
	"github.com/dercryptomuslim/umrahcheck-crm-dashboard-sub001/internal/models"
)

var ErrUnsupportedDomain = errors.New("UNSUPPORTED_DOMAIN")

// Builder compiles a QueryClassification into a tenant-scoped parameterized
// statement. It never interpolates values into SQL text: the tenant id and
// every filter/timeframe value are bound positionally.
type Builder struct {
	logger logger.Logger
}

func New(log logger.Logger) *Builder {
	return &Builder{
		logger: log.WithFields(map[string]interface{}{"component": "sqlbuilder"}),
	}
}

// visualizationFor maps intent to the rendering hint: aggregate intents are
// metric cards, plain listings are tables.
func visualizationFor(intent models.QueryIntent) models.VisualizationType {
	switch intent {
	case models.IntentCount, models.IntentSum, models.IntentAnalyze:
		return models.VisualizationMetrics
	}
	return models.VisualizationTable
}

// statement carries the per-call placeholder counter so concurrent Build
// calls never share mutable state.
type statement struct {
	sql    strings.Builder
	params []interface{}
}

// bind appends a parameter and returns its positional placeholder.
func (st *statement) bind(value interface{}) string {
	st.params = append(st.params, value)
	return fmt.Sprintf("$%d", len(st.params))
}

func (st *statement) write(s string) {
	st.sql.WriteString(s)
}

// Build selects the statement template for the classified domain. An unknown
// domain is refused outright rather than guessed at.
func (b *Builder) Build(c *models.QueryClassification, tenantID string) (*models.BuiltQuery, error) {
	if c == nil {
		return nil, fmt.Errorf("classification cannot be nil")
	}

	var (
		built *models.BuiltQuery
		err   error
	)
	switch c.Domain {
	case models.DomainLeads:
		built, err = buildLeads(c, tenantID)
	case models.DomainBookings:
		built, err = buildBookings(c, tenantID)
	case models.DomainRevenue:
		built, err = buildRevenue(c, tenantID)
	case models.DomainContacts:
		built, err = buildContacts(c, tenantID)
	case models.DomainAnalytics:
		built, err = buildAnalytics(tenantID)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDomain, c.Domain)
	}
	if err != nil {
		return nil, err
	}

	b.logger.Debug("query built", map[string]interface{}{
		"domain":     c.Domain,
		"intent":     c.Intent,
		"paramCount": len(built.Params),
		"tables":     built.Tables,
	})

	return built, nil
}

func buildLeads(c *models.QueryClassification, tenantID string) (*models.BuiltQuery, error) {
	st := &statement{}

	if c.Intent == models.IntentCount {
		st.write("SELECT COUNT(*) AS total_leads FROM contacts WHERE tenant_id = " + st.bind(tenantID))
		if err := appendConditions(st, c, contactFilterColumns, "created_at"); err != nil {
			return nil, err
		}
		return &models.BuiltQuery{
			SQL:               st.sql.String(),
			Params:            st.params,
			Tables:            []string{"contacts"},
			VisualizationType: models.VisualizationMetrics,
			ExpectedColumns:   []string{"total_leads"},
		}, nil
	}

	st.write("SELECT " + strings.Join(leadColumns, ", ") + " FROM contacts WHERE tenant_id = " + st.bind(tenantID))
	if err := appendConditions(st, c, contactFilterColumns, "created_at"); err != nil {
		return nil, err
	}
	st.write(" ORDER BY lead_score DESC LIMIT " + fmt.Sprint(maxListRows))

	return &models.BuiltQuery{
		SQL:               st.sql.String(),
		Params:            st.params,
		Tables:            []string{"contacts"},
		VisualizationType: visualizationFor(c.Intent),
		ExpectedColumns:   leadColumns,
	}, nil
}

func buildContacts(c *models.QueryClassification, tenantID string) (*models.BuiltQuery, error) {
	st := &statement{}

	if c.Intent == models.IntentCount {
		st.write("SELECT COUNT(*) AS total_contacts FROM contacts WHERE tenant_id = " + st.bind(tenantID))
		if err := appendConditions(st, c, contactFilterColumns, "created_at"); err != nil {
			return nil, err
		}
		return &models.BuiltQuery{
			SQL:               st.sql.String(),
			Params:            st.params,
			Tables:            []string{"contacts"},
			VisualizationType: models.VisualizationMetrics,
			ExpectedColumns:   []string{"total_contacts"},
		}, nil
	}

	st.write("SELECT " + strings.Join(contactColumns, ", ") + " FROM contacts WHERE tenant_id = " + st.bind(tenantID))
	if err := appendConditions(st, c, contactFilterColumns, "created_at"); err != nil {
		return nil, err
	}
	st.write(" ORDER BY created_at DESC LIMIT " + fmt.Sprint(maxListRows))

	return &models.BuiltQuery{
		SQL:               st.sql.String(),
		Params:            st.params,
		Tables:            []string{"contacts"},
		VisualizationType: visualizationFor(c.Intent),
		ExpectedColumns:   contactColumns,
	}, nil
}

func buildBookings(c *models.QueryClassification, tenantID string) (*models.BuiltQuery, error) {
	st := &statement{}

	if c.Intent == models.IntentCount {
		st.write("SELECT COUNT(*) AS total_bookings")
	} else {
		st.write("SELECT " + strings.Join(bookingColumns, ", "))
	}

	// Tenant scoped on both sides of the join.
	st.write(" FROM bookings b JOIN contacts c ON b.contact_id = c.id")
	st.write(" WHERE b.tenant_id = " + st.bind(tenantID))
	st.write(" AND c.tenant_id = " + st.bind(tenantID))
	if err := appendConditions(st, c, bookingFilterColumns, "b.created_at"); err != nil {
		return nil, err
	}

	if c.Intent == models.IntentCount {
		return &models.BuiltQuery{
			SQL:               st.sql.String(),
			Params:            st.params,
			Tables:            []string{"bookings", "contacts"},
			VisualizationType: models.VisualizationMetrics,
			ExpectedColumns:   []string{"total_bookings"},
		}, nil
	}

	st.write(" ORDER BY b.created_at DESC LIMIT " + fmt.Sprint(maxListRows))
	return &models.BuiltQuery{
		SQL:               st.sql.String(),
		Params:            st.params,
		Tables:            []string{"bookings", "contacts"},
		VisualizationType: visualizationFor(c.Intent),
		ExpectedColumns:   bookingColumns,
	}, nil
}

// buildRevenue always aggregates and always excludes cancelled bookings; the
// exclusion is a template invariant, not a user-controllable filter.
func buildRevenue(c *models.QueryClassification, tenantID string) (*models.BuiltQuery, error) {
	st := &statement{}
	st.write("SELECT SUM(b.total_amount) AS total_revenue, AVG(b.total_amount) AS avg_booking_value, COUNT(*) AS booking_count")
	st.write(" FROM bookings b JOIN contacts c ON b.contact_id = c.id")
	st.write(" WHERE b.tenant_id = " + st.bind(tenantID))
	st.write(" AND c.tenant_id = " + st.bind(tenantID))
	st.write(" AND b.status != 'cancelled'")
	if err := appendConditions(st, c, bookingFilterColumns, "b.created_at"); err != nil {
		return nil, err
	}

	return &models.BuiltQuery{
		SQL:               st.sql.String(),
		Params:            st.params,
		Tables:            []string{"bookings", "contacts"},
		VisualizationType: models.VisualizationMetrics,
		ExpectedColumns:   revenueColumns,
	}, nil
}

// buildAnalytics summarizes the whole tenant; user filters never apply here.
func buildAnalytics(tenantID string) (*models.BuiltQuery, error) {
	st := &statement{}
	st.write("SELECT")
	st.write(" (SELECT COUNT(*) FROM contacts WHERE tenant_id = " + st.bind(tenantID) + ") AS total_contacts,")
	st.write(" (SELECT COUNT(*) FROM bookings WHERE tenant_id = " + st.bind(tenantID) + ") AS total_bookings,")
	st.write(" (SELECT COALESCE(SUM(total_amount), 0) FROM bookings WHERE tenant_id = " + st.bind(tenantID) + " AND status != 'cancelled') AS total_revenue,")
	st.write(fmt.Sprintf(" (SELECT COUNT(*) FROM contacts WHERE tenant_id = %s AND lead_score >= %d) AS hot_leads",
		st.bind(tenantID), models.HotLeadMinScore))

	return &models.BuiltQuery{
		SQL:               st.sql.String(),
		Params:            st.params,
		Tables:            []string{"contacts", "bookings"},
		VisualizationType: models.VisualizationMetrics,
		ExpectedColumns:   analyticsColumns,
	}, nil
}

// appendConditions renders the derived filters and the optional timeframe,
// assigning placeholder indices strictly left to right.
func appendConditions(st *statement, c *models.QueryClassification, columns map[string]string, timeColumn string) error {
	for _, f := range c.Filters {
		column, ok := columns[f.Field]
		if !ok {
			// Classifier only derives known fields; anything else is a
			// programming error worth surfacing instead of guessing a column.
			return fmt.Errorf("no column mapping for filter field %q", f.Field)
		}
		clause, err := filterClause(st, column, f)
		if err != nil {
			return err
		}
		st.write(" AND " + clause)
	}

	if tf := c.Timeframe; tf != nil {
		st.write(" AND " + timeColumn + " >= " + st.bind(tf.Start.UTC().Format(time.RFC3339)))
		st.write(" AND " + timeColumn + " <= " + st.bind(tf.End.UTC().Format(time.RFC3339)))
	}

	return nil
}

func filterClause(st *statement, column string, f models.Filter) (string, error) {
	switch f.Operator {
	case models.OperatorEq:
		return column + " = " + st.bind(f.Value), nil
	case models.OperatorGte:
		return column + " >= " + st.bind(f.Value), nil
	case models.OperatorLte:
		return column + " <= " + st.bind(f.Value), nil
	case models.OperatorLike:
		return column + " ILIKE " + st.bind(f.Value), nil
	case models.OperatorBetween:
		bounds, ok := f.Value.([2]int)
		if !ok {
			return "", fmt.Errorf("between filter on %q needs a [2]int range", f.Field)
		}
		return column + " BETWEEN " + st.bind(bounds[0]) + " AND " + st.bind(bounds[1]), nil
	default:
		return "", fmt.Errorf("unsupported filter operator %q", f.Operator)
	}
}
