// internal/assistant/sqlbuilder/templates.go
package sqlbuilder

// maxListRows caps row-list templates so a broad question cannot drag the
// whole contact book over the wire.
const maxListRows = 100

// Fixed projections per template. expected_columns mirrors these so the
// caller can render a table header without re-parsing SQL.
var (
	leadColumns = []string{
		"first_name", "last_name", "email", "lead_score", "lead_status",
		"country", "city", "budget_max", "created_at",
	}

	contactColumns = []string{
		"first_name", "last_name", "email", "phone",
		"country", "city", "lead_score", "created_at",
	}

	bookingColumns = []string{
		"b.id", "b.booking_reference", "b.status", "b.total_amount",
		"b.travel_date", "b.created_at", "c.first_name", "c.last_name", "c.email",
	}

	revenueColumns = []string{"total_revenue", "avg_booking_value", "booking_count"}

	analyticsColumns = []string{"total_contacts", "total_bookings", "total_revenue", "hot_leads"}
)

// Per-domain filter field to column mappings. Bookings and revenue read
// contact attributes through the join alias.
var (
	contactFilterColumns = map[string]string{
		"lead_score": "lead_score",
		"country":    "country",
		"budget_max": "budget_max",
	}

	bookingFilterColumns = map[string]string{
		"lead_score": "c.lead_score",
		"country":    "c.country",
		"budget_max": "c.budget_max",
	}
)
