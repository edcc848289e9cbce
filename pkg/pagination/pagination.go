package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 20
	// MaxLimit caps how many rows any paged query can request.
	MaxLimit = 100
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Normalize clamps the params against the package defaults.
func (p Params) Normalize() Params {
	return p.NormalizeWith(DefaultLimit, MaxLimit)
}

// NormalizeWith clamps the params against endpoint-specific bounds. A page
// below one floors to one; a limit outside (0, max] falls back to def.
func (p Params) NormalizeWith(def, max int) Params {
	out := p
	if out.Page < 1 {
		out.Page = 1
	}
	if out.Limit < 1 {
		out.Limit = def
	}
	if out.Limit > max {
		out.Limit = max
	}
	return out
}

// Offset returns the row offset for the normalized page.
func (p Params) Offset() int {
	page := p.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * p.Limit
}

// TotalPages computes the page count for a row total.
func TotalPages(total int64, limit int) int {
	if limit < 1 {
		return 0
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return pages
}

// Meta is the pagination block echoed back on paged responses.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewMeta assembles response metadata from normalized params and a row total.
func NewMeta(p Params, total int64) Meta {
	return Meta{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: TotalPages(total, p.Limit),
	}
}
