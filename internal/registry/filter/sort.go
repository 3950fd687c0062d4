package filter

import (
	"math"
	"strconv"
	"strings"
)

// MaxPageSize caps every paginated listing.
const MaxPageSize = 100

// Default page sizes.
const (
	DefaultRecordPageSize    = 15
	DefaultDimensionPageSize = 20
)

// Sort is a validated ordering on an allow-listed field.
type Sort struct {
	Field string
	Desc  bool
}

// ParseSort returns the requested ordering when field is allow-listed and
// fallback otherwise. Any order other than "asc" sorts descending.
func ParseSort(field, order string, allowed []string, fallback Sort) Sort {
	field = strings.TrimSpace(field)
	desc := !strings.EqualFold(strings.TrimSpace(order), "asc")
	for _, a := range allowed {
		if a == field {
			return Sort{Field: field, Desc: desc}
		}
	}
	return fallback
}

// Direction renders the SQL direction keyword.
func (s Sort) Direction() string {
	if s.Desc {
		return "DESC"
	}
	return "ASC"
}

// Sortable record fields, by API name.
var (
	DeathSortFields = []string{"created_at", "updated_at", "annee_deces", "mois_deces", "n_acte"}
	BirthSortFields = []string{"created_at", "updated_at", "annee_naissance", "mois_naissance", "n_acte"}
	// DimensionSortFields includes usage counts, only meaningful with stats.
	DimensionSortFields = []string{"libelle", "code", "created_at", "deces_count", "naissances_count", "enfants_count"}
)

// DefaultRecordSort orders records newest first.
var DefaultRecordSort = Sort{Field: "created_at", Desc: true}

// DefaultDimensionSort orders dimension rows by label.
var DefaultDimensionSort = Sort{Field: "libelle"}

// Page is a 1-based page request with a bounded size.
type Page struct {
	Number int
	Size   int
}

// MaxPageNumber bounds the page number so offsets cannot overflow.
const MaxPageNumber = math.MaxInt/MaxPageSize - 1

// ParsePage reads page and per_page values. Size defaults to def and is capped
// at MaxPageSize; page defaults to 1 and is capped at MaxPageNumber.
func ParsePage(page, perPage string, def int) Page {
	p := Page{Number: 1, Size: def}
	if n, err := strconv.Atoi(strings.TrimSpace(page)); err == nil && n > 0 {
		p.Number = min(n, MaxPageNumber)
	}
	if n, err := strconv.Atoi(strings.TrimSpace(perPage)); err == nil && n > 0 {
		p.Size = n
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Offset is the number of rows before the page.
func (p Page) Offset() int {
	return (min(max(p.Number, 1), MaxPageNumber) - 1) * min(max(p.Size, 0), MaxPageSize)
}

// Pagination is echoed with every paginated listing.
type Pagination struct {
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
	LastPage    int `json:"last_page"`
	From        int `json:"from"`
	To          int `json:"to"`
}

// Paginate describes page p of total rows.
func (p Page) Paginate(total int) Pagination {
	last := 1
	if total > 0 {
		last = (total + p.Size - 1) / p.Size
	}
	out := Pagination{CurrentPage: p.Number, PerPage: p.Size, Total: total, LastPage: last}
	if from := p.Offset() + 1; from <= total {
		out.From = from
		out.To = min(p.Offset()+p.Size, total)
	}
	return out
}

// Window returns the [start, end) slice bounds of page p over n rows.
func (p Page) Window(n int) (int, int) {
	start := min(p.Offset(), n)
	return start, min(start+p.Size, n)
}
