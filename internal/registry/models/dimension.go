package models

import (
	"fmt"
	"strings"
	"time"
)

// DimensionKind names a reference table.
type DimensionKind string

const (
	KindRegion      DimensionKind = "regions"
	KindDistrict    DimensionKind = "districts"
	KindCommune     DimensionKind = "communes"
	KindFokontany   DimensionKind = "fokontany"
	KindCause       DimensionKind = "causes-deces"
	KindProfession  DimensionKind = "professions"
	KindNationality DimensionKind = "nationalites"
)

// DimensionKinds lists every kind in hierarchy order.
var DimensionKinds = []DimensionKind{
	KindRegion, KindDistrict, KindCommune, KindFokontany,
	KindCause, KindProfession, KindNationality,
}

// ParseDimensionKind maps a route segment to a kind.
func ParseDimensionKind(s string) (DimensionKind, bool) {
	for _, k := range DimensionKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// ParentKind returns the kind a row of k hangs under, if any.
func (k DimensionKind) ParentKind() (DimensionKind, bool) {
	switch k {
	case KindDistrict:
		return KindRegion, true
	case KindCommune:
		return KindDistrict, true
	case KindFokontany:
		return KindCommune, true
	default:
		return "", false
	}
}

// ChildKind returns the kind whose rows hang under k, if any.
func (k DimensionKind) ChildKind() (DimensionKind, bool) {
	switch k {
	case KindRegion:
		return KindDistrict, true
	case KindDistrict:
		return KindCommune, true
	case KindCommune:
		return KindFokontany, true
	default:
		return "", false
	}
}

// Singular is used in messages.
func (k DimensionKind) Singular() string {
	switch k {
	case KindRegion:
		return "région"
	case KindDistrict:
		return "district"
	case KindCommune:
		return "commune"
	case KindFokontany:
		return "fokontany"
	case KindCause:
		return "cause de décès"
	case KindProfession:
		return "profession"
	case KindNationality:
		return "nationalité"
	default:
		return string(k)
	}
}

// Dimension is one row of any reference table. Parent is set for districts,
// communes and fokontany; the extended attributes apply per kind.
type Dimension struct {
	ID          int64         `json:"id"`
	Kind        DimensionKind `json:"-"`
	Code        string        `json:"code"`
	Label       string        `json:"libelle"`
	ParentID    *int64        `json:"parent_id,omitempty"`
	Description string        `json:"description,omitempty"`
	IsActive    bool          `json:"is_active"`

	// Population applies to communes and fokontany.
	Population *int `json:"population,omitempty"`
	// Category and Severity (1 low … 3 high) apply to causes of death.
	Category string `json:"categorie,omitempty"`
	Severity *int   `json:"gravite,omitempty"`
	// QualificationLevel applies to professions.
	QualificationLevel string `json:"niveau_qualification,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultSeverity is assigned to causes created without one.
const DefaultSeverity = 2

// codePrefix is the fixed prefix for kinds without a parent.
func (k DimensionKind) codePrefix() string {
	switch k {
	case KindRegion:
		return "REG-"
	case KindCause:
		return "C"
	case KindProfession:
		return "P"
	case KindNationality:
		return "N"
	default:
		return ""
	}
}

// codeWidth is the zero-padded width of the sequence part.
func (k DimensionKind) codeWidth() int {
	switch k {
	case KindDistrict:
		return 2
	case KindFokontany:
		return 4
	default:
		return 3
	}
}

// GenerateCode composes a code from the parent code (when the kind has a
// parent) and a per-parent sequence number.
func GenerateCode(kind DimensionKind, parentCode string, seq int64) string {
	num := fmt.Sprintf("%0*d", kind.codeWidth(), seq)
	if _, ok := kind.ParentKind(); ok && parentCode != "" {
		return strings.ToUpper(parentCode) + "-" + num
	}
	return kind.codePrefix() + num
}

// Dependents counts the rows still referencing a dimension row.
type Dependents struct {
	Deaths   int `json:"deces"`
	Births   int `json:"naissances"`
	Children int `json:"enfants"`
}

// Total is the sum of all dependents.
func (d Dependents) Total() int { return d.Deaths + d.Births + d.Children }

// DeleteCheck is the outcome of the "can delete" predicate.
type DeleteCheck struct {
	Blocked    bool
	Reason     string
	Dependents Dependents
}

// CanDelete evaluates whether a row with the given dependents may be removed.
func CanDelete(kind DimensionKind, deps Dependents) DeleteCheck {
	if deps.Total() == 0 {
		return DeleteCheck{}
	}
	var parts []string
	if deps.Children > 0 {
		child, _ := kind.ChildKind()
		parts = append(parts, fmt.Sprintf("%d %s", deps.Children, child))
	}
	if deps.Deaths > 0 {
		parts = append(parts, fmt.Sprintf("%d décès", deps.Deaths))
	}
	if deps.Births > 0 {
		parts = append(parts, fmt.Sprintf("%d naissances", deps.Births))
	}
	return DeleteCheck{
		Blocked:    true,
		Reason:     fmt.Sprintf("suppression impossible (%s): références existantes: %s", kind.Singular(), strings.Join(parts, ", ")),
		Dependents: deps,
	}
}

// DimensionSummary is a dimension row with optional usage counts.
type DimensionSummary struct {
	Dimension
	DeathsCount   *int `json:"deces_count,omitempty"`
	BirthsCount   *int `json:"naissances_count,omitempty"`
	ChildrenCount *int `json:"enfants_count,omitempty"`
}

// DimensionQuery narrows a dimension listing.
type DimensionQuery struct {
	Kind      DimensionKind
	ParentID  *int64
	Search    string
	WithStats bool
	SortBy    string
	Desc      bool
	// Limit 0 means no limit.
	Limit  int
	Offset int
}
