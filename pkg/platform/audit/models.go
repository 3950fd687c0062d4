package audit

import (
	"context"
	"strconv"
	"time"

	"github.com/mssola/useragent"

	"etatcivil/pkg/requestcontext"
)

// EventCategory classifies audit events by retention and routing.
type EventCategory string

const (
	// CategoryCompliance covers changes to civil acts. These are kept for as
	// long as the acts themselves.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers reference-data maintenance and refused
	// operations. Shorter retention.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	// Action is one of the AuditEvent constants.
	Action string
	// Subject is the entity kind ("deces", "naissance", "regions", ...) and
	// SubjectID its identifier.
	Subject   string
	SubjectID string
	Reason    string
	RequestID string
	// ActorID is the value of the X-User-ID header, empty when anonymous.
	ActorID  string
	ClientIP string
	// Browser and Platform are parsed from the User-Agent.
	Browser  string
	Platform string
}

type AuditEvent string

const (
	// Fact record events
	EventDeathCreated AuditEvent = "death_created"
	EventDeathUpdated AuditEvent = "death_updated"
	EventDeathDeleted AuditEvent = "death_deleted"
	EventBirthCreated AuditEvent = "birth_created"
	EventBirthUpdated AuditEvent = "birth_updated"
	EventBirthDeleted AuditEvent = "birth_deleted"

	// Dimension events
	EventDimensionCreated       AuditEvent = "dimension_created"
	EventDimensionUpdated       AuditEvent = "dimension_updated"
	EventDimensionDeleted       AuditEvent = "dimension_deleted"
	EventDimensionDeleteBlocked AuditEvent = "dimension_delete_blocked"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventDeathCreated: CategoryCompliance,
	EventDeathUpdated: CategoryCompliance,
	EventDeathDeleted: CategoryCompliance,
	EventBirthCreated: CategoryCompliance,
	EventBirthUpdated: CategoryCompliance,
	EventBirthDeleted: CategoryCompliance,

	EventDimensionCreated:       CategoryOperations,
	EventDimensionUpdated:       CategoryOperations,
	EventDimensionDeleted:       CategoryOperations,
	EventDimensionDeleteBlocked: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// NewEvent builds an event for action on subject, enriched with the request
// metadata carried by ctx.
func NewEvent(ctx context.Context, action AuditEvent, subject string, subjectID int64) Event {
	e := Event{
		Category:  action.Category(),
		Timestamp: requestcontext.Now(ctx),
		Action:    string(action),
		Subject:   subject,
		SubjectID: strconv.FormatInt(subjectID, 10),
		RequestID: requestcontext.RequestID(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
	}
	if actor, ok := requestcontext.ActorID(ctx); ok {
		e.ActorID = strconv.FormatInt(actor, 10)
	}
	if raw := requestcontext.UserAgent(ctx); raw != "" {
		ua := useragent.New(raw)
		name, version := ua.Browser()
		if version != "" {
			name += " " + version
		}
		e.Browser = name
		e.Platform = ua.OS()
	}
	return e
}
