package complaint

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/staybook/service-booking/internal/platform/domain"
	"github.com/staybook/service-booking/internal/platform/sanitize"
)

// Subject is the category a guest picks when raising a complaint.
type Subject string

const (
	SubjectRoomCleanliness Subject = "ROOM_CLEANLINESS"
	SubjectStaffBehaviour  Subject = "STAFF_BEHAVIOUR"
	SubjectBilling         Subject = "BILLING"
	SubjectAmenities       Subject = "AMENITIES"
	SubjectNoise           Subject = "NOISE"
	SubjectOther           Subject = "OTHER"
)

// Subjects lists every valid subject.
var Subjects = []Subject{
	SubjectRoomCleanliness, SubjectStaffBehaviour, SubjectBilling,
	SubjectAmenities, SubjectNoise, SubjectOther,
}

// IsValid returns true if the subject is recognized.
func (s Subject) IsValid() bool {
	for _, v := range Subjects {
		if v == s {
			return true
		}
	}
	return false
}

// Status is the resolution state of a complaint.
type Status string

const (
	StatusOpen     Status = "OPEN"
	StatusResolved Status = "RESOLVED"
	StatusRejected Status = "REJECTED"
)

// ParseStatus converts a string to a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusOpen, StatusResolved, StatusRejected:
		return Status(s), nil
	}
	return "", fmt.Errorf("invalid complaint status: %s", s)
}

// Complaint is the aggregate root for a guest complaint about a booking.
type Complaint struct {
	id           uuid.UUID
	bookingID    uuid.UUID
	hotelID      uuid.UUID
	userID       uuid.UUID
	subject      Subject
	description  string
	status       Status
	adminComment string
	createdAt    time.Time
	resolvedAt   *time.Time
}

// MaxTextLength bounds the description and the admin comment.
const MaxTextLength = 2000

// NewComplaint creates an open complaint. The description is sanitised.
func NewComplaint(bookingID, hotelID, userID uuid.UUID, subject Subject, description string) (*Complaint, error) {
	if !subject.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid complaint subject: %s", subject))
	}
	description = sanitize.Text(description)
	if description == "" {
		return nil, domain.NewError(domain.KindMissingField, "description is required")
	}
	if sanitize.Length(description) > MaxTextLength {
		return nil, domain.NewError(domain.KindValidation, "description must be at most %d characters", MaxTextLength)
	}

	return &Complaint{
		id:          uuid.New(),
		bookingID:   bookingID,
		hotelID:     hotelID,
		userID:      userID,
		subject:     subject,
		description: description,
		status:      StatusOpen,
		createdAt:   time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds a Complaint from persistence.
func Reconstruct(
	id, bookingID, hotelID, userID uuid.UUID,
	subject Subject,
	description string,
	status Status,
	adminComment string,
	createdAt time.Time,
	resolvedAt *time.Time,
) *Complaint {
	return &Complaint{
		id:           id,
		bookingID:    bookingID,
		hotelID:      hotelID,
		userID:       userID,
		subject:      subject,
		description:  description,
		status:       status,
		adminComment: adminComment,
		createdAt:    createdAt,
		resolvedAt:   resolvedAt,
	}
}

// Getters.
func (c *Complaint) ID() uuid.UUID          { return c.id }
func (c *Complaint) BookingID() uuid.UUID   { return c.bookingID }
func (c *Complaint) HotelID() uuid.UUID     { return c.hotelID }
func (c *Complaint) UserID() uuid.UUID      { return c.userID }
func (c *Complaint) Subject() Subject       { return c.subject }
func (c *Complaint) Description() string    { return c.description }
func (c *Complaint) Status() Status         { return c.status }
func (c *Complaint) AdminComment() string   { return c.adminComment }
func (c *Complaint) CreatedAt() time.Time   { return c.createdAt }
func (c *Complaint) ResolvedAt() *time.Time { return c.resolvedAt }

// Resolve closes an open complaint as RESOLVED or REJECTED.
func (c *Complaint) Resolve(outcome Status, comment string) error {
	if c.status != StatusOpen {
		return domain.NewInvalidStateError(string(c.status), string(outcome))
	}
	if outcome != StatusResolved && outcome != StatusRejected {
		return domain.NewValidationError("outcome must be RESOLVED or REJECTED")
	}
	comment = sanitize.Text(comment)
	if sanitize.Length(comment) > MaxTextLength {
		return domain.NewError(domain.KindValidation, "comment must be at most %d characters", MaxTextLength)
	}
	now := time.Now().UTC()
	c.status = outcome
	c.adminComment = comment
	c.resolvedAt = &now
	return nil
}
