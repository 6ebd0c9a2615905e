package hotel

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/staybook/service-booking/internal/platform/domain"
	"github.com/staybook/service-booking/internal/platform/sanitize"
)

// ApprovalStatus is the admin moderation state of a hotel listing.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

var approvalTransitions = map[ApprovalStatus][]ApprovalStatus{
	ApprovalPending:  {ApprovalApproved, ApprovalRejected},
	ApprovalApproved: {ApprovalRejected},
	ApprovalRejected: {ApprovalApproved, ApprovalPending},
}

// IsValid returns true for a recognised approval status.
func (s ApprovalStatus) IsValid() bool {
	_, ok := approvalTransitions[s]
	return ok
}

func (s ApprovalStatus) canTransitionTo(target ApprovalStatus) bool {
	for _, t := range approvalTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Details are the owner-editable attributes of a hotel.
type Details struct {
	Name        string
	Description string
	City        string
	State       string
	Address     string
	PriceRange  string
	Images      []string
}

// normalized trims the text fields and strips markup from the description.
func (d Details) normalized() Details {
	d.Name = strings.TrimSpace(d.Name)
	d.City = strings.TrimSpace(d.City)
	d.State = strings.TrimSpace(d.State)
	d.Address = strings.TrimSpace(d.Address)
	d.Description = sanitize.Text(d.Description)
	return d
}

func (d Details) validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return domain.NewError(domain.KindMissingField, "hotel name is required")
	}
	if strings.TrimSpace(d.City) == "" {
		return domain.NewError(domain.KindMissingField, "city is required")
	}
	return nil
}

// Hotel is the aggregate root for a hotel listing.
type Hotel struct {
	id              uuid.UUID
	ownerID         uuid.UUID
	details         Details
	rating          float64
	ratingCount     int
	approval        ApprovalStatus
	rejectionReason string
	archived        bool
	version         int64
	createdAt       time.Time
	updatedAt       time.Time
}

// NewHotel creates a listing awaiting admin approval.
func NewHotel(ownerID uuid.UUID, details Details) (*Hotel, error) {
	if ownerID == uuid.Nil {
		return nil, domain.NewValidationError("owner ID is required")
	}
	details = details.normalized()
	if err := details.validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Hotel{
		id:        uuid.New(),
		ownerID:   ownerID,
		details:   details,
		approval:  ApprovalPending,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a Hotel from persistence data (no validation).
func Reconstruct(
	id, ownerID uuid.UUID,
	details Details,
	rating float64,
	ratingCount int,
	approval ApprovalStatus,
	rejectionReason string,
	archived bool,
	version int64,
	createdAt, updatedAt time.Time,
) *Hotel {
	return &Hotel{
		id:              id,
		ownerID:         ownerID,
		details:         details,
		rating:          rating,
		ratingCount:     ratingCount,
		approval:        approval,
		rejectionReason: rejectionReason,
		archived:        archived,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// --- Getters ---

func (h *Hotel) ID() uuid.UUID            { return h.id }
func (h *Hotel) OwnerID() uuid.UUID       { return h.ownerID }
func (h *Hotel) Details() Details         { return h.details }
func (h *Hotel) Name() string             { return h.details.Name }
func (h *Hotel) Rating() float64          { return h.rating }
func (h *Hotel) RatingCount() int         { return h.ratingCount }
func (h *Hotel) Approval() ApprovalStatus { return h.approval }
func (h *Hotel) RejectionReason() string  { return h.rejectionReason }
func (h *Hotel) Archived() bool           { return h.archived }
func (h *Hotel) Version() int64           { return h.version }
func (h *Hotel) CreatedAt() time.Time     { return h.createdAt }
func (h *Hotel) UpdatedAt() time.Time     { return h.updatedAt }

// --- Behavior ---

// IsOwnedBy checks if the hotel belongs to the given owner.
func (h *Hotel) IsOwnedBy(ownerID uuid.UUID) bool {
	return h.ownerID == ownerID
}

// IsBookable returns true for approved, non-archived hotels.
func (h *Hotel) IsBookable() bool {
	return h.approval == ApprovalApproved && !h.archived
}

// Update replaces the editable details. A rejected listing goes back to review.
func (h *Hotel) Update(details Details) error {
	if h.archived {
		return domain.NewError(domain.KindInvalidTransition, "archived hotels cannot be edited")
	}
	details = details.normalized()
	if err := details.validate(); err != nil {
		return err
	}
	h.details = details
	if h.approval == ApprovalRejected {
		h.approval = ApprovalPending
		h.rejectionReason = ""
	}
	h.touch()
	return nil
}

// Approve makes the listing public.
func (h *Hotel) Approve() error {
	if !h.approval.canTransitionTo(ApprovalApproved) {
		return domain.NewInvalidStateError(string(h.approval), string(ApprovalApproved))
	}
	h.approval = ApprovalApproved
	h.rejectionReason = ""
	h.touch()
	return nil
}

// Reject hides the listing with a reason shown to the owner.
func (h *Hotel) Reject(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return domain.NewError(domain.KindMissingField, "rejection reason is required")
	}
	if !h.approval.canTransitionTo(ApprovalRejected) {
		return domain.NewInvalidStateError(string(h.approval), string(ApprovalRejected))
	}
	h.approval = ApprovalRejected
	h.rejectionReason = reason
	h.touch()
	return nil
}

// Archive withdraws the hotel from booking. Existing bookings are unaffected.
func (h *Hotel) Archive() {
	h.archived = true
	h.touch()
}

// IncrementVersion bumps the version for optimistic locking.
func (h *Hotel) IncrementVersion() {
	h.version++
}

func (h *Hotel) touch() {
	h.updatedAt = time.Now().UTC()
}
