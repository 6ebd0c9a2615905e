package complaint

import (
	"context"

	"github.com/google/uuid"
)

// ComplaintRepository defines persistence operations for complaints.
type ComplaintRepository interface {
	Save(ctx context.Context, complaint *Complaint) error
	// Update persists a resolution. Only rows still OPEN are changed.
	Update(ctx context.Context, complaint *Complaint) error
	FindByID(ctx context.Context, id uuid.UUID) (*Complaint, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, page, limit int) ([]*Complaint, int64, error)
	List(ctx context.Context, status *Status, page, limit int) ([]*Complaint, int64, error)
}
