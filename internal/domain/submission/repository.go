package submission

import "context"

type Repository interface {
	Create(ctx context.Context, row *Row) (*Row, error)

	// GetByID returns ErrSubmissionNotFound on a lookup miss.
	GetByID(ctx context.Context, id string) (*Row, error)

	// List applies the search filter and sort and returns the envelope
	// with the total count before paging.
	List(ctx context.Context, q ListQuery) (*ListResult, error)

	// Update applies a partial column patch. Returns ErrSubmissionNotFound
	// when the id matches nothing.
	Update(ctx context.Context, id string, patch map[string]any) (*Row, error)

	Delete(ctx context.Context, id string) (*Row, error)
}
