package repository

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/dentara/api/internal/domain/submission"
	"github.com/dentara/api/internal/platform"
)

// sortColumns whitelists what a camp submission list may be ordered by.
var sortColumns = map[string]bool{
	"created_at":  true,
	"name":        true,
	"email":       true,
	"institution": true,
}

const defaultSubmissionSort = "created_at.desc"

type SubmissionRepository struct {
	client *platform.Client
}

func NewSubmissionRepository(client *platform.Client) *SubmissionRepository {
	return &SubmissionRepository{client: client}
}

func (r *SubmissionRepository) Create(ctx context.Context, row *submission.Row) (*submission.Row, error) {
	var created submission.Row
	if err := r.client.Insert(ctx, "user_submissions", row, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *SubmissionRepository) GetByID(ctx context.Context, id string) (*submission.Row, error) {
	q := url.Values{}
	q.Set("id", "eq."+id)
	q.Set("select", "*")

	var row submission.Row
	if err := r.client.SelectSingle(ctx, "user_submissions", q, &row); err != nil {
		return nil, translateNotFound(err, submission.ErrSubmissionNotFound)
	}
	return &row, nil
}

func (r *SubmissionRepository) List(ctx context.Context, lq submission.ListQuery) (*submission.ListResult, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", sanitizeSort(lq.Sort))
	q.Set("limit", strconv.Itoa(lq.Limit))
	q.Set("offset", strconv.Itoa(lq.Offset))

	if s := strings.TrimSpace(lq.Search); s != "" {
		pattern := "*" + s + "*"
		q.Set("or", fmt.Sprintf("(name.ilike.%s,email.ilike.%s,institution.ilike.%s)", pattern, pattern, pattern))
	}

	var items []*submission.Row
	total, err := r.client.SelectWithCount(ctx, "user_submissions", q, &items)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*submission.Row{}
	}
	return &submission.ListResult{
		Limit:  lq.Limit,
		Offset: lq.Offset,
		Total:  int(total),
		Items:  items,
	}, nil
}

func (r *SubmissionRepository) Update(ctx context.Context, id string, patch map[string]any) (*submission.Row, error) {
	q := url.Values{}
	q.Set("id", "eq."+id)

	var row submission.Row
	if err := r.client.Update(ctx, "user_submissions", q, patch, &row); err != nil {
		return nil, translateNotFound(err, submission.ErrSubmissionNotFound)
	}
	return &row, nil
}

func (r *SubmissionRepository) Delete(ctx context.Context, id string) (*submission.Row, error) {
	q := url.Values{}
	q.Set("id", "eq."+id)

	var row submission.Row
	if err := r.client.Delete(ctx, "user_submissions", q, &row); err != nil {
		return nil, translateNotFound(err, submission.ErrSubmissionNotFound)
	}
	return &row, nil
}

// sanitizeSort accepts "column.direction" against the whitelist, falling
// back to newest-first rather than passing arbitrary input upstream.
func sanitizeSort(sort string) string {
	col, dir, _ := strings.Cut(strings.TrimSpace(sort), ".")
	if !sortColumns[col] {
		return defaultSubmissionSort
	}
	if dir != "asc" && dir != "desc" {
		dir = "desc"
	}
	return col + "." + dir
}
