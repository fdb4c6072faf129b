package contestant

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/contest-api/internal/domain"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200

	presignTTL = 15 * time.Minute
)

// ListQuery filters and paginates the admin contestant listing.
type ListQuery struct {
	Verified *bool
	Search   string
	Page     int
	PageSize int
}

type ListResult struct {
	Total       int
	Page        int
	PageSize    int
	Contestants []domain.Contestant
}

type Service interface {
	List(ctx context.Context, q ListQuery) (*ListResult, error)
	// ExportCSV uploads a CSV snapshot of all contestants and returns a
	// time-limited download URL.
	ExportCSV(ctx context.Context) (string, error)
}

type contestantStore interface {
	ScanAll(ctx context.Context) ([]domain.Contestant, error)
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type service struct {
	contestants contestantStore
	exports     objectStore
}

type ServiceDeps struct {
	ContestantRepo contestantStore
	ExportStore    objectStore
}

func NewService(deps ServiceDeps) Service {
	return &service{contestants: deps.ContestantRepo, exports: deps.ExportStore}
}

func (s *service) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	all, err := s.contestants.ScanAll(ctx)
	if err != nil {
		return nil, err
	}

	var filtered []domain.Contestant
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	for _, c := range all {
		if q.Verified != nil && c.IsVerified != *q.Verified {
			continue
		}
		if needle != "" && !matches(&c, needle) {
			continue
		}
		filtered = append(filtered, c)
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return &ListResult{
		Total:       len(filtered),
		Page:        page,
		PageSize:    pageSize,
		Contestants: filtered[start:end],
	}, nil
}

func matches(c *domain.Contestant, needle string) bool {
	return strings.Contains(strings.ToLower(c.FirstName), needle) ||
		strings.Contains(strings.ToLower(c.LastName), needle) ||
		strings.Contains(strings.ToLower(c.SecondLastName), needle) ||
		strings.Contains(strings.ToLower(c.Email), needle)
}

func (s *service) ExportCSV(ctx context.Context) (string, error) {
	all, err := s.contestants.ScanAll(ctx)
	if err != nil {
		return "", err
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"id", "first_name", "last_name", "second_last_name", "email", "phone", "is_verified", "created_at"}); err != nil {
		return "", err
	}
	for _, c := range all {
		row := []string{
			c.ContestantID,
			c.FirstName,
			c.LastName,
			c.SecondLastName,
			c.Email,
			c.Phone,
			strconv.FormatBool(c.IsVerified),
			c.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	key := fmt.Sprintf("exports/contestants-%s.csv", time.Now().UTC().Format("20060102-150405"))
	if _, err := s.exports.Upload(ctx, key, bytes.NewReader(buf.Bytes()), "text/csv"); err != nil {
		return "", err
	}
	return s.exports.PresignedURL(ctx, key, presignTTL)
}
