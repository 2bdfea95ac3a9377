package repository

import (
	"sort"
	"strings"

	"github.com/oksasatya/go-kitchensink/internal/domain/entity"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Sortable member fields, named after their JSON keys.
const (
	SortByID          = "id"
	SortByName        = "name"
	SortByEmail       = "email"
	SortByPhoneNumber = "phoneNumber"
)

type Sort struct {
	Field string
	Desc  bool
}

// ParseSort reads "name" or "-name". Unknown fields fall back to id.
func ParseSort(s string) Sort {
	s = strings.TrimSpace(s)
	desc := strings.HasPrefix(s, "-")
	field := strings.TrimPrefix(s, "-")
	switch field {
	case SortByID, SortByName, SortByEmail, SortByPhoneNumber:
	default:
		field = SortByID
	}
	return Sort{Field: field, Desc: desc}
}

// PageRequest is a zero-based page index plus a page size.
type PageRequest struct {
	Page int
	Size int
	Sort Sort
}

func (p PageRequest) Normalize() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	if p.Sort.Field == "" {
		p.Sort.Field = SortByID
	}
	return p
}

func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

type Page struct {
	Items []entity.Member `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Size  int             `json:"size"`
}

// Paginate slices an already materialized result set. An offset past the end
// yields an empty page that still reports the total.
func Paginate(items []entity.Member, req PageRequest) Page {
	req = req.Normalize()
	page := Page{Items: []entity.Member{}, Total: int64(len(items)), Page: req.Page, Size: req.Size}
	start := req.Offset()
	if start >= len(items) {
		return page
	}
	end := start + req.Size
	if end > len(items) {
		end = len(items)
	}
	page.Items = append(page.Items, items[start:end]...)
	return page
}

// Example is a sample member: every non-empty field must be contained in the
// candidate's field. IgnoreCase applies to name and email only.
type Example struct {
	Sample     entity.Member
	IgnoreCase bool
}

func (ex Example) Matches(m entity.Member) bool {
	if !contains(m.Name, ex.Sample.Name, ex.IgnoreCase) {
		return false
	}
	if !contains(m.Email, ex.Sample.Email, ex.IgnoreCase) {
		return false
	}
	return contains(m.PhoneNumber, ex.Sample.PhoneNumber, false)
}

func contains(value, sample string, ignoreCase bool) bool {
	if sample == "" {
		return true
	}
	if ignoreCase {
		return strings.Contains(strings.ToLower(value), strings.ToLower(sample))
	}
	return strings.Contains(value, sample)
}

// SortMembers orders members in place. Ties keep their relative order.
func SortMembers(items []entity.Member, s Sort) {
	key := func(m entity.Member) string {
		switch s.Field {
		case SortByName:
			return strings.ToLower(m.Name)
		case SortByEmail:
			return strings.ToLower(m.Email)
		case SortByPhoneNumber:
			return m.PhoneNumber
		default:
			return m.ID
		}
	}
	less := func(a, b entity.Member) bool {
		if s.Field == SortByID || s.Field == "" {
			return lessID(a.ID, b.ID)
		}
		return key(a) < key(b)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if s.Desc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}

// lessID compares numeric ids numerically and everything else lexically.
func lessID(a, b string) bool {
	if len(a) != len(b) && isDigits(a) && isDigits(b) {
		return len(a) < len(b)
	}
	return a < b
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
