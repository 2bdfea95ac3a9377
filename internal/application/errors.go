package application

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/oksasatya/go-kitchensink/internal/domain/repository"
)

var (
	ErrMemberNotFound = errors.New("member not found")
	// ErrDuplicateEmail is the repository sentinel, so storage-level and
	// service-level duplicates match the same errors.Is check.
	ErrDuplicateEmail = repository.ErrDuplicateEmail
)

// ValidationError carries every field violation of a rejected member.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// DuplicateEmailError names the email that is already registered.
type DuplicateEmailError struct {
	Email string
}

func (e *DuplicateEmailError) Error() string {
	return fmt.Sprintf("email %s already exists", e.Email)
}

func (e *DuplicateEmailError) Is(target error) bool {
	return target == ErrDuplicateEmail
}
