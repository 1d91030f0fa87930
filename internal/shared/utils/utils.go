package utils

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Now returns the current UTC time at microsecond precision, the finest
// resolution both storage engines keep.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// ParseUUID returns uuid.Nil for empty or malformed input
func ParseUUID(s string) uuid.UUID {
	uid, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil
	}
	return uid
}

// ParsePagination clamps limit to 1..MaxLimit (default DefaultLimit) and offset to >= 0
func ParsePagination(limitStr, offsetStr string) (int, int) {
	limit := DefaultLimit
	if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
		limit = l
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	offset := 0
	if o, err := strconv.Atoi(offsetStr); err == nil && o > 0 {
		offset = o
	}

	return limit, offset
}

// CollapseSpaces trims s and folds inner whitespace runs to one space
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// LikePattern builds a lower-cased substring pattern for LIKE, escaping wildcards
func LikePattern(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
	return "%" + s + "%"
}

// ParseFlag reads an optional boolean query value; empty means false
func ParseFlag(raw string) (bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}
