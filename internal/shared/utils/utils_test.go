package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name       string
		limit      string
		offset     string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", "", DefaultLimit, 0},
		{"explicit", "5", "10", 5, 10},
		{"clamped", "1000", "-3", MaxLimit, 0},
		{"garbage", "abc", "x", DefaultLimit, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset := ParsePagination(tt.limit, tt.offset)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestLikePattern_EscapesWildcards(t *testing.T) {
	assert.Equal(t, `%100\%\_pure%`, LikePattern(" 100%_Pure "))
	assert.Equal(t, "%dune%", LikePattern("  DUNE "))
}

func TestParseUUID(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, id, ParseUUID(id.String()))
	assert.Equal(t, uuid.Nil, ParseUUID("not-a-uuid"))
}

func TestCollapseSpaces(t *testing.T) {
	assert.Equal(t, "Gabriel García Márquez", CollapseSpaces("  Gabriel   García\tMárquez "))
}

func TestNotNilUUID(t *testing.T) {
	rule := NotNilUUID("member id")
	id := uuid.New()
	nilID := uuid.Nil

	assert.EqualError(t, rule(uuid.Nil), "member id is required")
	assert.EqualError(t, rule(&nilID), "member id is required")
	assert.EqualError(t, rule(uuid.Nil.String()), "member id is required")
	assert.NoError(t, rule(id))
	assert.NoError(t, rule(&id))
	assert.NoError(t, rule((*uuid.UUID)(nil)))
	assert.NoError(t, rule(id.String()))
}

func TestIntValue(t *testing.T) {
	n := 7
	var missing *int

	v, ok := IntValue(&n)
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	_, ok = IntValue(missing)
	assert.False(t, ok)

	_, ok = IntValue("7")
	assert.False(t, ok)
}

func TestParseFlag(t *testing.T) {
	for raw, want := range map[string]bool{"": false, "true": true, "1": true, " false ": false, "0": false} {
		got, err := ParseFlag(raw)
		assert.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	for _, raw := range []string{"yes", "maybe", "on"} {
		_, err := ParseFlag(raw)
		assert.Error(t, err, raw)
	}
}
