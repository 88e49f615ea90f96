package validatex

import (
	"testing"

	"github.com/Abraxas-365/hireflow/pkg/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name   string  `json:"name" validate:"required,max=5"`
	Email  string  `json:"email,omitempty" validate:"omitempty,email"`
	Kind   string  `json:"kind" validate:"omitempty,oneof=a b"`
	Notes  *string `json:"notes" validate:"omitempty,max=3"`
	Hidden string  `json:"-"`
}

func TestFields(t *testing.T) {
	long := "toolong"

	tests := []struct {
		name string
		in   sample
		want map[string]string
	}{
		{name: "valid", in: sample{Name: "ok"}, want: nil},
		{name: "required", in: sample{}, want: map[string]string{"name": "is required"}},
		{
			name: "json names and reasons",
			in:   sample{Name: "abcdefg", Email: "nope", Kind: "c", Notes: &long},
			want: map[string]string{
				"name":  "must be at most 5 characters",
				"email": "must be a valid email",
				"kind":  "must be one of a b",
				"notes": "must be at most 3 characters",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fields(tt.in))
		})
	}
}

func TestStruct(t *testing.T) {
	assert.NoError(t, Struct(sample{Name: "ok"}))

	err := Struct(sample{})
	require.Error(t, err)
	e, ok := errx.As(err)
	require.True(t, ok)
	assert.Equal(t, errx.TypeValidation, e.Type)
	assert.Equal(t, map[string]string{"name": "is required"}, e.Details["fields"])
}
