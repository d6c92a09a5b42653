package merge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/pocketbook/internal/finance"
	"github.com/MrJamesThe3rd/pocketbook/internal/merge"
)

type row struct {
	ID        string
	Name      string
	UpdatedAt int64
}

func toCategory(r row) finance.Category {
	return finance.Category{ID: r.ID, Name: r.Name, UpdatedAt: r.UpdatedAt}
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name  string
		local []finance.Category
		rows  []row
		want  []finance.Category
	}{
		{
			name:  "disjoint sets are unioned",
			local: []finance.Category{{ID: "a", Name: "Food", UpdatedAt: 10}},
			rows:  []row{{ID: "b", Name: "Rent", UpdatedAt: 5}},
			want: []finance.Category{
				{ID: "a", Name: "Food", UpdatedAt: 10},
				{ID: "b", Name: "Rent", UpdatedAt: 5},
			},
		},
		{
			name:  "newer remote replaces local",
			local: []finance.Category{{ID: "a", Name: "Food", Icon: "fork", UpdatedAt: 100}},
			rows:  []row{{ID: "a", Name: "Groceries", UpdatedAt: 200}},
			want:  []finance.Category{{ID: "a", Name: "Groceries", UpdatedAt: 200}},
		},
		{
			name:  "remote wins ties",
			local: []finance.Category{{ID: "a", Name: "Food", UpdatedAt: 100}},
			rows:  []row{{ID: "a", Name: "Groceries", UpdatedAt: 100}},
			want:  []finance.Category{{ID: "a", Name: "Groceries", UpdatedAt: 100}},
		},
		{
			name:  "absent timestamps tie at zero",
			local: []finance.Category{{ID: "a", Name: "Food"}},
			rows:  []row{{ID: "a", Name: "Groceries"}},
			want:  []finance.Category{{ID: "a", Name: "Groceries"}},
		},
		{
			name:  "newer local is kept untouched",
			local: []finance.Category{{ID: "a", Name: "Food", Icon: "fork", UpdatedAt: 300}},
			rows:  []row{{ID: "a", Name: "Groceries", UpdatedAt: 200}},
			want:  []finance.Category{{ID: "a", Name: "Food", Icon: "fork", UpdatedAt: 300}},
		},
		{
			name:  "empty local takes every row",
			local: nil,
			rows:  []row{{ID: "b", UpdatedAt: 1}, {ID: "a", UpdatedAt: 2}},
			want:  []finance.Category{{ID: "b", UpdatedAt: 1}, {ID: "a", UpdatedAt: 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := merge.Merge(tt.local, tt.rows, toCategory)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMerge_DoesNotMutateInput(t *testing.T) {
	local := []finance.Category{
		{ID: "a", Name: "Food", UpdatedAt: 1},
		{ID: "b", Name: "Rent", UpdatedAt: 1},
	}
	before := append([]finance.Category(nil), local...)

	got := merge.Merge(local, []row{{ID: "a", Name: "Groceries", UpdatedAt: 2}}, toCategory)

	assert.Equal(t, before, local)
	assert.Equal(t, "Groceries", got[0].Name)
	assert.Equal(t, local[1], got[1])
}
