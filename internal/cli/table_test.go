package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID     string
	Amount int
	Tags   []string
}

func TestColumnVariants(t *testing.T) {
	id := Field("ID", "id", func(r row) string { return r.ID })
	firstTag := Computed("Tag", func(r row) string { return r.Tags[0] })

	assert.Equal(t, "id", id.FieldName())
	assert.False(t, id.IsComputed())
	assert.Equal(t, "", firstTag.FieldName())
	assert.True(t, firstTag.IsComputed())

	assert.Equal(t, "d-1", id.Cell(row{ID: "d-1"}))
	assert.Equal(t, "fragile", firstTag.Cell(row{Tags: []string{"fragile"}}))
	assert.Equal(t, "?", firstTag.Cell(row{}), "a panicking render yields a placeholder")
	assert.Equal(t, "a b", Field("X", "x", func(row) string { return "a\tb" }).Cell(row{}))
}

func TestPaginate(t *testing.T) {
	rows := make([]int, 23)
	for i := range rows {
		rows[i] = i
	}

	tests := []struct {
		name      string
		page      int
		perPage   int
		wantFirst int
		wantLen   int
		wantPage  int
		wantPages int
	}{
		{name: "first page", page: 1, perPage: 10, wantFirst: 0, wantLen: 10, wantPage: 1, wantPages: 3},
		{name: "last partial page", page: 3, perPage: 10, wantFirst: 20, wantLen: 3, wantPage: 3, wantPages: 3},
		{name: "beyond last clamps", page: 9, perPage: 10, wantFirst: 20, wantLen: 3, wantPage: 3, wantPages: 3},
		{name: "zero clamps to first", page: 0, perPage: 10, wantFirst: 0, wantLen: 10, wantPage: 1, wantPages: 3},
		{name: "default page size", page: 2, perPage: 0, wantFirst: 10, wantLen: 10, wantPage: 2, wantPages: 3},
		{name: "one big page", page: 1, perPage: 50, wantFirst: 0, wantLen: 23, wantPage: 1, wantPages: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(rows, tt.page, tt.perPage)
			require.Len(t, p.Rows, tt.wantLen)
			assert.Equal(t, tt.wantFirst, p.Rows[0])
			assert.Equal(t, tt.wantPage, p.Number)
			assert.Equal(t, tt.wantPages, p.Pages)
			assert.Equal(t, 23, p.TotalRows)
		})
	}
}

func TestPaginate_Empty(t *testing.T) {
	p := Paginate([]string{}, 4, 10)
	assert.Empty(t, p.Rows)
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, 1, p.Pages)
	assert.False(t, p.HasNext())
	assert.False(t, p.HasPrev())
}

func TestRenderTable(t *testing.T) {
	columns := []Column[row]{
		Field("ID", "id", func(r row) string { return r.ID }),
		Computed("Montant", func(r row) string { return strings.Repeat("*", r.Amount) }),
	}

	var buf bytes.Buffer
	require.NoError(t, RenderTable(&buf, columns, []row{{ID: "d-1", Amount: 3}, {ID: "d-22", Amount: 1}}))

	// Header, its bottom border, then one line per row.
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "ID")
	assert.Contains(t, lines[0], "Montant")
	assert.Equal(t, strings.Index(lines[2], "***"), strings.Index(lines[3], "*"), "cells are aligned")
}

func TestRenderTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderTable(&buf, []Column[row]{Field("ID", "id", func(r row) string { return r.ID })}, nil))
	assert.Contains(t, buf.String(), "Aucun résultat")
}

func TestRenderPage(t *testing.T) {
	columns := []Column[row]{Field("ID", "id", func(r row) string { return r.ID })}
	rows := make([]row, 12)
	for i := range rows {
		rows[i] = row{ID: string(rune('a' + i))}
	}

	var buf bytes.Buffer
	require.NoError(t, RenderPage(&buf, columns, Paginate(rows, 2, 10)))
	assert.Contains(t, buf.String(), "Page 2/2 (12 lignes)")
	assert.Contains(t, buf.String(), "l")
}
