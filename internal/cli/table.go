package cli

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// DefaultPerPage is the number of rows shown per table page.
const DefaultPerPage = 10

type columnKind int

const (
	fieldColumn columnKind = iota
	computedColumn
)

// Column is one table column: either a fixed field of the row or a value computed
// from the whole row. Build columns with Field or Computed.
type Column[T any] struct {
	render func(T) string
	Header string
	name   string
	kind   columnKind
}

// Field is a column showing the named field of a row.
func Field[T any](header, name string, get func(T) string) Column[T] {
	return Column[T]{Header: header, name: name, render: get, kind: fieldColumn}
}

// Computed is a column whose cell is derived from the row.
func Computed[T any](header string, render func(T) string) Column[T] {
	return Column[T]{Header: header, render: render, kind: computedColumn}
}

// FieldName returns the field shown by a Field column, or "" for a computed one.
func (c Column[T]) FieldName() string {
	if c.kind != fieldColumn {
		return ""
	}
	return c.name
}

// IsComputed reports whether the column was built with Computed.
func (c Column[T]) IsComputed() bool {
	return c.kind == computedColumn
}

// Cell renders the column for row. A render function that panics yields "?".
func (c Column[T]) Cell(row T) (cell string) {
	if c.render == nil {
		return ""
	}
	defer func() {
		if r := recover(); r != nil {
			cell = "?"
		}
	}()
	return sanitizeCell(c.render(row))
}

func sanitizeCell(s string) string {
	return strings.NewReplacer("\t", " ", "\n", " ", "\r", " ").Replace(s)
}

// Page is one page of rows. Number is 1-based.
type Page[T any] struct {
	Rows      []T
	Number    int
	Pages     int
	PerPage   int
	TotalRows int
}

// HasNext reports whether a later page exists.
func (p Page[T]) HasNext() bool {
	return p.Number < p.Pages
}

// HasPrev reports whether an earlier page exists.
func (p Page[T]) HasPrev() bool {
	return p.Number > 1
}

// Paginate returns page number page of rows. Out-of-range pages are clamped and an
// empty input has a single empty page.
func Paginate[T any](rows []T, page, perPage int) Page[T] {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	pages := (len(rows) + perPage - 1) / perPage
	if pages == 0 {
		pages = 1
	}
	page = max(1, min(page, pages))

	start := min((page-1)*perPage, len(rows))
	end := min(start+perPage, len(rows))

	return Page[T]{
		Rows:      rows[start:end],
		Number:    page,
		Pages:     pages,
		PerPage:   perPage,
		TotalRows: len(rows),
	}
}

// RenderTable writes rows as an aligned table with a styled header.
func RenderTable[T any](w io.Writer, columns []Column[T], rows []T) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, SubtleStyle.Render("Aucun résultat"))
		return err
	}

	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	headers := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = col.Header
	}
	if _, err := fmt.Fprintln(tw, strings.Join(headers, "\t")); err != nil {
		return err
	}

	cells := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			cells[i] = col.Cell(row)
		}
		if _, err := fmt.Fprintln(tw, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to align table: %w", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	lines[0] = TableHeaderStyle.Render(strings.TrimRight(lines[0], " "))
	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}

// RenderPage writes one page of rows followed by a page indicator.
func RenderPage[T any](w io.Writer, columns []Column[T], page Page[T]) error {
	if err := RenderTable(w, columns, page.Rows); err != nil {
		return err
	}
	if page.TotalRows == 0 {
		return nil
	}
	_, err := fmt.Fprintln(w, SubtleStyle.Render(fmt.Sprintf("Page %d/%d (%d lignes)", page.Number, page.Pages, page.TotalRows)))
	return err
}
