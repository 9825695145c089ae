package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableRenderContainsCells(t *testing.T) {
	tbl := NewTable([]Column{
		{Title: "SEQ", Width: 5},
		{Title: "TYPE", Width: 10},
		{Title: "AMOUNT", Width: 12},
	})
	tbl.AddRow(Row{"1", "transfer", "1000"})
	tbl.AddRow(Row{"2", "approval", "500"})

	out := tbl.Render()
	assert.Contains(t, out, "SEQ")
	assert.Contains(t, out, "transfer")
	assert.Contains(t, out, "500")
	assert.Equal(t, 4, strings.Count(out, "\n"), "header, rule, two rows")
}

func TestTableRenderTruncatesWideCells(t *testing.T) {
	tbl := NewTable([]Column{{Title: "A", Width: 4}})
	tbl.AddRow(Row{"abcdefgh"})

	out := tbl.Render()
	assert.Contains(t, out, "abcd")
	assert.NotContains(t, out, "abcde")
}

func TestTableRenderShortRow(t *testing.T) {
	tbl := NewTable([]Column{{Title: "A", Width: 3}, {Title: "B", Width: 3}})
	tbl.AddRow(Row{"x"}) // missing second cell must not panic
	assert.NotEmpty(t, tbl.Render())
}

func TestTruncateAddress(t *testing.T) {
	assert.Equal(t, "0xf39F…2266", TruncateAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"))
	assert.Equal(t, "0xab", TruncateAddress("0xab"), "short strings pass through")
}
