package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// column describes one table column. Numeric columns are right-aligned and
// may format their cells with a transformer.
type column struct {
	title   string
	numeric bool
	format  text.Transformer
}

var (
	// energyFormat prints keV values with three decimals.
	energyFormat text.Transformer = func(v any) string {
		if f, ok := v.(float64); ok {
			return strconv.FormatFloat(f, 'f', 3, 64)
		}
		return fmt.Sprint(v)
	}

	// rateFormat prints Einstein A coefficients in scientific notation.
	rateFormat text.Transformer = func(v any) string {
		if f, ok := v.(float64); ok {
			return fmt.Sprintf("%.4e", f)
		}
		return fmt.Sprint(v)
	}
)

// tableView accumulates the rows of one level-scheme table.
type tableView struct {
	tw   table.Writer
	cols []column
}

func newTableView(title string, cols ...column) *tableView {
	style := table.StyleRounded
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault
	tw := table.NewWriter()
	tw.SetStyle(style)
	if title != "" {
		tw.SetTitle(title)
	}

	header := make(table.Row, len(cols))
	configs := make([]table.ColumnConfig, len(cols))
	for i, c := range cols {
		header[i] = c.title
		align := text.AlignLeft
		if c.numeric {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{
			Number:            i + 1,
			Align:             align,
			AlignFooter:       align,
			AlignHeader:       text.AlignLeft,
			Transformer:       c.format,
			TransformerFooter: c.format,
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)
	return &tableView{tw: tw, cols: cols}
}

// add appends a row. Missing trailing cells are left blank.
func (v *tableView) add(cells ...any) {
	row := make(table.Row, len(v.cols))
	copy(row, cells)
	for i := len(cells); i < len(row); i++ {
		row[i] = ""
	}
	v.tw.AppendRow(row)
}

// total appends a footer row.
func (v *tableView) total(cells ...any) {
	v.tw.AppendFooter(table.Row(cells))
}

func (v *tableView) String() string {
	return v.tw.Render()
}
