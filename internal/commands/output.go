package commands

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"

	"github.com/cleared-dev/tally/internal/logging"
)

// tablePrinter returns a table printer with a header row writing to out.
// Styling is dropped when out is not a terminal.
func tablePrinter(out io.Writer) *pterm.TablePrinter {
	p := pterm.DefaultTable.WithHasHeader().WithWriter(out)
	if !logging.IsTerminal(out) {
		plain := pterm.NewStyle()
		p.Style = plain
		p.HeaderStyle = plain
		p.SeparatorStyle = plain
		p.HeaderRowSeparatorStyle = plain
		p.RowSeparatorStyle = plain
	}
	return p
}

// renderTable writes data to out, first row as header.
func renderTable(out io.Writer, data pterm.TableData) error {
	s, err := tablePrinter(out).WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(out, s)
	return err
}
