package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

const bom = "\ufeff"

// ReadTable reads a ledger CSV into its tabular form. Field counts are not
// enforced here; Assemble reports them as schema errors.
func ReadTable(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("reading ledger CSV: %w", err)
	}

	if len(records) == 0 {
		return Table{Header: append([]string(nil), Columns...)}, nil
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], bom)
	}
	return Table{Header: header, Rows: records[1:]}, nil
}

// WriteTable writes t to w, header first.
func WriteTable(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
