package pipeline

import (
	"encoding/csv"
	"io"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
)

// WriteCSV writes aggregated records in the export schema. Null numerics
// render as empty cells. An empty table still gets its header row.
func WriteCSV(w io.Writer, records []AggregatedRecord) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)

	if err := enc.EncodeHeader(AggregatedRecord{}); err != nil {
		return eris.Wrap(err, "export: write header")
	}
	for i := range records {
		if err := enc.Encode(records[i]); err != nil {
			return eris.Wrap(err, "export: write row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush")
}

// ReadCSV parses a previously exported aggregated table. Empty numeric
// cells decode back to null.
func ReadCSV(r io.Reader) ([]AggregatedRecord, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "export: read header")
	}

	var out []AggregatedRecord
	for {
		var rec AggregatedRecord
		if err := dec.Decode(&rec); err == io.EOF {
			break
		} else if err != nil {
			return nil, eris.Wrap(err, "export: decode row")
		}
		out = append(out, rec)
	}
	return out, nil
}
