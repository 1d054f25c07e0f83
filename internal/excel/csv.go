package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/erbeard/nc-sigmas-portal/pkg/errors"
)

// ReadCSV parses a comma-separated upload with a header row into keyed
// rows. The bytes are decoded as UTF-8 first; when that produces
// replacement characters the raw bytes are re-decoded as Latin-1, which is
// what the census export tool actually emits.
func ReadCSV(data []byte) (headers []string, rows []map[string]string, err error) {
	content := string(data)
	if strings.ContainsRune(content, utf8.RuneError) {
		if decoded, derr := charmap.ISO8859_1.NewDecoder().Bytes(data); derr == nil {
			content = string(decoded)
		}
	}

	r := csv.NewReader(bytes.NewReader([]byte(content)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	headers, err = r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", errors.ErrInvalidCSV, err)
	}

	for {
		record, rerr := r.Read()
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return nil, nil, fmt.Errorf("%w: %v", errors.ErrInvalidCSV, rerr)
		}
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			row[h] = Cell(record, i)
		}
		if IsBlankKeyed(row) {
			continue
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}

// Field reads a keyed-row cell trying header spellings in order.
func Field(row map[string]string, names ...string) string {
	for _, n := range names {
		if v, ok := row[n]; ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
