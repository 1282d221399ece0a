package source

import "strings"

// NormalizeRows turns a header row plus data rows into one mapping per data row.
// PRE: none
// POST: len(result) == len(rows); every mapping has one key per trimmed header name
// INVARIANT: Row order is preserved; missing cells become ""
func NormalizeRows(header []string, rows [][]string) []map[string]string {
	names := make([]string, len(header))
	for i, h := range header {
		names[i] = strings.TrimSpace(h)
	}

	out := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		m := make(map[string]string, len(names))
		for i, name := range names {
			if i < len(row) {
				m[name] = strings.TrimSpace(row[i])
			} else {
				m[name] = ""
			}
		}
		out = append(out, m)
	}
	return out
}
