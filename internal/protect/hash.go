package protect

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/bits"
	"sort"
	"strings"

	"inferguard/internal/domain"
)

// ResultSetHash computes a content hash over a canonicalized result set:
// each row serialized with its keys sorted, the row serializations sorted,
// then hashed. Row order and column order therefore never change the hash;
// any value change does.
func ResultSetHash(rs *domain.ResultSet) string {
	rows := make([]string, 0, rs.RowCount())
	for _, row := range rs.Rows {
		keys := make([]string, 0, len(row))
		for k := range row {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var b strings.Builder
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(';')
			}
			fmt.Fprintf(&b, "%s=%v", k, row[k])
		}
		rows = append(rows, b.String())
	}
	sort.Strings(rows)

	sum := sha256.Sum256([]byte(strings.Join(rows, "\n")))
	return hex.EncodeToString(sum[:])
}

// HammingSimilarity returns the fraction of matching bits between two
// equal-length hex hashes. Two identical hashes score exactly 1.0;
// malformed or mismatched input scores 0.
func HammingSimilarity(a, b string) float64 {
	ab, err := hex.DecodeString(a)
	if err != nil {
		return 0
	}
	bb, err := hex.DecodeString(b)
	if err != nil || len(ab) != len(bb) || len(ab) == 0 {
		return 0
	}

	matching := 0
	for i := range ab {
		matching += 8 - bits.OnesCount8(ab[i]^bb[i])
	}
	return float64(matching) / float64(len(ab)*8)
}
