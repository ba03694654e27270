package domain

// Query is an immutable SQL query: text plus positional parameters.
// Placeholders use the ? style; store adapters rewrite them for their
// dialect. The constructor copies the parameter slice so a Query cannot
// be mutated through the caller's slice after creation.
type Query struct {
	text   string
	params []interface{}
}

// NewQuery creates a Query from text and positional parameters.
func NewQuery(text string, params ...interface{}) Query {
	cp := make([]interface{}, len(params))
	copy(cp, params)
	return Query{text: text, params: cp}
}

// Text returns the SQL text.
func (q Query) Text() string { return q.text }

// Params returns a copy of the positional parameters.
func (q Query) Params() []interface{} {
	cp := make([]interface{}, len(q.params))
	copy(cp, q.params)
	return cp
}

// Row maps column names to scalar values (number, string, time, or nil).
// The column set is determined by the originating query.
type Row map[string]interface{}

// Number coerces a scanned scalar into float64. Drivers return int64 for
// integer columns and float64 for reals; both count as numeric.
func Number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}

// Number returns the named column's value as float64 when numeric.
func (r Row) Number(key string) (float64, bool) {
	return Number(r[key])
}

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	cp := make(Row, len(r))
	for k, v := range r {
		cp[k] = v
	}
	return cp
}

// ResultSet is the outcome of a successful execution: column names in the
// order the originating query produced them, plus the rows.
type ResultSet struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// RowCount returns the number of rows.
func (rs *ResultSet) RowCount() int {
	if rs == nil {
		return 0
	}
	return len(rs.Rows)
}

// Clone deep-copies the result set so strategies can rewrite rows without
// sharing state.
func (rs *ResultSet) Clone() *ResultSet {
	if rs == nil {
		return nil
	}
	cols := make([]string, len(rs.Columns))
	copy(cols, rs.Columns)
	rows := make([]Row, len(rs.Rows))
	for i, r := range rs.Rows {
		rows[i] = r.Clone()
	}
	return &ResultSet{Columns: cols, Rows: rows}
}
