package star

// Dimension is a deduplicated lookup of one attribute's distinct values.
// Surrogate keys are dense, 1-based, and assigned in first-occurrence order.
type Dimension struct {
	Table       string
	ValueColumn string
	IDColumn    string

	// Members holds distinct values in first-seen order; a nil entry is the
	// null member (kept only when the dimension treats null as data).
	Members []*string

	index map[string]int
}

// BuildDimension deduplicates values in first-occurrence order and assigns
// index+1 as the surrogate key. When keepNull is true (comm_type, subject) a
// null value is a valid dimension member; when false (calendar and media URL
// dimensions) null rows are dropped before deduplication.
func BuildDimension(table, valueColumn, idColumn string, values []*string, keepNull bool) *Dimension {
	d := &Dimension{
		Table:       table,
		ValueColumn: valueColumn,
		IDColumn:    idColumn,
		index:       make(map[string]int),
	}

	nullSeen := false
	for _, v := range values {
		if v == nil {
			if keepNull && !nullSeen {
				nullSeen = true
				d.Members = append(d.Members, nil)
			}
			continue
		}
		if _, ok := d.index[*v]; ok {
			continue
		}
		d.Members = append(d.Members, v)
		d.index[*v] = len(d.Members)
	}

	return d
}

// Key looks up the surrogate key for a raw attribute value with left-join
// semantics: a nil or unseen value misses and the caller keeps an absent key.
// The null member, when present, is a valid row but never a join target.
func (d *Dimension) Key(v *string) (int, bool) {
	if v == nil {
		return 0, false
	}
	id, ok := d.index[*v]
	return id, ok
}

// Len returns the number of dimension members, null member included.
func (d *Dimension) Len() int {
	return len(d.Members)
}
