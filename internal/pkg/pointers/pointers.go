package pointers

func Float64(v float64) *float64 { return &v }
func Int(v int) *int             { return &v }

// IntOr dereferences p, returning def when p is nil.
func IntOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
