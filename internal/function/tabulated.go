package function

import "github.com/halvardsen/numwb/internal/table"

// Tabulated adapts a *table.Table to Func1: a sampled table function
// produced by any solver kernel and consumable wherever a Func1 is
// expected (e.g. as an input to another kernel).
type Tabulated struct {
	Table *table.Table
}

func (t Tabulated) Apply(x float64) (float64, error) {
	return t.Table.Apply(x)
}
