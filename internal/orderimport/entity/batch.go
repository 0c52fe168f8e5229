package entity

type Batch struct {
	Seq    int64
	Orders []Order
}

func (b Batch) Len() int {
	return len(b.Orders)
}

type RowOutcome struct {
	Line int
	OK   bool
	Err  error
}
