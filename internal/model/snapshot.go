package model

// SortOrder is the direction of the table sort.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// Flip returns the opposite order.
func (o SortOrder) Flip() SortOrder {
	if o == OrderAsc {
		return OrderDesc
	}
	return OrderAsc
}

// SortState is the current sort key and direction.
type SortState struct {
	By    string    `json:"by"`
	Order SortOrder `json:"order"`
}

// Valid reports whether By names a transaction field and Order is known.
func (s SortState) Valid() bool {
	return IsField(s.By) && (s.Order == OrderAsc || s.Order == OrderDesc)
}

// DefaultSort is newest date first.
func DefaultSort() SortState {
	return SortState{By: FieldDate, Order: OrderDesc}
}

// Settings holds user preferences. A nil BudgetCap means no cap.
type Settings struct {
	BudgetCap *Money `json:"budgetCap"`
}

// HasCap reports whether a positive budget cap is set.
func (s Settings) HasCap() bool {
	return s.BudgetCap != nil && s.BudgetCap.IsPositive()
}

// Snapshot is the whole application state; it is what gets persisted,
// exported and imported.
type Snapshot struct {
	Transactions []Transaction `json:"transactions"`
	Settings     Settings      `json:"settings"`
	Sort         SortState     `json:"sort"`
}

// DefaultSnapshot returns an empty snapshot with no budget cap.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Transactions: []Transaction{},
		Settings:     Settings{},
		Sort:         DefaultSort(),
	}
}

// Clone returns a copy that shares no slices or pointers with s.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Transactions: make([]Transaction, len(s.Transactions)),
		Settings:     s.Settings.Clone(),
		Sort:         s.Sort,
	}
	copy(out.Transactions, s.Transactions)
	return out
}

// Clone returns a copy of the settings with its own BudgetCap.
func (s Settings) Clone() Settings {
	if s.BudgetCap == nil {
		return Settings{}
	}
	budgetCap := *s.BudgetCap
	return Settings{BudgetCap: &budgetCap}
}
