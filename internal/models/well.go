package models

// Snapshot column headers as exported by the well inventory system.
const (
	ColumnWellID     = "Скважина"
	ColumnState      = "Состояние"
	ColumnCategory   = "Категория"
	ColumnMode       = "Способ эксплуатации"
	ColumnIdleReason = "Причина простоя"
)

// SnapshotColumns lists the columns every uploaded snapshot must carry.
var SnapshotColumns = []string{ColumnWellID, ColumnState, ColumnCategory, ColumnMode, ColumnIdleReason}

// Default comparison scope.
const (
	StateInOperation = "В работе"
	StateIdle        = "В простое"
	CategoryOil      = "Нефтяная"
)

// WellRecord is one row of an inventory snapshot.
type WellRecord struct {
	ID         string            `json:"id"`
	State      string            `json:"state"`
	Category   string            `json:"category"`
	Mode       string            `json:"mode"`
	IdleReason string            `json:"idleReason,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}
