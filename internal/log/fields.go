package log

// Common field names for structured logging.
const (
	FieldComponent     = "component"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldTransactionID = "transaction_id"
	FieldDescription   = "description"
	FieldCount         = "count"
	FieldKey           = "key"
	FieldBackend       = "backend"
	FieldSource        = "source"
	FieldPath          = "path"
)

// Component names.
const (
	ComponentApp     = "app"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentSeed    = "seed"
	ComponentCLI     = "cli"
)

// Operation names.
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpSettings = "settings"
	OpSort     = "sort"
	OpLoad     = "load"
	OpSave     = "save"
	OpImport   = "import"
	OpSeed     = "seed"
)
