package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldEntity    = "entity"
	FieldID        = "id"
	FieldAmount    = "amount"
	FieldCategory  = "category"
	FieldDate      = "date"
	FieldCount     = "count"
	FieldPath      = "path"
	FieldFormat    = "format"
	FieldDuration  = "duration_ms"
	FieldErrorType = "error_type"
)

// Components defines standard component names
const (
	ComponentApp         = "app"
	ComponentCLI         = "cli"
	ComponentStorage     = "storage"
	ComponentAggregation = "aggregation"
	ComponentLedger      = "ledger"
	ComponentDashboard   = "dashboard"
	ComponentExport      = "export"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpList     = "list"
	OpLatest   = "latest"
	OpRecent   = "recent"
	OpTotal    = "total"
	OpGroup    = "group_by_category"
	OpTop      = "top_categories"
	OpFeed     = "transaction_feed"
	OpWipe     = "wipe"
	OpExport   = "export"
	OpImport   = "import"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeDatabase = "database_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithErrorType adds error_type field
func (f LogFields) WithErrorType(errorType string) LogFields {
	f[FieldErrorType] = errorType
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithRecord adds the fields identifying a stored record
func (f LogFields) WithRecord(entity string, id int64, amount float64) LogFields {
	f[FieldEntity] = entity
	f[FieldID] = id
	f[FieldAmount] = amount
	return f
}

// WithDetail adds the category and date of a stored record
func (f LogFields) WithDetail(category, date string) LogFields {
	if category != "" {
		f[FieldCategory] = category
	}
	if date != "" {
		f[FieldDate] = date
	}
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
