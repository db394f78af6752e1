package constants

// Redis key formats
const (
	KeyTransaction = "transaction:%s" // Format: transaction:{transaction_id}
)

// Redis hash fields
const (
	FieldID        = "id"
	FieldStatus    = "status"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)
