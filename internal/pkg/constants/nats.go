package constants

// NATS Subjects
const (
	SubjectTransactionCreated   = "transaction.created"
	SubjectTransactionCompleted = "transaction.completed"
	SubjectTransactionDeclined  = "transaction.declined"
	SubjectTransactionAbandoned = "transaction.abandoned"
)
