package ingest

import "fmt"

// CompanyRecord is one company entry from the input batch.
type CompanyRecord struct {
	ID          int64  `json:"id" validate:"required,gt=0"`
	Name        string `json:"name" validate:"required"`
	TopUp       int64  `json:"top_up"`
	EmailStatus bool   `json:"email_status"`
}

// UserRecord is one user entry from the input batch. The ID field only
// absorbs ids present in input files; input files carry duplicates and
// nothing references user ids, so the store assigns its own.
type UserRecord struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name" validate:"required"`
	LastName     string `json:"last_name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	CompanyID    int64  `json:"company_id" validate:"required,gt=0"`
	EmailStatus  bool   `json:"email_status"`
	ActiveStatus bool   `json:"active_status"`
	Tokens       int64  `json:"tokens"`
}

// RecordError names the record that caused an ingestion batch to abort.
type RecordError struct {
	Entity string
	Index  int
	Record interface{}
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("failed to insert %s: %v\noffending record (#%d): %+v", e.Entity, e.Err, e.Index, e.Record)
}

func (e *RecordError) Unwrap() error { return e.Err }
