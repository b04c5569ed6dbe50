package ledger

// Company is the top-up grantor. IDs are caller-supplied and unique.
type Company struct {
	ID          int64
	Name        string
	TopUp       int64
	EmailStatus bool
}

// User holds a token balance. IDs are assigned by the store on insert;
// ids present in input data are discarded before a User reaches the store.
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	CompanyID    int64
	EmailStatus  bool
	ActiveStatus bool
	Tokens       int64
}
