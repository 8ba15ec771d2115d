package model

// Side is the value of the IsDebit column of a batch file.
type Side string

const (
	SideDebit  Side = "Y"
	SideCredit Side = "N"
)

// Valid reports whether s is one of the two IsDebit values.
func (s Side) Valid() bool {
	return s == SideDebit || s == SideCredit
}

// AccountMapping binds a form field to a ledger account.
type AccountMapping struct {
	Field       string
	Account     string // fixed-width code, kept as text ("4500")
	Description string
	Side        Side
}
