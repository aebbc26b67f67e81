package model

// Student is the single record type managed by the API.
// It carries no persistence tags; the repository maps columns explicitly.
type Student struct {
	ID        int64   `json:"student_id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	DOB       Date    `json:"dob"`
	AmountDue float64 `json:"amount_due"`
}

// StudentFilter narrows a listing by substring match. Empty fields are not applied.
type StudentFilter struct {
	FirstName string
	LastName  string
}

// IsEmpty reports whether no field of the filter is set.
func (f StudentFilter) IsEmpty() bool {
	return f.FirstName == "" && f.LastName == ""
}
