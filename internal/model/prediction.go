package model

// Prediction is the scoring result for one employee record. EmployeeID
// echoes the identifier the caller supplied alongside the record; results
// are always returned in input order, never sorted by score.
type Prediction struct {
	EmployeeID  string  `json:"id_employe"`
	Probability float64 `json:"probabilite_depart"`
	Class       int     `json:"prediction_depart"`
}
