package student

import "time"

const DateLayout = "2006-01-02"

type Student struct {
	Id          int
	FirstName   string `json:"firstName" validate:"notblank"`
	LastName    string `json:"lastName" validate:"notblank"`
	DateOfBirth time.Time
}

// DisplayName is the "Last, First" label used in selection lists and report file names.
func (s Student) DisplayName() string {
	return s.LastName + ", " + s.FirstName
}

func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
