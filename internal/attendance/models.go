package attendance

import (
	"time"

	"github.com/google/uuid"
)

// Record is one attendance visit.
type Record struct {
	PersonID  string
	FirstName string
	LastName  string
	District  string
	Subcounty string
	Gender    string
	Date      time.Time
	Age       *float64

	// Derived at load time.
	Year     int
	AgeGroup AgeGroup
}

// Table is the raw output of a loader: dated records in source order.
type Table struct {
	Records []Record

	// AgeCeiling is the largest Age seen across every row read, including
	// rows later dropped for a bad Date. It closes the last age bin.
	AgeCeiling *float64

	// Dropped counts rows discarded because Date did not parse.
	Dropped int
}

// Person is one row of the unique-person view: the first record seen for a PersonID.
type Person struct {
	Record
}

// RepeatVisitor is one row of the repeat-visitor view.
type RepeatVisitor struct {
	PersonID    string `json:"-"`
	FirstName   string `json:"First Name"`
	LastName    string `json:"Last Name"`
	District    string `json:"District"`
	Subcounty   string `json:"Subcounty"`
	Attendances int    `json:"Attendances"`
}

// Dataset holds every view the dashboard reads. It is built once and never mutated.
type Dataset struct {
	ID             uuid.UUID
	Records        []Record
	Persons        []Person
	RepeatVisitors []RepeatVisitor

	// Years is the distinct Year domain of Records, ascending.
	Years []int
}

// MaxYear returns the latest observed year, or 0 when there are no records.
func (d *Dataset) MaxYear() int {
	if len(d.Years) == 0 {
		return 0
	}
	return d.Years[len(d.Years)-1]
}
