package model

import "time"

// Person represents a row in the `persons` table. A person exists as soon
// as they are registered by name; they only become an astronaut once their
// first duty assignment creates an AstronautDetail for them.
//
// Fields:
//  ID   – primary key identifier of the person.
//  Name – unique display name, mutable via rename.
type Person struct {
	ID   uint64 `json:"id"`   // persons.id
	Name string `json:"name"` // persons.name (unique)
}

// PersonAstronaut is the joined read shape returned by the astronaut
// queries: the person row inner-joined with their astronaut detail.
// Persons without a detail row never appear in this shape.
type PersonAstronaut struct {
	PersonID         uint64     `json:"person_id"`
	Name             string     `json:"name"`
	CurrentRank      string     `json:"current_rank"`
	CurrentDutyTitle string     `json:"current_duty_title"`
	CareerStartDate  time.Time  `json:"career_start_date"`
	CareerEndDate    *time.Time `json:"career_end_date,omitempty"`
}
