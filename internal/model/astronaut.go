package model

import "time"

// AstronautDetail is the one-per-person career rollup stored in the
// `astronaut_details` table. It mirrors the most recent duty assignment
// and carries the derived career span.
//
// Fields:
//  ID               – primary key identifier.
//  PersonID         – owning person (unique; at most one detail per person).
//  CurrentRank      – rank of the most recent assignment.
//  CurrentDutyTitle – title of the most recent assignment.
//  CareerStartDate  – start date of the first ever assignment; set once.
//  CareerEndDate    – set only when a RETIRED duty has been recorded.
type AstronautDetail struct {
	ID               uint64     `json:"id"`
	PersonID         uint64     `json:"person_id"`
	CurrentRank      string     `json:"current_rank"`
	CurrentDutyTitle string     `json:"current_duty_title"`
	CareerStartDate  time.Time  `json:"career_start_date"`
	CareerEndDate    *time.Time `json:"career_end_date,omitempty"`
}

// AstronautDuty is one entry in a person's duty ledger (`astronaut_duties`).
// Records are append-oriented: after insertion only DutyEndDate and
// IsCurrent are ever mutated, and only when a later assignment supersedes
// the record. At most one record per person has IsCurrent set.
type AstronautDuty struct {
	ID            uint64     `json:"id"`
	PersonID      uint64     `json:"person_id"`
	Rank          string     `json:"rank"`
	DutyTitle     string     `json:"duty_title"`
	DutyStartDate time.Time  `json:"duty_start_date"`
	DutyEndDate   *time.Time `json:"duty_end_date,omitempty"`
	IsCurrent     bool       `json:"is_current"`
}
