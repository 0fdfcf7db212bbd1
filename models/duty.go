package models

import "time"

// DutyAssignment is an invigilation duty created by the admin workflow.
type DutyAssignment struct {
	FacultyID    string     `bson:"facultyId" json:"facultyId" firestore:"facultyId"`
	RoomNo       string     `bson:"roomNo" json:"roomNo" firestore:"roomNo"`
	DutyDateTime *time.Time `bson:"dutyDateTime" json:"dutyDateTime" firestore:"dutyDateTime"`
}

// DutyCreatedEvent is delivered once per duty document creation.
type DutyCreatedEvent struct {
	DutyID string         `json:"dutyId"`
	Duty   DutyAssignment `json:"duty"`
}
