package models

// DefaultFacultyName is shown when a status document carries no name.
const DefaultFacultyName = "A faculty member"

type FacultyStatus struct {
	FacultyID   string `bson:"facultyId" json:"facultyId" firestore:"facultyId"`
	FacultyName string `bson:"facultyName,omitempty" json:"facultyName,omitempty" firestore:"facultyName,omitempty"`
	Status      string `bson:"status" json:"status" firestore:"status"`
}

// DisplayName returns the faculty name or the generic fallback label.
func (s FacultyStatus) DisplayName() string {
	if s.FacultyName == "" {
		return DefaultFacultyName
	}
	return s.FacultyName
}

// FacultyStatusUpdatedEvent carries both snapshots of a status update.
// Before is nil when the source could not supply a pre-image.
type FacultyStatusUpdatedEvent struct {
	FacultyID string         `json:"facultyId"`
	Before    *FacultyStatus `json:"before,omitempty"`
	After     FacultyStatus  `json:"after"`
}
