// File: dutynotify/models/user.go
package models

// Role values stored on a user profile.
const (
	RoleAdmin   = "admin"
	RoleFaculty = "faculty"
)

// User is the profile document owned by the identity/profile subsystem.
type User struct {
	ID       string `bson:"id" json:"id" firestore:"-"`
	Name     string `bson:"name,omitempty" json:"name,omitempty" firestore:"name,omitempty"`
	Email    string `bson:"email,omitempty" json:"email,omitempty" firestore:"email,omitempty"`
	Role     string `bson:"role" json:"role" firestore:"role"`
	FCMToken string `bson:"fcmToken,omitempty" json:"fcmToken,omitempty" firestore:"fcmToken,omitempty"`
}

// HasPushToken reports whether the user registered a device for push delivery.
func (u *User) HasPushToken() bool {
	return u != nil && u.FCMToken != ""
}
