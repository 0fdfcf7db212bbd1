// File: utils/constants.go
package utils

// IDTokenCachePrefix is the prefix used for Redis ID-token verification cache keys.
const IDTokenCachePrefix = "idtoken:"

// ProfilePicturePrefix is the blob key prefix for user profile pictures.
const ProfilePicturePrefix = "profile_pictures/"

// Collection names shared by every document store backend.
const (
	UsersCollection         = "users"
	NotificationsCollection = "notifications"
	DutiesCollection        = "duties"
	FacultyStatusCollection = "facultyStatus"
)
