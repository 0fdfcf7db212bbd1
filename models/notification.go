package models

import "time"

// NotificationRecord is the durable in-app notification shown to a user.
// Timestamp is assigned by the store at write time.
type NotificationRecord struct {
	ID        string    `bson:"id" json:"id" firestore:"-"`
	UserID    string    `bson:"userId" json:"userId" firestore:"userId"`
	Title     string    `bson:"title" json:"title" firestore:"title"`
	Body      string    `bson:"body" json:"body" firestore:"body"`
	IsRead    bool      `bson:"isRead" json:"isRead" firestore:"isRead"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp" firestore:"timestamp,serverTimestamp"`
}

// NewNotificationRecord builds an unread record for userID.
func NewNotificationRecord(userID, title, body string) NotificationRecord {
	return NotificationRecord{
		UserID: userID,
		Title:  title,
		Body:   body,
		IsRead: false,
	}
}

// PushMessage is the payload handed to the push gateway.
type PushMessage struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}
