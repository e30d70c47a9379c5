package notifications

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"

	"blood4life/backend/handlers/auth"
	"blood4life/backend/models"
	"blood4life/backend/services/live"
)

const (
	selectNotificationsQuery = `
		SELECT id, message, date_notification, read
		FROM notification
		WHERE receiver_role = $1 AND receiver_id = $2
		ORDER BY date_notification DESC
	`

	markAllReadQuery = `
		UPDATE notification
		SET read = true
		WHERE receiver_role = $1 AND receiver_id = $2 AND read = false
	`

	insertNotificationQuery = `
		INSERT INTO notification (receiver_role, receiver_id, message)
		VALUES ($1, $2, $3)
		RETURNING id, message, date_notification, read
	`
)

// GetNotificationsHandler lists the caller's notifications, newest first.
// Used by: GET /api/notifications
func GetNotificationsHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		userID, role, err := auth.IdentityFromRequest(r)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
			return
		}

		rows, err := db.Query(selectNotificationsQuery, role, userID)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}
		defer rows.Close()

		notifications := []models.Notification{}
		for rows.Next() {
			var n models.Notification
			if err := rows.Scan(&n.ID, &n.Message, &n.DateNotification, &n.Read); err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"error": "Error scanning notifications"})
				return
			}
			notifications = append(notifications, n)
		}

		json.NewEncoder(w).Encode(notifications)
	}
}

// MarkNotificationsAsReadHandler marks every unread notification as read.
// Used by: POST /api/notifications/read
func MarkNotificationsAsReadHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		userID, role, err := auth.IdentityFromRequest(r)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
			return
		}

		if _, err := db.Exec(markAllReadQuery, role, userID); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}

		json.NewEncoder(w).Encode(map[string]string{"message": "Notifications marked as read"})
	}
}

// Create stores a notification and pushes it on the receiver's topic.
// Failures are logged, not propagated: a lost notification must not fail the
// operation that triggered it.
func Create(db *sql.DB, receiverRole string, receiverID int, message string) {
	var n models.Notification
	err := db.QueryRow(insertNotificationQuery, receiverRole, receiverID, message).
		Scan(&n.ID, &n.Message, &n.DateNotification, &n.Read)
	if err != nil {
		log.Printf("Error creating notification for %s %d: %v", receiverRole, receiverID, err)
		return
	}

	topic := live.DonorNotificationTopic(receiverID)
	if receiverRole == auth.RoleHospital {
		topic = live.HospitalNotificationTopic(receiverID)
	}
	live.Publish(topic, live.Event{Type: live.EventNotificationCreated, Payload: n})
}
