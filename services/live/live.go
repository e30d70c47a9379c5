// Package live is the topic-based publish channel for dashboard updates.
// Clients open a websocket subscribed to one or more topics; handlers publish
// typed events and every subscriber of the topic receives the JSON-encoded
// event. Consumers are expected to re-fetch their collections wholesale on
// receipt -- events carry a discriminator and a payload but subscribers have
// no incremental-update contract.
package live

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// Well-known topics.
const (
	TopicCampaigns        = "campaigns"
	TopicAppointments     = "appointments"
	TopicTotalBloodDonors = "total-blood-donors"
)

// Event type discriminators.
const (
	EventCampaignCreated     = "CAMPAIGN_CREATED"
	EventCampaignUpdated     = "CAMPAIGN_UPDATED"
	EventCampaignDeleted     = "CAMPAIGN_DELETED"
	EventAppointmentCreated  = "APPOINTMENT_CREATED"
	EventAppointmentUpdated  = "APPOINTMENT_UPDATED"
	EventTotalBloodDonors    = "TOTAL_BLOOD_DONORS"
	EventNotificationCreated = "NOTIFICATION_CREATED"
)

// Event is what goes over the wire.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// DonorNotificationTopic returns the per-donor notification topic.
func DonorNotificationTopic(donorID int) string {
	return "notifications/donor/" + strconv.Itoa(donorID)
}

// HospitalNotificationTopic returns the per-hospital notification topic.
func HospitalNotificationTopic(hospitalID int) string {
	return "notifications/hospital/" + strconv.Itoa(hospitalID)
}

var (
	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
	subscribers = make(map[string]map[*websocket.Conn]bool) // map[topic]map[conn]bool
	subLock     sync.Mutex
)

// HandleWebSocket upgrades the connection and registers it on the requested
// topics. The token travels as a query parameter because browsers cannot set
// headers on websocket handshakes; identify is the token check, injected to
// keep this package free of auth imports.
//
//	GET /ws?token=<jwt>&topics=campaigns,notifications/donor/7
func HandleWebSocket(identify func(token string) (userID int, role string, err error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.URL.Query().Get("token"), "Bearer ")
		if token == "" {
			http.Error(w, "No token provided", http.StatusUnauthorized)
			return
		}
		if _, _, err := identify(token); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		topics := splitTopics(r.URL.Query().Get("topics"))
		if len(topics) == 0 {
			http.Error(w, "No topics requested", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		subLock.Lock()
		for _, topic := range topics {
			if subscribers[topic] == nil {
				subscribers[topic] = make(map[*websocket.Conn]bool)
			}
			subscribers[topic][conn] = true
		}
		subLock.Unlock()

		defer func() {
			subLock.Lock()
			for _, topic := range topics {
				delete(subscribers[topic], conn)
				if len(subscribers[topic]) == 0 {
					delete(subscribers, topic)
				}
			}
			subLock.Unlock()
			conn.Close()
		}()

		data, _ := json.Marshal(Event{Type: "connected"})
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}

		// Drain client frames until disconnect; answer pings.
		for {
			messageType, _, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("websocket closed unexpectedly: %v", err)
				}
				break
			}
			if messageType == websocket.PingMessage {
				if err := conn.WriteMessage(websocket.PongMessage, nil); err != nil {
					break
				}
			}
		}
	}
}

// Publish sends an event to every subscriber of the topic. Connections that
// fail to write are dropped.
func Publish(topic string, event Event) {
	subLock.Lock()
	defer subLock.Unlock()

	conns := subscribers[topic]
	if len(conns) == 0 {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("error encoding %s event for topic %s: %v", event.Type, topic, err)
		return
	}

	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			delete(conns, conn)
		}
	}
}

func splitTopics(raw string) []string {
	var topics []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			topics = append(topics, t)
		}
	}
	return topics
}
