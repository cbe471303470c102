// internal/workers/order/manage-mandi-notifications/models.go
package managemandinotifications

import "mandi-workers/internal/models"

type Input struct {
	MandiID        string `json:"mandiId"`
	Action         string `json:"action"`
	NotificationID string `json:"notificationId,omitempty"`
	Filter         string `json:"filter,omitempty"`
}

type Output struct {
	Action        string                     `json:"action"`
	MandiID       string                     `json:"mandiId"`
	Notifications []models.MandiNotification `json:"notifications,omitempty"`
	UnreadCount   int                        `json:"unreadCount"`
	Updated       int64                      `json:"updated"`
}

const (
	ActionList        = "list"
	ActionMarkRead    = "mark_read"
	ActionMarkAllRead = "mark_all_read"
)

const (
	FilterAll    = "all"
	FilterUnread = "unread"
	FilterRead   = "read"
)
