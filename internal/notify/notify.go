// Package notify sends event reminders as desktop notifications via D-Bus.
package notify

import (
	"fmt"
	"log/slog"

	"github.com/cpuguy83/almanac"
	"github.com/godbus/dbus/v5"
)

const (
	notifyInterface = "org.freedesktop.Notifications"
	notifyPath      = "/org/freedesktop/Notifications"
)

// Sender delivers notifications.
type Sender interface {
	Send(Notification) (uint32, error)
}

// Notification represents a desktop notification.
type Notification struct {
	Summary string
	Body    string
	Icon    string
	Timeout almanac.Duration // zero uses the server default
	Sticky  bool             // stays until dismissed
	Actions []Action
	Urgency Urgency

	// EventUID identifies the event the notification is for.
	EventUID string
}

// Action represents a notification action button.
type Action struct {
	Key   string
	Label string
}

// Urgency levels for notifications.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// Notifier sends desktop notifications over the session bus.
type Notifier struct {
	conn    *dbus.Conn
	obj     dbus.BusObject
	appName string
}

// New connects to the session bus.
func New(appName string) (*Notifier, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect to session bus: %w", err)
	}

	return &Notifier{
		conn:    conn,
		obj:     conn.Object(notifyInterface, notifyPath),
		appName: appName,
	}, nil
}

// Close closes the D-Bus connection.
func (n *Notifier) Close() error {
	return n.conn.Close()
}

// Send sends a notification and returns the server's notification ID.
func (n *Notifier) Send(notif Notification) (uint32, error) {
	// [key1, label1, key2, label2, ...]
	var actions []string
	for _, a := range notif.Actions {
		actions = append(actions, a.Key, a.Label)
	}

	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(byte(notif.Urgency)),
	}

	call := n.obj.Call(
		notifyInterface+".Notify",
		0,
		n.appName,
		uint32(0), // replaces_id
		iconName(notif.Icon),
		notif.Summary,
		notif.Body,
		actions,
		hints,
		expireTimeout(notif),
	)
	if call.Err != nil {
		return 0, fmt.Errorf("send notification: %w", call.Err)
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, fmt.Errorf("get notification id: %w", err)
	}

	slog.Debug("sent notification", "id", id, "summary", notif.Summary)
	return id, nil
}

func iconName(icon string) string {
	if icon == "" {
		return "x-office-calendar"
	}
	return icon
}

// expireTimeout is the Notify expire_timeout argument: -1 lets the server
// decide and 0 never expires.
func expireTimeout(notif Notification) int32 {
	switch {
	case notif.Sticky:
		return 0
	case notif.Timeout.ToMillis() > 0:
		return int32(notif.Timeout.ToMillis())
	default:
		return -1
	}
}
