package model

import "time"

// AlertLevel is the severity of an Alert.
type AlertLevel string

const (
	LevelInfo     AlertLevel = "info"
	LevelWarning  AlertLevel = "warning"
	LevelCritical AlertLevel = "critical"
)

// Alert is a single entry in the alert feed.
type Alert struct {
	ID    uint64     `json:"id"`
	Level AlertLevel `json:"level"`
	Text  string     `json:"text"`
	Time  time.Time  `json:"time"`
}

// NodeStatus is the health of a Node.
type NodeStatus string

const (
	StatusOK   NodeStatus = "ok"
	StatusWarn NodeStatus = "warn"
)

// Node is one row of the node list.
type Node struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Status NodeStatus `json:"status"`
	Load   int        `json:"load"` // 0-100
}

// TopSource is one entry of the traffic ranking.
type TopSource struct {
	Name string  `json:"name"` // address-like label, e.g. "10.0.4.17"
	MB   float64 `json:"mb"`
}
