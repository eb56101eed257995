package entity

import "time"

// LogMessage is a log record mirrored to the log database.
type LogMessage struct {
	Time     time.Time `json:"time" bson:"time"`
	Level    string    `json:"level" bson:"level"`
	Category string    `json:"category" bson:"category"`
	Text     string    `json:"text" bson:"text"`
	Error    string    `json:"error,omitempty" bson:"error,omitempty"`
}

func (m *LogMessage) DataType() string {
	return "log"
}
