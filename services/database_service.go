package services

import "context"

// Database receives log records when a log store is configured.
type Database interface {
	WriteLogMessage(ctx context.Context, data Data) error
}

type Data interface {
	DataType() string
}
