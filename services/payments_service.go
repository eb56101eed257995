package services

import (
	"context"
	"wxpay/entity"
)

// Payments is the operation set shared by every client flavor.
type Payments interface {
	CreateOrder(ctx context.Context, params entity.Params) (*entity.Response, error)
	QueryOrder(ctx context.Context, params entity.Params) (*entity.Response, error)
	CloseOrder(ctx context.Context, params entity.Params) (*entity.Response, error)
	GetPrepayID(ctx context.Context, params entity.Params) (string, error)
	BuildReply(message string, ok bool) string
}
