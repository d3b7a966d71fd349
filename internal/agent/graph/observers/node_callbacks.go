package observers

import (
	"context"
	"time"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/compose"

	logx "github.com/autostream-assistant/server/pkg/logger"
)

type nodeStartKey struct{}

// NewNodeCallbacks logs each dialogue node with its duration.
func NewNodeCallbacks() einocb.Handler {
	return einocb.NewHandlerBuilder().
		OnStartFn(func(ctx context.Context, info *einocb.RunInfo, _ einocb.CallbackInput) context.Context {
			if !isNode(info) {
				return ctx
			}
			return context.WithValue(ctx, nodeStartKey{}, time.Now())
		}).
		OnEndFn(func(ctx context.Context, info *einocb.RunInfo, _ einocb.CallbackOutput) context.Context {
			if !isNode(info) {
				return ctx
			}
			logx.Debug().Str("node", info.Name).Dur("elapsed", elapsed(ctx)).Msg("node finished")
			return ctx
		}).
		OnErrorFn(func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			if !isNode(info) {
				return ctx
			}
			logx.Error().Err(err).Str("node", info.Name).Dur("elapsed", elapsed(ctx)).Msg("node failed")
			return ctx
		}).
		Build()
}

func isNode(info *einocb.RunInfo) bool {
	return info != nil && info.Component == compose.ComponentOfLambda
}

func elapsed(ctx context.Context) time.Duration {
	start, ok := ctx.Value(nodeStartKey{}).(time.Time)
	if !ok {
		return 0
	}
	return time.Since(start)
}
