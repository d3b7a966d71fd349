package observers

import (
	"context"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/retriever"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"

	logx "github.com/autostream-assistant/server/pkg/logger"
)

func newRetrieverHandler() *callbackHelper.RetrieverCallbackHandler {
	return &callbackHelper.RetrieverCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *retriever.CallbackInput) context.Context {
			if input != nil {
				logx.Debug().Str("component", "retriever").Str("name", info.Name).Str("query", input.Query).Int("top_k", input.TopK).Msg("retrieval started")
			}
			return ctx
		},
		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *retriever.CallbackOutput) context.Context {
			if output == nil {
				return ctx
			}
			topics := make([]string, 0, len(output.Docs))
			for _, d := range output.Docs {
				topics = append(topics, d.ID)
			}
			logx.Debug().Str("component", "retriever").Str("name", info.Name).Strs("topics", topics).Msg("retrieval finished")
			return ctx
		},
		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Warn().Err(err).Str("component", "retriever").Str("name", info.Name).Msg("retrieval failed")
			return ctx
		},
	}
}
