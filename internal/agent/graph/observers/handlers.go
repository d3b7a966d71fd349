package observers

import (
	einocb "github.com/cloudwego/eino/callbacks"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"
)

// NewAllCallbacks aggregates the component observers (prompt, chat model,
// retriever) into one callbacks.Handler.
func NewAllCallbacks() einocb.Handler {
	return callbackHelper.NewHandlerHelper().
		ChatModel(newModelHandler()).
		Prompt(newPromptHandler()).
		Retriever(newRetrieverHandler()).
		Handler()
}

// DefaultHandlers is the handler set attached to every dialogue turn.
func DefaultHandlers() []einocb.Handler {
	return []einocb.Handler{NewAllCallbacks(), NewNodeCallbacks()}
}
