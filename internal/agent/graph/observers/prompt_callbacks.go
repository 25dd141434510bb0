package observers

import (
	"context"
	"fmt"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/prompt"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"
)

// newPromptHandler builds a typed PromptCallbackHandler to trace template rendering.
func newPromptHandler() *callbackHelper.PromptCallbackHandler {
	return &callbackHelper.PromptCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *prompt.CallbackInput) context.Context {
			if input != nil {
				fmt.Printf("[Prompt|%s|%s] start (%d variables)\n", info.Type, info.Name, len(input.Variables))
			}
			return ctx
		},
		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *prompt.CallbackOutput) context.Context {
			if output != nil {
				fmt.Printf("[Prompt|%s|%s] end (%d messages)\n", info.Type, info.Name, len(output.Result))
			}
			return ctx
		},
		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			fmt.Printf("[Prompt|%s|%s] error: %v\n", info.Type, info.Name, err)
			return ctx
		},
	}
}
