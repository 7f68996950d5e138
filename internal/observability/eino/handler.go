package eino

import (
	"context"
	"time"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	cbtemplate "github.com/cloudwego/eino/utils/callbacks"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"corpus-rag-api/pkg/metrics"
)

// startTimeKey 在 Context 中存储调用开始时间，OnEnd/OnError 用于计算耗时
type startTimeKey struct{}

// providerKey 在 Context 中存储 LLM 提供商名
type providerKey struct{}

// WithProvider 标记本次调用的 LLM 提供商
func WithProvider(ctx context.Context, provider string) context.Context {
	return context.WithValue(ctx, providerKey{}, provider)
}

// providerFromContext 读取提供商名，未设置返回 unknown
func providerFromContext(ctx context.Context) string {
	if p, ok := ctx.Value(providerKey{}).(string); ok && p != "" {
		return p
	}
	return "unknown"
}

// newChatModelCallbackHandler 创建大模型调用回调处理器
// 调用次数与耗时由上层问答服务计量，这里只负责 Token 消耗与追踪 Span。
func newChatModelCallbackHandler() *cbtemplate.ModelCallbackHandler {
	return &cbtemplate.ModelCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *model.CallbackInput) context.Context {
			ctx = context.WithValue(ctx, startTimeKey{}, time.Now())

			attrs := []attribute.KeyValue{
				attribute.String("llm.provider", providerFromContext(ctx)),
				attribute.String("llm.model", modelNameFromInput(input)),
			}
			if info != nil {
				attrs = append(attrs,
					attribute.String("eino.node_name", info.Name),
					attribute.String("eino.type", info.Type),
				)
			}

			ctx, _ = otel.Tracer("eino").Start(ctx, "llm.generate", trace.WithAttributes(attrs...))
			return ctx
		},

		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *model.CallbackOutput) context.Context {
			provider := providerFromContext(ctx)
			modelName := modelNameFromOutput(output)

			if output != nil && output.TokenUsage != nil {
				metrics.LLMTokensUsed.WithLabelValues(provider, modelName, "prompt").
					Add(float64(output.TokenUsage.PromptTokens))
				metrics.LLMTokensUsed.WithLabelValues(provider, modelName, "completion").
					Add(float64(output.TokenUsage.CompletionTokens))
			}

			span := trace.SpanFromContext(ctx)
			if span != nil {
				if output != nil && output.TokenUsage != nil {
					span.SetAttributes(
						attribute.Int("llm.prompt_tokens", output.TokenUsage.PromptTokens),
						attribute.Int("llm.completion_tokens", output.TokenUsage.CompletionTokens),
					)
				}
				if d := elapsedSeconds(ctx); d > 0 {
					span.SetAttributes(attribute.Float64("llm.duration_seconds", d))
				}
				span.End()
			}
			return ctx
		},

		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			span := trace.SpanFromContext(ctx)
			if span != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				span.End()
			}
			return ctx
		},
	}
}

// elapsedSeconds 计算从 OnStart 到当前的时间差（秒）
func elapsedSeconds(ctx context.Context) float64 {
	start, ok := ctx.Value(startTimeKey{}).(time.Time)
	if !ok || start.IsZero() {
		return 0
	}
	return time.Since(start).Seconds()
}

// modelNameFromInput 从输入配置中提取模型名称
func modelNameFromInput(in *model.CallbackInput) string {
	if in == nil || in.Config == nil {
		return ""
	}
	return in.Config.Model
}

// modelNameFromOutput 从输出配置中提取模型名称
func modelNameFromOutput(out *model.CallbackOutput) string {
	if out == nil || out.Config == nil {
		return ""
	}
	return out.Config.Model
}
