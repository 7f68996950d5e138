package rag

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"corpus-rag-api/internal/config"
	"corpus-rag-api/internal/domain/entity"
	"corpus-rag-api/internal/domain/repository"
	einoobs "corpus-rag-api/internal/observability/eino"
	"corpus-rag-api/pkg/logger"
	"corpus-rag-api/pkg/metrics"
)

// Memory 会话记忆端口
type Memory interface {
	Context(sessionID string) string
	Append(sessionID, userText, assistantText string)
}

// QueryInput 问答请求
type QueryInput struct {
	Question     string
	SessionID    string
	IncludeDebug bool
}

// RetrievalPayload retrieval 事件负载
type RetrievalPayload struct {
	ChunkIDs []int64 `json:"chunk_ids"`
	Count    int     `json:"count"`
}

// TokenPayload token 事件负载
type TokenPayload struct {
	Text string `json:"text"`
}

// ErrorPayload error 事件负载
type ErrorPayload struct {
	Message string `json:"message"`
}

// Service 检索增强问答编排器
// 流水线固定为 检索 → 组装上下文 → 生成，各阶段顺序执行。
type Service struct {
	embedder  EmbedderPort
	index     VectorIndex
	chunkRepo repository.ChunkRepository
	chatModel model.BaseChatModel
	memory    Memory
	cfg       *config.RAGConfig

	provider  string
	modelName string
}

// NewService 创建问答编排器
func NewService(
	embedder EmbedderPort,
	index VectorIndex,
	chunkRepo repository.ChunkRepository,
	chatModel model.BaseChatModel,
	memory Memory,
	cfg *config.Config,
) *Service {
	modelName := ""
	if p, ok := cfg.LLM.Providers[cfg.LLM.DefaultProvider]; ok {
		modelName = p.Model
	}
	return &Service{
		embedder:  embedder,
		index:     index,
		chunkRepo: chunkRepo,
		chatModel: chatModel,
		memory:    memory,
		cfg:       &cfg.RAG,
		provider:  cfg.LLM.DefaultProvider,
		modelName: modelName,
	}
}

// Query 批式问答
func (s *Service) Query(ctx context.Context, in QueryInput) (*Answer, error) {
	start := time.Now()
	state := &State{Question: in.Question, SessionID: in.SessionID}

	s.retrieve(ctx, state)

	if len(state.Retrieved) == 0 {
		metrics.QueryTotal.WithLabelValues("batch", "fallback").Inc()
		metrics.RetrievalFallbackTotal.WithLabelValues("no_citation").Inc()
		state.Answer = NoCitationAnswer
		s.rememberTurn(ctx, state)
		return s.finish(state, in.IncludeDebug, start), nil
	}

	if err := s.hydrate(ctx, state); err != nil {
		logger.FromContext(ctx).Warn("chunk hydration failed, falling back to no-citation answer", "error", err.Error())
		metrics.QueryTotal.WithLabelValues("batch", "fallback").Inc()
		metrics.RetrievalFallbackTotal.WithLabelValues("hydration_error").Inc()
		state.Sources = nil
		state.Answer = NoCitationAnswer
		s.rememberTurn(ctx, state)
		return s.finish(state, in.IncludeDebug, start), nil
	}

	s.generate(ctx, state)
	s.rememberTurn(ctx, state)

	metrics.QueryTotal.WithLabelValues("batch", "success").Inc()
	metrics.QueryDuration.WithLabelValues("batch").Observe(time.Since(start).Seconds())
	return s.finish(state, in.IncludeDebug, start), nil
}

// Stream 流式问答，事件顺序固定：
// start → retrieval → sources → token* → done|error
// 消费方取消 ctx 后生产立即停止，且不回写会话记忆。
func (s *Service) Stream(ctx context.Context, in QueryInput) <-chan StreamEvent {
	events := make(chan StreamEvent, 16)

	go func() {
		defer close(events)
		start := time.Now()
		state := &State{Question: in.Question, SessionID: in.SessionID}

		if !s.emit(ctx, events, StreamEvent{Name: EventStart, Data: struct{}{}}) {
			return
		}

		s.retrieve(ctx, state)

		chunkIDs := make([]int64, 0, len(state.Retrieved))
		for _, h := range state.Retrieved {
			chunkIDs = append(chunkIDs, h.ChunkID)
		}
		if !s.emit(ctx, events, StreamEvent{Name: EventRetrieval, Data: RetrievalPayload{
			ChunkIDs: chunkIDs,
			Count:    len(chunkIDs),
		}}) {
			return
		}

		if len(state.Retrieved) == 0 {
			metrics.QueryTotal.WithLabelValues("stream", "fallback").Inc()
			metrics.RetrievalFallbackTotal.WithLabelValues("no_citation").Inc()
			state.Answer = NoCitationAnswer
			if !s.emit(ctx, events, StreamEvent{Name: EventSources, Data: []Source{}}) {
				return
			}
			if s.emit(ctx, events, StreamEvent{Name: EventDone, Data: s.finish(state, in.IncludeDebug, start)}) {
				s.rememberTurn(ctx, state)
			}
			return
		}

		if err := s.hydrate(ctx, state); err != nil {
			logger.FromContext(ctx).Warn("chunk hydration failed, falling back to no-citation answer", "error", err.Error())
			metrics.QueryTotal.WithLabelValues("stream", "fallback").Inc()
			metrics.RetrievalFallbackTotal.WithLabelValues("hydration_error").Inc()
			state.Sources = nil
			state.Answer = NoCitationAnswer
			if !s.emit(ctx, events, StreamEvent{Name: EventSources, Data: []Source{}}) {
				return
			}
			if s.emit(ctx, events, StreamEvent{Name: EventDone, Data: s.finish(state, in.IncludeDebug, start)}) {
				s.rememberTurn(ctx, state)
			}
			return
		}

		if !s.emit(ctx, events, StreamEvent{Name: EventSources, Data: state.Sources}) {
			return
		}

		if err := s.streamGenerate(ctx, state, events); err != nil {
			metrics.QueryTotal.WithLabelValues("stream", "error").Inc()
			return
		}

		metrics.QueryTotal.WithLabelValues("stream", "success").Inc()
		metrics.QueryDuration.WithLabelValues("stream").Observe(time.Since(start).Seconds())
		if s.emit(ctx, events, StreamEvent{Name: EventDone, Data: s.finish(state, in.IncludeDebug, start)}) {
			s.rememberTurn(ctx, state)
		}
	}()

	return events
}

// retrieve 向量检索阶段
// 向量化失败、索引不可达或超时都视作零结果，由上层走兜底话术。
func (s *Service) retrieve(ctx context.Context, state *State) {
	log := logger.FromContext(ctx)

	if s.embedder == nil || s.index == nil {
		log.Warn("vector retrieval not configured, falling back to zero results")
		return
	}

	vector, err := s.embedder.EmbedOne(ctx, state.Question)
	if err != nil {
		log.Warn("question embedding failed, falling back to zero results", "error", err.Error())
		return
	}

	searchCtx := ctx
	if s.cfg.RetrievalTimeout > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, s.cfg.RetrievalTimeout)
		defer cancel()
	}

	searchStart := time.Now()
	hits, err := s.index.Search(searchCtx, vector, s.cfg.TopK, nil)
	state.VectorSearchElapsedMs = time.Since(searchStart).Milliseconds()
	if err != nil {
		log.Warn("vector search failed, falling back to zero results", "error", err.Error())
		return
	}

	state.Retrieved = hits
}

// hydrate 批量回表并组装上下文与引用
func (s *Service) hydrate(ctx context.Context, state *State) error {
	ids := make([]int64, 0, len(state.Retrieved))
	for _, h := range state.Retrieved {
		ids = append(ids, h.ChunkID)
	}

	chunks, err := s.chunkRepo.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}

	byID := make(map[int64]*entity.Chunk, len(chunks))
	for _, c := range chunks {
		byID[c.ID] = c
	}

	var contextParts []string
	for _, hit := range state.Retrieved {
		chunk, ok := byID[hit.ChunkID]
		if !ok {
			continue
		}
		state.Chunks = append(state.Chunks, chunk)
		state.Sources = append(state.Sources, buildSource(chunk, hit.Score, s.cfg.SnippetMaxChars))
		contextParts = append(contextParts, chunk.ChunkText)
	}

	state.ContextText = strings.Join(contextParts, "\n\n")
	state.CitationsText = FormatCitations(state.Sources, s.cfg.MaxCitations)
	return nil
}

// generate 批式生成，失败或空回答走致歉话术
func (s *Service) generate(ctx context.Context, state *State) {
	log := logger.FromContext(ctx)

	if s.chatModel == nil {
		metrics.RetrievalFallbackTotal.WithLabelValues("llm_error").Inc()
		state.Answer = ApologyAnswer
		return
	}

	genCtx := ctx
	if s.cfg.GenerateTimeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.cfg.GenerateTimeout)
		defer cancel()
	}

	genCtx = einoobs.WithProvider(genCtx, s.provider)

	llmStart := time.Now()
	msg, err := s.chatModel.Generate(genCtx, s.buildPrompt(state))
	metrics.LLMCallDuration.WithLabelValues(s.provider, s.modelName).Observe(time.Since(llmStart).Seconds())

	if err != nil || msg == nil || strings.TrimSpace(msg.Content) == "" {
		metrics.LLMCallTotal.WithLabelValues(s.provider, s.modelName, "error").Inc()
		metrics.RetrievalFallbackTotal.WithLabelValues("llm_error").Inc()
		if err != nil {
			log.Error("llm generation failed", "error", err.Error())
		}
		state.Answer = ApologyAnswer
		return
	}

	metrics.LLMCallTotal.WithLabelValues(s.provider, s.modelName, "success").Inc()
	state.Answer = msg.Content
}

// streamGenerate 流式生成，token 事件逐段下发
// 首个 token 前失败发 error 事件；已开始产出后失败仍以 done 收尾，
// 最终回答替换为致歉话术。
func (s *Service) streamGenerate(ctx context.Context, state *State, events chan<- StreamEvent) error {
	log := logger.FromContext(ctx)

	if s.chatModel == nil {
		metrics.RetrievalFallbackTotal.WithLabelValues("llm_error").Inc()
		s.emit(ctx, events, StreamEvent{Name: EventError, Data: ErrorPayload{Message: ApologyAnswer}})
		return errors.New("chat model not configured")
	}

	genCtx := ctx
	if s.cfg.GenerateTimeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.cfg.GenerateTimeout)
		defer cancel()
	}

	genCtx = einoobs.WithProvider(genCtx, s.provider)

	llmStart := time.Now()
	reader, err := s.chatModel.Stream(genCtx, s.buildPrompt(state))
	if err != nil {
		metrics.LLMCallTotal.WithLabelValues(s.provider, s.modelName, "error").Inc()
		metrics.RetrievalFallbackTotal.WithLabelValues("llm_error").Inc()
		log.Error("llm stream start failed", "error", err.Error())
		s.emit(ctx, events, StreamEvent{Name: EventError, Data: ErrorPayload{Message: ApologyAnswer}})
		return err
	}
	defer reader.Close()

	var sb strings.Builder
	for {
		msg, err := reader.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			metrics.LLMCallTotal.WithLabelValues(s.provider, s.modelName, "error").Inc()
			log.Error("llm stream recv failed", "error", err.Error())
			if sb.Len() == 0 {
				metrics.RetrievalFallbackTotal.WithLabelValues("llm_error").Inc()
				s.emit(ctx, events, StreamEvent{Name: EventError, Data: ErrorPayload{Message: ApologyAnswer}})
				return err
			}
			// token 已经下发过，终止事件保持 done，最终回答换成致歉话术
			metrics.RetrievalFallbackTotal.WithLabelValues("llm_error").Inc()
			state.Answer = ApologyAnswer
			return nil
		}
		if msg.Content == "" {
			continue
		}
		sb.WriteString(msg.Content)
		if !s.emit(ctx, events, StreamEvent{Name: EventToken, Data: TokenPayload{Text: msg.Content}}) {
			return context.Canceled
		}
	}

	metrics.LLMCallDuration.WithLabelValues(s.provider, s.modelName).Observe(time.Since(llmStart).Seconds())

	if strings.TrimSpace(sb.String()) == "" {
		metrics.RetrievalFallbackTotal.WithLabelValues("llm_error").Inc()
		s.emit(ctx, events, StreamEvent{Name: EventError, Data: ErrorPayload{Message: ApologyAnswer}})
		return errors.New("llm returned empty stream")
	}

	metrics.LLMCallTotal.WithLabelValues(s.provider, s.modelName, "success").Inc()
	state.Answer = strings.TrimSpace(sb.String())
	return nil
}

// buildPrompt 组装对话消息
func (s *Service) buildPrompt(state *State) []*schema.Message {
	memoryContext := ""
	if s.memory != nil {
		memoryContext = s.memory.Context(state.SessionID)
	}

	system, user := BuildMessages(state.Question, state.ContextText, memoryContext)
	return []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(user),
	}
}

// rememberTurn 尽力回写会话记忆，失败不影响结果
func (s *Service) rememberTurn(ctx context.Context, state *State) {
	if s.memory == nil || state.SessionID == "" || state.Answer == "" {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Warn(ctx, "session memory append panicked", "recover", r)
		}
	}()
	s.memory.Append(state.SessionID, state.Question, state.Answer)
}

// finish 汇总最终回答
func (s *Service) finish(state *State, includeDebug bool, start time.Time) *Answer {
	numCitations := len(state.Sources)
	if numCitations > s.cfg.TopK {
		numCitations = s.cfg.TopK
	}

	ans := &Answer{
		Answer:       state.Answer,
		Sources:      state.Sources,
		NumCitations: numCitations,
	}
	if ans.Sources == nil {
		ans.Sources = []Source{}
	}

	if includeDebug {
		chunkIDs := make([]int64, 0, len(state.Retrieved))
		for _, h := range state.Retrieved {
			chunkIDs = append(chunkIDs, h.ChunkID)
		}
		ans.Debug = &Debug{
			RetrievedChunks:    chunkIDs,
			QueryTimeMs:        time.Since(start).Milliseconds(),
			VectorSearchTimeMs: state.VectorSearchElapsedMs,
		}
	}
	return ans
}

// emit 发送事件，ctx 取消时返回 false
func (s *Service) emit(ctx context.Context, events chan<- StreamEvent, ev StreamEvent) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
