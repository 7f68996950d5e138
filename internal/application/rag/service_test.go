package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corpus-rag-api/internal/config"
	"corpus-rag-api/internal/domain/entity"
)

type fakeEmbedder struct {
	vec []float32
	err error
}

func (f *fakeEmbedder) EmbedOne(_ context.Context, _ string) ([]float32, error) {
	return f.vec, f.err
}

func (f *fakeEmbedder) EmbedMany(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = f.vec
	}
	return out, f.err
}

type fakeIndex struct {
	hits []VectorHit
	err  error
}

func (f *fakeIndex) EnsureCollection(_ context.Context) error { return nil }

func (f *fakeIndex) Upsert(_ context.Context, _ []VectorPoint) error { return nil }

func (f *fakeIndex) Search(_ context.Context, _ []float32, _ int, _ *VectorFilter) ([]VectorHit, error) {
	return f.hits, f.err
}

func (f *fakeIndex) DeleteByIDs(_ context.Context, _ []int64) error { return nil }

type fakeChunkRepo struct {
	chunks map[int64]*entity.Chunk
	err    error
}

func (f *fakeChunkRepo) CreateBatch(_ context.Context, _ []*entity.Chunk) error { return nil }

func (f *fakeChunkRepo) UpdateVectorPointID(_ context.Context, _ int64, _ string) error { return nil }

func (f *fakeChunkRepo) GetByIDs(_ context.Context, ids []int64) ([]*entity.Chunk, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*entity.Chunk
	for _, id := range ids {
		if c, ok := f.chunks[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeChunkRepo) ListIDsByDocument(_ context.Context, _ int64) ([]int64, error) {
	return nil, nil
}

func (f *fakeChunkRepo) DeleteByDocument(_ context.Context, _ int64) error { return nil }

func (f *fakeChunkRepo) Count(_ context.Context) (int64, error) { return int64(len(f.chunks)), nil }

type fakeChatModel struct {
	generateMsg   *schema.Message
	generateErr   error
	streamMsgs    []*schema.Message
	streamErr     error
	streamRecvErr error
	generateCalls int
	streamCalls   int
}

func (f *fakeChatModel) Generate(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.generateCalls++
	if f.generateErr != nil {
		return nil, f.generateErr
	}
	return f.generateMsg, nil
}

func (f *fakeChatModel) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	f.streamCalls++
	if f.streamErr != nil {
		return nil, f.streamErr
	}
	if f.streamRecvErr != nil {
		sr, sw := schema.Pipe[*schema.Message](len(f.streamMsgs) + 1)
		for _, m := range f.streamMsgs {
			sw.Send(m, nil)
		}
		sw.Send(nil, f.streamRecvErr)
		sw.Close()
		return sr, nil
	}
	return schema.StreamReaderFromArray(f.streamMsgs), nil
}

type fakeMemory struct {
	contexts map[string]string
	appends  []string
}

func (f *fakeMemory) Context(sessionID string) string { return f.contexts[sessionID] }

func (f *fakeMemory) Append(sessionID, userText, assistantText string) {
	f.appends = append(f.appends, sessionID+"|"+userText+"|"+assistantText)
}

func testConfig() *config.Config {
	return &config.Config{
		LLM: config.LLMConfig{
			DefaultProvider: "openai",
			Providers: map[string]config.ProviderConfig{
				"openai": {Model: "test-model"},
			},
		},
		RAG: config.RAGConfig{
			TopK:            5,
			SnippetMaxChars: 300,
			MaxCitations:    5,
		},
	}
}

func corpusChunks() map[int64]*entity.Chunk {
	doc := &entity.Document{ID: 1, Title: "Truyện Kiều"}
	ch := &entity.Chapter{ID: 10, DocumentID: 1, Title: "Chương 1", Document: doc}
	return map[int64]*entity.Chunk{
		101: {ID: 101, ChapterID: 10, ChunkText: "đoạn văn thứ nhất", Chapter: ch},
		102: {ID: 102, ChapterID: 10, ChunkText: "đoạn văn thứ hai", Chapter: ch},
	}
}

func TestQuery_NoRetrievalFallsBackWithoutLLM(t *testing.T) {
	chat := &fakeChatModel{}
	mem := &fakeMemory{}
	svc := NewService(
		&fakeEmbedder{vec: []float32{0.1}},
		&fakeIndex{hits: nil},
		&fakeChunkRepo{},
		chat,
		mem,
		testConfig(),
	)

	ans, err := svc.Query(context.Background(), QueryInput{Question: "hỏi gì đó", SessionID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, NoCitationAnswer, ans.Answer)
	assert.NotNil(t, ans.Sources)
	assert.Empty(t, ans.Sources)
	assert.Zero(t, ans.NumCitations)
	assert.Zero(t, chat.generateCalls)
	require.Len(t, mem.appends, 1)
	assert.Equal(t, "s1|hỏi gì đó|"+NoCitationAnswer, mem.appends[0])
}

func TestQuery_VectorIndexNotConfigured(t *testing.T) {
	svc := NewService(nil, nil, &fakeChunkRepo{}, &fakeChatModel{}, &fakeMemory{}, testConfig())

	ans, err := svc.Query(context.Background(), QueryInput{Question: "q"})
	require.NoError(t, err)
	assert.Equal(t, NoCitationAnswer, ans.Answer)
}

func TestQuery_EmbeddingFailureFallsBack(t *testing.T) {
	svc := NewService(
		&fakeEmbedder{err: errors.New("embedding api down")},
		&fakeIndex{hits: []VectorHit{{ChunkID: 101, Score: 0.9}}},
		&fakeChunkRepo{chunks: corpusChunks()},
		&fakeChatModel{},
		&fakeMemory{},
		testConfig(),
	)

	ans, err := svc.Query(context.Background(), QueryInput{Question: "q"})
	require.NoError(t, err)
	assert.Equal(t, NoCitationAnswer, ans.Answer)
}

func TestQuery_Success(t *testing.T) {
	chat := &fakeChatModel{generateMsg: schema.AssistantMessage("câu trả lời đầy đủ", nil)}
	mem := &fakeMemory{}
	svc := NewService(
		&fakeEmbedder{vec: []float32{0.1}},
		&fakeIndex{hits: []VectorHit{{ChunkID: 102, Score: 0.95}, {ChunkID: 101, Score: 0.80}}},
		&fakeChunkRepo{chunks: corpusChunks()},
		chat,
		mem,
		testConfig(),
	)

	ans, err := svc.Query(context.Background(), QueryInput{Question: "tóm tắt", SessionID: "s9"})
	require.NoError(t, err)
	assert.Equal(t, "câu trả lời đầy đủ", ans.Answer)
	require.Len(t, ans.Sources, 2)
	// 来源顺序跟随命中顺序
	assert.Equal(t, int64(102), ans.Sources[0].ChunkID)
	assert.Equal(t, int64(101), ans.Sources[1].ChunkID)
	assert.Equal(t, "Truyện Kiều", ans.Sources[0].DocumentTitle)
	assert.Equal(t, 2, ans.NumCitations)
	assert.Equal(t, 1, chat.generateCalls)
	assert.Nil(t, ans.Debug)
	require.Len(t, mem.appends, 1)
	assert.Contains(t, mem.appends[0], "câu trả lời đầy đủ")
}

func TestQuery_IncludeDebug(t *testing.T) {
	svc := NewService(
		&fakeEmbedder{vec: []float32{0.1}},
		&fakeIndex{hits: []VectorHit{{ChunkID: 101, Score: 0.9}}},
		&fakeChunkRepo{chunks: corpusChunks()},
		&fakeChatModel{generateMsg: schema.AssistantMessage("ok", nil)},
		&fakeMemory{},
		testConfig(),
	)

	ans, err := svc.Query(context.Background(), QueryInput{Question: "q", IncludeDebug: true})
	require.NoError(t, err)
	require.NotNil(t, ans.Debug)
	assert.Equal(t, []int64{101}, ans.Debug.RetrievedChunks)
	assert.GreaterOrEqual(t, ans.Debug.QueryTimeMs, int64(0))
}

func TestQuery_GenerateErrorFallsBackToApology(t *testing.T) {
	mem := &fakeMemory{}
	svc := NewService(
		&fakeEmbedder{vec: []float32{0.1}},
		&fakeIndex{hits: []VectorHit{{ChunkID: 101, Score: 0.9}}},
		&fakeChunkRepo{chunks: corpusChunks()},
		&fakeChatModel{generateErr: errors.New("provider 500")},
		mem,
		testConfig(),
	)

	ans, err := svc.Query(context.Background(), QueryInput{Question: "q", SessionID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, ApologyAnswer, ans.Answer)
	// 兜底回答同样写入记忆，来源保持完整
	require.Len(t, ans.Sources, 1)
	require.Len(t, mem.appends, 1)
}

func TestQuery_EmptyGenerationFallsBackToApology(t *testing.T) {
	svc := NewService(
		&fakeEmbedder{vec: []float32{0.1}},
		&fakeIndex{hits: []VectorHit{{ChunkID: 101, Score: 0.9}}},
		&fakeChunkRepo{chunks: corpusChunks()},
		&fakeChatModel{generateMsg: schema.AssistantMessage("   ", nil)},
		&fakeMemory{},
		testConfig(),
	)

	ans, err := svc.Query(context.Background(), QueryInput{Question: "q"})
	require.NoError(t, err)
	assert.Equal(t, ApologyAnswer, ans.Answer)
}

func TestQuery_HydrateErrorFallsBack(t *testing.T) {
	chat := &fakeChatModel{}
	mem := &fakeMemory{}
	svc := NewService(
		&fakeEmbedder{vec: []float32{0.1}},
		&fakeIndex{hits: []VectorHit{{ChunkID: 101, Score: 0.9}}},
		&fakeChunkRepo{err: errors.New("db down")},
		chat,
		mem,
		testConfig(),
	)

	// 回表失败降级为无引用兜底，不向调用方抛错
	ans, err := svc.Query(context.Background(), QueryInput{Question: "q", SessionID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, NoCitationAnswer, ans.Answer)
	assert.NotNil(t, ans.Sources)
	assert.Empty(t, ans.Sources)
	assert.Zero(t, chat.generateCalls)
	require.Len(t, mem.appends, 1)
}

func TestStream_HydrateErrorFallsBack(t *testing.T) {
	svc := NewService(
		&fakeEmbedder{vec: []float32{0.1}},
		&fakeIndex{hits: []VectorHit{{ChunkID: 101, Score: 0.9}}},
		&fakeChunkRepo{err: errors.New("db down")},
		&fakeChatModel{},
		&fakeMemory{},
		testConfig(),
	)

	events := collectEvents(t, svc.Stream(context.Background(), QueryInput{Question: "q"}))
	require.Equal(t, []string{EventStart, EventRetrieval, EventSources, EventDone}, eventNames(events))

	sources, ok := events[2].Data.([]Source)
	require.True(t, ok)
	assert.Empty(t, sources)

	done := events[3].Data.(*Answer)
	assert.Equal(t, NoCitationAnswer, done.Answer)
}

func collectEvents(t *testing.T, events <-chan StreamEvent) []StreamEvent {
	t.Helper()
	var out []StreamEvent
	for ev := range events {
		out = append(out, ev)
	}
	return out
}

func eventNames(events []StreamEvent) []string {
	names := make([]string, 0, len(events))
	for _, ev := range events {
		names = append(names, ev.Name)
	}
	return names
}

func TestStream_Success(t *testing.T) {
	mem := &fakeMemory{}
	svc := NewService(
		&fakeEmbedder{vec: []float32{0.1}},
		&fakeIndex{hits: []VectorHit{{ChunkID: 101, Score: 0.9}}},
		&fakeChunkRepo{chunks: corpusChunks()},
		&fakeChatModel{streamMsgs: []*schema.Message{
			schema.AssistantMessage("phần ", nil),
			schema.AssistantMessage("một", nil),
		}},
		mem,
		testConfig(),
	)

	events := collectEvents(t, svc.Stream(context.Background(), QueryInput{Question: "q", SessionID: "s1"}))
	require.Equal(t, []string{EventStart, EventRetrieval, EventSources, EventToken, EventToken, EventDone}, eventNames(events))

	retrieval, ok := events[1].Data.(RetrievalPayload)
	require.True(t, ok)
	assert.Equal(t, []int64{101}, retrieval.ChunkIDs)
	assert.Equal(t, 1, retrieval.Count)

	sources, ok := events[2].Data.([]Source)
	require.True(t, ok)
	require.Len(t, sources, 1)

	done, ok := events[len(events)-1].Data.(*Answer)
	require.True(t, ok)
	assert.Equal(t, "phần một", done.Answer)

	var streamed strings.Builder
	for _, ev := range events {
		if ev.Name == EventToken {
			streamed.WriteString(ev.Data.(TokenPayload).Text)
		}
	}
	assert.Equal(t, done.Answer, streamed.String())

	require.Len(t, mem.appends, 1)
	assert.Contains(t, mem.appends[0], "phần một")
}

func TestStream_NoRetrievalEmitsFallbackDone(t *testing.T) {
	svc := NewService(
		&fakeEmbedder{vec: []float32{0.1}},
		&fakeIndex{hits: nil},
		&fakeChunkRepo{},
		&fakeChatModel{},
		&fakeMemory{},
		testConfig(),
	)

	events := collectEvents(t, svc.Stream(context.Background(), QueryInput{Question: "q"}))
	require.Equal(t, []string{EventStart, EventRetrieval, EventSources, EventDone}, eventNames(events))

	sources, ok := events[2].Data.([]Source)
	require.True(t, ok)
	assert.Empty(t, sources)

	done := events[3].Data.(*Answer)
	assert.Equal(t, NoCitationAnswer, done.Answer)
}

func TestStream_LLMFailureEmitsErrorBeforeTokens(t *testing.T) {
	mem := &fakeMemory{}
	svc := NewService(
		&fakeEmbedder{vec: []float32{0.1}},
		&fakeIndex{hits: []VectorHit{{ChunkID: 101, Score: 0.9}}},
		&fakeChunkRepo{chunks: corpusChunks()},
		&fakeChatModel{streamErr: errors.New("provider refused")},
		mem,
		testConfig(),
	)

	events := collectEvents(t, svc.Stream(context.Background(), QueryInput{Question: "q", SessionID: "s1"}))
	require.Equal(t, []string{EventStart, EventRetrieval, EventSources, EventError}, eventNames(events))

	payload := events[3].Data.(ErrorPayload)
	assert.Equal(t, ApologyAnswer, payload.Message)
	// 出错的轮次不写入记忆
	assert.Empty(t, mem.appends)
}

func TestStream_MidStreamFailureEndsWithApologyDone(t *testing.T) {
	mem := &fakeMemory{}
	svc := NewService(
		&fakeEmbedder{vec: []float32{0.1}},
		&fakeIndex{hits: []VectorHit{{ChunkID: 101, Score: 0.9}}},
		&fakeChunkRepo{chunks: corpusChunks()},
		&fakeChatModel{
			streamMsgs:    []*schema.Message{schema.AssistantMessage("phần đầu", nil)},
			streamRecvErr: errors.New("provider reset mid-flight"),
		},
		mem,
		testConfig(),
	)

	events := collectEvents(t, svc.Stream(context.Background(), QueryInput{Question: "q", SessionID: "s1"}))
	// token 已下发，终止事件保持 done，最终回答替换为致歉话术
	require.Equal(t, []string{EventStart, EventRetrieval, EventSources, EventToken, EventDone}, eventNames(events))

	done := events[len(events)-1].Data.(*Answer)
	assert.Equal(t, ApologyAnswer, done.Answer)
	require.Len(t, mem.appends, 1)
	assert.Contains(t, mem.appends[0], ApologyAnswer)
}

func TestStream_TrimsFinalAnswer(t *testing.T) {
	svc := NewService(
		&fakeEmbedder{vec: []float32{0.1}},
		&fakeIndex{hits: []VectorHit{{ChunkID: 101, Score: 0.9}}},
		&fakeChunkRepo{chunks: corpusChunks()},
		&fakeChatModel{streamMsgs: []*schema.Message{
			schema.AssistantMessage("  xin chào", nil),
			schema.AssistantMessage("  ", nil),
		}},
		&fakeMemory{},
		testConfig(),
	)

	events := collectEvents(t, svc.Stream(context.Background(), QueryInput{Question: "q"}))
	done := events[len(events)-1].Data.(*Answer)
	assert.Equal(t, "xin chào", done.Answer)
}

func TestStream_EmptyLLMStreamEmitsError(t *testing.T) {
	svc := NewService(
		&fakeEmbedder{vec: []float32{0.1}},
		&fakeIndex{hits: []VectorHit{{ChunkID: 101, Score: 0.9}}},
		&fakeChunkRepo{chunks: corpusChunks()},
		&fakeChatModel{streamMsgs: []*schema.Message{}},
		&fakeMemory{},
		testConfig(),
	)

	events := collectEvents(t, svc.Stream(context.Background(), QueryInput{Question: "q"}))
	names := eventNames(events)
	assert.Equal(t, EventError, names[len(names)-1])
	assert.NotContains(t, names, EventDone)
}

func TestStream_ChatModelNotConfigured(t *testing.T) {
	svc := NewService(
		&fakeEmbedder{vec: []float32{0.1}},
		&fakeIndex{hits: []VectorHit{{ChunkID: 101, Score: 0.9}}},
		&fakeChunkRepo{chunks: corpusChunks()},
		nil,
		&fakeMemory{},
		testConfig(),
	)

	events := collectEvents(t, svc.Stream(context.Background(), QueryInput{Question: "q"}))
	names := eventNames(events)
	assert.Equal(t, EventError, names[len(names)-1])
	assert.NotContains(t, names, EventToken)
}

func TestQuery_MemoryContextFlowsIntoPrompt(t *testing.T) {
	mem := &fakeMemory{contexts: map[string]string{"s1": "用户：câu trước\n助手：trả lời trước"}}
	svc := NewService(
		&fakeEmbedder{vec: []float32{0.1}},
		&fakeIndex{hits: []VectorHit{{ChunkID: 101, Score: 0.9}}},
		&fakeChunkRepo{chunks: corpusChunks()},
		&fakeChatModel{generateMsg: schema.AssistantMessage("ok", nil)},
		mem,
		testConfig(),
	)

	state := &State{Question: "hỏi tiếp", SessionID: "s1", ContextText: "ngữ cảnh"}
	msgs := svc.buildPrompt(state)
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[1].Content, "câu trước")
	assert.Contains(t, msgs[1].Content, "hỏi tiếp")
}
