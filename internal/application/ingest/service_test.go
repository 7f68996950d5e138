package ingest

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corpus-rag-api/internal/application/rag"
	"corpus-rag-api/internal/config"
	"corpus-rag-api/internal/domain/entity"
	"corpus-rag-api/internal/domain/repository"
	apperrors "corpus-rag-api/pkg/errors"
)

type memDocRepo struct {
	docs   map[int64]*entity.Document
	nextID int64
}

func newMemDocRepo() *memDocRepo {
	return &memDocRepo{docs: map[int64]*entity.Document{}, nextID: 1}
}

func (r *memDocRepo) Create(_ context.Context, doc *entity.Document) error {
	doc.ID = r.nextID
	r.nextID++
	r.docs[doc.ID] = doc
	return nil
}

func (r *memDocRepo) GetByID(_ context.Context, id int64) (*entity.Document, error) {
	return r.docs[id], nil
}

func (r *memDocRepo) GetWithChapters(_ context.Context, id int64) (*entity.Document, error) {
	return r.docs[id], nil
}

func (r *memDocRepo) List(_ context.Context) ([]repository.DocumentSummary, error) {
	return nil, nil
}

func (r *memDocRepo) Delete(_ context.Context, id int64) error {
	delete(r.docs, id)
	return nil
}

func (r *memDocRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.docs)), nil
}

type memChapterRepo struct {
	chapters []*entity.Chapter
	nextID   int64
}

func (r *memChapterRepo) Create(_ context.Context, chapter *entity.Chapter) error {
	r.nextID++
	chapter.ID = r.nextID
	r.chapters = append(r.chapters, chapter)
	return nil
}

func (r *memChapterRepo) ListByDocument(_ context.Context, documentID int64) ([]*entity.Chapter, error) {
	var out []*entity.Chapter
	for _, c := range r.chapters {
		if c.DocumentID == documentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memChapterRepo) DeleteByDocument(_ context.Context, documentID int64) error {
	kept := r.chapters[:0]
	for _, c := range r.chapters {
		if c.DocumentID != documentID {
			kept = append(kept, c)
		}
	}
	r.chapters = kept
	return nil
}

type memChunkRepo struct {
	chunks   []*entity.Chunk
	nextID   int64
	pointIDs map[int64]string
}

func newMemChunkRepo() *memChunkRepo {
	return &memChunkRepo{pointIDs: map[int64]string{}}
}

func (r *memChunkRepo) CreateBatch(_ context.Context, chunks []*entity.Chunk) error {
	for _, c := range chunks {
		r.nextID++
		c.ID = r.nextID
		r.chunks = append(r.chunks, c)
	}
	return nil
}

func (r *memChunkRepo) UpdateVectorPointID(_ context.Context, id int64, pointID string) error {
	r.pointIDs[id] = pointID
	return nil
}

func (r *memChunkRepo) GetByIDs(_ context.Context, _ []int64) ([]*entity.Chunk, error) {
	return nil, nil
}

func (r *memChunkRepo) ListIDsByDocument(_ context.Context, _ int64) ([]int64, error) {
	ids := make([]int64, 0, len(r.chunks))
	for _, c := range r.chunks {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

func (r *memChunkRepo) DeleteByDocument(_ context.Context, _ int64) error {
	r.chunks = nil
	return nil
}

func (r *memChunkRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.chunks)), nil
}

type memQuoteRepo struct{}

func (memQuoteRepo) DeleteByDocument(_ context.Context, _ int64) error { return nil }

type passthroughTx struct{}

func (passthroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubEmbedder struct {
	dim int
	err error
}

func (s *stubEmbedder) EmbedOne(_ context.Context, _ string) ([]float32, error) {
	return make([]float32, s.dim), s.err
}

func (s *stubEmbedder) EmbedMany(_ context.Context, texts []string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = make([]float32, s.dim)
	}
	return out, nil
}

type stubIndex struct {
	upserted []rag.VectorPoint
	deleted  []int64
	delErr   error
}

func (s *stubIndex) EnsureCollection(_ context.Context) error { return nil }

func (s *stubIndex) Upsert(_ context.Context, points []rag.VectorPoint) error {
	s.upserted = append(s.upserted, points...)
	return nil
}

func (s *stubIndex) Search(_ context.Context, _ []float32, _ int, _ *rag.VectorFilter) ([]rag.VectorHit, error) {
	return nil, nil
}

func (s *stubIndex) DeleteByIDs(_ context.Context, ids []int64) error {
	s.deleted = append(s.deleted, ids...)
	return s.delErr
}

func ingestConfig(t *testing.T) *config.Config {
	cfg := &config.Config{}
	cfg.Upload.Dir = t.TempDir()
	cfg.RAG.ChunkMaxChars = 50
	cfg.RAG.ChunkOverlapChars = 10
	return cfg
}

func newIngestService(t *testing.T, docs *memDocRepo, chunks *memChunkRepo, index *stubIndex) *Service {
	t.Helper()
	return NewService(
		docs,
		&memChapterRepo{},
		chunks,
		memQuoteRepo{},
		passthroughTx{},
		&stubEmbedder{dim: 4},
		index,
		ingestConfig(t),
	)
}

func TestUpload_FullPipeline(t *testing.T) {
	docs := newMemDocRepo()
	chunks := newMemChunkRepo()
	index := &stubIndex{}
	svc := newIngestService(t, docs, chunks, index)

	text := "lời giới thiệu\nChapter 1 Start\n" +
		"nội dung chương một dài hơn năm mươi ký tự để sinh ra nhiều phân đoạn trong chương này"
	res, err := svc.Upload(context.Background(), UploadInput{
		FileName: "book.docx",
		Raw:      []byte(text),
		Title:    "Sách thử nghiệm",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, res.ChapterCount)
	assert.Greater(t, res.ChunkCount, 1)
	assert.Len(t, index.upserted, res.ChunkCount)
	// 点位 ID 回写为分块 ID 字符串
	assert.Len(t, chunks.pointIDs, res.ChunkCount)
	for id, pointID := range chunks.pointIDs {
		assert.Equal(t, strconv.FormatInt(id, 10), pointID)
	}

	doc, err := docs.GetByID(context.Background(), res.DocumentID)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.FileExists(t, doc.FilePath)
}

func TestUpload_EmptyTextYieldsSingleChapterNoChunks(t *testing.T) {
	index := &stubIndex{}
	svc := newIngestService(t, newMemDocRepo(), newMemChunkRepo(), index)

	res, err := svc.Upload(context.Background(), UploadInput{
		FileName: "blank.docx",
		Raw:      []byte{0x00, 0x00},
		Title:    "Trống",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.ChapterCount)
	assert.Zero(t, res.ChunkCount)
	assert.Empty(t, index.upserted)
}

func TestUpload_EmbeddingFailureAborts(t *testing.T) {
	svc := NewService(
		newMemDocRepo(),
		&memChapterRepo{},
		newMemChunkRepo(),
		memQuoteRepo{},
		passthroughTx{},
		&stubEmbedder{err: errors.New("embedding api down")},
		&stubIndex{},
		ingestConfig(t),
	)

	_, err := svc.Upload(context.Background(), UploadInput{
		FileName: "book.docx",
		Raw:      []byte("some content to chunk"),
		Title:    "T",
	})
	assert.Error(t, err)
}

func TestUpload_VectorIndexNotConfigured(t *testing.T) {
	svc := NewService(
		newMemDocRepo(),
		&memChapterRepo{},
		newMemChunkRepo(),
		memQuoteRepo{},
		passthroughTx{},
		nil,
		nil,
		ingestConfig(t),
	)

	_, err := svc.Upload(context.Background(), UploadInput{
		FileName: "book.docx",
		Raw:      []byte("some content to chunk"),
		Title:    "T",
	})
	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeVectorDBError, appErr.Code)
}

func TestDeleteDocument_UnknownID(t *testing.T) {
	svc := newIngestService(t, newMemDocRepo(), newMemChunkRepo(), &stubIndex{})

	err := svc.DeleteDocument(context.Background(), 404)
	assert.ErrorIs(t, err, apperrors.ErrDocumentNotFound)
}

func TestDeleteDocument_VectorFailureDoesNotBlock(t *testing.T) {
	docs := newMemDocRepo()
	chunks := newMemChunkRepo()
	index := &stubIndex{delErr: errors.New("milvus unreachable")}
	svc := newIngestService(t, docs, chunks, index)

	res, err := svc.Upload(context.Background(), UploadInput{
		FileName: "book.docx",
		Raw:      []byte("nội dung đủ dài để có ít nhất một phân đoạn"),
		Title:    "T",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteDocument(context.Background(), res.DocumentID))

	doc, err := docs.GetByID(context.Background(), res.DocumentID)
	require.NoError(t, err)
	assert.Nil(t, doc)
	assert.NotEmpty(t, index.deleted)
}
