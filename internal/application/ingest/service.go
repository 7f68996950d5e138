package ingest

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"corpus-rag-api/internal/application/rag"
	"corpus-rag-api/internal/config"
	"corpus-rag-api/internal/domain/entity"
	"corpus-rag-api/internal/domain/repository"
	apperrors "corpus-rag-api/pkg/errors"
	"corpus-rag-api/pkg/logger"
	"corpus-rag-api/pkg/metrics"
)

// UploadInput 入库请求
type UploadInput struct {
	FileName    string
	Raw         []byte
	Title       string
	Description string
	Source      string
}

// UploadResult 入库结果
type UploadResult struct {
	DocumentID   int64 `json:"document_id"`
	ChapterCount int   `json:"chapter_count"`
	ChunkCount   int   `json:"chunk_count"`
}

// Service 文档入库服务
type Service struct {
	docRepo     repository.DocumentRepository
	chapterRepo repository.ChapterRepository
	chunkRepo   repository.ChunkRepository
	quoteRepo   repository.QuoteRepository
	tx          repository.Transactor
	embedder    rag.EmbedderPort
	index       rag.VectorIndex
	cfg         *config.Config
}

// NewService 创建入库服务
func NewService(
	docRepo repository.DocumentRepository,
	chapterRepo repository.ChapterRepository,
	chunkRepo repository.ChunkRepository,
	quoteRepo repository.QuoteRepository,
	tx repository.Transactor,
	embedder rag.EmbedderPort,
	index rag.VectorIndex,
	cfg *config.Config,
) *Service {
	return &Service{
		docRepo:     docRepo,
		chapterRepo: chapterRepo,
		chunkRepo:   chunkRepo,
		quoteRepo:   quoteRepo,
		tx:          tx,
		embedder:    embedder,
		index:       index,
		cfg:         cfg,
	}
}

// Upload 执行完整入库流程：落盘、抽取、分章、分块、向量化、写索引
// 抽取退化不阻断入库；向量化或索引写入失败则整体失败。
func (s *Service) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	start := time.Now()
	log := logger.FromContext(ctx)

	format := "docx"
	if len(in.Raw) >= 4 && string(in.Raw[:4]) == "%PDF" {
		format = "pdf"
	}

	filePath, err := s.saveFile(in.FileName, in.Raw)
	if err != nil {
		metrics.IngestionTotal.WithLabelValues("error").Inc()
		return nil, apperrors.Wrap(err, apperrors.CodeIngestionFailed, "failed to store uploaded file")
	}

	text := ExtractText(in.Raw)
	if text == "" {
		log.Warn("extracted empty text, document will have no chunks", "file", in.FileName)
	}

	segments := SplitChapters(text)

	// 关系数据在单个事务内写入，拿到各级自增 ID
	doc := entity.NewDocument(in.Title, in.Description, filePath, in.Source)
	var chunks []*entity.Chunk

	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.docRepo.Create(txCtx, doc); err != nil {
			return err
		}

		for i, seg := range segments {
			chapter := entity.NewChapter(doc.ID, seg.Title, seg.Content, i+1)
			if err := s.chapterRepo.Create(txCtx, chapter); err != nil {
				return err
			}

			pieces := ChunkByChars(seg.Content, s.cfg.RAG.ChunkMaxChars, s.cfg.RAG.ChunkOverlapChars)
			for j, piece := range pieces {
				chunks = append(chunks, entity.NewChunk(chapter.ID, j, piece))
			}
		}

		return s.chunkRepo.CreateBatch(txCtx, chunks)
	})
	if err != nil {
		metrics.IngestionTotal.WithLabelValues("error").Inc()
		return nil, apperrors.Wrap(err, apperrors.CodeIngestionFailed, "failed to persist document")
	}

	if len(chunks) > 0 {
		if err := s.indexChunks(ctx, doc.ID, chunks); err != nil {
			metrics.IngestionTotal.WithLabelValues("error").Inc()
			return nil, err
		}
	}

	metrics.IngestionTotal.WithLabelValues("success").Inc()
	metrics.IngestionDuration.WithLabelValues(format).Observe(time.Since(start).Seconds())
	metrics.IngestionChunks.WithLabelValues(format).Observe(float64(len(chunks)))

	log.Info("document ingested",
		"document_id", doc.ID,
		"chapters", len(segments),
		"chunks", len(chunks),
		"elapsed", time.Since(start).String(),
	)

	return &UploadResult{
		DocumentID:   doc.ID,
		ChapterCount: len(segments),
		ChunkCount:   len(chunks),
	}, nil
}

// indexChunks 向量化分块并写入索引，回写点位 ID
func (s *Service) indexChunks(ctx context.Context, documentID int64, chunks []*entity.Chunk) error {
	if s.embedder == nil || s.index == nil {
		return apperrors.New(apperrors.CodeVectorDBError, "vector indexing not configured")
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.ChunkText
	}

	vectors, err := s.embedder.EmbedMany(ctx, texts)
	if err != nil {
		return err
	}

	points := make([]rag.VectorPoint, len(chunks))
	for i, c := range chunks {
		points[i] = rag.VectorPoint{
			ID:         c.ID,
			Vector:     vectors[i],
			DocumentID: documentID,
			ChapterID:  c.ChapterID,
			ChunkIndex: c.ChunkIndex,
			CreatedAt:  c.CreatedAt.UTC().Format(time.RFC3339),
		}
	}

	if err := s.index.Upsert(ctx, points); err != nil {
		return err
	}

	for _, c := range chunks {
		pointID := strconv.FormatInt(c.ID, 10)
		if err := s.chunkRepo.UpdateVectorPointID(ctx, c.ID, pointID); err != nil {
			return err
		}
	}
	return nil
}

// DeleteDocument 删除文档及其所有派生数据
// 向量删除尽力而为，失败只记日志；关系数据在单事务内按依赖顺序删除。
func (s *Service) DeleteDocument(ctx context.Context, documentID int64) error {
	log := logger.FromContext(ctx)

	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return err
	}
	if doc == nil {
		return apperrors.ErrDocumentNotFound
	}

	chunkIDs, err := s.chunkRepo.ListIDsByDocument(ctx, documentID)
	if err != nil {
		return err
	}

	if len(chunkIDs) > 0 && s.index != nil {
		if err := s.index.DeleteByIDs(ctx, chunkIDs); err != nil {
			log.Warn("vector deletion failed, continuing with relational delete",
				"document_id", documentID, "error", err.Error())
		}
	}

	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.quoteRepo.DeleteByDocument(txCtx, documentID); err != nil {
			return err
		}
		if err := s.chunkRepo.DeleteByDocument(txCtx, documentID); err != nil {
			return err
		}
		if err := s.chapterRepo.DeleteByDocument(txCtx, documentID); err != nil {
			return err
		}
		return s.docRepo.Delete(txCtx, documentID)
	})
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to delete document")
	}

	if doc.FilePath != "" {
		if err := os.Remove(doc.FilePath); err != nil && !os.IsNotExist(err) {
			log.Warn("failed to remove stored file", "path", doc.FilePath, "error", err.Error())
		}
	}

	log.Info("document deleted", "document_id", documentID, "chunks", len(chunkIDs))
	return nil
}

// saveFile 以内容哈希为文件名落盘，避免重名覆盖
func (s *Service) saveFile(name string, raw []byte) (string, error) {
	if err := os.MkdirAll(s.cfg.Upload.Dir, 0o755); err != nil {
		return "", err
	}

	sum := md5.Sum(raw)
	ext := filepath.Ext(name)
	fileName := fmt.Sprintf("%s%s", hex.EncodeToString(sum[:]), ext)
	path := filepath.Join(s.cfg.Upload.Dir, fileName)

	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
