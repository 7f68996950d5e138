// Package main 系统初始化入口：建表并准备向量集合
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"corpus-rag-api/internal/config"
	"corpus-rag-api/internal/domain/entity"
	"corpus-rag-api/internal/wire"
)

func main() {
	_ = godotenv.Load()

	fmt.Println("Starting system bootstrap...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	dataLayer, cleanup, err := wire.InitializeDataLayer(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize data layer: %v", err)
	}
	defer cleanup()

	// 1. 关系表迁移
	fmt.Println("Migrating relational schema...")
	err = dataLayer.PgClient.DB().AutoMigrate(
		&entity.Document{},
		&entity.Chapter{},
		&entity.Chunk{},
		&entity.Quote{},
		&entity.Post{},
		&entity.Report{},
	)
	if err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}
	fmt.Println("Relational schema migrated.")

	// 2. 向量集合（幂等）
	fmt.Printf("Ensuring milvus collection %q...\n", cfg.Vector.Milvus.Collection)
	if err := dataLayer.VectorRepo.EnsureCollection(ctx); err != nil {
		log.Fatalf("failed to ensure milvus collection: %v", err)
	}
	fmt.Println("Milvus collection ready.")

	fmt.Println("Bootstrap completed successfully.")
}
