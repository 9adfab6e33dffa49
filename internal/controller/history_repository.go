package controller

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ajay26apr/Pest-finder/internal/types"
)

const historySchema = `
CREATE TABLE IF NOT EXISTS analyses (
	id              TEXT PRIMARY KEY,
	image_bytes     INTEGER NOT NULL,
	extracted_text  TEXT NOT NULL,
	gemini_response TEXT NOT NULL DEFAULT '',
	created_at      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at DESC);
`

// HistoryRepository хранит записи анализов в sqlite
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository открывает (и при необходимости создает) базу истории
func NewHistoryRepository(path string) (*HistoryRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	// sqlite: один писатель
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(historySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}

	return &HistoryRepository{db: db}, nil
}

// Save сохраняет запись анализа
func (r *HistoryRepository) Save(ctx context.Context, rec *types.AnalysisRecord) error {
	if rec.CreatedAt == 0 {
		rec.CreatedAt = time.Now().Unix()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO analyses (id, image_bytes, extracted_text, gemini_response, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.ImageBytes, rec.ExtractedText, rec.GeminiResponse, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("save analysis record: %w", err)
	}
	return nil
}

// Recent возвращает последние записи, не больше limit
func (r *HistoryRepository) Recent(ctx context.Context, limit int) ([]*types.AnalysisRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, image_bytes, extracted_text, gemini_response, created_at
		 FROM analyses ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	records := make([]*types.AnalysisRecord, 0, limit)
	for rows.Next() {
		rec := &types.AnalysisRecord{}
		if err := rows.Scan(&rec.ID, &rec.ImageBytes, &rec.ExtractedText, &rec.GeminiResponse, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Stats возвращает агрегаты по всей истории
func (r *HistoryRepository) Stats(ctx context.Context) (*types.HistoryStats, error) {
	stats := &types.HistoryStats{}

	row := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(image_bytes), 0),
		        COALESCE(SUM(CASE WHEN gemini_response != '' THEN 1 ELSE 0 END), 0),
		        COALESCE(MAX(created_at), 0)
		 FROM analyses`)
	if err := row.Scan(&stats.TotalAnalyses, &stats.TotalBytes, &stats.WithGemini, &stats.LastAnalysisAt); err != nil {
		return nil, fmt.Errorf("query history stats: %w", err)
	}
	return stats, nil
}

// Close закрывает базу
func (r *HistoryRepository) Close() error {
	return r.db.Close()
}
