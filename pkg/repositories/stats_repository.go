package repositories

import (
	"context"
	"fmt"

	"github.com/connecta-b2b/connecta-server/pkg/database"
)

// PlatformStats is the admin analytics summary.
type PlatformStats struct {
	Companies      int            `json:"companies"`
	Buyers         int            `json:"buyers"`
	Suppliers      int            `json:"suppliers"`
	Products       int            `json:"products"`
	Quotes         int            `json:"quotes"`
	QuotesByStatus map[string]int `json:"quotes_by_status"`
	OpenRFQs       int            `json:"open_rfqs"`
	Reviews        int            `json:"reviews"`
	AverageRating  float64        `json:"average_rating"`
}

// StatsRepository aggregates counts for the admin dashboard.
type StatsRepository interface {
	Summary(ctx context.Context) (*PlatformStats, error)
}

type statsRepository struct {
	db *database.DB
}

// NewStatsRepository creates a new stats repository.
func NewStatsRepository(db *database.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) Summary(ctx context.Context) (*PlatformStats, error) {
	stats := &PlatformStats{QuotesByStatus: make(map[string]int)}

	query := `
		SELECT
			(SELECT COUNT(*) FROM companies),
			(SELECT COUNT(*) FROM companies WHERE role = 'buyer'),
			(SELECT COUNT(*) FROM companies WHERE role = 'supplier'),
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM quote_requests),
			(SELECT COUNT(*) FROM open_rfqs WHERE status = 'open'),
			(SELECT COUNT(*) FROM reviews),
			(SELECT COALESCE(AVG(rating), 0) FROM reviews)`

	err := r.db.QueryRow(ctx, query).Scan(
		&stats.Companies, &stats.Buyers, &stats.Suppliers, &stats.Products,
		&stats.Quotes, &stats.OpenRFQs, &stats.Reviews, &stats.AverageRating)
	if err != nil {
		return nil, fmt.Errorf("platform stats: %w", err)
	}

	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM quote_requests GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("quote status counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan quote status count: %w", err)
		}
		stats.QuotesByStatus[status] = count
	}
	return stats, rows.Err()
}
