// Package postgres provides the Postgres-backed workload store.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ArsenAbrahamyann/trainerService/internal/domain"
)

// Repository stores one row per trainer with the full year/month totals
// map held as JSONB.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// FindByUsername implements domain.WorkloadRepository.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*domain.WorkloadRecord, error) {
	const query = `SELECT id, trainer_username, first_name, last_name, is_active, monthly_totals
        FROM trainer_workloads WHERE trainer_username = $1`

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	var (
		record domain.WorkloadRecord
		totals []byte
	)
	row := conn.QueryRow(ctx, query, username)
	if err := row.Scan(&record.ID, &record.TrainerUsername, &record.FirstName, &record.LastName, &record.IsActive, &totals); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	record.MonthlyTotals = make(map[int]map[int]int)
	if len(totals) > 0 {
		if err := json.Unmarshal(totals, &record.MonthlyTotals); err != nil {
			return nil, fmt.Errorf("decode monthly totals for %s: %w", username, err)
		}
	}
	return &record, nil
}

// Save implements domain.WorkloadRepository, upserting on the unique trainer
// username index.
func (r *Repository) Save(ctx context.Context, record *domain.WorkloadRecord) error {
	const stmt = `INSERT INTO trainer_workloads (id, trainer_username, first_name, last_name, is_active, monthly_totals, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,NOW())
        ON CONFLICT (trainer_username) DO UPDATE SET
            first_name = EXCLUDED.first_name,
            last_name = EXCLUDED.last_name,
            is_active = EXCLUDED.is_active,
            monthly_totals = EXCLUDED.monthly_totals,
            updated_at = NOW()`

	id := record.ID
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}

	totals, err := json.Marshal(record.MonthlyTotals)
	if err != nil {
		return fmt.Errorf("encode monthly totals for %s: %w", record.TrainerUsername, err)
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, stmt, id, record.TrainerUsername, record.FirstName, record.LastName, record.IsActive, totals)
	return err
}
