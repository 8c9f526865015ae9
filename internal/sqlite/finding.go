package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/audithive/arbiter/internal/domain/finding"
	"github.com/audithive/arbiter/internal/repository"
)

// FindingRepository implements repository.FindingRepository for SQLite
type FindingRepository struct {
	db *DB
}

// NewFindingRepository creates a new FindingRepository
func NewFindingRepository(db *DB) *FindingRepository {
	return &FindingRepository{db: db}
}

// InsertPending stores new findings with status pending, skipping any
// (project, agent, finding_id) already on record. Returns the inserted
// records with their sequence numbers assigned.
func (r *FindingRepository) InsertPending(ctx context.Context, recs []*finding.Record) ([]*finding.Record, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT OR IGNORE INTO findings
			(project_id, agent_id, finding_id, description, severity,
			 recommendation, code_reference, status, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 'pending', '', ?)
	`

	var inserted []*finding.Record
	for _, rec := range recs {
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = time.Now().UTC()
		}
		res, err := tx.ExecContext(ctx, query,
			rec.ProjectID,
			rec.AgentID,
			rec.FindingID,
			rec.Description,
			string(rec.Severity),
			rec.Recommendation,
			rec.CodeReference,
			rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert finding %s: %w", rec.FindingID, err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			// Already submitted by this agent; its classification stands.
			continue
		}

		seq, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to get inserted seq: %w", err)
		}
		rec.Seq = seq
		rec.Status = finding.StatusPending
		inserted = append(inserted, rec)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return inserted, nil
}

const findingColumns = `seq, project_id, agent_id, finding_id, description,
	severity, recommendation, code_reference, status, detail, created_at`

// ListFinalized returns a project's findings with a fixed outcome, ordered
// by acceptance.
func (r *FindingRepository) ListFinalized(ctx context.Context, projectID string) ([]finding.Record, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM findings
		WHERE project_id = ? AND status IN ('unique', 'duplicated', 'disputed')
		ORDER BY seq ASC
	`, findingColumns)
	return r.list(ctx, query, projectID)
}

// ListUnresolved returns a project's findings with no outcome yet, ordered
// by acceptance. Pending rows are included so findings stranded by an
// aborted batch are retried alongside deferred ones.
func (r *FindingRepository) ListUnresolved(ctx context.Context, projectID string) ([]finding.Record, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM findings
		WHERE project_id = ? AND status IN ('pending', 'deferred')
		ORDER BY seq ASC
	`, findingColumns)
	return r.list(ctx, query, projectID)
}

func (r *FindingRepository) list(ctx context.Context, query string, args ...any) ([]finding.Record, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list findings: %w", err)
	}
	defer rows.Close()

	var out []finding.Record
	for rows.Next() {
		var rec finding.Record
		var severity, status string
		err := rows.Scan(
			&rec.Seq,
			&rec.ProjectID,
			&rec.AgentID,
			&rec.FindingID,
			&rec.Description,
			&severity,
			&rec.Recommendation,
			&rec.CodeReference,
			&status,
			&rec.Detail,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan finding: %w", err)
		}
		rec.Severity = finding.Severity(severity)
		rec.Status = finding.Status(status)
		out = append(out, rec)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating finding rows: %w", err)
	}

	return out, nil
}

// ProjectsWithUnresolved lists project ids that still have findings without
// an outcome.
func (r *FindingRepository) ProjectsWithUnresolved(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT project_id FROM findings WHERE status IN ('pending', 'deferred') ORDER BY project_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list unresolved projects: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan project id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Finalize fixes a finding's outcome and increments the matching agent
// counter in one transaction. Either both writes commit or neither does.
func (r *FindingRepository) Finalize(ctx context.Context, rec *finding.Record, outcome finding.Outcome, detail string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE findings
		SET status = ?, detail = ?
		WHERE seq = ? AND status IN ('pending', 'deferred')
	`, string(outcome.Status()), detail, rec.Seq)
	if err != nil {
		return fmt.Errorf("failed to assign outcome: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrAlreadyFinal
	}

	var uniqueInc, dupInc, dispInc int
	switch outcome {
	case finding.OutcomeUnique:
		uniqueInc = 1
	case finding.OutcomeDuplicated:
		dupInc = 1
	case finding.OutcomeDisputed:
		dispInc = 1
	default:
		return fmt.Errorf("unknown outcome %q", outcome)
	}

	firstAt := rec.CreatedAt
	if firstAt.IsZero() {
		firstAt = time.Now().UTC()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO agent_stats
			(project_id, agent_id, unique_count, duplicated_count, disputed_count, first_contribution_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(project_id, agent_id) DO UPDATE SET
			unique_count = unique_count + excluded.unique_count,
			duplicated_count = duplicated_count + excluded.duplicated_count,
			disputed_count = disputed_count + excluded.disputed_count
	`, rec.ProjectID, rec.AgentID, uniqueInc, dupInc, dispInc, firstAt)
	if err != nil {
		return fmt.Errorf("failed to update agent stats: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	rec.Status = outcome.Status()
	rec.Detail = detail
	return nil
}

// Defer parks a finding without an outcome. No counter is touched.
func (r *FindingRepository) Defer(ctx context.Context, seq int64, detail string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE findings
		SET status = 'deferred', detail = ?
		WHERE seq = ? AND status IN ('pending', 'deferred')
	`, detail, seq)
	if err != nil {
		return fmt.Errorf("failed to defer finding: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrAlreadyFinal
	}
	return nil
}
