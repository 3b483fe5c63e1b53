package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/asset-service/internal/domain"
)

// TicketFilter captures ticket search parameters.
type TicketFilter struct {
	RequesterID *string
	AssigneeID  *string
	AssetID     *string
	Statuses    []domain.TicketStatus
	Priorities  []domain.TicketPriority
	Escalated   *bool
	SearchTerm  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// TicketRepository encapsulates service ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.ServiceTicket) error
	Update(ctx context.Context, ticket *domain.ServiceTicket) error
	GetByID(ctx context.Context, id string) (*domain.ServiceTicket, error)
	GetByNumber(ctx context.Context, number string) (*domain.ServiceTicket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.ServiceTicket, error)
	ListResolvedBefore(ctx context.Context, cutoff time.Time) ([]domain.ServiceTicket, error)
	ListOverdueUnescalated(ctx context.Context, now time.Time) ([]domain.ServiceTicket, error)
	CountByStatus(ctx context.Context) (map[domain.TicketStatus]int, error)
	CountByPriority(ctx context.Context) (map[domain.TicketPriority]int, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, ticket_number, requester_id, requester_name, assignee_id, asset_id,
               title, description, status, priority, sla_response_target, sla_resolution_target,
               sla_response, sla_resolution, resolution, escalated, rating,
               responded_at, resolved_at, closed_at, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.ServiceTicket) error {
	const query = `
        INSERT INTO service_tickets (ticket_number, requester_id, requester_name, assignee_id, asset_id,
            title, description, status, priority, sla_response_target, sla_resolution_target,
            sla_response, sla_resolution, escalated)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.TicketNumber,
		ticket.RequesterID,
		ticket.RequesterName,
		ticket.AssigneeID,
		ticket.AssetID,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.SLAResponseTarget,
		ticket.SLAResolutionTarget,
		ticket.SLAResponse,
		ticket.SLAResolution,
		ticket.Escalated,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.ServiceTicket) error {
	const query = `
        UPDATE service_tickets SET assignee_id=$1, asset_id=$2, title=$3, description=$4,
            status=$5, priority=$6, sla_response_target=$7, sla_resolution_target=$8,
            sla_response=$9, sla_resolution=$10, resolution=$11, escalated=$12, rating=$13,
            responded_at=$14, resolved_at=$15, closed_at=$16, updated_at=NOW()
        WHERE id=$17`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.AssigneeID,
		ticket.AssetID,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.SLAResponseTarget,
		ticket.SLAResolutionTarget,
		ticket.SLAResponse,
		ticket.SLAResolution,
		ticket.Resolution,
		ticket.Escalated,
		ticket.Rating,
		ticket.RespondedAt,
		ticket.ResolvedAt,
		ticket.ClosedAt,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.ServiceTicket, error) {
	query := fmt.Sprintf(`SELECT %s FROM service_tickets WHERE id=$1`, ticketColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketRepository) GetByNumber(ctx context.Context, number string) (*domain.ServiceTicket, error) {
	query := fmt.Sprintf(`SELECT %s FROM service_tickets WHERE ticket_number=$1`, ticketColumns)
	return r.fetchSingle(ctx, query, number)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.ServiceTicket, error) {
	row := r.pool.QueryRow(ctx, query, arg)
	ticket, err := scanTicket(row)
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.ServiceTicket, error) {
	base := fmt.Sprintf(`SELECT %s FROM service_tickets`, ticketColumns)
	clauses := []string{"1=1"}
	args := []any{}

	if filter.RequesterID != nil {
		args = append(args, *filter.RequesterID)
		clauses = append(clauses, fmt.Sprintf("requester_id=$%d", len(args)))
	}
	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		clauses = append(clauses, fmt.Sprintf("assignee_id=$%d", len(args)))
	}
	if filter.AssetID != nil {
		args = append(args, *filter.AssetID)
		clauses = append(clauses, fmt.Sprintf("asset_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.Escalated != nil {
		args = append(args, *filter.Escalated)
		clauses = append(clauses, fmt.Sprintf("escalated=$%d", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s OR LOWER(ticket_number) LIKE %s)", placeholder, placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

// ListResolvedBefore returns resolved tickets whose resolved_at precedes
// the cutoff. Used by the auto-close sweep; already closed tickets never
// match, which makes repeated sweeps idempotent.
func (r *ticketRepository) ListResolvedBefore(ctx context.Context, cutoff time.Time) ([]domain.ServiceTicket, error) {
	query := fmt.Sprintf(`SELECT %s FROM service_tickets WHERE status=$1 AND resolved_at IS NOT NULL AND resolved_at < $2 ORDER BY resolved_at ASC`, ticketColumns)
	rows, err := r.pool.Query(ctx, query, domain.TicketStatusResolved, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

// ListOverdueUnescalated returns open tickets past their resolution target
// that have not been escalated yet.
func (r *ticketRepository) ListOverdueUnescalated(ctx context.Context, now time.Time) ([]domain.ServiceTicket, error) {
	query := fmt.Sprintf(`SELECT %s FROM service_tickets
        WHERE status IN ($1,$2,$3) AND escalated=FALSE AND sla_resolution_target < $4
        ORDER BY sla_resolution_target ASC`, ticketColumns)
	rows, err := r.pool.Query(ctx, query,
		domain.TicketStatusOpen,
		domain.TicketStatusInProgress,
		domain.TicketStatusWaitingParts,
		now,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) CountByStatus(ctx context.Context) (map[domain.TicketStatus]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM service_tickets GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[domain.TicketStatus]int)
	for rows.Next() {
		var status domain.TicketStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		result[status] = count
	}
	return result, rows.Err()
}

func (r *ticketRepository) CountByPriority(ctx context.Context) (map[domain.TicketPriority]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT priority, COUNT(*) FROM service_tickets GROUP BY priority`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[domain.TicketPriority]int)
	for rows.Next() {
		var priority domain.TicketPriority
		var count int
		if err := rows.Scan(&priority, &count); err != nil {
			return nil, err
		}
		result[priority] = count
	}
	return result, rows.Err()
}

func scanTicket(row pgx.Row) (*domain.ServiceTicket, error) {
	var ticket domain.ServiceTicket
	if err := row.Scan(
		&ticket.ID,
		&ticket.TicketNumber,
		&ticket.RequesterID,
		&ticket.RequesterName,
		&ticket.AssigneeID,
		&ticket.AssetID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.SLAResponseTarget,
		&ticket.SLAResolutionTarget,
		&ticket.SLAResponse,
		&ticket.SLAResolution,
		&ticket.Resolution,
		&ticket.Escalated,
		&ticket.Rating,
		&ticket.RespondedAt,
		&ticket.ResolvedAt,
		&ticket.ClosedAt,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.ServiceTicket, error) {
	var result []domain.ServiceTicket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}
