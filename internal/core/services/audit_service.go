package services

import (
	"context"
	"log"
	"time"

	"dofe-kas/internal/adapters/persistence/models"
	"dofe-kas/internal/adapters/persistence/repositories"
	"dofe-kas/internal/core/domain"
	"dofe-kas/internal/pkg/pagination"
)

// AuditRecorder is the write side of the audit log, consumed by the other
// services as a fire-and-forget side effect.
type AuditRecorder interface {
	// Append records an audit entry. It never fails the caller: repository
	// errors are logged operationally and swallowed.
	Append(ctx context.Context, entry AuditEntry)
}

// AuditEntry describes one state-changing action to record.
type AuditEntry struct {
	Action      domain.AuditAction
	Description string
	Actor       *domain.Actor
	TargetID    *uint
	TargetName  *string
	Metadata    map[string]any
}

// AuditService handles the append-only audit trail
type AuditService struct {
	auditRepo repositories.AuditLogRepository
}

// NewAuditService creates a new audit service
func NewAuditService(auditRepo repositories.AuditLogRepository) *AuditService {
	return &AuditService{auditRepo: auditRepo}
}

// Append records an audit entry. The primary operation has already committed
// when this runs; an audit write failure must never roll it back, so errors
// only reach the operational log.
func (s *AuditService) Append(ctx context.Context, entry AuditEntry) {
	if !domain.IsValidAuditAction(entry.Action) {
		log.Printf("⚠️ Audit entry dropped: unknown action %q", entry.Action)
		return
	}

	row := &models.AuditLog{
		Action:       entry.Action,
		Description:  entry.Description,
		TargetUserID: entry.TargetID,
		TargetUser:   entry.TargetName,
	}
	if entry.Actor != nil {
		id := entry.Actor.ID
		name := entry.Actor.Nama
		row.UserID = &id
		row.UserName = &name
	}
	if entry.Metadata != nil {
		if err := row.SetMetadata(entry.Metadata); err != nil {
			log.Printf("⚠️ Audit metadata for %s not serializable: %v", entry.Action, err)
		}
	}

	if err := s.auditRepo.Create(ctx, row); err != nil {
		log.Printf("⚠️ Failed to write audit log (%s): %v", entry.Action, err)
	}
}

// QueryInput represents audit log query input
type QueryInput struct {
	Action    string
	Search    string
	StartDate *time.Time
	EndDate   *time.Time
	Params    *pagination.Params
}

// QueryOutput represents a page of audit log entries
type QueryOutput struct {
	Logs        []*models.AuditLogResponse `json:"logs"`
	TotalCount  int64                      `json:"totalCount"`
	TotalPages  int                        `json:"totalPages"`
	CurrentPage int                        `json:"currentPage"`
}

// Query lists audit entries, newest first. Pengurus only.
func (s *AuditService) Query(ctx context.Context, caller domain.Actor, input *QueryInput) (*QueryOutput, error) {
	if !domain.Authorize(caller.Role, domain.CapManageMembers) {
		return nil, domain.ErrForbidden
	}

	params := input.Params
	if params == nil {
		params = &pagination.Params{Page: 1, Limit: pagination.DefaultLimit}
	}

	filter := repositories.AuditLogFilter{
		Action:    input.Action,
		Search:    input.Search,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
	}

	entries, total, err := s.auditRepo.List(ctx, filter, params.Offset, params.Limit)
	if err != nil {
		return nil, err
	}

	logs := make([]*models.AuditLogResponse, len(entries))
	for i, entry := range entries {
		logs[i] = entry.ToResponse()
	}

	meta := pagination.GetMeta(params, total)
	return &QueryOutput{
		Logs:        logs,
		TotalCount:  meta.Total,
		TotalPages:  meta.TotalPages,
		CurrentPage: meta.Page,
	}, nil
}

// StatsOutput represents audit log statistics
type StatsOutput struct {
	Total         int64 `json:"total"`
	Today         int64 `json:"today"`
	Payments      int64 `json:"payments"`
	Verifications int64 `json:"verifications"`
}

// Stats returns audit trail statistics. Pengurus only.
func (s *AuditService) Stats(ctx context.Context, caller domain.Actor) (*StatsOutput, error) {
	if !domain.Authorize(caller.Role, domain.CapManageMembers) {
		return nil, domain.ErrForbidden
	}

	total, err := s.auditRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, err := s.auditRepo.CountSince(ctx, midnight)
	if err != nil {
		return nil, err
	}

	payments, err := s.auditRepo.CountByActionPrefix(ctx, "payment_")
	if err != nil {
		return nil, err
	}

	verifications, err := s.auditRepo.CountByAction(ctx, domain.AuditPaymentVerified)
	if err != nil {
		return nil, err
	}

	return &StatsOutput{
		Total:         total,
		Today:         today,
		Payments:      payments,
		Verifications: verifications,
	}, nil
}
