package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/application/dto"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/application/sideeffect"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/event"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/model"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/port"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/service"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/valueobject"
)

// escalationRoles receive internal alerts when a client's delinquency grade
// climbs.
var escalationRoles = []string{"ADMIN", "SUPERVISOR"}

// RunDelinquencySweepUseCase is the mora engine. Each run walks overdue
// installments, reclassifies loans in and out of arrears and regrades every
// active borrower. Every entity is processed in its own transaction so one
// bad row never blocks the rest; the report distinguishes per-entity errors
// from whole-step failures.
type RunDelinquencySweepUseCase struct {
	uow       port.UnitOfWork
	notifier  port.NotificationPort
	push      port.PushPort
	broadcast port.BroadcastPort
	logger    *slog.Logger
}

// NewRunDelinquencySweepUseCase wires dependencies.
func NewRunDelinquencySweepUseCase(
	uow port.UnitOfWork,
	notifier port.NotificationPort,
	push port.PushPort,
	broadcast port.BroadcastPort,
	logger *slog.Logger,
) *RunDelinquencySweepUseCase {
	return &RunDelinquencySweepUseCase{
		uow:       uow,
		notifier:  notifier,
		push:      push,
		broadcast: broadcast,
		logger:    logger,
	}
}

// Execute runs one sweep as of the given reference time (zero means now).
// The sweep is idempotent: re-running it against an unchanged book marks
// nothing new and sends no duplicate escalations.
func (uc *RunDelinquencySweepUseCase) Execute(ctx context.Context, asOf time.Time) dto.SweepReport {
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}
	report := dto.SweepReport{AsOf: asOf}

	uc.logger.Info("delinquency sweep started", "as_of", asOf)

	uc.markOverdueInstallments(ctx, asOf, &report)
	uc.reclassifyLoans(ctx, asOf, &report)
	uc.regradeClients(ctx, asOf, &report)
	uc.broadcastReport(ctx, &report)

	uc.logger.Info("delinquency sweep finished",
		"overdue_marked", report.OverdueMarked,
		"loans_into_arrears", report.LoansIntoArrears,
		"loans_cleared", report.LoansCleared,
		"clients_regraded", report.ClientsRegraded,
		"escalations_notified", report.EscalationsNotified,
		"entity_errors", len(report.EntityErrors),
		"step_failures", len(report.StepFailures))
	return report
}

// markOverdueInstallments flags every unpaid installment whose effective due
// date lies strictly before the reference time.
func (uc *RunDelinquencySweepUseCase) markOverdueInstallments(ctx context.Context, asOf time.Time, report *dto.SweepReport) {
	due, err := uc.uow.Repos().Installments().ListDueBefore(ctx, asOf)
	if err != nil {
		report.StepFailures = append(report.StepFailures, dto.SweepError{
			Step: "mark_overdue", Message: err.Error(),
		})
		return
	}

	for _, inst := range due {
		id := inst.ID
		err := uc.uow.WithTransaction(ctx, func(ctx context.Context, repos port.Repositories) error {
			i, err := repos.Installments().FindByID(ctx, id)
			if err != nil {
				return err
			}
			if i.State.Equal(valueobject.InstallmentStateOverdue) {
				return nil
			}
			i.MarkOverdue(asOf)
			return repos.Installments().Update(ctx, i)
		})
		if err != nil {
			report.EntityErrors = append(report.EntityErrors, dto.SweepError{
				Step: "mark_overdue", EntityID: id.String(), Message: err.Error(),
			})
			continue
		}
		report.OverdueMarked++
	}
}

// reclassifyLoans moves ACTIVE loans with overdue installments into
// IN_ARREARS and clears IN_ARREARS loans whose arrears were paid off.
func (uc *RunDelinquencySweepUseCase) reclassifyLoans(ctx context.Context, asOf time.Time, report *dto.SweepReport) {
	loans, err := uc.uow.Repos().Loans().ListByState(ctx,
		valueobject.LoanStateActive, valueobject.LoanStateInArrears)
	if err != nil {
		report.StepFailures = append(report.StepFailures, dto.SweepError{
			Step: "reclassify_loans", Message: err.Error(),
		})
		return
	}

	for _, loan := range loans {
		id := loan.ID
		var intoArrears, cleared bool
		err := uc.uow.WithTransaction(ctx, func(ctx context.Context, repos port.Repositories) error {
			l, err := repos.Loans().FindByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			overdue, err := repos.Installments().CountOverdueByLoan(ctx, l.ID)
			if err != nil {
				return err
			}

			switch {
			case overdue > 0 && l.State.Equal(valueobject.LoanStateActive):
				if err := l.MarkInArrears(asOf); err != nil {
					return err
				}
				intoArrears = true
			case overdue == 0 && l.State.Equal(valueobject.LoanStateInArrears):
				if err := l.ClearArrears(asOf); err != nil {
					return err
				}
				cleared = true
			default:
				return nil
			}
			return repos.Loans().Update(ctx, l)
		})
		if err != nil {
			report.EntityErrors = append(report.EntityErrors, dto.SweepError{
				Step: "reclassify_loans", EntityID: id.String(), Message: err.Error(),
			})
			continue
		}
		if intoArrears {
			report.LoansIntoArrears++
		}
		if cleared {
			report.LoansCleared++
		}
	}
}

// regradeClients recomputes the delinquency grade of every borrower with a
// payable loan, plus anyone still carrying a grade above the minimum, from
// the oldest overdue installment across their loans. The second group is how
// a client whose arrears loan went straight to PAID gets reset back to
// green. Escalation alerts fire only when the stored ordinal climbs, which
// keeps re-runs silent.
func (uc *RunDelinquencySweepUseCase) regradeClients(ctx context.Context, asOf time.Time, report *dto.SweepReport) {
	clients, err := uc.uow.Repos().Clients().ListRiskReviewCandidates(ctx)
	if err != nil {
		report.StepFailures = append(report.StepFailures, dto.SweepError{
			Step: "regrade_clients", Message: err.Error(),
		})
		return
	}

	for _, client := range clients {
		if client.Blacklisted {
			continue
		}

		id := client.ID
		var (
			grade     service.RiskGrade
			daysLate  int
			escalated bool
		)
		err := uc.uow.WithTransaction(ctx, func(ctx context.Context, repos port.Repositories) error {
			c, err := repos.Clients().FindByID(ctx, id)
			if err != nil {
				return err
			}

			daysLate, err = uc.clientDaysLate(ctx, repos, c.ID, asOf)
			if err != nil {
				return err
			}
			grade = service.GradeDaysLate(daysLate)
			if grade.Ordinal == c.LastRiskOrdinal {
				return nil
			}

			escalated = grade.Ordinal > c.LastRiskOrdinal
			if escalated {
				report.ClientsRegraded++
			} else {
				report.ClientsReset++
			}
			c.ApplyRiskGrade(grade.Level, grade.Ordinal, asOf)
			return repos.Clients().Update(ctx, c)
		})
		if err != nil {
			report.EntityErrors = append(report.EntityErrors, dto.SweepError{
				Step: "regrade_clients", EntityID: id.String(), Message: err.Error(),
			})
			continue
		}

		if escalated {
			uc.notifyEscalation(ctx, client, grade, daysLate, report)
		}
	}
}

// clientDaysLate returns the age in days of the client's oldest overdue
// installment across all payable loans, zero when nothing is overdue.
func (uc *RunDelinquencySweepUseCase) clientDaysLate(ctx context.Context, repos port.Repositories, clientID uuid.UUID, asOf time.Time) (int, error) {
	loans, err := repos.Loans().ListByClient(ctx, clientID)
	if err != nil {
		return 0, err
	}

	var oldest *time.Time
	for _, l := range loans {
		if l.Deleted() || !l.State.Payable() {
			continue
		}
		due, err := repos.Installments().EarliestOverdueDueByLoan(ctx, l.ID)
		if err != nil {
			return 0, err
		}
		if due != nil && (oldest == nil || due.Before(*oldest)) {
			oldest = due
		}
	}
	if oldest == nil {
		return 0, nil
	}

	days := int(asOf.Sub(*oldest).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return days, nil
}

func (uc *RunDelinquencySweepUseCase) notifyEscalation(ctx context.Context, client *model.Client, grade service.RiskGrade, daysLate int, report *dto.SweepReport) {
	notice := port.Notice{
		Title:    fmt.Sprintf("Delinquency escalated to %s", grade.Label),
		Message:  fmt.Sprintf("Client %s is %d day(s) late (%s)", client.Name, daysLate, grade.Level),
		Severity: severityFor(grade.Level),
		Entity:   port.EntityRef{Type: "Client", ID: client.ID},
		Metadata: map[string]string{"days_late": fmt.Sprintf("%d", daysLate)},
	}

	results := []sideeffect.Result{
		sideeffect.Attempt("notify_roles", func() error {
			return uc.notifier.NotifyRole(ctx, escalationRoles, notice)
		}),
		sideeffect.Attempt("push_roles", func() error {
			return uc.push.SendPush(ctx, notice.Title, notice.Message,
				port.PushTarget{Roles: escalationRoles}, notice.Metadata)
		}),
	}

	// The assigned collector hears about their own client directly, both
	// in-app and on their device.
	if route, err := uc.uow.Repos().Routes().ActiveRouteForClient(ctx, client.ID); err == nil {
		collectorID := route.CollectorID
		results = append(results,
			sideeffect.Attempt("notify_collector", func() error {
				return uc.notifier.NotifyUser(ctx, collectorID, notice)
			}),
			sideeffect.Attempt("push_collector", func() error {
				return uc.push.SendPush(ctx, notice.Title, notice.Message,
					port.PushTarget{UserID: &collectorID}, notice.Metadata)
			}),
		)
	} else {
		uc.logger.Warn("no active route for escalated client", "client", client.ID, "error", err)
	}

	results = append(results, sideeffect.Attempt("broadcast", func() error {
		return uc.broadcast.Signal(ctx, "credito.mora",
			event.NewClientRiskEscalated(client.ID.String(), grade.Label, grade.Level.String(), daysLate))
	}))

	delivered := false
	for _, r := range results {
		if r.Delivered {
			delivered = true
		} else {
			uc.logger.Warn("escalation side effect failed", "effect", r.Name, "client", client.ID, "error", r.Err)
		}
	}
	if delivered {
		report.EscalationsNotified++
	}
	report.SideEffects = append(report.SideEffects, results...)
}

func (uc *RunDelinquencySweepUseCase) broadcastReport(ctx context.Context, report *dto.SweepReport) {
	evt := event.NewSweepCompleted(uuid.New().String(), report.AsOf,
		report.OverdueMarked, report.LoansIntoArrears, report.LoansCleared,
		report.ClientsRegraded, report.EscalationsNotified)

	r := sideeffect.Attempt("broadcast_report", func() error {
		return uc.broadcast.Signal(ctx, "credito.sweeps", evt)
	})
	if !r.Delivered {
		uc.logger.Warn("sweep report broadcast failed", "error", r.Err)
	}
	report.SideEffects = append(report.SideEffects, r)
}

func severityFor(level valueobject.RiskLevel) port.Severity {
	switch level {
	case valueobject.RiskLevelRed:
		return port.SeverityCritical
	case valueobject.RiskLevelYellow:
		return port.SeverityWarning
	default:
		return port.SeverityInfo
	}
}
