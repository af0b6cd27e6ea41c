package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/port"
	pgshared "github.com/IngenieroJosser/credito-sur-backend-sub000/pkg/postgres"
)

// UnitOfWork implements port.UnitOfWork on a pgx pool. Repositories handed to
// the transaction callback share one pgx.Tx, so row locks taken by one
// repository hold for all of them until commit.
type UnitOfWork struct {
	pool *pgxpool.Pool
}

// NewUnitOfWork creates the pool-backed unit of work.
func NewUnitOfWork(pool *pgxpool.Pool) *UnitOfWork {
	return &UnitOfWork{pool: pool}
}

// WithTransaction runs fn inside one database transaction.
func (u *UnitOfWork) WithTransaction(ctx context.Context, fn func(ctx context.Context, repos port.Repositories) error) error {
	return pgshared.WithTransaction(ctx, u.pool, func(tx pgx.Tx) error {
		return fn(ctx, repositories{q: tx})
	})
}

// Repos returns an auto-commit view for single reads.
func (u *UnitOfWork) Repos() port.Repositories {
	return repositories{q: u.pool}
}

// repositories binds every repository to one Querier, either the pool or a
// transaction.
type repositories struct {
	q pgshared.Querier
}

func (r repositories) Clients() port.ClientRepository                   { return &ClientRepo{q: r.q} }
func (r repositories) Loans() port.LoanRepository                       { return &LoanRepo{q: r.q} }
func (r repositories) Installments() port.InstallmentRepository         { return &InstallmentRepo{q: r.q} }
func (r repositories) Payments() port.PaymentRepository                 { return &PaymentRepo{q: r.q} }
func (r repositories) CashBoxes() port.CashBoxRepository                { return &CashBoxRepo{q: r.q} }
func (r repositories) Transactions() port.TransactionRepository         { return &TransactionRepo{q: r.q} }
func (r repositories) ApprovalRequests() port.ApprovalRequestRepository { return &ApprovalRequestRepo{q: r.q} }
func (r repositories) Expenses() port.ExpenseRepository                 { return &ExpenseRepo{q: r.q} }
func (r repositories) Extensions() port.ExtensionRepository             { return &ExtensionRepo{q: r.q} }
func (r repositories) Routes() port.RouteRepository                     { return &RouteRepo{q: r.q} }
