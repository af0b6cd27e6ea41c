package usecase_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/model"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/port"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/valueobject"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore is an in-memory database with value semantics: repositories hand
// out copies and persist copies, so mutations only stick through Update, and
// a transaction rollback restores the pre-transaction snapshot.
type memStore struct {
	clients      map[uuid.UUID]model.Client
	loans        map[uuid.UUID]model.Loan
	installments map[uuid.UUID]model.Installment
	payments     map[uuid.UUID]model.Payment
	cashBoxes    map[uuid.UUID]model.CashBox
	transactions []model.Transaction
	requests     map[uuid.UUID]model.ApprovalRequest
	expenses     []model.Expense
	extensions   []model.Extension
	routes       map[uuid.UUID]model.Route
	assignments  []model.RouteAssignment

	paymentSeq int64
	trxSeq     int64

	// failures injects an error for the named operation.
	failures map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		clients:      map[uuid.UUID]model.Client{},
		loans:        map[uuid.UUID]model.Loan{},
		installments: map[uuid.UUID]model.Installment{},
		payments:     map[uuid.UUID]model.Payment{},
		cashBoxes:    map[uuid.UUID]model.CashBox{},
		requests:     map[uuid.UUID]model.ApprovalRequest{},
		routes:       map[uuid.UUID]model.Route{},
		failures:     map[string]error{},
	}
}

func (s *memStore) fail(op string) error { return s.failures[op] }

func (s *memStore) snapshot() *memStore {
	c := newMemStore()
	for k, v := range s.clients {
		c.clients[k] = v
	}
	for k, v := range s.loans {
		c.loans[k] = v
	}
	for k, v := range s.installments {
		c.installments[k] = v
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	for k, v := range s.cashBoxes {
		c.cashBoxes[k] = v
	}
	for k, v := range s.requests {
		c.requests[k] = v
	}
	for k, v := range s.routes {
		c.routes[k] = v
	}
	c.transactions = append([]model.Transaction(nil), s.transactions...)
	c.expenses = append([]model.Expense(nil), s.expenses...)
	c.extensions = append([]model.Extension(nil), s.extensions...)
	c.assignments = append([]model.RouteAssignment(nil), s.assignments...)
	c.paymentSeq, c.trxSeq = s.paymentSeq, s.trxSeq
	c.failures = s.failures
	return c
}

func (s *memStore) restore(snap *memStore) {
	s.clients = snap.clients
	s.loans = snap.loans
	s.installments = snap.installments
	s.payments = snap.payments
	s.cashBoxes = snap.cashBoxes
	s.transactions = snap.transactions
	s.requests = snap.requests
	s.expenses = snap.expenses
	s.extensions = snap.extensions
	s.routes = snap.routes
	s.assignments = snap.assignments
	s.paymentSeq, s.trxSeq = snap.paymentSeq, snap.trxSeq
}

// memUow implements port.UnitOfWork over the store.
type memUow struct {
	store *memStore
}

func (u *memUow) WithTransaction(ctx context.Context, fn func(ctx context.Context, repos port.Repositories) error) error {
	snap := u.store.snapshot()
	if err := fn(ctx, memRepos{s: u.store}); err != nil {
		u.store.restore(snap)
		return err
	}
	return nil
}

func (u *memUow) Repos() port.Repositories { return memRepos{s: u.store} }

type memRepos struct {
	s *memStore
}

func (r memRepos) Clients() port.ClientRepository                   { return clientRepo{r.s} }
func (r memRepos) Loans() port.LoanRepository                       { return loanRepo{r.s} }
func (r memRepos) Installments() port.InstallmentRepository         { return installmentRepo{r.s} }
func (r memRepos) Payments() port.PaymentRepository                 { return paymentRepo{r.s} }
func (r memRepos) CashBoxes() port.CashBoxRepository                { return cashBoxRepo{r.s} }
func (r memRepos) Transactions() port.TransactionRepository         { return transactionRepo{r.s} }
func (r memRepos) ApprovalRequests() port.ApprovalRequestRepository { return requestRepo{r.s} }
func (r memRepos) Expenses() port.ExpenseRepository                 { return expenseRepo{r.s} }
func (r memRepos) Extensions() port.ExtensionRepository             { return extensionRepo{r.s} }
func (r memRepos) Routes() port.RouteRepository                     { return routeRepo{r.s} }

type clientRepo struct{ s *memStore }

func (r clientRepo) Create(_ context.Context, c *model.Client) error {
	r.s.clients[c.ID] = *c
	return nil
}

func (r clientRepo) Update(_ context.Context, c *model.Client) error {
	if err := r.s.fail("clients.update"); err != nil {
		return err
	}
	r.s.clients[c.ID] = *c
	return nil
}

func (r clientRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Client, error) {
	c, ok := r.s.clients[id]
	if !ok {
		return nil, fmt.Errorf("%w: client %s", valueobject.ErrNotFound, id)
	}
	return &c, nil
}

func (r clientRepo) ListRiskReviewCandidates(_ context.Context) ([]*model.Client, error) {
	if err := r.s.fail("clients.list_candidates"); err != nil {
		return nil, err
	}
	var out []*model.Client
	for id, c := range r.s.clients {
		if c.DeletedAt != nil {
			continue
		}
		eligible := c.LastRiskOrdinal > 1
		if !eligible {
			for _, l := range r.s.loans {
				if l.ClientID == id && l.DeletedAt == nil && l.State.Payable() {
					eligible = true
					break
				}
			}
		}
		if eligible {
			c := c
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

type loanRepo struct{ s *memStore }

func (r loanRepo) Create(_ context.Context, l *model.Loan) error {
	r.s.loans[l.ID] = *l
	return nil
}

func (r loanRepo) Update(_ context.Context, l *model.Loan) error {
	if err := r.s.fail("loans.update"); err != nil {
		return err
	}
	r.s.loans[l.ID] = *l
	return nil
}

func (r loanRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Loan, error) {
	l, ok := r.s.loans[id]
	if !ok {
		return nil, fmt.Errorf("%w: loan %s", valueobject.ErrNotFound, id)
	}
	return &l, nil
}

func (r loanRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Loan, error) {
	return r.FindByID(ctx, id)
}

func (r loanRepo) ListByState(_ context.Context, states ...valueobject.LoanState) ([]*model.Loan, error) {
	if err := r.s.fail("loans.list_by_state"); err != nil {
		return nil, err
	}
	var out []*model.Loan
	for _, l := range r.s.loans {
		if l.DeletedAt != nil {
			continue
		}
		for _, st := range states {
			if l.State.Equal(st) {
				l := l
				out = append(out, &l)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (r loanRepo) ListByClient(_ context.Context, clientID uuid.UUID) ([]*model.Loan, error) {
	var out []*model.Loan
	for _, l := range r.s.loans {
		if l.ClientID == clientID {
			l := l
			out = append(out, &l)
		}
	}
	return out, nil
}

type installmentRepo struct{ s *memStore }

func (r installmentRepo) CreateBatch(_ context.Context, installments []model.Installment) error {
	for _, i := range installments {
		r.s.installments[i.ID] = i
	}
	return nil
}

func (r installmentRepo) Update(_ context.Context, i *model.Installment) error {
	if err := r.s.fail("installments.update"); err != nil {
		return err
	}
	r.s.installments[i.ID] = *i
	return nil
}

func (r installmentRepo) DeleteByLoan(_ context.Context, loanID uuid.UUID) error {
	for id, i := range r.s.installments {
		if i.LoanID == loanID {
			delete(r.s.installments, id)
		}
	}
	return nil
}

func (r installmentRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Installment, error) {
	i, ok := r.s.installments[id]
	if !ok {
		return nil, fmt.Errorf("%w: installment %s", valueobject.ErrNotFound, id)
	}
	return &i, nil
}

func (r installmentRepo) ListByLoan(_ context.Context, loanID uuid.UUID) ([]*model.Installment, error) {
	var out []*model.Installment
	for _, i := range r.s.installments {
		if i.LoanID == loanID {
			i := i
			out = append(out, &i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Sequence < out[b].Sequence })
	return out, nil
}

func (r installmentRepo) ListOutstandingByLoanForUpdate(ctx context.Context, loanID uuid.UUID) ([]*model.Installment, error) {
	all, err := r.ListByLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	var out []*model.Installment
	for _, i := range all {
		if i.State.Outstanding() {
			out = append(out, i)
		}
	}
	return out, nil
}

func (r installmentRepo) ListDueBefore(_ context.Context, cutoff time.Time) ([]*model.Installment, error) {
	if err := r.s.fail("installments.list_due"); err != nil {
		return nil, err
	}
	var out []*model.Installment
	for _, i := range r.s.installments {
		if !i.State.Equal(valueobject.InstallmentStatePending) && !i.State.Equal(valueobject.InstallmentStatePartial) {
			continue
		}
		if !i.EffectiveDueDate().Before(cutoff) {
			continue
		}
		loan, ok := r.s.loans[i.LoanID]
		if !ok || loan.DeletedAt != nil || !loan.State.Payable() {
			continue
		}
		i := i
		out = append(out, &i)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].EffectiveDueDate().Before(out[b].EffectiveDueDate()) })
	return out, nil
}

func (r installmentRepo) CountOverdueByLoan(_ context.Context, loanID uuid.UUID) (int, error) {
	n := 0
	for _, i := range r.s.installments {
		if i.LoanID == loanID && i.State.Equal(valueobject.InstallmentStateOverdue) {
			n++
		}
	}
	return n, nil
}

func (r installmentRepo) EarliestOverdueDueByLoan(_ context.Context, loanID uuid.UUID) (*time.Time, error) {
	var earliest *time.Time
	for _, i := range r.s.installments {
		if i.LoanID != loanID || !i.State.Equal(valueobject.InstallmentStateOverdue) {
			continue
		}
		due := i.EffectiveDueDate()
		if earliest == nil || due.Before(*earliest) {
			earliest = &due
		}
	}
	return earliest, nil
}

type paymentRepo struct{ s *memStore }

func (r paymentRepo) Create(_ context.Context, p *model.Payment) error {
	if err := r.s.fail("payments.create"); err != nil {
		return err
	}
	r.s.payments[p.ID] = *p
	return nil
}

func (r paymentRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Payment, error) {
	p, ok := r.s.payments[id]
	if !ok {
		return nil, fmt.Errorf("%w: payment %s", valueobject.ErrNotFound, id)
	}
	return &p, nil
}

func (r paymentRepo) ListByLoan(_ context.Context, loanID uuid.UUID) ([]*model.Payment, error) {
	var out []*model.Payment
	for _, p := range r.s.payments {
		if p.LoanID == loanID {
			p := p
			out = append(out, &p)
		}
	}
	return out, nil
}

func (r paymentRepo) NextNumber(_ context.Context) (int64, error) {
	r.s.paymentSeq++
	return r.s.paymentSeq, nil
}

type cashBoxRepo struct{ s *memStore }

func (r cashBoxRepo) Create(_ context.Context, b *model.CashBox) error {
	r.s.cashBoxes[b.ID] = *b
	return nil
}

func (r cashBoxRepo) Update(_ context.Context, b *model.CashBox) error {
	r.s.cashBoxes[b.ID] = *b
	return nil
}

func (r cashBoxRepo) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*model.CashBox, error) {
	b, ok := r.s.cashBoxes[id]
	if !ok {
		return nil, fmt.Errorf("%w: cash box %s", valueobject.ErrNotFound, id)
	}
	return &b, nil
}

func (r cashBoxRepo) FindActiveRouteBox(_ context.Context, routeID uuid.UUID) (*model.CashBox, error) {
	for _, b := range r.s.cashBoxes {
		if b.Type == valueobject.CashBoxRoute && b.Active && b.RouteID != nil && *b.RouteID == routeID {
			b := b
			return &b, nil
		}
	}
	return nil, fmt.Errorf("%w: route cash box %s", valueobject.ErrNotFound, routeID)
}

func (r cashBoxRepo) FindActivePrincipal(_ context.Context) (*model.CashBox, error) {
	for _, b := range r.s.cashBoxes {
		if b.Type == valueobject.CashBoxPrincipal && b.Active {
			b := b
			return &b, nil
		}
	}
	return nil, fmt.Errorf("%w: principal cash box", valueobject.ErrNotFound)
}

type transactionRepo struct{ s *memStore }

func (r transactionRepo) Create(_ context.Context, t *model.Transaction) error {
	r.s.transactions = append(r.s.transactions, *t)
	return nil
}

func (r transactionRepo) ListByCashBox(_ context.Context, cashBoxID uuid.UUID) ([]*model.Transaction, error) {
	var out []*model.Transaction
	for _, t := range r.s.transactions {
		if t.CashBoxID == cashBoxID {
			t := t
			out = append(out, &t)
		}
	}
	return out, nil
}

func (r transactionRepo) NextCode(_ context.Context) (int64, error) {
	r.s.trxSeq++
	return r.s.trxSeq, nil
}

type requestRepo struct{ s *memStore }

func (r requestRepo) Create(_ context.Context, req *model.ApprovalRequest) error {
	r.s.requests[req.ID] = *req
	return nil
}

func (r requestRepo) Update(_ context.Context, req *model.ApprovalRequest) error {
	r.s.requests[req.ID] = *req
	return nil
}

func (r requestRepo) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*model.ApprovalRequest, error) {
	req, ok := r.s.requests[id]
	if !ok {
		return nil, fmt.Errorf("%w: approval request %s", valueobject.ErrNotFound, id)
	}
	return &req, nil
}

type expenseRepo struct{ s *memStore }

func (r expenseRepo) Create(_ context.Context, e *model.Expense) error {
	r.s.expenses = append(r.s.expenses, *e)
	return nil
}

type extensionRepo struct{ s *memStore }

func (r extensionRepo) Create(_ context.Context, e *model.Extension) error {
	r.s.extensions = append(r.s.extensions, *e)
	return nil
}

type routeRepo struct{ s *memStore }

func (r routeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Route, error) {
	rt, ok := r.s.routes[id]
	if !ok {
		return nil, fmt.Errorf("%w: route %s", valueobject.ErrNotFound, id)
	}
	return &rt, nil
}

func (r routeRepo) ActiveRouteForClient(_ context.Context, clientID uuid.UUID) (*model.Route, error) {
	for _, a := range r.s.assignments {
		if a.ClientID == clientID && a.Active {
			if rt, ok := r.s.routes[a.RouteID]; ok && rt.Active {
				return &rt, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: active route for client %s", valueobject.ErrNotFound, clientID)
}

// ---------------------------------------------------------------------------
// Port fakes
// ---------------------------------------------------------------------------

type recordedNotice struct {
	UserID uuid.UUID
	Roles  []string
	Notice port.Notice
}

type mockNotifier struct {
	userNotices []recordedNotice
	roleNotices []recordedNotice
	err         error
}

func (m *mockNotifier) NotifyUser(_ context.Context, userID uuid.UUID, n port.Notice) error {
	if m.err != nil {
		return m.err
	}
	m.userNotices = append(m.userNotices, recordedNotice{UserID: userID, Notice: n})
	return nil
}

func (m *mockNotifier) NotifyRole(_ context.Context, roles []string, n port.Notice) error {
	if m.err != nil {
		return m.err
	}
	m.roleNotices = append(m.roleNotices, recordedNotice{Roles: roles, Notice: n})
	return nil
}

type mockPusher struct {
	pushes  []string
	targets []port.PushTarget
	err     error
}

func (m *mockPusher) SendPush(_ context.Context, title, _ string, target port.PushTarget, _ map[string]string) error {
	if m.err != nil {
		return m.err
	}
	m.pushes = append(m.pushes, title)
	m.targets = append(m.targets, target)
	return nil
}

type recordedSignal struct {
	Topic   string
	Payload any
}

type mockBroadcaster struct {
	signals []recordedSignal
	err     error
}

func (m *mockBroadcaster) Signal(_ context.Context, topic string, payload any) error {
	if m.err != nil {
		return m.err
	}
	m.signals = append(m.signals, recordedSignal{Topic: topic, Payload: payload})
	return nil
}

type mockAuditor struct {
	actions []string
	err     error
}

func (m *mockAuditor) Record(_ context.Context, _ uuid.UUID, action string, _ port.EntityRef, _, _ any) error {
	if m.err != nil {
		return m.err
	}
	m.actions = append(m.actions, action)
	return nil
}
