package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"financecontroller/internal/adapters"
	"financecontroller/internal/auth"
	"financecontroller/internal/categories"
	"financecontroller/internal/core"
	"financecontroller/internal/log"
)

// TransactionStore is the per-user transaction list the screens read from.
type TransactionStore interface {
	List(ctx context.Context, userID string) (adapters.Snapshot, error)
	Append(ctx context.Context, userID string, t core.Transaction) error
}

// Formatter renders money and dates for the screens.
type Formatter interface {
	core.Formatter
	ShortDate(d core.Date) string
	MonthYear(year, month int) string
}

// Recorder receives summary and registration outcomes.
type Recorder interface {
	RecordSummary(kind, outcome string)
	RecordRejected(n int)
	RecordRegistration(txType string)
}

type noopRecorder struct{}

func (noopRecorder) RecordSummary(string, string) {}
func (noopRecorder) RecordRejected(int)           {}
func (noopRecorder) RecordRegistration(string)    {}

// Summary kinds and outcomes reported to the Recorder.
const (
	KindDashboard = "dashboard"
	KindResume    = "resume"

	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// SummaryService backs the dashboard, the monthly resume and transaction
// registration for the user found in the request context.
type SummaryService struct {
	store    TransactionStore
	table    *categories.Table
	format   Formatter
	recorder Recorder
	loc      *time.Location
	now      func() time.Time
	newID    func() string
}

// Option configures a SummaryService.
type Option func(*SummaryService)

// WithRecorder reports outcomes to r.
func WithRecorder(r Recorder) Option {
	return func(s *SummaryService) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithClock overrides time.Now for registration dates.
func WithClock(now func() time.Time) Option {
	return func(s *SummaryService) { s.now = now }
}

// WithLocation sets the location "today" is computed in.
func WithLocation(loc *time.Location) Option {
	return func(s *SummaryService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithIDGenerator overrides the UUID generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *SummaryService) { s.newID = gen }
}

func NewSummaryService(store TransactionStore, table *categories.Table, f Formatter, opts ...Option) *SummaryService {
	if table == nil {
		table = categories.Default()
	}
	s := &SummaryService{
		store:    store,
		table:    table,
		format:   f,
		recorder: noopRecorder{},
		loc:      time.UTC,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Highlight is one dashboard card.
type Highlight struct {
	Amount               string `json:"amount"`
	AmountFormatted      string `json:"amountFormatted"`
	LastTransaction      string `json:"lastTransaction,omitempty"`
	LastTransactionLabel string `json:"lastTransactionLabel"`
}

type Highlights struct {
	Entries  Highlight `json:"entries"`
	Expenses Highlight `json:"expenses"`
	Total    Highlight `json:"total"`
}

// TransactionView is a stored transaction ready for display.
type TransactionView struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	Name            string `json:"name"`
	Amount          string `json:"amount"`
	AmountFormatted string `json:"amountFormatted"`
	Category        string `json:"category"`
	CategoryName    string `json:"categoryName,omitempty"`
	CategoryColor   string `json:"categoryColor,omitempty"`
	Date            string `json:"date"`
	DateFormatted   string `json:"dateFormatted"`
}

type Dashboard struct {
	User         auth.User         `json:"user"`
	Highlights   Highlights        `json:"highlights"`
	Transactions []TransactionView `json:"transactions"`
	Rejected     int               `json:"rejected"`
}

// MonthRef identifies a calendar month.
type MonthRef struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

type CategoryView struct {
	Key            string `json:"key"`
	Name           string `json:"name"`
	Color          string `json:"color"`
	Total          string `json:"total"`
	TotalFormatted string `json:"totalFormatted"`
	Percent        string `json:"percent"`
}

type Resume struct {
	Year       int            `json:"year"`
	Month      int            `json:"month"`
	Label      string         `json:"label"`
	Previous   MonthRef       `json:"previous"`
	Next       MonthRef       `json:"next"`
	Categories []CategoryView `json:"categories"`
	Rejected   int            `json:"rejected"`
}

// Dashboard summarizes every transaction of the session user. On a storage
// failure it still returns an empty dashboard alongside the error.
func (s *SummaryService) Dashboard(ctx context.Context) (Dashboard, error) {
	sess, ok := auth.FromContext(ctx)
	if !ok || sess.User.ID == "" {
		return Dashboard{}, auth.ErrNoSession
	}

	snap, err := s.store.List(ctx, sess.User.ID)
	if err != nil {
		s.recorder.RecordSummary(KindDashboard, OutcomeError)
		return s.dashboard(sess.User, adapters.Snapshot{}), fmt.Errorf("dashboard: %w", err)
	}
	s.recorder.RecordRejected(snap.RejectedCount)

	d := s.dashboard(sess.User, snap)
	outcome := OutcomeOK
	if len(d.Transactions) == 0 {
		outcome = OutcomeEmpty
	}
	s.recorder.RecordSummary(KindDashboard, outcome)
	return d, nil
}

func (s *SummaryService) dashboard(u auth.User, snap adapters.Snapshot) Dashboard {
	ts := core.SummarizeByType(snap.Transactions, s.format)
	d := Dashboard{
		User: u,
		Highlights: Highlights{
			Entries:  highlight(ts.Entries),
			Expenses: highlight(ts.Expenses),
			Total:    highlight(ts.Total),
		},
		Transactions: make([]TransactionView, 0, len(snap.Transactions)),
		Rejected:     snap.RejectedCount,
	}
	for _, t := range snap.Transactions {
		v := TransactionView{
			ID:              t.ID,
			Type:            string(t.Type),
			Name:            t.Name,
			Amount:          t.Amount.String(),
			AmountFormatted: s.format.Currency(t.Amount),
			Category:        t.Category,
			Date:            t.Date.Format(time.DateOnly),
			DateFormatted:   s.format.ShortDate(t.Date),
		}
		if c, ok := s.table.Lookup(t.Category); ok {
			v.CategoryName, v.CategoryColor = c.Name, c.Color
		}
		d.Transactions = append(d.Transactions, v)
	}
	return d
}

func highlight(h core.HighlightSummary) Highlight {
	out := Highlight{
		Amount:               h.Amount.String(),
		AmountFormatted:      h.AmountFormatted,
		LastTransactionLabel: h.LastTransactionLabel,
	}
	if h.HasTransactions() {
		out.LastTransaction = h.LastTransaction.Format(time.DateOnly)
	}
	return out
}

// Resume returns the expense breakdown by category for year/month. A month
// without expenses has an empty breakdown.
func (s *SummaryService) Resume(ctx context.Context, year, month int) (Resume, error) {
	if month < 1 || month > 12 {
		return Resume{}, core.ErrInvalidMonth
	}
	userID, err := auth.UserID(ctx)
	if err != nil {
		return Resume{}, err
	}

	ref := core.NewDate(year, month, 1)
	prev, next := core.PrevMonth(ref), core.NextMonth(ref)
	r := Resume{
		Year:       year,
		Month:      month,
		Label:      s.format.MonthYear(year, month),
		Previous:   MonthRef{Year: prev.Year(), Month: prev.Month()},
		Next:       MonthRef{Year: next.Year(), Month: next.Month()},
		Categories: []CategoryView{},
	}

	snap, err := s.store.List(ctx, userID)
	if err != nil {
		s.recorder.RecordSummary(KindResume, OutcomeError)
		return r, fmt.Errorf("resume %04d-%02d: %w", year, month, err)
	}
	s.recorder.RecordRejected(snap.RejectedCount)
	r.Rejected = snap.RejectedCount

	summaries, err := core.SummarizeByCategory(snap.Transactions, year, month, s.table.All(), s.format)
	if errors.Is(err, core.ErrDivisionUndefined) {
		log.FromContext(ctx).DebugContext(ctx, "No expenses in month",
			log.NewFields().WithUser(userID).WithMonth(year, month).ToSlice()...)
		s.recorder.RecordSummary(KindResume, OutcomeEmpty)
		return r, nil
	}
	if err != nil {
		s.recorder.RecordSummary(KindResume, OutcomeError)
		return r, err
	}

	for _, c := range summaries {
		r.Categories = append(r.Categories, CategoryView{
			Key:            c.Key,
			Name:           c.Name,
			Color:          c.Color,
			Total:          c.Total.String(),
			TotalFormatted: c.TotalFormatted,
			Percent:        c.Percent,
		})
	}
	s.recorder.RecordSummary(KindResume, OutcomeOK)
	return r, nil
}

// RegisterInput is a transaction as submitted by the client.
type RegisterInput struct {
	Name     string `json:"name"`
	Amount   string `json:"amount"`
	Type     string `json:"type"`
	Category string `json:"category"`
	// Date is optional; empty means today.
	Date string `json:"date,omitempty"`
}

// RegisterTransaction validates in, stamps it with a fresh id and appends it
// to the session user's list.
func (s *SummaryService) RegisterTransaction(ctx context.Context, in RegisterInput) (core.Transaction, error) {
	userID, err := auth.UserID(ctx)
	if err != nil {
		return core.Transaction{}, err
	}

	typ, err := core.ParseTransactionType(in.Type)
	if err != nil {
		return core.Transaction{}, &core.ParseError{Index: -1, Field: "type", Value: in.Type, Err: err}
	}
	amount, err := core.ParseAmount(in.Amount)
	if err != nil {
		return core.Transaction{}, &core.ParseError{Index: -1, Field: "amount", Value: in.Amount, Err: err}
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		return core.Transaction{}, core.ErrEmptyCategory
	}
	if !s.table.Contains(category) {
		return core.Transaction{}, fmt.Errorf("%w: %q", core.ErrUnknownCategory, category)
	}

	date := core.DateOf(s.now(), s.loc)
	if strings.TrimSpace(in.Date) != "" {
		if date, err = core.ParseDate(in.Date, s.loc); err != nil {
			return core.Transaction{}, &core.ParseError{Index: -1, Field: "date", Value: in.Date, Err: err}
		}
	}

	t := core.Transaction{
		ID:       s.newID(),
		Type:     typ,
		Name:     strings.TrimSpace(in.Name),
		Amount:   amount,
		Category: category,
		Date:     date,
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := s.store.Append(ctx, userID, t); err != nil {
		return core.Transaction{}, fmt.Errorf("register transaction: %w", err)
	}

	s.recorder.RecordRegistration(string(t.Type))
	log.NewStructuredLogger(log.FromContext(ctx)).
		LogTransactionRegistered(ctx, userID, t.ID, string(t.Type), t.Amount.Cents, t.Category)
	return t, nil
}

// Categories returns the category table in display order.
func (s *SummaryService) Categories() []core.CategoryDescriptor {
	return s.table.All()
}

// IsValidationError reports whether err was caused by client input rather
// than by storage.
func IsValidationError(err error) bool {
	var pe *core.ParseError
	if errors.As(err, &pe) {
		return true
	}
	for _, target := range []error{
		core.ErrInvalidAmount, core.ErrInvalidType, core.ErrInvalidDate,
		core.ErrInvalidDay, core.ErrInvalidMonth, core.ErrEmptyName,
		core.ErrNameTooLong, core.ErrEmptyCategory, core.ErrUnknownCategory,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
