package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"financecontroller/internal/core"
	"financecontroller/internal/log"
	"financecontroller/internal/storage"
)

// KeyPrefix scopes the stored transaction list per user.
const KeyPrefix = "@financecontroller:transactions_user:"

const sharedReadTimeout = 5 * time.Second

// TransactionKey returns the storage key of a user's transaction list.
func TransactionKey(userID string) string {
	return KeyPrefix + userID
}

// Snapshot is a point-in-time read of one user's transactions.
type Snapshot struct {
	Transactions []core.Transaction
	// Rejected joins one *core.ParseError per invalid record; nil when every
	// record was valid.
	Rejected      error
	RejectedCount int
}

// record is the stored JSON shape. Amount is accepted as a string or a number.
type record struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Name     string          `json:"name"`
	Amount   json.RawMessage `json:"amount"`
	Category string          `json:"category"`
	Date     string          `json:"date"`
}

// TransactionRepository reads and appends the per-user transaction lists kept
// in a storage.Store.
type TransactionRepository struct {
	store storage.Store
	loc   *time.Location
	sf    singleflight.Group
	mu    sync.Mutex // serializes read-modify-write in Append
}

// NewTransactionRepository builds a repository. Timestamps found in stored
// dates are converted to loc; nil means UTC.
func NewTransactionRepository(store storage.Store, loc *time.Location) *TransactionRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &TransactionRepository{store: store, loc: loc}
}

// List returns every valid transaction of userID in stored order. A missing
// key is an empty list. Only storage failures are returned as err; invalid
// records are reported in the snapshot.
func (r *TransactionRepository) List(ctx context.Context, userID string) (Snapshot, error) {
	if strings.TrimSpace(userID) == "" {
		return Snapshot{}, fmt.Errorf("list transactions: %w", core.ErrEmptyID)
	}
	key := TransactionKey(userID)

	v, err, shared := r.sf.Do(key, func() (interface{}, error) {
		// Collapsed callers share this read, so it must outlive the first
		// caller's cancellation.
		readCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedReadTimeout)
		defer cancel()
		raw, found, err := r.store.Get(readCtx, key)
		if err != nil {
			return Snapshot{}, fmt.Errorf("read %s: %w", key, err)
		}
		if !found {
			return Snapshot{Transactions: []core.Transaction{}}, nil
		}
		return Decode(raw, r.loc), nil
	})
	if err != nil {
		return Snapshot{}, err
	}

	snap := v.(Snapshot)
	if shared {
		snap.Transactions = append([]core.Transaction(nil), snap.Transactions...)
	}
	if snap.RejectedCount > 0 {
		slog.WarnContext(ctx, "Rejected stored transactions",
			log.FieldStorageKey, key,
			log.FieldRejected, snap.RejectedCount,
			log.FieldError, snap.Rejected)
	}
	return snap, nil
}

// Append adds t to the end of userID's list. Records already stored are kept
// verbatim, including ones that fail validation.
func (r *TransactionRepository) Append(ctx context.Context, userID string, t core.Transaction) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("append transaction: %w", core.ErrEmptyID)
	}
	if err := t.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := TransactionKey(userID)
	raw, found, err := r.store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}

	var items []json.RawMessage
	if found && strings.TrimSpace(raw) != "" {
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			// Refuse to overwrite a payload we cannot read back.
			return &core.ParseError{Index: -1, Field: "payload", Value: truncate(raw), Err: err}
		}
	}

	enc, err := json.Marshal(encode(t))
	if err != nil {
		return fmt.Errorf("encode transaction: %w", err)
	}
	items = append(items, enc)

	out, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode transaction list: %w", err)
	}
	if err := r.store.Set(ctx, key, string(out)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	r.sf.Forget(key)
	return nil
}

// Decode parses a stored list. A payload that is not a JSON array yields no
// transactions and a single rejection with Index -1.
func Decode(raw string, loc *time.Location) Snapshot {
	snap := Snapshot{Transactions: []core.Transaction{}}
	if strings.TrimSpace(raw) == "" {
		return snap
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		snap.Rejected = &core.ParseError{Index: -1, Field: "payload", Value: truncate(raw), Err: err}
		snap.RejectedCount = 1
		return snap
	}

	var errs []error
	for i, item := range items {
		t, err := decodeRecord(i, item, loc)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		snap.Transactions = append(snap.Transactions, t)
	}
	snap.Rejected = errors.Join(errs...)
	snap.RejectedCount = len(errs)
	return snap
}

func decodeRecord(i int, item json.RawMessage, loc *time.Location) (core.Transaction, error) {
	var rec record
	if err := json.Unmarshal(item, &rec); err != nil {
		return core.Transaction{}, &core.ParseError{Index: i, Field: "record", Value: truncate(string(item)), Err: err}
	}

	fail := func(field, value string, err error) (core.Transaction, error) {
		return core.Transaction{}, &core.ParseError{Index: i, Field: field, Value: value, Err: err}
	}

	if strings.TrimSpace(rec.ID) == "" {
		return fail("id", rec.ID, core.ErrEmptyID)
	}
	typ, err := core.ParseTransactionType(rec.Type)
	if err != nil {
		return fail("type", rec.Type, err)
	}
	amountText, err := amountString(rec.Amount)
	if err != nil {
		return fail("amount", string(rec.Amount), err)
	}
	amount, err := core.ParseAmount(amountText)
	if err != nil {
		return fail("amount", amountText, err)
	}
	date, err := core.ParseDate(rec.Date, loc)
	if err != nil {
		return fail("date", rec.Date, err)
	}

	t := core.Transaction{
		ID:       rec.ID,
		Type:     typ,
		Name:     strings.TrimSpace(rec.Name),
		Amount:   amount,
		Category: strings.TrimSpace(rec.Category),
		Date:     date,
	}
	if err := t.Validate(); err != nil {
		field := "record"
		switch {
		case errors.Is(err, core.ErrEmptyName), errors.Is(err, core.ErrNameTooLong):
			field = "name"
		case errors.Is(err, core.ErrEmptyCategory):
			field = "category"
		}
		return fail(field, "", err)
	}
	return t, nil
}

// amountString accepts "150.00" and 150 alike; null or missing is invalid.
func amountString(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", core.ErrInvalidAmount
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", core.ErrInvalidAmount
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", core.ErrInvalidAmount
	}
	return n.String(), nil
}

func encode(t core.Transaction) map[string]string {
	return map[string]string{
		"id":       t.ID,
		"type":     string(t.Type),
		"name":     t.Name,
		"amount":   t.Amount.String(),
		"category": t.Category,
		"date":     t.Date.Format("2006-01-02"),
	}
}

func truncate(s string) string {
	const max = 64
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
