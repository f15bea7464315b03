package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/nikolayk812/voiceshop/internal/domain"
	"github.com/nikolayk812/voiceshop/internal/log"
	"github.com/nikolayk812/voiceshop/internal/port"
	"github.com/sirupsen/logrus"
)

// fileLedger keeps all orders in one JSON array file and rewrites the whole
// file on every append.
//
// There is no cross-process lock. Two writers appending at the same time both
// load the same array and the later rename drops the other's order.
type fileLedger struct {
	path string
}

func NewFileLedger(path string) (port.OrderLedger, error) {
	if path == "" {
		return nil, fmt.Errorf("path is empty")
	}

	_, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := writeEntries(path, nil); err != nil {
			return nil, fmt.Errorf("writeEntries: %w", err)
		}
	case err != nil:
		return nil, &domain.PersistenceError{Op: "stat", Path: path, Err: err}
	}

	return &fileLedger{path: path}, nil
}

func (l *fileLedger) Append(ctx context.Context, order domain.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if order.ID == "" {
		return fmt.Errorf("order ID is empty")
	}

	entries, err := readEntries(l.path)
	if err != nil {
		return l.logFailure("readEntries", err)
	}

	if containsOrder(entries, order.ID) {
		log.With("file_ledger").WithField("order_id", order.ID).Info("order already recorded")
		return nil
	}

	raw, err := json.Marshal(mapOrderToRecord(order))
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err := writeEntries(l.path, append(entries, raw)); err != nil {
		return l.logFailure("writeEntries", err)
	}

	return nil
}

func (l *fileLedger) List(ctx context.Context) ([]domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := readEntries(l.path)
	if err != nil {
		return nil, l.logFailure("readEntries", err)
	}

	records := make([]orderRecord, 0, len(entries))
	for i, entry := range entries {
		var r orderRecord
		if err := json.Unmarshal(entry, &r); err != nil {
			return nil, fmt.Errorf("json.Unmarshal entry[%d]: %w", i, err)
		}
		records = append(records, r)
	}

	orders, err := mapRecordsToDomain(records)
	if err != nil {
		return nil, fmt.Errorf("mapRecordsToDomain: %w", err)
	}

	return orders, nil
}

func (l *fileLedger) Last(ctx context.Context) (domain.Order, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Order{}, false, err
	}

	entries, err := readEntries(l.path)
	if err != nil {
		return domain.Order{}, false, l.logFailure("readEntries", err)
	}
	if len(entries) == 0 {
		return domain.Order{}, false, nil
	}

	var r orderRecord
	if err := json.Unmarshal(entries[len(entries)-1], &r); err != nil {
		return domain.Order{}, false, fmt.Errorf("json.Unmarshal: %w", err)
	}

	order, err := mapRecordToDomain(r)
	if err != nil {
		return domain.Order{}, false, fmt.Errorf("mapRecordToDomain: %w", err)
	}

	return order, true, nil
}

func (l *fileLedger) logFailure(op string, err error) error {
	log.With("file_ledger").WithFields(logrus.Fields{
		"path":  l.path,
		"op":    op,
		"error": err,
	}).Error("order ledger unavailable")

	return fmt.Errorf("%s: %w", op, err)
}

// containsOrder reports whether an entry carries orderID. Entries that are not
// order objects are skipped.
func containsOrder(entries []json.RawMessage, orderID string) bool {
	for _, entry := range entries {
		var head struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(entry, &head); err != nil {
			continue
		}
		if head.ID == orderID {
			return true
		}
	}
	return false
}
