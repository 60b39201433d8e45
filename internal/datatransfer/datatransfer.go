// Package datatransfer moves collections in and out of the portal state as
// JSON documents or spreadsheets.
package datatransfer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/frahmantamala/mvd-portal/internal"
	"github.com/frahmantamala/mvd-portal/internal/core/events"
	"github.com/frahmantamala/mvd-portal/internal/store"
)

// Collections exported when the caller names none.
var DefaultCollections = []string{"employees", "leaders", "fleet"}

// exportable lists what may leave the system. Accounts never do.
var exportable = map[string]bool{
	"news":           true,
	"applications":   true,
	"database":       true,
	"employees":      true,
	"firedEmployees": true,
	"leaders":        true,
	"fleet":          true,
}

// importable additionally accepts accounts and counters from older exports.
var importable = map[string]bool{
	"users": true,
	"stats": true,
}

func init() {
	for k := range exportable {
		importable[k] = true
	}
}

type Service struct {
	store     *store.Store
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(s *store.Store, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{store: s, publisher: publisher, logger: logger}
}

// Export renders {name: [...]} for the selected collections, indented with
// two spaces.
func (s *Service) Export(ctx context.Context, names []string) ([]byte, error) {
	selected, err := s.selection(ctx, names)
	if err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(selected, "", "  ")
	if err != nil {
		return nil, internal.NewInternalError("failed to encode export", err)
	}
	s.logger.Info("collections exported", "collections", keys(selected), "bytes", len(out))
	return out, nil
}

// Import overwrites the top-level keys present in payload and keeps every
// other key, then reloads the store from the backend.
func (s *Service) Import(ctx context.Context, payload []byte) ([]string, error) {
	var incoming map[string]json.RawMessage
	if err := json.Unmarshal(payload, &incoming); err != nil {
		return nil, internal.NewMalformedImportError("import file is not a JSON object", err)
	}
	if len(incoming) == 0 {
		return nil, internal.NewMalformedImportError("import file contains no collections", nil)
	}
	for k := range incoming {
		if !importable[k] {
			return nil, internal.NewMalformedImportError(fmt.Sprintf("unknown collection %q in import file", k), nil)
		}
	}

	err := s.store.Update(ctx, func(st *store.State) error {
		merged, err := merge(st, incoming)
		if err != nil {
			return internal.NewMalformedImportError("import file does not match the portal layout", err)
		}
		*st = *merged
		return nil
	})
	if err != nil {
		s.logger.Warn("import rejected", "error", err)
		return nil, internal.FromStoreError(err, internal.NewInternalError("import failed", err))
	}
	if err := s.store.Reload(ctx); err != nil {
		return nil, internal.FromStoreError(err, internal.NewInternalError("reload after import failed", err))
	}

	imported := make([]string, 0, len(incoming))
	for k := range incoming {
		imported = append(imported, k)
	}
	sort.Strings(imported)

	s.logger.Info("collections imported", "collections", imported, "bytes", len(payload))
	if s.publisher != nil {
		event := events.NewStateImportedEvent(imported)
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("event publish failed", "event_type", event.EventType(), "error", err)
		}
	}
	return imported, nil
}

// selection returns the raw JSON of each requested collection.
func (s *Service) selection(ctx context.Context, names []string) (map[string]json.RawMessage, error) {
	if len(names) == 0 {
		names = DefaultCollections
	}
	for _, n := range names {
		if !exportable[n] {
			return nil, internal.NewValidationError(fmt.Sprintf("unknown collection %q", n), internal.ErrCodeUnknownCollection)
		}
	}

	st, err := s.store.Load(ctx)
	if err != nil {
		return nil, internal.FromStoreError(err, internal.NewInternalError("state unavailable", err))
	}
	all, err := fields(st)
	if err != nil {
		return nil, internal.NewInternalError("failed to encode state", err)
	}

	selected := make(map[string]json.RawMessage, len(names))
	for _, n := range names {
		selected[n] = all[n]
	}
	return selected, nil
}

func merge(st *store.State, incoming map[string]json.RawMessage) (*store.State, error) {
	current, err := fields(st)
	if err != nil {
		return nil, err
	}
	for k, v := range incoming {
		current[k] = v
	}
	payload, err := json.Marshal(current)
	if err != nil {
		return nil, err
	}
	return store.Decode(payload)
}

func fields(st *store.State) (map[string]json.RawMessage, error) {
	payload, err := st.Encode()
	if err != nil {
		return nil, err
	}
	out := map[string]json.RawMessage{}
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func keys(m map[string]json.RawMessage) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
