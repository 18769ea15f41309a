package records

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mcoot/solitaire-server/internal/dependencies/clock"
	"github.com/mcoot/solitaire-server/internal/dependencies/random"
	"github.com/mcoot/solitaire-server/internal/model"
	"github.com/mcoot/solitaire-server/internal/storage"
)

// Service stores completed games and serves a random one back.
// Accounts and stats never depend on it.
type Service struct {
	store  storage.GameRecordStore
	clock  clock.Clock
	random random.Random
	logger *slog.Logger
}

// New creates a new records Service
func New(store storage.GameRecordStore, clock clock.Clock, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		clock:  clock,
		random: random,
		logger: logger,
	}
}

// Save validates a posted game and stores it pretty-printed
func (s *Service) Save(ctx context.Context, data []byte) (string, error) {
	if !isJSONDocument(data) {
		return "", model.ErrInvalidGameRecord
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, "", "  "); err != nil {
		return "", model.ErrInvalidGameRecord
	}

	name, err := s.store.SaveGameRecord(ctx, pretty.Bytes(), s.clock.Now())
	if err != nil {
		s.logger.Error("failed to save game record", slog.String("error", err.Error()))
		return "", err
	}

	s.logger.Info("game record saved", slog.String("file", name))
	return name, nil
}

// Random returns one stored game chosen uniformly
func (s *Service) Random(ctx context.Context) (*model.GameRecord, error) {
	names, err := s.store.ListGameRecords(ctx)
	if err != nil {
		s.logger.Error("failed to list game records", slog.String("error", err.Error()))
		return nil, err
	}
	if len(names) == 0 {
		return nil, model.ErrNoGameRecords
	}

	name := names[s.random.Intn(len(names))]
	data, err := s.store.GetGameRecord(ctx, name)
	if err != nil {
		s.logger.Error("failed to read game record",
			slog.String("file", name),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	if !json.Valid(data) {
		s.logger.Error("stored game record is corrupt", slog.String("file", name))
		return nil, fmt.Errorf("game record %s is corrupt", name)
	}

	return &model.GameRecord{File: name, Data: json.RawMessage(data)}, nil
}

// isJSONDocument accepts a JSON object or array, as the client posts
func isJSONDocument(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || (trimmed[0] != '{' && trimmed[0] != '[') {
		return false
	}
	return json.Valid(trimmed)
}
