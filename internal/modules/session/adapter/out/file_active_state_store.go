package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"blazectl/internal/modules/session/domain"
	sessionout "blazectl/internal/modules/session/port/out"
	"blazectl/internal/platform/atomicfile"
	apperrors "blazectl/internal/platform/errors"
)

type activeStateFile struct {
	Train  *time.Time `json:"train,omitempty"`
	Battle *time.Time `json:"battle,omitempty"`
}

type FileActiveStateStore struct {
	path string
}

func NewFileActiveStateStore(storeDir string) sessionout.ActiveStateStore {
	return &FileActiveStateStore{path: filepath.Join(storeDir, "active.json")}
}

func (s *FileActiveStateStore) SaveActive(_ context.Context, state domain.ActiveState) error {
	file := activeStateFile{}
	if t, ok := state.StartedAt(domain.Train); ok {
		file.Train = &t
	}
	if t, ok := state.StartedAt(domain.Battle); ok {
		file.Battle = &t
	}
	payload, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal active state: %w", err)
	}
	if err := atomicfile.WriteFile(s.path, append(payload, '\n'), 0o644); err != nil {
		return fmt.Errorf("write active state: %w: %w", apperrors.ErrIO, err)
	}
	return nil
}

func (s *FileActiveStateStore) LoadActive(_ context.Context) (domain.ActiveState, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.ActiveState{}, nil
		}
		return domain.ActiveState{}, fmt.Errorf("read active state: %w: %w", apperrors.ErrIO, err)
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return domain.ActiveState{}, nil
	}
	file := activeStateFile{}
	if err := json.Unmarshal(payload, &file); err != nil {
		return domain.ActiveState{}, fmt.Errorf("decode %s: %w: %w", s.path, apperrors.ErrParse, err)
	}
	var train, battle time.Time
	if file.Train != nil {
		train = *file.Train
	}
	if file.Battle != nil {
		battle = *file.Battle
	}
	return domain.NewActiveState(train, battle), nil
}
