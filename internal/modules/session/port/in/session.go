package in

import (
	"context"
	"iter"

	"blazectl/internal/modules/session/dto"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.StartOutput, error)
	Stop(ctx context.Context, input dto.StopInput) (dto.StopOutput, error)
	Status(ctx context.Context) (dto.StatusOutput, error)
	// ScanRecords yields every logged session. Malformed lines surface as
	// errors wrapping apperrors.ErrParse and the scan continues.
	ScanRecords(ctx context.Context) iter.Seq2[dto.RecordOutput, error]
	Reindex(ctx context.Context) (dto.ReindexOutput, error)
	Recent(ctx context.Context, limit int) ([]dto.RecordOutput, error)
}
