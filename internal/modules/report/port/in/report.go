package in

import (
	"context"

	"blazectl/internal/modules/report/dto"
)

type Usecase interface {
	Render(ctx context.Context) (dto.RenderOutput, error)
	Publish(ctx context.Context) (dto.PublishOutput, error)
	// Refresh renders and publishes, reporting failures as warnings only.
	Refresh(ctx context.Context) dto.RefreshOutput
	Summary(ctx context.Context) (dto.SummaryOutput, error)
	// Watch re-renders whenever the record store changes until ctx ends.
	Watch(ctx context.Context, onRender func(dto.RenderOutput, error)) error
}
