package in

import (
	"context"

	reportdto "blazectl/internal/modules/report/dto"
	reportin "blazectl/internal/modules/report/port/in"
)

type CLIHandler struct {
	usecase reportin.Usecase
}

func NewCLIHandler(usecase reportin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Render(ctx context.Context) (reportdto.RenderOutput, error) {
	return h.usecase.Render(ctx)
}

func (h CLIHandler) Publish(ctx context.Context) (reportdto.PublishOutput, error) {
	return h.usecase.Publish(ctx)
}

func (h CLIHandler) Refresh(ctx context.Context) reportdto.RefreshOutput {
	return h.usecase.Refresh(ctx)
}

func (h CLIHandler) Summary(ctx context.Context) (reportdto.SummaryOutput, error) {
	return h.usecase.Summary(ctx)
}

func (h CLIHandler) Watch(ctx context.Context, onRender func(reportdto.RenderOutput, error)) error {
	return h.usecase.Watch(ctx, onRender)
}
