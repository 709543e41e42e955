package in

import (
	"context"

	sessiondto "blazectl/internal/modules/session/dto"
	sessionin "blazectl/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, tag string) (sessiondto.StartOutput, error) {
	return h.usecase.Start(ctx, sessiondto.StartInput{Tag: tag})
}

func (h CLIHandler) Stop(ctx context.Context, tag string) (sessiondto.StopOutput, error) {
	return h.usecase.Stop(ctx, sessiondto.StopInput{Tag: tag})
}

func (h CLIHandler) Status(ctx context.Context) (sessiondto.StatusOutput, error) {
	return h.usecase.Status(ctx)
}

func (h CLIHandler) Reindex(ctx context.Context) (sessiondto.ReindexOutput, error) {
	return h.usecase.Reindex(ctx)
}

func (h CLIHandler) Recent(ctx context.Context, limit int) ([]sessiondto.RecordOutput, error) {
	return h.usecase.Recent(ctx, limit)
}
