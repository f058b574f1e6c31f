package in

import (
	"context"

	"journal/internal/modules/schedule/dto"
	schedulein "journal/internal/modules/schedule/port/in"
)

type CLIHandler struct {
	usecase schedulein.Usecase
}

func NewCLIHandler(usecase schedulein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Schedule(ctx context.Context) (dto.ScheduleOutput, error) {
	return h.usecase.Schedule(ctx)
}

func (h CLIHandler) Today(ctx context.Context) (dto.DueOutput, error) {
	return h.usecase.Today(ctx)
}
