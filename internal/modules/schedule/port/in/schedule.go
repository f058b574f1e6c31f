package in

import (
	"context"

	"journal/internal/modules/schedule/dto"
)

type Usecase interface {
	Schedule(ctx context.Context) (dto.ScheduleOutput, error)
	Today(ctx context.Context) (dto.DueOutput, error)
}
