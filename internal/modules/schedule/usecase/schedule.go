package usecase

import (
	"context"

	"journal/internal/modules/schedule/domain"
	"journal/internal/modules/schedule/dto"
	schedulein "journal/internal/modules/schedule/port/in"
	"journal/internal/platform/clock"
)

type Interactor struct {
	clock    clock.Clock
	schedule domain.Schedule
}

func NewInteractor(clock clock.Clock, schedule domain.Schedule) schedulein.Usecase {
	return &Interactor{clock: clock, schedule: schedule}
}

func (i *Interactor) Schedule(context.Context) (dto.ScheduleOutput, error) {
	return dto.ScheduleOutput{
		Daily:   toEntries(i.schedule.Table(domain.CadenceDaily)),
		Weekly:  toEntries(i.schedule.Table(domain.CadenceWeekly)),
		Monthly: toEntries(i.schedule.Table(domain.CadenceMonthly)),
	}, nil
}

func (i *Interactor) Today(context.Context) (dto.DueOutput, error) {
	today := clock.Today(i.clock)
	return dto.DueOutput{
		Day:     today.Format("2006-01-02"),
		Weekday: today.Weekday().String(),
		Entries: toEntries(i.schedule.Due(today)),
	}, nil
}

func toEntries(entries []domain.Entry) []dto.EntryOutput {
	out := make([]dto.EntryOutput, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.EntryOutput{When: e.When, Standard: e.Standard, Notes: e.Notes})
	}
	return out
}
