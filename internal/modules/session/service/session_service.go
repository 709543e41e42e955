package service

import (
	"time"

	"blazectl/internal/modules/session/domain"
	"blazectl/internal/platform/clock"
)

type SessionService struct {
	clock clock.Clock
}

func NewSessionService(clock clock.Clock) *SessionService {
	return &SessionService{clock: clock}
}

func (s *SessionService) Start(state domain.ActiveState, activity domain.Activity) (domain.ActiveState, domain.StartResult) {
	return state.Start(activity, s.now())
}

func (s *SessionService) Stop(state domain.ActiveState, activity domain.Activity) (domain.ActiveState, domain.Record, bool) {
	return state.Stop(activity, s.now())
}

func (s *SessionService) Elapsed(since time.Time) time.Duration {
	d := s.now().Sub(since)
	if d < 0 {
		return 0
	}
	return d
}

func (s *SessionService) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Second)
}
