package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAppointmentTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    AppointmentStatus
		trigger AppointmentTrigger
		want    AppointmentStatus
		wantErr error
	}{
		{"confirm requested", AppointmentStatusRequested, TriggerConfirm, AppointmentStatusConfirmed, nil},
		{"start confirmed", AppointmentStatusConfirmed, TriggerStart, AppointmentStatusInProgress, nil},
		{"complete in progress", AppointmentStatusInProgress, TriggerComplete, AppointmentStatusCompleted, nil},
		{"cancel requested", AppointmentStatusRequested, TriggerCancel, AppointmentStatusCancelled, nil},
		{"cancel confirmed", AppointmentStatusConfirmed, TriggerCancel, AppointmentStatusCancelled, nil},
		{"no show confirmed", AppointmentStatusConfirmed, TriggerNoShow, AppointmentStatusNoShow, nil},
		{"complete requested", AppointmentStatusRequested, TriggerComplete, AppointmentStatusRequested, ErrInvalidTransition},
		{"start requested", AppointmentStatusRequested, TriggerStart, AppointmentStatusRequested, ErrInvalidTransition},
		{"cancel in progress", AppointmentStatusInProgress, TriggerCancel, AppointmentStatusInProgress, ErrInvalidTransition},
		{"no show requested", AppointmentStatusRequested, TriggerNoShow, AppointmentStatusRequested, ErrInvalidTransition},
		{"confirm completed", AppointmentStatusCompleted, TriggerConfirm, AppointmentStatusCompleted, ErrInvalidTransition},
		{"cancel cancelled", AppointmentStatusCancelled, TriggerCancel, AppointmentStatusCancelled, ErrInvalidTransition},
		{"cancel no show", AppointmentStatusNoShow, TriggerCancel, AppointmentStatusNoShow, ErrInvalidTransition},
		{"unknown trigger", AppointmentStatusRequested, AppointmentTrigger("bogus"), AppointmentStatusRequested, ErrUnknownTrigger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Appointment{Status: tt.from}
			err := a.Apply(tt.trigger)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, a.Status)
		})
	}
}

func TestTerminalStatuses(t *testing.T) {
	for _, s := range []AppointmentStatus{AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusNoShow} {
		assert.True(t, s.IsTerminal(), s)
		assert.False(t, s.IsActive(), s)
	}
	for _, s := range ActiveAppointmentStatuses {
		assert.True(t, s.IsActive(), s)
		assert.False(t, s.IsTerminal(), s)
	}
	assert.False(t, AppointmentStatus("BOGUS").IsTerminal())
}

func TestAppointmentOverlapsIsHalfOpen(t *testing.T) {
	base := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)
	a := &Appointment{StartTime: base, EndTime: base.Add(time.Hour)}

	assert.False(t, a.Overlaps(base.Add(time.Hour), base.Add(2*time.Hour)), "abutting after")
	assert.False(t, a.Overlaps(base.Add(-time.Hour), base), "abutting before")
	assert.True(t, a.Overlaps(base.Add(30*time.Minute), base.Add(90*time.Minute)))
	assert.True(t, a.Overlaps(base.Add(-30*time.Minute), base.Add(30*time.Minute)))
	assert.True(t, a.Overlaps(base.Add(10*time.Minute), base.Add(20*time.Minute)), "contained")
	assert.True(t, a.Overlaps(base.Add(-time.Hour), base.Add(2*time.Hour)), "containing")
}

func TestAppointmentServices(t *testing.T) {
	a := &Appointment{}
	s1 := Service{ID: uuid.New()}
	s2 := Service{ID: uuid.New()}

	assert.True(t, a.AddService(s1))
	assert.False(t, a.AddService(s1))
	assert.True(t, a.AddService(s2))
	assert.Equal(t, []uuid.UUID{s1.ID, s2.ID}, a.ServiceIDs())

	removed := a.RemoveService(s1.ID)
	if assert.NotNil(t, removed) {
		assert.Equal(t, s1.ID, removed.ID)
	}
	assert.Nil(t, a.RemoveService(s1.ID))
	assert.Equal(t, []uuid.UUID{s2.ID}, a.ServiceIDs())
}

func TestSlotValid(t *testing.T) {
	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	ok := Slot{CompanyID: uuid.New(), EmployeeID: uuid.New(), Start: start, End: start.Add(time.Hour)}
	assert.True(t, ok.Valid())

	equal := ok
	equal.End = equal.Start
	assert.False(t, equal.Valid())

	missing := ok
	missing.EmployeeID = uuid.Nil
	assert.False(t, missing.Valid())
}

func TestPageNormalize(t *testing.T) {
	assert.Equal(t, Page{Number: 1, Size: DefaultPageSize}, Page{}.Normalize())
	assert.Equal(t, MaxPageSize, Page{Number: 2, Size: 1000}.Limit())
	assert.Equal(t, 20, Page{Number: 3, Size: 10}.Offset())
}
