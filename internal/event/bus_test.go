package event

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"beauty-center-backend/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingListener struct {
	name string
	err  error
	boom bool

	mu       sync.Mutex
	created  []AppointmentCreated
	statuses []AppointmentStatusChanged
	ctxErr   error
}

func (l *recordingListener) Name() string { return l.name }

func (l *recordingListener) OnAppointmentCreated(ctx context.Context, e AppointmentCreated) error {
	if l.boom {
		panic("listener exploded")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.created = append(l.created, e)
	l.ctxErr = ctx.Err()
	return l.err
}

func (l *recordingListener) OnAppointmentStatusChanged(_ context.Context, e AppointmentStatusChanged) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.statuses = append(l.statuses, e)
	return l.err
}

func (l *recordingListener) OnAppointmentDeleted(context.Context, AppointmentDeleted) error {
	return l.err
}

func (l *recordingListener) createdCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.created)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func sampleAppointment() entity.Appointment {
	start := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	return entity.Appointment{
		ID:         uuid.New(),
		CompanyID:  uuid.New(),
		EmployeeID: uuid.New(),
		CustomerID: uuid.New(),
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
		Status:     entity.AppointmentStatusRequested,
	}
}

func TestBusDeliversToAllListeners(t *testing.T) {
	bus := NewBus(quietLogger())
	a := &recordingListener{name: "a"}
	b := &recordingListener{name: "b"}
	bus.SubscribeAppointments(a, b)

	bus.PublishAppointmentCreated(context.Background(), AppointmentCreated{Appointment: sampleAppointment()})
	bus.Wait()

	assert.Equal(t, 1, a.createdCount())
	assert.Equal(t, 1, b.createdCount())
}

func TestBusIsolatesFailingListeners(t *testing.T) {
	var failures []string
	var mu sync.Mutex
	bus := NewBus(quietLogger(), WithFailureHook(func(name string) {
		mu.Lock()
		failures = append(failures, name)
		mu.Unlock()
	}))

	failing := &recordingListener{name: "failing", err: errors.New("broker down")}
	panicking := &recordingListener{name: "panicking", boom: true}
	healthy := &recordingListener{name: "healthy"}
	bus.SubscribeAppointments(failing, panicking, healthy)

	assert.NotPanics(t, func() {
		bus.PublishAppointmentCreated(context.Background(), AppointmentCreated{Appointment: sampleAppointment()})
		bus.Wait()
	})

	assert.Equal(t, 1, healthy.createdCount())
	assert.ElementsMatch(t, []string{"failing", "panicking"}, failures)
}

func TestBusListenersOutliveCanceledContext(t *testing.T) {
	bus := NewBus(quietLogger())
	l := &recordingListener{name: "l"}
	bus.SubscribeAppointments(l)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.PublishAppointmentCreated(ctx, AppointmentCreated{Appointment: sampleAppointment()})
	bus.Wait()

	require.Equal(t, 1, l.createdCount())
	assert.NoError(t, l.ctxErr)
}

func TestBusDropsEventsAfterClose(t *testing.T) {
	bus := NewBus(quietLogger())
	l := &recordingListener{name: "l"}
	bus.SubscribeAppointments(l)

	bus.Close()
	bus.PublishAppointmentCreated(context.Background(), AppointmentCreated{Appointment: sampleAppointment()})
	bus.Wait()

	assert.Equal(t, 0, l.createdCount())
}

type slowListener struct {
	recordingListener
	done atomic.Bool
}

func (l *slowListener) OnAppointmentCreated(ctx context.Context, _ AppointmentCreated) error {
	<-ctx.Done()
	l.done.Store(true)
	return ctx.Err()
}

func TestBusListenerTimeout(t *testing.T) {
	bus := NewBus(quietLogger(), WithListenerTimeout(10*time.Millisecond))
	l := &slowListener{recordingListener: recordingListener{name: "slow"}}
	bus.SubscribeAppointments(l)

	bus.PublishAppointmentCreated(context.Background(), AppointmentCreated{Appointment: sampleAppointment()})
	bus.Close()

	assert.True(t, l.done.Load())
}

type capturePublisher struct {
	mu       sync.Mutex
	types    []string
	keys     []string
	payloads [][]byte
}

func (p *capturePublisher) Publish(_ context.Context, eventType, key string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.types = append(p.types, eventType)
	p.keys = append(p.keys, key)
	p.payloads = append(p.payloads, body)
	return nil
}

func TestNotificationListenerFiltersStatuses(t *testing.T) {
	pub := &capturePublisher{}
	l := NewNotificationListener(pub)
	appt := sampleAppointment()
	ctx := context.Background()

	require.NoError(t, l.OnAppointmentCreated(ctx, AppointmentCreated{Appointment: appt}))
	require.NoError(t, l.OnAppointmentStatusChanged(ctx, AppointmentStatusChanged{
		Appointment: appt,
		OldStatus:   entity.AppointmentStatusConfirmed,
		NewStatus:   entity.AppointmentStatusInProgress,
	}))
	require.NoError(t, l.OnAppointmentStatusChanged(ctx, AppointmentStatusChanged{
		Appointment: appt,
		OldStatus:   entity.AppointmentStatusRequested,
		NewStatus:   entity.AppointmentStatusCancelled,
	}))

	require.Len(t, pub.types, 2)
	assert.Equal(t, []string{NameAppointmentCreated, NameAppointmentStatusChanged}, pub.types)
	assert.Equal(t, appt.ID.String(), pub.keys[1])

	var n Notification
	require.NoError(t, json.Unmarshal(pub.payloads[1], &n))
	assert.Equal(t, entity.AppointmentStatusCancelled, n.Status)
	assert.Equal(t, entity.AppointmentStatusRequested, n.OldStatus)
}
