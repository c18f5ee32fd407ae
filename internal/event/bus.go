package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
)

const defaultListenerTimeout = 5 * time.Second

type named interface {
	Name() string
}

// Bus delivers events to listeners asynchronously. Delivery is best effort
// and at most once: listener errors and panics are logged and never reach
// the publisher.
type Bus struct {
	log       *logrus.Logger
	timeout   time.Duration
	onFailure func(listener string)

	mu                   sync.RWMutex
	closed               bool
	wg                   conc.WaitGroup
	appointmentListeners []AppointmentListener
	userListeners        []UserListener
}

type Option func(*Bus)

// WithListenerTimeout bounds each listener invocation.
func WithListenerTimeout(d time.Duration) Option {
	return func(b *Bus) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// WithFailureHook is called with the listener name after each failed delivery.
func WithFailureHook(fn func(listener string)) Option {
	return func(b *Bus) {
		b.onFailure = fn
	}
}

func NewBus(log *logrus.Logger, opts ...Option) *Bus {
	b := &Bus{
		log:       log,
		timeout:   defaultListenerTimeout,
		onFailure: func(string) {},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Bus) SubscribeAppointments(listeners ...AppointmentListener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.appointmentListeners = append(b.appointmentListeners, listeners...)
}

func (b *Bus) SubscribeUsers(listeners ...UserListener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.userListeners = append(b.userListeners, listeners...)
}

func (b *Bus) PublishAppointmentCreated(ctx context.Context, e AppointmentCreated) {
	dispatch(ctx, b, NameAppointmentCreated, b.appointments(), func(ctx context.Context, l AppointmentListener) error {
		return l.OnAppointmentCreated(ctx, e)
	})
}

func (b *Bus) PublishAppointmentStatusChanged(ctx context.Context, e AppointmentStatusChanged) {
	dispatch(ctx, b, NameAppointmentStatusChanged, b.appointments(), func(ctx context.Context, l AppointmentListener) error {
		return l.OnAppointmentStatusChanged(ctx, e)
	})
}

func (b *Bus) PublishAppointmentDeleted(ctx context.Context, e AppointmentDeleted) {
	dispatch(ctx, b, NameAppointmentDeleted, b.appointments(), func(ctx context.Context, l AppointmentListener) error {
		return l.OnAppointmentDeleted(ctx, e)
	})
}

func (b *Bus) PublishUserRegistered(ctx context.Context, e UserRegistered) {
	dispatch(ctx, b, NameUserRegistered, b.users(), func(ctx context.Context, l UserListener) error {
		return l.OnUserRegistered(ctx, e)
	})
}

func (b *Bus) PublishUserDeleted(ctx context.Context, e UserDeleted) {
	dispatch(ctx, b, NameUserDeleted, b.users(), func(ctx context.Context, l UserListener) error {
		return l.OnUserDeleted(ctx, e)
	})
}

// Wait blocks until every delivery started so far has finished.
func (b *Bus) Wait() {
	b.wg.Wait()
}

// Close stops accepting events and drains in-flight deliveries.
func (b *Bus) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	b.wg.Wait()
}

func (b *Bus) appointments() []AppointmentListener {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.appointmentListeners
}

func (b *Bus) users() []UserListener {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.userListeners
}

func dispatch[L named](ctx context.Context, b *Bus, name string, listeners []L, call func(context.Context, L) error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		b.log.Warnf("Event bus closed, dropping %s", name)
		return
	}

	// Listeners outlive the request that published the event.
	base := context.WithoutCancel(ctx)

	for _, l := range listeners {
		listener := l
		b.wg.Go(func() {
			lctx, cancel := context.WithTimeout(base, b.timeout)
			defer cancel()

			if err := invoke(lctx, listener, call); err != nil {
				b.log.WithFields(logrus.Fields{
					"event":    name,
					"listener": listener.Name(),
				}).Warnf("Event listener failed: %+v", err)
				b.onFailure(listener.Name())
			}
		})
	}
}

func invoke[L named](ctx context.Context, listener L, call func(context.Context, L) error) (err error) {
	var pc panics.Catcher
	pc.Try(func() {
		err = call(ctx, listener)
	})
	if r := pc.Recovered(); r != nil {
		return fmt.Errorf("listener panicked: %w", r.AsError())
	}
	return err
}
