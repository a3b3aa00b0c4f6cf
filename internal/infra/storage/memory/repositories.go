package memory

import (
	"context"
	"sort"
	"sync"

	"staywise/internal/domain/availability"
	domainbooking "staywise/internal/domain/booking"
	"staywise/internal/domain/property"
)

// PropertyRepository is an in-memory implementation for demos and tests.
type PropertyRepository struct {
	mu    sync.RWMutex
	items map[property.ID]*property.Property
}

func NewPropertyRepository() *PropertyRepository {
	return &PropertyRepository{items: make(map[property.ID]*property.Property)}
}

func (r *PropertyRepository) ByID(ctx context.Context, id property.ID) (*property.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	if !ok {
		return nil, property.ErrPropertyNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *PropertyRepository) Save(ctx context.Context, p *property.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *p
	r.items[p.ID] = &clone
	return nil
}

func (r *PropertyRepository) bumpRulesVersion(id property.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.items[id]; ok {
		p.RulesVersion++
	}
}

// SeasonalRateRepository stores rules per property and bumps the owning
// property's rules version on every change, so cached quotes go stale.
type SeasonalRateRepository struct {
	mu         sync.RWMutex
	rules      map[property.ID][]property.SeasonalRate
	properties *PropertyRepository
}

func NewSeasonalRateRepository(props *PropertyRepository) *SeasonalRateRepository {
	return &SeasonalRateRepository{
		rules:      make(map[property.ID][]property.SeasonalRate),
		properties: props,
	}
}

func (r *SeasonalRateRepository) ActiveForProperty(ctx context.Context, id property.ID) ([]property.SeasonalRate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []property.SeasonalRate
	for _, rule := range r.rules[id] {
		if rule.Active {
			out = append(out, rule)
		}
	}
	return out, nil
}

func (r *SeasonalRateRepository) Save(ctx context.Context, id property.ID, rule property.SeasonalRate) error {
	if err := rule.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	replaced := false
	existing := r.rules[id]
	for i := range existing {
		if existing[i].ID == rule.ID {
			existing[i] = rule
			replaced = true
			break
		}
	}
	if !replaced {
		r.rules[id] = append(existing, rule)
	}
	r.mu.Unlock()

	if r.properties != nil {
		r.properties.bumpRulesVersion(id)
	}
	return nil
}

// BookingRepository keeps bookings in memory.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]*domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]*domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrBookingNotFound
	}
	return b, nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[b.ID] = b
	return nil
}

func (r *BookingRepository) ListByGuest(ctx context.Context, guestID string) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainbooking.Booking
	for _, b := range r.items {
		if b.GuestID == guestID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *BookingRepository) HoldingIntervals(ctx context.Context, propertyID property.ID) ([]availability.BookedInterval, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []availability.BookedInterval
	for _, b := range r.items {
		if b.PropertyID != propertyID || !b.Status.HoldsProperty() {
			continue
		}
		out = append(out, b.Interval())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Range.CheckIn.Before(out[j].Range.CheckIn) })
	return out, nil
}

var (
	_ property.Repository             = (*PropertyRepository)(nil)
	_ property.SeasonalRateRepository = (*SeasonalRateRepository)(nil)
	_ domainbooking.Repository        = (*BookingRepository)(nil)
)
