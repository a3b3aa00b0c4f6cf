package property

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidBaseRate   = errors.New("property: base rate must be positive")
	ErrInvalidCapacity   = errors.New("property: capacity must be at least 1")
	ErrCapacityMaxTooLow = errors.New("property: capacity max must be >= capacity")
	ErrNegativeFee       = errors.New("property: fees and surcharges must be non-negative")
	ErrTitleRequired     = errors.New("property: title is required")
	ErrPropertyNotFound  = errors.New("property: not found")
)

type ID string

// PricingProfile is the read-only pricing snapshot the rate engine consumes.
// Amounts are whole rupiah expressed as float64 so percentage math keeps full
// precision until presentation.
type PricingProfile struct {
	BaseRate          float64
	WeekendPremiumPct float64
	CleaningFee       float64
	ExtraBedRate      float64
	Capacity          int
	CapacityMax       int
	MinStayWeekday    int
	MinStayWeekend    int
	MinStayPeak       int
	Version           int64
}

func (p PricingProfile) Validate() error {
	if p.BaseRate <= 0 {
		return ErrInvalidBaseRate
	}
	if p.Capacity < 1 {
		return ErrInvalidCapacity
	}
	if p.CapacityMax < p.Capacity {
		return ErrCapacityMaxTooLow
	}
	if p.CleaningFee < 0 || p.ExtraBedRate < 0 || p.WeekendPremiumPct < 0 {
		return ErrNegativeFee
	}
	return nil
}

type Property struct {
	ID          ID
	HostID      string
	Title       string
	Description string
	Address     string
	City        string
	Pricing     PricingProfile
	// RulesVersion bumps whenever the seasonal rate set changes, so cached
	// quotes built on an older rule set stop matching.
	RulesVersion int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CreateParams struct {
	ID      ID
	HostID  string
	Title   string
	Address string
	City    string
	Pricing PricingProfile
	Now     time.Time
}

func New(params CreateParams) (*Property, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, errors.New("property: id is required")
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrTitleRequired
	}
	if err := params.Pricing.Validate(); err != nil {
		return nil, err
	}
	now := params.Now.UTC()
	return &Property{
		ID:        params.ID,
		HostID:    params.HostID,
		Title:     params.Title,
		Address:   params.Address,
		City:      params.City,
		Pricing:   params.Pricing,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Property, error)
	Save(ctx context.Context, p *Property) error
}

type SeasonalRateRepository interface {
	// ActiveForProperty returns the active seasonal rate rules for a property.
	ActiveForProperty(ctx context.Context, id ID) ([]SeasonalRate, error)
	Save(ctx context.Context, id ID, rule SeasonalRate) error
}
