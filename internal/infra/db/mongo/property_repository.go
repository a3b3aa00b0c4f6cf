package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"staywise/internal/domain/property"
)

type PropertyRepository struct {
	col *mongo.Collection
}

func NewPropertyRepository(db *mongo.Database) *PropertyRepository {
	return &PropertyRepository{col: db.Collection("properties")}
}

func (r *PropertyRepository) ByID(ctx context.Context, id property.ID) (*property.Property, error) {
	var doc propertyDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, property.ErrPropertyNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *PropertyRepository) Save(ctx context.Context, p *property.Property) error {
	doc := newPropertyDocument(p)
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

type pricingDocument struct {
	BaseRate          float64 `bson:"base_rate"`
	WeekendPremiumPct float64 `bson:"weekend_premium_pct"`
	CleaningFee       float64 `bson:"cleaning_fee"`
	ExtraBedRate      float64 `bson:"extra_bed_rate"`
	Capacity          int     `bson:"capacity"`
	CapacityMax       int     `bson:"capacity_max"`
	MinStayWeekday    int     `bson:"min_stay_weekday"`
	MinStayWeekend    int     `bson:"min_stay_weekend"`
	MinStayPeak       int     `bson:"min_stay_peak"`
	Version           int64   `bson:"version"`
}

type propertyDocument struct {
	ID           string          `bson:"_id"`
	HostID       string          `bson:"host_id"`
	Title        string          `bson:"title"`
	Description  string          `bson:"description"`
	Address      string          `bson:"address"`
	City         string          `bson:"city"`
	Pricing      pricingDocument `bson:"pricing"`
	RulesVersion int64           `bson:"rules_version"`
	CreatedAt    int64           `bson:"created_at"`
	UpdatedAt    int64           `bson:"updated_at"`
}

func newPropertyDocument(p *property.Property) propertyDocument {
	return propertyDocument{
		ID:          string(p.ID),
		HostID:      p.HostID,
		Title:       p.Title,
		Description: p.Description,
		Address:     p.Address,
		City:        p.City,
		Pricing: pricingDocument{
			BaseRate:          p.Pricing.BaseRate,
			WeekendPremiumPct: p.Pricing.WeekendPremiumPct,
			CleaningFee:       p.Pricing.CleaningFee,
			ExtraBedRate:      p.Pricing.ExtraBedRate,
			Capacity:          p.Pricing.Capacity,
			CapacityMax:       p.Pricing.CapacityMax,
			MinStayWeekday:    p.Pricing.MinStayWeekday,
			MinStayWeekend:    p.Pricing.MinStayWeekend,
			MinStayPeak:       p.Pricing.MinStayPeak,
			Version:           p.Pricing.Version,
		},
		RulesVersion: p.RulesVersion,
		CreatedAt:    p.CreatedAt.UnixMilli(),
		UpdatedAt:    p.UpdatedAt.UnixMilli(),
	}
}

func (d propertyDocument) toEntity() *property.Property {
	return &property.Property{
		ID:          property.ID(d.ID),
		HostID:      d.HostID,
		Title:       d.Title,
		Description: d.Description,
		Address:     d.Address,
		City:        d.City,
		Pricing: property.PricingProfile{
			BaseRate:          d.Pricing.BaseRate,
			WeekendPremiumPct: d.Pricing.WeekendPremiumPct,
			CleaningFee:       d.Pricing.CleaningFee,
			ExtraBedRate:      d.Pricing.ExtraBedRate,
			Capacity:          d.Pricing.Capacity,
			CapacityMax:       d.Pricing.CapacityMax,
			MinStayWeekday:    d.Pricing.MinStayWeekday,
			MinStayWeekend:    d.Pricing.MinStayWeekend,
			MinStayPeak:       d.Pricing.MinStayPeak,
			Version:           d.Pricing.Version,
		},
		RulesVersion: d.RulesVersion,
		CreatedAt:    timestampToTime(d.CreatedAt),
		UpdatedAt:    timestampToTime(d.UpdatedAt),
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

var _ property.Repository = (*PropertyRepository)(nil)
