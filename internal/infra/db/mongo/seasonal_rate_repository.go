package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"staywise/internal/domain/property"
)

type SeasonalRateRepository struct {
	col   *mongo.Collection
	props *mongo.Collection
}

func NewSeasonalRateRepository(db *mongo.Database) *SeasonalRateRepository {
	col := db.Collection("seasonal_rates")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "property_id", Value: 1}, {Key: "is_active", Value: 1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &SeasonalRateRepository{col: col, props: db.Collection("properties")}
}

func (r *SeasonalRateRepository) ActiveForProperty(ctx context.Context, id property.ID) ([]property.SeasonalRate, error) {
	filter := bson.M{"property_id": string(id), "is_active": true}
	opts := options.Find().SetSort(bson.D{{Key: "rule_id", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []property.SeasonalRate
	for cur.Next(ctx) {
		var doc seasonalRateDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toRule())
	}
	return out, cur.Err()
}

// Save upserts a rule and bumps the owning property's rules version so stale
// cached quotes stop matching.
func (r *SeasonalRateRepository) Save(ctx context.Context, id property.ID, rule property.SeasonalRate) error {
	if err := rule.Validate(); err != nil {
		return err
	}
	doc := newSeasonalRateDocument(id, rule)
	opts := options.Replace().SetUpsert(true)
	if _, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts); err != nil {
		return err
	}
	_, err := r.props.UpdateByID(ctx, string(id), bson.M{"$inc": bson.M{"rules_version": 1}})
	return err
}

type seasonalRateDocument struct {
	// ID is "<property_id>:<rule_id>"; rule IDs are only unique per property.
	ID             string  `bson:"_id"`
	RuleID         int64   `bson:"rule_id"`
	PropertyID     string  `bson:"property_id"`
	Name           string  `bson:"name"`
	StartDate      int64   `bson:"start_date"`
	EndDate        int64   `bson:"end_date"`
	RateType       string  `bson:"rate_type"`
	RateValue      float64 `bson:"rate_value"`
	MinStayNights  int     `bson:"min_stay_nights"`
	WeekendsOnly   bool    `bson:"weekends_only"`
	ApplicableDays []int   `bson:"applicable_days,omitempty"`
	Priority       int     `bson:"priority"`
	Active         bool    `bson:"is_active"`
}

func newSeasonalRateDocument(id property.ID, rule property.SeasonalRate) seasonalRateDocument {
	doc := seasonalRateDocument{
		ID:            fmt.Sprintf("%s:%d", id, rule.ID),
		RuleID:        rule.ID,
		PropertyID:    string(id),
		Name:          rule.Name,
		StartDate:     rule.StartDate.UnixMilli(),
		EndDate:       rule.EndDate.UnixMilli(),
		RateType:      string(rule.RateType),
		RateValue:     rule.RateValue,
		MinStayNights: rule.MinStayNights,
		WeekendsOnly:  rule.WeekendsOnly,
		Priority:      rule.Priority,
		Active:        rule.Active,
	}
	for _, d := range rule.ApplicableDays {
		doc.ApplicableDays = append(doc.ApplicableDays, int(d))
	}
	return doc
}

func (d seasonalRateDocument) toRule() property.SeasonalRate {
	rule := property.SeasonalRate{
		ID:            d.RuleID,
		Name:          d.Name,
		StartDate:     timestampToTime(d.StartDate),
		EndDate:       timestampToTime(d.EndDate),
		RateType:      property.RateType(d.RateType),
		RateValue:     d.RateValue,
		MinStayNights: d.MinStayNights,
		WeekendsOnly:  d.WeekendsOnly,
		Priority:      d.Priority,
		Active:        d.Active,
	}
	for _, day := range d.ApplicableDays {
		rule.ApplicableDays = append(rule.ApplicableDays, time.Weekday(day))
	}
	return rule
}

var _ property.SeasonalRateRepository = (*SeasonalRateRepository)(nil)
