package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Mutter0815/PageBuilder/internal/apperr"
	"github.com/Mutter0815/PageBuilder/internal/auth"
	"github.com/Mutter0815/PageBuilder/internal/campaign"
	"github.com/Mutter0815/PageBuilder/internal/section"
)

const (
	campaignsCollection = "campaigns"
	usersCollection     = "users"
)

// Mongo is the primary document store.
type Mongo struct {
	campaigns *mongo.Collection
	users     *mongo.Collection
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{
		campaigns: db.Collection(campaignsCollection),
		users:     db.Collection(usersCollection),
	}
}

type campaignDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Name            string             `bson:"name"`
	Slug            string             `bson:"slug"`
	Sections        []section.Section  `bson:"sections"`
	IsActive        bool               `bson:"isActive"`
	BackgroundColor string             `bson:"backgroundColor"`
	User            string             `bson:"user,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"`
}

func toCampaignDoc(c campaign.Campaign) campaignDoc {
	d := campaignDoc{
		Name:            c.Name,
		Slug:            c.Slug,
		Sections:        c.Sections,
		IsActive:        c.IsActive,
		BackgroundColor: c.BackgroundColor,
		User:            c.CreatedBy,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
	if d.Sections == nil {
		d.Sections = []section.Section{}
	}
	return d
}

func (d campaignDoc) campaign() campaign.Campaign {
	return campaign.Campaign{
		ID:              d.ID.Hex(),
		Name:            d.Name,
		Slug:            d.Slug,
		Sections:        d.Sections,
		IsActive:        d.IsActive,
		BackgroundColor: d.BackgroundColor,
		CreatedBy:       d.User,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	Password  string             `bson:"password"`
	Role      string             `bson:"role"`
	IsActive  bool               `bson:"isActive"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

// EnsureIndexes creates the unique slug and username indexes and the text
// index used by search.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := m.campaigns.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true).SetName("slug_unique")},
		{Keys: bson.D{{Key: "name", Value: "text"}, {Key: "slug", Value: "text"}}, Options: options.Index().SetName("name_slug_text")},
	})
	if err != nil {
		return err
	}
	_, err = m.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("username_unique"),
	})
	return err
}

func (m *Mongo) CreateCampaign(ctx context.Context, c *campaign.Campaign) error {
	res, err := m.campaigns.InsertOne(ctx, toCampaignDoc(*c))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return slugTaken(c.Slug)
		}
		return apperr.Transport(err, "insert campaign")
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		c.ID = oid.Hex()
	}
	return nil
}

func (m *Mongo) GetCampaign(ctx context.Context, slug string) (campaign.Campaign, error) {
	var d campaignDoc
	if err := m.campaigns.FindOne(ctx, bson.M{"slug": slug}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return campaign.Campaign{}, notFound(slug)
		}
		return campaign.Campaign{}, apperr.Transport(err, "get campaign")
	}
	return d.campaign(), nil
}

// patchSet maps the fields set in p to a $set document.
func patchSet(p campaign.Patch) bson.D {
	set := bson.D{}
	if p.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *p.Name})
	}
	if p.Sections != nil {
		ss := *p.Sections
		if ss == nil {
			ss = []section.Section{}
		}
		set = append(set, bson.E{Key: "sections", Value: ss})
	}
	if p.IsActive != nil {
		set = append(set, bson.E{Key: "isActive", Value: *p.IsActive})
	}
	if p.BackgroundColor != nil {
		set = append(set, bson.E{Key: "backgroundColor", Value: *p.BackgroundColor})
	}
	updatedAt := p.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	return append(set, bson.E{Key: "updatedAt", Value: updatedAt})
}

func (m *Mongo) UpdateCampaign(ctx context.Context, slug string, p campaign.Patch) (campaign.Campaign, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var d campaignDoc
	err := m.campaigns.FindOneAndUpdate(ctx, bson.M{"slug": slug}, bson.D{{Key: "$set", Value: patchSet(p)}}, opts).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return campaign.Campaign{}, notFound(slug)
		}
		return campaign.Campaign{}, apperr.Transport(err, "update campaign")
	}
	return d.campaign(), nil
}

func (m *Mongo) DeleteCampaign(ctx context.Context, slug string) error {
	res, err := m.campaigns.DeleteOne(ctx, bson.M{"slug": slug})
	if err != nil {
		return apperr.Transport(err, "delete campaign")
	}
	if res.DeletedCount == 0 {
		return notFound(slug)
	}
	return nil
}

var mongoSortFields = map[string]string{
	campaign.SortName:      "name",
	campaign.SortSlug:      "slug",
	campaign.SortCreatedAt: "createdAt",
	campaign.SortUpdatedAt: "updatedAt",
}

// listFilter builds the filter and find options for q.
func listFilter(q campaign.ListQuery) (bson.M, *options.FindOptions) {
	filter := bson.M{}
	if q.Search != "" {
		filter["$text"] = bson.M{"$search": q.Search}
	}
	dir := 1
	if q.Desc() {
		dir = -1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: mongoSortFields[q.Sort], Value: dir}, {Key: "_id", Value: dir}}).
		SetSkip(int64(q.Offset())).
		SetLimit(int64(q.Limit))
	return filter, opts
}

func (m *Mongo) ListCampaigns(ctx context.Context, q campaign.ListQuery) (campaign.ListResult, error) {
	q = q.Normalize()
	filter, opts := listFilter(q)

	total, err := m.campaigns.CountDocuments(ctx, filter)
	if err != nil {
		return campaign.ListResult{}, apperr.Transport(err, "count campaigns")
	}
	cur, err := m.campaigns.Find(ctx, filter, opts)
	if err != nil {
		return campaign.ListResult{}, apperr.Transport(err, "list campaigns")
	}
	defer cur.Close(ctx)

	var docs []campaignDoc
	if err := cur.All(ctx, &docs); err != nil {
		return campaign.ListResult{}, apperr.Transport(err, "decode campaigns")
	}
	items := make([]campaign.Campaign, len(docs))
	for i, d := range docs {
		items[i] = d.campaign()
	}
	return q.Result(items, total), nil
}

func (m *Mongo) CreateUser(ctx context.Context, u *auth.User) error {
	res, err := m.users.InsertOne(ctx, userDoc{
		Username:  u.Username,
		Password:  u.PasswordHash,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return usernameTaken(u.Username)
		}
		return apperr.Transport(err, "insert user")
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid.Hex()
	}
	return nil
}

func (m *Mongo) GetUserByUsername(ctx context.Context, username string) (auth.User, error) {
	var d userDoc
	if err := m.users.FindOne(ctx, bson.M{"username": username}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return auth.User{}, apperr.ErrUserNotFound
		}
		return auth.User{}, apperr.Transport(err, "get user")
	}
	return auth.User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		PasswordHash: d.Password,
		Role:         auth.Role(d.Role),
		IsActive:     d.IsActive,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}
