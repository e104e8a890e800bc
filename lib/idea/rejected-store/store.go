package rejectedideastore

import (
	"context"
	ideaapimodels "idea-portal-backend/models/api/idea"
	dbmodels "idea-portal-backend/models/db"
	"idea-portal-backend/mongodb"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Provider interface {
	Create(ctx context.Context, rec dbmodels.RejectedIdea) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*dbmodels.RejectedIdea, error)
	List(ctx context.Context, filter ideaapimodels.IdeaFilter) ([]dbmodels.RejectedIdea, error)
}

func NewInstance(db *mongo.Database) Provider {
	return &impl{
		collection: db.Collection(mongodb.RejectedIdeaCollection),
	}
}

type impl struct {
	collection *mongo.Collection
}

// ErrAlreadyArchived копия с тем же _id уже есть в архиве
var ErrAlreadyArchived = errors.New("идея уже перенесена в архив")

func (i impl) Create(ctx context.Context, rec dbmodels.RejectedIdea) error {
	_, err := i.collection.InsertOne(ctx, rec)
	if mongo.IsDuplicateKeyError(err) {
		return ErrAlreadyArchived
	}
	return err
}

func (i impl) GetByID(ctx context.Context, id primitive.ObjectID) (*dbmodels.RejectedIdea, error) {
	rec := dbmodels.RejectedIdea{}
	err := i.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) List(ctx context.Context, filter ideaapimodels.IdeaFilter) ([]dbmodels.RejectedIdea, error) {
	query := bson.M{}
	if filter.EmployeeID != "" {
		query["employeeId"] = filter.EmployeeID
	}
	opts := options.Find().SetSort(bson.D{{Key: "rejectedAt", Value: -1}})
	cursor, err := i.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	list := []dbmodels.RejectedIdea{}
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}
