package ideastore

import (
	"context"
	ideaapimodels "idea-portal-backend/models/api/idea"
	dbmodels "idea-portal-backend/models/db"
	"idea-portal-backend/mongodb"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Provider interface {
	Create(ctx context.Context, rec dbmodels.Idea) (*dbmodels.Idea, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*dbmodels.Idea, error)
	List(ctx context.Context, filter ideaapimodels.IdeaFilter) ([]dbmodels.Idea, error)
	Update(ctx context.Context, id primitive.ObjectID, updMap map[string]interface{}) (*dbmodels.Idea, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
	ListRelocationPending(ctx context.Context, requestedBefore time.Time) ([]dbmodels.Idea, error)
}

func NewInstance(db *mongo.Database) Provider {
	return &impl{
		collection: db.Collection(mongodb.IdeaCollection),
	}
}

type impl struct {
	collection *mongo.Collection
}

func (i impl) Create(ctx context.Context, rec dbmodels.Idea) (*dbmodels.Idea, error) {
	if rec.ID.IsZero() {
		rec.ID = primitive.NewObjectID()
	}
	if rec.BookmarkedBy == nil {
		rec.BookmarkedBy = []string{}
	}
	_, err := i.collection.InsertOne(ctx, rec)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetByID(ctx context.Context, id primitive.ObjectID) (*dbmodels.Idea, error) {
	rec := dbmodels.Idea{}
	err := i.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) List(ctx context.Context, filter ideaapimodels.IdeaFilter) ([]dbmodels.Idea, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}})
	cursor, err := i.collection.Find(ctx, BuildFilter(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	list := []dbmodels.Idea{}
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Update идеи в процессе переноса в архив не изменяются, для них возвращается nil
func (i impl) Update(ctx context.Context, id primitive.ObjectID, updMap map[string]interface{}) (*dbmodels.Idea, error) {
	rec := dbmodels.Idea{}
	filter := bson.M{
		"_id":        id,
		"relocation": bson.M{"$exists": false},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := i.collection.
		FindOneAndUpdate(ctx, filter, bson.M{"$set": updMap}, opts).
		Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// Delete false - документа уже нет, ошибкой это не считается
func (i impl) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := i.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (i impl) ListRelocationPending(ctx context.Context, requestedBefore time.Time) ([]dbmodels.Idea, error) {
	filter := bson.M{"relocation.requestedAt": bson.M{"$lte": requestedBefore}}
	cursor, err := i.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	list := []dbmodels.Idea{}
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// BuildFilter идеи в процессе переноса в архив в выборку не попадают
func BuildFilter(filter ideaapimodels.IdeaFilter) bson.M {
	result := bson.M{
		"relocation": bson.M{"$exists": false},
	}
	statusCond := bson.M{}
	if filter.Status != "" {
		statusCond["$eq"] = filter.Status
	}
	if filter.ExcludeStatus != "" {
		statusCond["$ne"] = filter.ExcludeStatus
	}
	if len(statusCond) != 0 {
		result["status"] = statusCond
	}
	if filter.EmployeeID != "" {
		result["employeeId"] = filter.EmployeeID
	}
	return result
}
