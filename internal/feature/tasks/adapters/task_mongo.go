package adapters

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"task_backend/internal/feature/tasks/domain/entity"
	"task_backend/internal/feature/tasks/usecase"
	"task_backend/internal/shared/apperr"
)

// TasksCollection is the MongoDB collection holding task documents.
const TasksCollection = "tasks"

// taskDocument is the BSON shape of a task. userId references the owner's _id in users.
type taskDocument struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	Title       string        `bson:"title"`
	Description string        `bson:"description"`
	DueDate     time.Time     `bson:"dueDate"`
	Status      bool          `bson:"status"`
	UserID      bson.ObjectID `bson:"userId"`
	CreatedAt   time.Time     `bson:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt"`
}

func (d *taskDocument) toEntity() entity.Task {
	return entity.Task{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		DueDate:     d.DueDate,
		Status:      d.Status,
		OwnerID:     d.UserID.Hex(),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// taskMongo is the MongoDB implementation of the TaskRepository interface.
type taskMongo struct {
	coll *mongo.Collection
	now  func() time.Time
}

var _ usecase.TaskRepository = (*taskMongo)(nil)

// NewTaskMongo creates a repository backed by the tasks collection of db.
func NewTaskMongo(db *mongo.Database) *taskMongo {
	return &taskMongo{coll: db.Collection(TasksCollection), now: time.Now}
}

// EnsureIndexes creates the owner index used by every query.
func (r *taskMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "_id", Value: 1}},
		Options: options.Index().SetName("userId_id"),
	})
	return apperr.Store(err)
}

func (r *taskMongo) Create(ctx context.Context, task *entity.Task) error {
	if task == nil {
		return errors.New("task must not be nil")
	}
	owner, err := bson.ObjectIDFromHex(task.OwnerID)
	if err != nil {
		return usecase.ErrOwnerRequired
	}
	now := r.now().UTC().Truncate(time.Millisecond)
	doc := taskDocument{
		ID:          bson.NewObjectID(),
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate.UTC().Truncate(time.Millisecond),
		Status:      task.Status,
		UserID:      owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return apperr.Store(err)
	}
	*task = doc.toEntity()
	return nil
}

func (r *taskMongo) ListByOwner(ctx context.Context, ownerID string) ([]entity.Task, error) {
	owner, err := bson.ObjectIDFromHex(ownerID)
	if err != nil {
		return []entity.Task{}, nil
	}
	return r.find(ctx, bson.D{{Key: "userId", Value: owner}})
}

func (r *taskMongo) FindByID(ctx context.Context, ownerID, id string) (*entity.Task, error) {
	filter, ok := idFilter(ownerID, id)
	if !ok {
		return nil, usecase.ErrTaskNotFound
	}
	var doc taskDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, notFoundOrStore(err)
	}
	task := doc.toEntity()
	return &task, nil
}

// Update overwrites the four mutable fields with a single atomic findOneAndUpdate.
func (r *taskMongo) Update(ctx context.Context, ownerID, id string, upd entity.TaskUpdate) (*entity.Task, error) {
	filter, ok := idFilter(ownerID, id)
	if !ok {
		return nil, usecase.ErrTaskNotFound
	}
	set := bson.D{{Key: "$set", Value: bson.D{
		{Key: "title", Value: upd.Title},
		{Key: "description", Value: upd.Description},
		{Key: "dueDate", Value: upd.DueDate.UTC().Truncate(time.Millisecond)},
		{Key: "status", Value: upd.Status},
		{Key: "updatedAt", Value: r.now().UTC().Truncate(time.Millisecond)},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc taskDocument
	if err := r.coll.FindOneAndUpdate(ctx, filter, set, opts).Decode(&doc); err != nil {
		return nil, notFoundOrStore(err)
	}
	task := doc.toEntity()
	return &task, nil
}

func (r *taskMongo) Delete(ctx context.Context, ownerID, id string) error {
	filter, ok := idFilter(ownerID, id)
	if !ok {
		return usecase.ErrTaskNotFound
	}
	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return apperr.Store(err)
	}
	if res.DeletedCount == 0 {
		return usecase.ErrTaskNotFound
	}
	return nil
}

// SearchByTitle matches fragment literally; regex metacharacters are quoted.
func (r *taskMongo) SearchByTitle(ctx context.Context, ownerID, fragment string) ([]entity.Task, error) {
	owner, err := bson.ObjectIDFromHex(ownerID)
	if err != nil {
		return []entity.Task{}, nil
	}
	return r.find(ctx, titleFilter(owner, fragment))
}

func (r *taskMongo) find(ctx context.Context, filter bson.D) ([]entity.Task, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, apperr.Store(err)
	}
	var docs []taskDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, apperr.Store(err)
	}
	out := make([]entity.Task, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toEntity())
	}
	return out, nil
}

// idFilter builds the (_id, userId) filter; ok is false when either ID is not a valid ObjectID.
func idFilter(ownerID, id string) (bson.D, bool) {
	owner, err := bson.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, false
	}
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, false
	}
	return bson.D{{Key: "_id", Value: oid}, {Key: "userId", Value: owner}}, true
}

func titleFilter(owner bson.ObjectID, fragment string) bson.D {
	return bson.D{
		{Key: "userId", Value: owner},
		{Key: "title", Value: bson.Regex{Pattern: regexp.QuoteMeta(fragment), Options: "i"}},
	}
}

func notFoundOrStore(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return usecase.ErrTaskNotFound
	}
	return apperr.Store(err)
}
