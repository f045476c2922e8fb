// Package mongo implements storage.Store on MongoDB.
//
// Each task is one document in the tasks collection; its outgoing
// dependency edges are embedded as the depends_on array. Replacing a
// task's dependencies is therefore a single-document update, which MongoDB
// applies atomically without a multi-document transaction. Task ids are
// allocated from a counters collection so they stay small positive
// integers like the SQLite backend's.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/taskgraph/pkg/storage"
	"github.com/matzehuels/taskgraph/pkg/task"
)

const (
	tasksCollection    = "tasks"
	countersCollection = "counters"
	taskCounter        = "tasks"
)

type taskDoc struct {
	ID        int64      `bson:"_id"`
	Title     string     `bson:"title"`
	DueDate   *time.Time `bson:"due_date,omitempty"`
	ImageURL  *string    `bson:"image_url,omitempty"`
	CreatedAt time.Time  `bson:"created_at"`
	DependsOn []int64    `bson:"depends_on"`
}

func (d taskDoc) task() task.Task {
	t := task.Task{
		ID:           d.ID,
		Title:        d.Title,
		ImageURL:     d.ImageURL,
		CreatedAt:    d.CreatedAt.UTC(),
		Dependencies: []task.Task{},
	}
	if d.DueDate != nil {
		due := d.DueDate.UTC()
		t.DueDate = &due
	}
	return t
}

// Store is a storage.Store backed by MongoDB.
type Store struct {
	client   *mongo.Client
	tasks    *mongo.Collection
	counters *mongo.Collection
	now      func() time.Time
}

// Open connects to uri and uses the named database.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongodb ping failed: %w", err)
	}

	s := New(client.Database(database))
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

// New wraps an existing database handle. Close disconnects its client.
func New(db *mongo.Database) *Store {
	return &Store{
		client:   db.Client(),
		tasks:    db.Collection(tasksCollection),
		counters: db.Collection(countersCollection),
		now:      time.Now,
	}
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.tasks.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "depends_on", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": taskCounter},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate task id: %w", err)
	}
	return counter.Seq, nil
}

// GetTask returns one task with its direct dependencies resolved.
func (s *Store) GetTask(ctx context.Context, id int64) (*task.Task, error) {
	var doc taskDoc
	err := s.tasks.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %d", storage.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task %d: %w", id, err)
	}

	t := doc.task()
	if len(doc.DependsOn) == 0 {
		return &t, nil
	}

	deps, err := s.find(ctx, bson.M{"_id": bson.M{"$in": doc.DependsOn}}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get dependencies of task %d: %w", id, err)
	}
	byID := make(map[int64]taskDoc, len(deps))
	for _, d := range deps {
		byID[d.ID] = d
	}
	for _, depID := range doc.DependsOn {
		if d, ok := byID[depID]; ok {
			t.Dependencies = append(t.Dependencies, d.task())
		}
	}
	return &t, nil
}

// ListTasks returns all tasks newest first with dependencies resolved.
func (s *Store) ListTasks(ctx context.Context) ([]task.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	docs, err := s.find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	byID := make(map[int64]taskDoc, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
	}

	tasks := make([]task.Task, 0, len(docs))
	for _, d := range docs {
		t := d.task()
		for _, depID := range d.DependsOn {
			if dep, ok := byID[depID]; ok {
				t.Dependencies = append(t.Dependencies, dep.task())
			}
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// TaskIDs returns every task ID in ascending order.
func (s *Store) TaskIDs(ctx context.Context) ([]int64, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{"_id": 1})
	docs, err := s.find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list task ids: %w", err)
	}
	ids := make([]int64, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids, nil
}

// Edges returns the full dependency edge set.
func (s *Store) Edges(ctx context.Context) ([]task.Edge, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{"depends_on": 1})
	docs, err := s.find(ctx, bson.M{"depends_on.0": bson.M{"$exists": true}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list dependencies: %w", err)
	}
	edges := []task.Edge{}
	for _, d := range docs {
		for _, dep := range d.DependsOn {
			edges = append(edges, task.Edge{TaskID: d.ID, DependsOnID: dep})
		}
	}
	return edges, nil
}

// CreateTask inserts the task document with its initial dependencies.
func (s *Store) CreateTask(ctx context.Context, nt task.NewTask) (*task.Task, error) {
	id, err := s.nextID(ctx)
	if err != nil {
		return nil, err
	}

	doc := taskDoc{
		ID:        id,
		Title:     nt.Title,
		ImageURL:  nt.ImageURL,
		CreatedAt: s.now().UTC(),
		DependsOn: dedupe(nt.DependencyIDs),
	}
	if nt.DueDate != nil {
		due := nt.DueDate.UTC()
		doc.DueDate = &due
	}
	if _, err := s.tasks.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to insert task: %w", err)
	}
	return s.GetTask(ctx, id)
}

// ReplaceDependencies overwrites the task's depends_on array in a single
// atomic update.
func (s *Store) ReplaceDependencies(ctx context.Context, id int64, depIDs []int64) error {
	res, err := s.tasks.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"depends_on": dedupe(depIDs)}},
	)
	if err != nil {
		return fmt.Errorf("failed to replace dependencies of task %d: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %d", storage.ErrNotFound, id)
	}
	return nil
}

// DeleteTask pulls id from every depends_on array and then deletes the
// task. The two steps are separate writes; a failure between them leaves
// dangling references, which every reader skips.
func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	n, err := s.tasks.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to look up task %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", storage.ErrNotFound, id)
	}

	if _, err := s.tasks.UpdateMany(ctx,
		bson.M{"depends_on": id},
		bson.M{"$pull": bson.M{"depends_on": id}},
	); err != nil {
		return fmt.Errorf("failed to remove edges to task %d: %w", id, err)
	}
	if _, err := s.tasks.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete task %d: %w", id, err)
	}
	return nil
}

func (s *Store) find(ctx context.Context, filter any, opts *options.FindOptions) ([]taskDoc, error) {
	var findOpts []*options.FindOptions
	if opts != nil {
		findOpts = append(findOpts, opts)
	}
	cur, err := s.tasks.Find(ctx, filter, findOpts...)
	if err != nil {
		return nil, err
	}
	var docs []taskDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func dedupe(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

var _ storage.Store = (*Store)(nil)
