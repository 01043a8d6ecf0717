package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/episko/blog/internal/core/domain"
	"github.com/episko/blog/internal/core/ports"
)

const postsCollection = "posts"

type PostRepository struct {
	col *mongo.Collection
}

var _ ports.PostRepository = (*PostRepository)(nil)

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{col: db.Collection(postsCollection)}
}

// mongoPost uses the post id as _id so lookups hit the primary key.
type mongoPost struct {
	ID        string    `bson:"_id"`
	Title     string    `bson:"title"`
	Content   string    `bson:"content"`
	Author    string    `bson:"author"`
	CreatedAt time.Time `bson:"created_at"`
	Status    string    `bson:"status"`
}

func fromPost(p *domain.Post) mongoPost {
	return mongoPost{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Author:    p.Author,
		CreatedAt: p.CreatedAt,
		Status:    string(p.Status),
	}
}

func (mp mongoPost) toDomain() *domain.Post {
	return &domain.Post{
		ID:        mp.ID,
		Title:     mp.Title,
		Content:   mp.Content,
		Author:    mp.Author,
		CreatedAt: mp.CreatedAt.UTC(),
		Status:    domain.PostStatus(mp.Status),
	}
}

func (r *PostRepository) Create(ctx context.Context, p *domain.Post) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, fromPost(p)); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoPost
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&mp)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *PostRepository) ListPublished(ctx context.Context) ([]*domain.Post, error) {
	return r.find(ctx, bson.M{"status": string(domain.StatusPublished)})
}

func (r *PostRepository) ListByAuthor(ctx context.Context, username string) ([]*domain.Post, error) {
	return r.find(ctx, bson.M{"author": username})
}

func (r *PostRepository) ListAll(ctx context.Context) ([]*domain.Post, error) {
	return r.find(ctx, bson.M{})
}

func (r *PostRepository) Update(ctx context.Context, id, title, content string) error {
	return r.set(ctx, id, bson.M{"title": title, "content": content})
}

func (r *PostRepository) SetStatus(ctx context.Context, id string, status domain.PostStatus) error {
	return r.set(ctx, id, bson.M{"status": string(status)})
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes backing the list queries.
func (r *PostRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "author", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *PostRepository) set(ctx context.Context, id string, fields bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *PostRepository) find(ctx context.Context, filter bson.M) ([]*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	var docs []mongoPost
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	posts := make([]*domain.Post, 0, len(docs))
	for _, d := range docs {
		posts = append(posts, d.toDomain())
	}
	return posts, nil
}
