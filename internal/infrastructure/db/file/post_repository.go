package file

import (
	"context"
	"sort"

	"github.com/episko/blog/internal/core/domain"
	"github.com/episko/blog/internal/core/ports"
)

const postsCollection = "posts"

// PostRepository keeps posts in the "posts" collection. Posts are stored in
// their JSON form as is.
type PostRepository struct {
	posts *Collection[domain.Post]
}

var _ ports.PostRepository = (*PostRepository)(nil)

func NewPostRepository(store *Store) *PostRepository {
	return &PostRepository{posts: Open[domain.Post](store, postsCollection)}
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	return r.posts.Mutate(ctx, func(records []domain.Post) ([]domain.Post, error) {
		return append(records, *post), nil
	})
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	post, ok, err := r.posts.FindOne(ctx, func(p domain.Post) bool { return p.ID == id })
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return &post, nil
}

func (r *PostRepository) ListPublished(ctx context.Context) ([]*domain.Post, error) {
	return r.list(ctx, func(p domain.Post) bool { return p.Status == domain.StatusPublished })
}

func (r *PostRepository) ListByAuthor(ctx context.Context, username string) ([]*domain.Post, error) {
	return r.list(ctx, func(p domain.Post) bool { return p.Author == username })
}

func (r *PostRepository) ListAll(ctx context.Context) ([]*domain.Post, error) {
	return r.list(ctx, func(domain.Post) bool { return true })
}

func (r *PostRepository) Update(ctx context.Context, id, title, content string) error {
	return r.modify(ctx, id, func(p *domain.Post) {
		p.Title = title
		p.Content = content
	})
}

func (r *PostRepository) SetStatus(ctx context.Context, id string, status domain.PostStatus) error {
	return r.modify(ctx, id, func(p *domain.Post) {
		p.Status = status
	})
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	return r.posts.Mutate(ctx, func(records []domain.Post) ([]domain.Post, error) {
		for i := range records {
			if records[i].ID == id {
				return append(records[:i], records[i+1:]...), nil
			}
		}
		return nil, domain.ErrPostNotFound
	})
}

func (r *PostRepository) modify(ctx context.Context, id string, fn func(*domain.Post)) error {
	return r.posts.Mutate(ctx, func(records []domain.Post) ([]domain.Post, error) {
		for i := range records {
			if records[i].ID == id {
				fn(&records[i])
				return records, nil
			}
		}
		return nil, domain.ErrPostNotFound
	})
}

// list returns matching posts, newest first.
func (r *PostRepository) list(ctx context.Context, keep func(domain.Post) bool) ([]*domain.Post, error) {
	records, err := r.posts.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Post, 0, len(records))
	for i := range records {
		if keep(records[i]) {
			out = append(out, &records[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
