package notes

import "context"

var _ Api = (*Repo)(nil)
var _ Api = (*repoMock)(nil)

type Api interface {
	Add(ctx context.Context, note *Note) (*Note, error)
	Get(ctx context.Context, id int64) (*Note, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]Note, error)
}
