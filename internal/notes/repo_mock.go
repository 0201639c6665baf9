package notes

import (
	"context"
	"sort"
	"time"
)

type repoMock struct {
	notes  map[int64]*Note
	nextId int64
}

func NewMockNotesRepo() *repoMock {
	return &repoMock{
		notes:  make(map[int64]*Note),
		nextId: 1,
	}
}

func (r *repoMock) Add(_ context.Context, note *Note) (*Note, error) {
	note.Id = r.nextId
	note.CreatedAt = time.Now()
	r.nextId++
	r.notes[note.Id] = note
	return note, nil
}

func (r *repoMock) Get(_ context.Context, id int64) (*Note, error) {
	note, ok := r.notes[id]
	if !ok {
		return nil, ErrNoteNotFound
	}
	return note, nil
}

func (r *repoMock) Delete(_ context.Context, id int64) error {
	delete(r.notes, id)
	return nil
}

func (r *repoMock) List(context.Context) ([]Note, error) {
	var notes []Note
	for _, n := range r.notes {
		notes = append(notes, *n)
	}
	// newest first, same as the sqlite repo
	sort.Slice(notes, func(i, j int) bool {
		if notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return notes[i].Id > notes[j].Id
		}
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})
	return notes, nil
}
