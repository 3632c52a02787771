package resumes

import (
	"context"
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	nextID  int64
	resumes map[int64]Props
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{resumes: make(map[int64]Props)}
}

func (m *MemoryRepo) FindByID(ctx context.Context, id int64) (*Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.resumes[id]
	if !ok {
		return nil, nil
	}
	return hydrate(p), nil
}

func (m *MemoryRepo) FindByUserID(ctx context.Context, userID int64) ([]*Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	var matched []Props
	for _, p := range m.resumes {
		if p.UserID == userID {
			matched = append(matched, p)
		}
	}
	m.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	out := make([]*Resume, 0, len(matched))
	for _, p := range matched {
		out = append(out, hydrate(p))
	}
	return out, nil
}

func (m *MemoryRepo) Create(ctx context.Context, r *Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	r.props.ID = m.nextID
	m.resumes[r.props.ID] = r.props.clone()
	return nil
}

func (m *MemoryRepo) Update(ctx context.Context, r *Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.resumes[r.props.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.Version != r.props.Version {
		return ErrVersionConflict
	}
	next := r.props.clone()
	next.UserID = stored.UserID
	next.CreatedAt = stored.CreatedAt
	next.Version = stored.Version + 1
	m.resumes[next.ID] = next
	r.props.Version = next.Version
	return nil
}

func (m *MemoryRepo) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.resumes[id]; !ok {
		return ErrNotFound
	}
	delete(m.resumes, id)
	return nil
}
