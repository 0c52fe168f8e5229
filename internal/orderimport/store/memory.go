package store

import (
	"context"
	"sync"

	"github.com/shandysiswandi/goorder/internal/orderimport/entity"
	"github.com/shandysiswandi/goorder/internal/pkg/pkgerror"
)

type InMemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[string]*jobRecord
}

type jobRecord struct {
	mu  sync.RWMutex
	job entity.ImportJob
}

func NewInMemoryJobStore() *InMemoryJobStore {
	return &InMemoryJobStore{
		jobs: make(map[string]*jobRecord),
	}
}

func (s *InMemoryJobStore) CreateJob(ctx context.Context, job entity.ImportJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.ID]; exists {
		return pkgerror.NewBusiness("import already exists", pkgerror.CodeConflict)
	}

	s.jobs[job.ID] = &jobRecord{
		job: job,
	}

	return nil
}

func (s *InMemoryJobStore) UpdateJob(ctx context.Context, jobID string, fn func(job *entity.ImportJob)) error {
	rec, err := s.get(jobID)
	if err != nil {
		return err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	fn(&rec.job)

	return nil
}

func (s *InMemoryJobStore) GetJob(ctx context.Context, jobID string) (entity.ImportJob, error) {
	rec, err := s.get(jobID)
	if err != nil {
		return entity.ImportJob{}, err
	}

	rec.mu.RLock()
	defer rec.mu.RUnlock()

	return rec.job, nil
}

func (s *InMemoryJobStore) get(jobID string) (*jobRecord, error) {
	s.mu.RLock()
	rec, ok := s.jobs[jobID]
	s.mu.RUnlock()
	if !ok {
		return nil, pkgerror.ErrNotFound
	}

	return rec, nil
}

// InMemoryOrderRepository keeps saved orders in process memory. It backs the
// "memory" store driver and tests.
type InMemoryOrderRepository struct {
	mu     sync.Mutex
	orders []entity.Order
}

func NewInMemoryOrderRepository() *InMemoryOrderRepository {
	return &InMemoryOrderRepository{}
}

func (r *InMemoryOrderRepository) SaveOrder(ctx context.Context, order entity.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	r.orders = append(r.orders, order)
	r.mu.Unlock()

	return nil
}

func (r *InMemoryOrderRepository) Orders() []entity.Order {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]entity.Order, len(r.orders))
	copy(out, r.orders)
	return out
}

func (r *InMemoryOrderRepository) Close() error {
	return nil
}
