package service

import (
	"context"
	"sync"

	"github.com/TIANLI0/LayerStudio/model"
)

// MemoryStore 进程内的项目存储，Redis 不可用时的兜底实现。
// 读写都走深拷贝，调用方持有的项目对象与存储内容互不影响。
type MemoryStore struct {
	mu       sync.RWMutex
	projects map[string]*model.Project
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		projects: make(map[string]*model.Project),
	}
}

func cloneProject(p *model.Project) *model.Project {
	cp := *p
	cp.Layers = append([]model.Layer(nil), p.Layers...)
	return &cp
}

func (s *MemoryStore) Get(_ context.Context, id string) (*model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, nil
	}
	return cloneProject(p), nil
}

func (s *MemoryStore) Put(_ context.Context, p *model.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[p.ID] = cloneProject(p)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.projects[id]
	delete(s.projects, id)
	return ok, nil
}

func (s *MemoryStore) List(_ context.Context) ([]model.ProjectSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summaries := make([]model.ProjectSummary, 0, len(s.projects))
	for _, p := range s.projects {
		summaries = append(summaries, p.Summary())
	}
	return summaries, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
