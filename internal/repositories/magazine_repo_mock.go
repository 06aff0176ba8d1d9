package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"majalah/internal/apperrors"
	"majalah/internal/models"
)

// MockMagazineRepository is an in-memory implementation of MagazineRepository.
type MockMagazineRepository struct {
	magazines map[string]models.Magazine
	requests  map[string]models.PublishRequest
	mu        sync.RWMutex
}

// NewMockMagazineRepository creates a new instance of MockMagazineRepository.
func NewMockMagazineRepository() *MockMagazineRepository {
	return &MockMagazineRepository{
		magazines: make(map[string]models.Magazine),
		requests:  make(map[string]models.PublishRequest),
	}
}

// CreateWithRequest stores a magazine and its publish request under one lock.
func (r *MockMagazineRepository) CreateWithRequest(magazine *models.Magazine, request *models.PublishRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if magazine.ID == "" {
		magazine.ID = uuid.New().String()
	}
	if request.ID == "" {
		request.ID = uuid.New().String()
	}
	request.MagazineID = magazine.ID
	now := time.Now()
	magazine.CreatedAt = now
	request.CreatedAt = now
	r.magazines[magazine.ID] = *magazine
	stored := *request
	stored.Magazine = nil
	r.requests[request.ID] = stored
	return nil
}

// GetMagazineByID returns a magazine by its ID.
func (r *MockMagazineRepository) GetMagazineByID(id string) (*models.Magazine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	magazine, ok := r.magazines[id]
	if !ok {
		return nil, fmt.Errorf("magazine %s: %w", id, apperrors.ErrNotFound)
	}
	return &magazine, nil
}

// UpdateMagazine replaces an existing magazine.
func (r *MockMagazineRepository) UpdateMagazine(magazine *models.Magazine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.magazines[magazine.ID]
	if !ok {
		return fmt.Errorf("magazine %s: %w", magazine.ID, apperrors.ErrNotFound)
	}
	magazine.CreatedAt = prev.CreatedAt
	r.magazines[magazine.ID] = *magazine
	return nil
}

// DeleteWithRequest removes the publish request and then the magazine.
func (r *MockMagazineRepository) DeleteWithRequest(magazineID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.magazines[magazineID]; !ok {
		return fmt.Errorf("magazine %s: %w", magazineID, apperrors.ErrNotFound)
	}
	for id, req := range r.requests {
		if req.MagazineID == magazineID {
			delete(r.requests, id)
		}
	}
	delete(r.magazines, magazineID)
	return nil
}

// ListMagazines returns magazines matching the filter, newest first.
func (r *MockMagazineRepository) ListMagazines(filter MagazineFilter) ([]models.Magazine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	magazines := make([]models.Magazine, 0)
	for _, m := range r.magazines {
		if !r.matchMagazine(m, filter) {
			continue
		}
		magazines = append(magazines, m)
	}
	sort.Slice(magazines, func(i, j int) bool {
		return magazines[i].CreatedAt.After(magazines[j].CreatedAt)
	})
	return magazines, nil
}

func (r *MockMagazineRepository) matchMagazine(m models.Magazine, filter MagazineFilter) bool {
	if filter.ApprovedOnly {
		approved := false
		for _, req := range r.requests {
			if req.MagazineID == m.ID && req.Status == models.StatusApproved {
				approved = true
				break
			}
		}
		if !approved {
			return false
		}
	}
	if filter.PublisherID != "" && m.PublisherID != filter.PublisherID {
		return false
	}
	if filter.Category != "" && m.Category != filter.Category {
		return false
	}
	if filter.Title != "" && !containsFold(m.Title, filter.Title) {
		return false
	}
	if filter.Search != "" && !containsFold(m.Title, filter.Search) && !containsFold(m.Content, filter.Search) {
		return false
	}
	if filter.MinPrice != nil && m.Price < *filter.MinPrice {
		return false
	}
	if filter.MaxPrice != nil && m.Price > *filter.MaxPrice {
		return false
	}
	return true
}

// GetRequestByID returns a publish request with its magazine attached.
func (r *MockMagazineRepository) GetRequestByID(id string) (*models.PublishRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	request, ok := r.requests[id]
	if !ok {
		return nil, fmt.Errorf("publish request %s: %w", id, apperrors.ErrNotFound)
	}
	if magazine, ok := r.magazines[request.MagazineID]; ok {
		m := magazine
		request.Magazine = &m
	}
	return &request, nil
}

// GetRequestByMagazineID returns the publish request tied to a magazine.
func (r *MockMagazineRepository) GetRequestByMagazineID(magazineID string) (*models.PublishRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, req := range r.requests {
		if req.MagazineID == magazineID {
			request := req
			return &request, nil
		}
	}
	return nil, fmt.Errorf("publish request for magazine %s: %w", magazineID, apperrors.ErrNotFound)
}

// SetRequestStatus updates a request's status and rejection note.
func (r *MockMagazineRepository) SetRequestStatus(id string, status models.RequestStatus, note *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	request, ok := r.requests[id]
	if !ok {
		return fmt.Errorf("publish request %s: %w", id, apperrors.ErrNotFound)
	}
	request.Status = status
	request.RejectionNote = note
	r.requests[id] = request
	return nil
}

// ListRequests returns publish requests matching the filter, newest first.
func (r *MockMagazineRepository) ListRequests(filter RequestFilter) ([]models.PublishRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	requests := make([]models.PublishRequest, 0)
	for _, req := range r.requests {
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		if filter.PublisherID != "" && req.PublisherID != filter.PublisherID {
			continue
		}
		if filter.From != nil && req.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && req.CreatedAt.After(*filter.To) {
			continue
		}
		magazine, ok := r.magazines[req.MagazineID]
		if ok {
			mf := MagazineFilter{
				Category: filter.Category,
				Title:    filter.Title,
				Search:   filter.Search,
				MinPrice: filter.MinPrice,
				MaxPrice: filter.MaxPrice,
			}
			if !r.matchMagazine(magazine, mf) {
				continue
			}
			m := magazine
			req.Magazine = &m
		}
		requests = append(requests, req)
	}
	sort.Slice(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
	return requests, nil
}

// CountRequestsSince counts requests created at or after the given time.
func (r *MockMagazineRepository) CountRequestsSince(since time.Time) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, req := range r.requests {
		if !req.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
