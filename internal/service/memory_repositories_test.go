package service

import (
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"block-builder-backend/internal/authorization"
	"block-builder-backend/internal/models"
	"block-builder-backend/internal/repository"
)

type memoryBlockConfigRepository struct {
	mu     sync.Mutex
	nextID uint
	store  map[uint]models.BlockConfig
}

func newMemoryBlockConfigRepository() *memoryBlockConfigRepository {
	return &memoryBlockConfigRepository{store: make(map[uint]models.BlockConfig)}
}

func (m *memoryBlockConfigRepository) Create(block *models.BlockConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	block.ID = m.nextID
	block.CreatedAt = time.Now()
	block.UpdatedAt = block.CreatedAt
	m.store[block.ID] = *block
	return nil
}

func (m *memoryBlockConfigRepository) Update(block *models.BlockConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[block.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	block.UpdatedAt = time.Now()
	m.store[block.ID] = *block
	return nil
}

func (m *memoryBlockConfigRepository) Delete(id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, id)
	return nil
}

func (m *memoryBlockConfigRepository) GetByID(id uint) (*models.BlockConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	block, ok := m.store[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &block, nil
}

func (m *memoryBlockConfigRepository) GetByUser(userID uint) ([]models.BlockConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []models.BlockConfig
	for _, block := range m.store {
		if block.UserID == userID {
			result = append(result, block)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (m *memoryBlockConfigRepository) CountByUser(userID uint) (int64, error) {
	blocks, err := m.GetByUser(userID)
	return int64(len(blocks)), err
}

var _ repository.BlockConfigRepository = (*memoryBlockConfigRepository)(nil)

type memoryUserRepository struct {
	mu     sync.Mutex
	nextID uint
	users  map[string]*models.User
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: make(map[string]*models.User)}
}

func (m *memoryUserRepository) Upsert(identity models.UserIdentity) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[identity.OpenID]
	if !ok {
		m.nextID++
		user = &models.User{ID: m.nextID, OpenID: identity.OpenID, Role: authorization.RoleUser}
		m.users[identity.OpenID] = user
	}
	if identity.Name != nil {
		user.Name = identity.Name
	}
	if identity.Email != nil {
		user.Email = identity.Email
	}
	if identity.LoginMethod != nil {
		user.LoginMethod = identity.LoginMethod
	}
	if identity.Role != nil {
		user.Role = *identity.Role
	}
	if identity.LastSignedIn != nil {
		user.LastSignedIn = *identity.LastSignedIn
	}

	clone := *user
	return &clone, nil
}

func (m *memoryUserRepository) GetByID(id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.ID == id {
			clone := *user
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

var _ repository.UserRepository = (*memoryUserRepository)(nil)
