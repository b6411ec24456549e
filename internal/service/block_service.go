package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"block-builder-backend/internal/models"
	"block-builder-backend/internal/repository"
	"block-builder-backend/pkg/cache"
	"block-builder-backend/pkg/logger"
)

type BlockService struct {
	repo      repository.BlockConfigRepository
	generator *GeneratorService
	cache     *cache.Cache
	maxBlocks int
}

func NewBlockService(repo repository.BlockConfigRepository, generator *GeneratorService, cacheService *cache.Cache) *BlockService {
	return &BlockService{
		repo:      repo,
		generator: generator,
		cache:     cacheService,
	}
}

// SetBlockLimit caps the number of blocks a user may own. Zero or less disables the cap.
func (s *BlockService) SetBlockLimit(limit int) {
	s.maxBlocks = limit
}

// Create stores a configuration for the actor. Unless the client supplies both
// generated html and css, the code is rendered server-side.
func (s *BlockService) Create(actor Actor, req models.CreateBlockConfigRequest) (*models.BlockConfig, error) {
	if actor.UserID == 0 {
		return nil, ErrUnauthorized
	}

	if s.maxBlocks > 0 {
		count, err := s.repo.CountByUser(actor.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to count block configurations: %w", err)
		}
		if count >= int64(s.maxBlocks) {
			return nil, fmt.Errorf("%w: at most %d blocks per user", ErrBlockLimitReached, s.maxBlocks)
		}
	}

	cfg := req.Config
	assignItemIDs(cfg.Content.Items)

	block := &models.BlockConfig{
		UserID:       actor.UserID,
		Name:         normalizeName(req.Name),
		Description:  req.Description,
		TemplateType: req.TemplateType,
		Config:       datatypes.NewJSONType(cfg),
		IsPublic:     req.IsPublic,
	}
	s.applyGeneratedCode(block, req.GeneratedHTML, req.GeneratedCSS)

	if err := s.repo.Create(block); err != nil {
		return nil, fmt.Errorf("failed to create block configuration: %w", err)
	}

	s.invalidate(block.ID, block.UserID)
	logger.Info("Block configuration created", map[string]interface{}{
		"block_id": block.ID,
		"user_id":  block.UserID,
		"template": string(block.TemplateType),
	})

	return block, nil
}

// Update applies a partial update. Missing blocks and blocks owned by someone
// else are both reported as ErrForbidden.
func (s *BlockService) Update(actor Actor, id uint, req models.UpdateBlockConfigRequest) (*models.BlockConfig, error) {
	block, err := s.loadForWrite(actor, id)
	if err != nil {
		return nil, err
	}

	rendered := false
	if req.Name != nil {
		block.Name = normalizeName(*req.Name)
	}
	if req.Description != nil {
		block.Description = *req.Description
	}
	if req.TemplateType != nil {
		block.TemplateType = *req.TemplateType
		rendered = true
	}
	if req.Config != nil {
		cfg := *req.Config
		assignItemIDs(cfg.Content.Items)
		block.Config = datatypes.NewJSONType(cfg)
		rendered = true
	}
	if req.IsPublic != nil {
		block.IsPublic = *req.IsPublic
	}

	partialCode := (req.GeneratedHTML == nil) != (req.GeneratedCSS == nil)
	switch {
	case req.GeneratedHTML != nil && req.GeneratedCSS != nil:
		s.applyGeneratedCode(block, req.GeneratedHTML, req.GeneratedCSS)
	case rendered || partialCode:
		s.applyGeneratedCode(block, nil, nil)
	}

	if err := s.repo.Update(block); err != nil {
		return nil, fmt.Errorf("failed to update block configuration: %w", err)
	}

	s.invalidate(block.ID, block.UserID)
	return block, nil
}

// GetByID returns a block visible to the actor. Blocks owned by other users are
// reported as ErrNotFound.
func (s *BlockService) GetByID(actor Actor, id uint) (*models.BlockConfig, error) {
	var cached models.BlockConfig
	if err := s.cache.GetCachedBlock(id, &cached); err == nil {
		if !actor.canManage(cached.UserID) {
			return nil, ErrNotFound
		}
		return &cached, nil
	}

	block, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !actor.canManage(block.UserID) {
		return nil, ErrNotFound
	}

	if err := s.cache.CacheBlock(block.ID, block); err != nil {
		logger.Warn("Failed to cache block configuration", map[string]interface{}{"block_id": block.ID, "error": err.Error()})
	}
	return block, nil
}

// ListByUser returns the actor's own blocks, most recently updated first.
func (s *BlockService) ListByUser(actor Actor) ([]models.BlockConfig, error) {
	if actor.UserID == 0 {
		return nil, ErrUnauthorized
	}

	var cached []models.BlockConfig
	if err := s.cache.GetCachedUserBlocks(actor.UserID, &cached); err == nil {
		return cached, nil
	}

	blocks, err := s.repo.GetByUser(actor.UserID)
	if err != nil {
		return nil, err
	}
	if blocks == nil {
		blocks = []models.BlockConfig{}
	}

	if err := s.cache.CacheUserBlocks(actor.UserID, blocks); err != nil {
		logger.Warn("Failed to cache block list", map[string]interface{}{"user_id": actor.UserID, "error": err.Error()})
	}
	return blocks, nil
}

func (s *BlockService) Delete(actor Actor, id uint) error {
	block, err := s.loadForWrite(actor, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(block.ID); err != nil {
		return fmt.Errorf("failed to delete block configuration: %w", err)
	}

	s.invalidate(block.ID, block.UserID)
	logger.Info("Block configuration deleted", map[string]interface{}{
		"block_id": block.ID,
		"user_id":  actor.UserID,
	})
	return nil
}

// Regenerate renders the stored configuration again and persists the result.
func (s *BlockService) Regenerate(actor Actor, id uint) (*models.BlockConfig, error) {
	block, err := s.loadForWrite(actor, id)
	if err != nil {
		return nil, err
	}

	s.applyGeneratedCode(block, nil, nil)
	if err := s.repo.Update(block); err != nil {
		return nil, fmt.Errorf("failed to store generated code: %w", err)
	}

	s.invalidate(block.ID, block.UserID)
	return block, nil
}

func (s *BlockService) loadForWrite(actor Actor, id uint) (*models.BlockConfig, error) {
	if actor.UserID == 0 {
		return nil, ErrUnauthorized
	}

	block, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	if !actor.canManage(block.UserID) {
		return nil, ErrForbidden
	}
	return block, nil
}

// applyGeneratedCode stores client code only as a complete pair; otherwise both
// halves are rendered so they share one scoping class.
func (s *BlockService) applyGeneratedCode(block *models.BlockConfig, html, css *string) {
	if html != nil && css != nil {
		block.GeneratedHTML = *html
		block.GeneratedCSS = *css
		return
	}

	code := s.generator.Generate(block.Config.Data(), string(block.TemplateType))
	block.GeneratedHTML = code.HTML
	block.GeneratedCSS = code.CSS
}

func (s *BlockService) invalidate(blockID, userID uint) {
	if err := s.cache.InvalidateBlock(blockID); err != nil {
		logger.Warn("Failed to invalidate block cache", map[string]interface{}{"block_id": blockID, "error": err.Error()})
	}
	if err := s.cache.InvalidateUserBlocks(userID); err != nil {
		logger.Warn("Failed to invalidate block list cache", map[string]interface{}{"user_id": userID, "error": err.Error()})
	}
}

// normalizeName trims a display name and composes it to NFC so visually equal
// names compare equal.
func normalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// assignItemIDs fills missing item ids, including nested children.
func assignItemIDs(items []models.BlockItem) {
	for i := range items {
		if strings.TrimSpace(items[i].ID) == "" {
			items[i].ID = uuid.NewString()
		}
		assignItemIDs(items[i].Children)
	}
}
