package service

import (
	"context"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-api/internal/dto"
	"github.com/noah-isme/lms-api/internal/models"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
	"github.com/noah-isme/lms-api/pkg/export"
)

type adminRepository interface {
	List(ctx context.Context, exec sqlx.ExtContext) ([]models.Admin, error)
	FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.Admin, error)
	Create(ctx context.Context, exec sqlx.ExtContext, admin *models.Admin) error
	Update(ctx context.Context, exec sqlx.ExtContext, admin *models.Admin) error
	Delete(ctx context.Context, exec sqlx.ExtContext, id int64) error
}

// AdminService manages administrator records.
type AdminService struct {
	repo      adminRepository
	validator *validator.Validate
	cache     *CacheService
	logger    *zap.Logger
}

// NewAdminService constructs the admin service.
func NewAdminService(repo adminRepository, validate *validator.Validate, cache *CacheService, logger *zap.Logger) *AdminService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{repo: repo, validator: validate, cache: cache, logger: logger}
}

// List returns every admin.
func (s *AdminService) List(ctx context.Context) ([]dto.AdminDTO, error) {
	return readThrough(ctx, s.cache, familyAdmins, listKey(familyAdmins), func() ([]dto.AdminDTO, error) {
		admins, err := s.repo.List(ctx, nil)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to list admins")
		}
		result := make([]dto.AdminDTO, 0, len(admins))
		for i := range admins {
			result = append(result, adminToDTO(&admins[i]))
		}
		return result, nil
	})
}

// Get returns a single admin.
func (s *AdminService) Get(ctx context.Context, id int64) (*dto.AdminDTO, error) {
	return readThrough(ctx, s.cache, familyAdmins, entityKey(familyAdmins, id), func() (*dto.AdminDTO, error) {
		admin, err := s.repo.FindByID(ctx, nil, id)
		if err != nil {
			return nil, lookupError(err, "admin")
		}
		out := adminToDTO(admin)
		return &out, nil
	})
}

// Create stores a new admin.
func (s *AdminService) Create(ctx context.Context, req dto.AdminDTO) (*dto.AdminDTO, error) {
	admin, err := s.fromDTO(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, nil, admin); err != nil {
		s.logger.Error("create admin failed", zap.Error(err))
		return nil, writeError(err, "admin", "create")
	}
	s.cache.Invalidate(ctx, familyAdmins)
	out := adminToDTO(admin)
	return &out, nil
}

// Update overwrites an existing admin.
func (s *AdminService) Update(ctx context.Context, id int64, req dto.AdminDTO) (*dto.AdminDTO, error) {
	current, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, lookupError(err, "admin")
	}
	admin, err := s.fromDTO(req)
	if err != nil {
		return nil, err
	}
	admin.ID = current.ID
	admin.CreatedAt = current.CreatedAt
	if err := s.repo.Update(ctx, nil, admin); err != nil {
		s.logger.Error("update admin failed", zap.Int64("id", id), zap.Error(err))
		return nil, writeError(err, "admin", "update")
	}
	s.cache.Invalidate(ctx, familyAdmins)
	out := adminToDTO(admin)
	return &out, nil
}

// Delete removes an admin.
func (s *AdminService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, nil, id); err != nil {
		return writeError(err, "admin", "delete")
	}
	s.cache.Invalidate(ctx, familyAdmins)
	return nil
}

// Dataset renders the admin listing for export.
func (s *AdminService) Dataset(ctx context.Context) (export.Dataset, error) {
	admins, err := s.List(ctx)
	if err != nil {
		return export.Dataset{}, err
	}
	data := export.Dataset{
		Title: "Admins",
		Headers: []string{"id", "adminName", "uniName", "role", "status", "email", "students",
			"phnnum", "department", "adminStatus"},
	}
	for _, a := range admins {
		data.Rows = append(data.Rows, map[string]string{
			"id":          strconv.FormatInt(a.ID, 10),
			"adminName":   a.AdminName,
			"uniName":     a.UniName,
			"role":        a.Role,
			"status":      a.Status,
			"email":       a.Email,
			"students":    strconv.Itoa(a.Students),
			"phnnum":      strconv.FormatInt(a.Phnnum, 10),
			"department":  strconv.Itoa(a.Department),
			"adminStatus": a.AdminStatus,
		})
	}
	return data, nil
}

func (s *AdminService) fromDTO(req dto.AdminDTO) (*models.Admin, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "admin")
	}
	status, err := parseStatusField(req.Status, "status")
	if err != nil {
		return nil, err
	}
	adminStatus, err := parseStatusField(req.AdminStatus, "adminStatus")
	if err != nil {
		return nil, err
	}
	return &models.Admin{
		AdminName:   req.AdminName,
		UniName:     req.UniName,
		Role:        req.Role,
		Status:      status,
		Email:       req.Email,
		Students:    req.Students,
		PhoneNumber: req.Phnnum,
		Department:  req.Department,
		AdminStatus: adminStatus,
	}, nil
}

func adminToDTO(a *models.Admin) dto.AdminDTO {
	return dto.AdminDTO{
		ID:          a.ID,
		AdminName:   a.AdminName,
		UniName:     a.UniName,
		Role:        a.Role,
		Status:      a.Status.String(),
		Email:       a.Email,
		Students:    a.Students,
		Phnnum:      a.PhoneNumber,
		Department:  a.Department,
		AdminStatus: a.AdminStatus.String(),
	}
}
