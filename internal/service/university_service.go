package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-api/internal/dto"
	"github.com/noah-isme/lms-api/internal/models"
	"github.com/noah-isme/lms-api/pkg/database"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
	"github.com/noah-isme/lms-api/pkg/export"
)

type universityRepository interface {
	List(ctx context.Context, exec sqlx.ExtContext) ([]models.University, error)
	FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.University, error)
	Lock(ctx context.Context, exec sqlx.ExtContext, id int64) error
	Create(ctx context.Context, exec sqlx.ExtContext, university *models.University) error
	Update(ctx context.Context, exec sqlx.ExtContext, university *models.University) error
	Delete(ctx context.Context, exec sqlx.ExtContext, id int64) error
}

type studentPurger interface {
	DeleteByUniversity(ctx context.Context, exec sqlx.ExtContext, universityID int64) (int64, error)
}

type transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, exec sqlx.ExtContext) error) error
}

// UniversityService handles university use-cases, including the student cascade on delete.
type UniversityService struct {
	repo      universityRepository
	students  studentPurger
	tx        transactor
	validator *validator.Validate
	cache     *CacheService
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewUniversityService constructs the university service. cache and metrics may be nil.
func NewUniversityService(repo universityRepository, students studentPurger, tx transactor, validate *validator.Validate, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *UniversityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UniversityService{
		repo:      repo,
		students:  students,
		tx:        tx,
		validator: validate,
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
	}
}

// List returns every university in id order.
func (s *UniversityService) List(ctx context.Context) ([]dto.UniversityDTO, error) {
	return readThrough(ctx, s.cache, familyUniversities, listKey(familyUniversities), func() ([]dto.UniversityDTO, error) {
		universities, err := s.repo.List(ctx, nil)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to list universities")
		}
		result := make([]dto.UniversityDTO, 0, len(universities))
		for i := range universities {
			result = append(result, universityToDTO(&universities[i]))
		}
		return result, nil
	})
}

// Get returns a single university.
func (s *UniversityService) Get(ctx context.Context, id int64) (*dto.UniversityDTO, error) {
	return readThrough(ctx, s.cache, familyUniversities, entityKey(familyUniversities, id), func() (*dto.UniversityDTO, error) {
		university, err := s.repo.FindByID(ctx, nil, id)
		if err != nil {
			return nil, lookupError(err, "university")
		}
		out := universityToDTO(university)
		return &out, nil
	})
}

// Create stores a new university. Supplied student and course counts are ignored.
func (s *UniversityService) Create(ctx context.Context, req dto.UniversityDTO) (*dto.UniversityDTO, error) {
	university, err := s.fromDTO(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, nil, university); err != nil {
		s.logger.Error("create university failed", zap.Error(err))
		return nil, writeError(err, "university", "create")
	}
	s.cache.Invalidate(ctx, familyUniversities)
	out := universityToDTO(university)
	return &out, nil
}

// Update replaces every mutable field of an existing university.
func (s *UniversityService) Update(ctx context.Context, id int64, req dto.UniversityDTO) (*dto.UniversityDTO, error) {
	current, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, lookupError(err, "university")
	}
	university, err := s.fromDTO(req)
	if err != nil {
		return nil, err
	}
	university.ID = current.ID
	university.CreatedAt = current.CreatedAt
	university.StudentCount = current.StudentCount
	university.CourseCount = current.CourseCount
	if err := s.repo.Update(ctx, nil, university); err != nil {
		s.logger.Error("update university failed", zap.Int64("university_id", id), zap.Error(err))
		return nil, writeError(err, "university", "update")
	}
	s.cache.Invalidate(ctx, familyUniversities)
	out := universityToDTO(university)
	return &out, nil
}

// Delete removes a university and all of its students in one transaction.
// Courses are not cascaded: a referencing course aborts the delete with a conflict.
func (s *UniversityService) Delete(ctx context.Context, id int64) error {
	var removed int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context, exec sqlx.ExtContext) error {
		if err := s.repo.Lock(ctx, exec, id); err != nil {
			return err
		}
		n, err := s.students.DeleteByUniversity(ctx, exec, id)
		if err != nil {
			return err
		}
		removed = n
		return s.repo.Delete(ctx, exec, id)
	})
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status,
				"university still has courses")
		}
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Error("delete university failed", zap.Int64("university_id", id), zap.Error(err))
		}
		return writeError(err, "university", "delete")
	}
	s.logger.Info("university deleted",
		zap.Int64("university_id", id),
		zap.Int64("students_removed", removed),
	)
	s.metrics.AddCascadeDeletes(removed)
	s.cache.Invalidate(ctx, familyUniversities, familyStudents)
	return nil
}

// Dataset renders the university listing for export.
func (s *UniversityService) Dataset(ctx context.Context) (export.Dataset, error) {
	universities, err := s.List(ctx)
	if err != nil {
		return export.Dataset{}, err
	}
	data := export.Dataset{
		Title:   "Universities",
		Headers: []string{"id", "uniName", "estYear", "address", "status", "adminName", "students", "courses"},
	}
	for _, u := range universities {
		data.Rows = append(data.Rows, map[string]string{
			"id":        strconv.FormatInt(u.ID, 10),
			"uniName":   u.UniName,
			"estYear":   u.EstYear,
			"address":   u.Address,
			"status":    u.Status,
			"adminName": u.AdminName,
			"students":  strconv.Itoa(u.Students),
			"courses":   strconv.Itoa(u.Courses),
		})
	}
	return data, nil
}

func (s *UniversityService) fromDTO(req dto.UniversityDTO) (*models.University, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "university")
	}
	status, err := parseStatusField(req.Status, "status")
	if err != nil {
		return nil, err
	}
	return &models.University{
		Name:      req.UniName,
		EstYear:   req.EstYear,
		Address:   req.Address,
		Status:    status,
		AdminName: req.AdminName,
	}, nil
}

func universityToDTO(u *models.University) dto.UniversityDTO {
	return dto.UniversityDTO{
		ID:        u.ID,
		UniName:   u.Name,
		EstYear:   u.EstYear,
		Address:   u.Address,
		Status:    u.Status.String(),
		AdminName: u.AdminName,
		Students:  u.StudentCount,
		Courses:   u.CourseCount,
	}
}
