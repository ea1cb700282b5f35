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

type courseRepository interface {
	List(ctx context.Context, exec sqlx.ExtContext) ([]models.Course, error)
	FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.Course, error)
	Create(ctx context.Context, exec sqlx.ExtContext, course *models.Course) error
	Update(ctx context.Context, exec sqlx.ExtContext, course *models.Course) error
	Delete(ctx context.Context, exec sqlx.ExtContext, id int64) error
}

// CourseService manages the course catalogue.
type CourseService struct {
	repo         courseRepository
	universities universityResolver
	validator    *validator.Validate
	cache        *CacheService
	logger       *zap.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(repo courseRepository, universities universityResolver, validate *validator.Validate, cache *CacheService, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, universities: universities, validator: validate, cache: cache, logger: logger}
}

// List returns every course.
func (s *CourseService) List(ctx context.Context) ([]dto.CourseDTO, error) {
	return readThrough(ctx, s.cache, familyCourses, listKey(familyCourses), func() ([]dto.CourseDTO, error) {
		courses, err := s.repo.List(ctx, nil)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to list courses")
		}
		result := make([]dto.CourseDTO, 0, len(courses))
		for i := range courses {
			result = append(result, courseToDTO(&courses[i]))
		}
		return result, nil
	})
}

// Get returns a single course.
func (s *CourseService) Get(ctx context.Context, id int64) (*dto.CourseDTO, error) {
	return readThrough(ctx, s.cache, familyCourses, entityKey(familyCourses, id), func() (*dto.CourseDTO, error) {
		course, err := s.repo.FindByID(ctx, nil, id)
		if err != nil {
			return nil, lookupError(err, "course")
		}
		out := courseToDTO(course)
		return &out, nil
	})
}

// Create adds a course to an existing university.
func (s *CourseService) Create(ctx context.Context, req dto.CourseDTO) (*dto.CourseDTO, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "course")
	}
	if err := resolveUniversity(ctx, s.universities, req.UniversityID); err != nil {
		return nil, err
	}
	course := courseFromDTO(req)
	if err := s.repo.Create(ctx, nil, course); err != nil {
		s.logger.Error("create course failed", zap.String("course_code", req.CourseCode), zap.Error(err))
		return nil, writeError(err, "course", "create")
	}
	s.cache.Invalidate(ctx, familyCourses, familyUniversities)
	out := courseToDTO(course)
	return &out, nil
}

// Update overwrites an existing course.
func (s *CourseService) Update(ctx context.Context, id int64, req dto.CourseDTO) (*dto.CourseDTO, error) {
	current, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, lookupError(err, "course")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "course")
	}
	if err := resolveUniversity(ctx, s.universities, req.UniversityID); err != nil {
		return nil, err
	}
	course := courseFromDTO(req)
	course.ID = current.ID
	course.CreatedAt = current.CreatedAt
	if err := s.repo.Update(ctx, nil, course); err != nil {
		s.logger.Error("update course failed", zap.Int64("id", id), zap.Error(err))
		return nil, writeError(err, "course", "update")
	}
	s.cache.Invalidate(ctx, familyCourses, familyUniversities)
	out := courseToDTO(course)
	return &out, nil
}

// Delete removes a course.
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, nil, id); err != nil {
		return writeError(err, "course", "delete")
	}
	s.cache.Invalidate(ctx, familyCourses, familyUniversities)
	return nil
}

// Dataset renders the course catalogue for export.
func (s *CourseService) Dataset(ctx context.Context) (export.Dataset, error) {
	courses, err := s.List(ctx)
	if err != nil {
		return export.Dataset{}, err
	}
	data := export.Dataset{
		Title:   "Courses",
		Headers: []string{"id", "courseCode", "title", "description", "credits", "universityId"},
	}
	for _, c := range courses {
		data.Rows = append(data.Rows, map[string]string{
			"id":           strconv.FormatInt(c.ID, 10),
			"courseCode":   c.CourseCode,
			"title":        c.Title,
			"description":  c.Description,
			"credits":      strconv.Itoa(c.Credits),
			"universityId": strconv.FormatInt(c.UniversityID, 10),
		})
	}
	return data, nil
}

func courseFromDTO(req dto.CourseDTO) *models.Course {
	return &models.Course{
		CourseCode:   req.CourseCode,
		Title:        req.Title,
		Description:  req.Description,
		Credits:      req.Credits,
		UniversityID: req.UniversityID,
	}
}

func courseToDTO(c *models.Course) dto.CourseDTO {
	return dto.CourseDTO{
		ID:           c.ID,
		CourseCode:   c.CourseCode,
		Title:        c.Title,
		Description:  c.Description,
		Credits:      c.Credits,
		UniversityID: c.UniversityID,
	}
}
