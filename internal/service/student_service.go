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

type studentRepository interface {
	List(ctx context.Context, exec sqlx.ExtContext) ([]models.Student, error)
	FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.Student, error)
	Create(ctx context.Context, exec sqlx.ExtContext, student *models.Student) error
	Update(ctx context.Context, exec sqlx.ExtContext, student *models.Student) error
	Delete(ctx context.Context, exec sqlx.ExtContext, id int64) error
}

type universityResolver interface {
	Exists(ctx context.Context, exec sqlx.ExtContext, id int64) (bool, error)
}

// StudentService handles student use-cases.
type StudentService struct {
	repo         studentRepository
	universities universityResolver
	validator    *validator.Validate
	cache        *CacheService
	logger       *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, universities universityResolver, validate *validator.Validate, cache *CacheService, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, universities: universities, validator: validate, cache: cache, logger: logger}
}

// List returns every student.
func (s *StudentService) List(ctx context.Context) ([]dto.StudentDTO, error) {
	return readThrough(ctx, s.cache, familyStudents, listKey(familyStudents), func() ([]dto.StudentDTO, error) {
		students, err := s.repo.List(ctx, nil)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to list students")
		}
		result := make([]dto.StudentDTO, 0, len(students))
		for i := range students {
			result = append(result, studentToDTO(&students[i]))
		}
		return result, nil
	})
}

// Get returns a single student.
func (s *StudentService) Get(ctx context.Context, id int64) (*dto.StudentDTO, error) {
	return readThrough(ctx, s.cache, familyStudents, entityKey(familyStudents, id), func() (*dto.StudentDTO, error) {
		student, err := s.repo.FindByID(ctx, nil, id)
		if err != nil {
			return nil, lookupError(err, "student")
		}
		out := studentToDTO(student)
		return &out, nil
	})
}

// Create registers a new student at an existing university.
func (s *StudentService) Create(ctx context.Context, req dto.StudentDTO) (*dto.StudentDTO, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "student")
	}
	if err := resolveUniversity(ctx, s.universities, req.UniversityID); err != nil {
		return nil, err
	}
	student := studentFromDTO(req)
	if err := s.repo.Create(ctx, nil, student); err != nil {
		s.logger.Error("create student failed", zap.String("student_id", req.StudentID), zap.Error(err))
		return nil, writeError(err, "student", "create")
	}
	s.cache.Invalidate(ctx, familyStudents, familyUniversities)
	out := studentToDTO(student)
	return &out, nil
}

// Update overwrites an existing student, re-resolving its university.
func (s *StudentService) Update(ctx context.Context, id int64, req dto.StudentDTO) (*dto.StudentDTO, error) {
	current, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, lookupError(err, "student")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "student")
	}
	if err := resolveUniversity(ctx, s.universities, req.UniversityID); err != nil {
		return nil, err
	}
	student := studentFromDTO(req)
	student.ID = current.ID
	student.CreatedAt = current.CreatedAt
	if err := s.repo.Update(ctx, nil, student); err != nil {
		s.logger.Error("update student failed", zap.Int64("id", id), zap.Error(err))
		return nil, writeError(err, "student", "update")
	}
	s.cache.Invalidate(ctx, familyStudents, familyUniversities)
	out := studentToDTO(student)
	return &out, nil
}

// Delete removes a student.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, nil, id); err != nil {
		return writeError(err, "student", "delete")
	}
	s.cache.Invalidate(ctx, familyStudents, familyUniversities)
	return nil
}

// Dataset renders the student listing for export.
func (s *StudentService) Dataset(ctx context.Context) (export.Dataset, error) {
	students, err := s.List(ctx)
	if err != nil {
		return export.Dataset{}, err
	}
	data := export.Dataset{
		Title:   "Students",
		Headers: []string{"id", "studentId", "fullName", "email", "major", "year", "phoneNumber", "universityId"},
	}
	for _, st := range students {
		data.Rows = append(data.Rows, map[string]string{
			"id":           strconv.FormatInt(st.ID, 10),
			"studentId":    st.StudentID,
			"fullName":     st.FullName,
			"email":        st.Email,
			"major":        st.Major,
			"year":         st.Year,
			"phoneNumber":  st.PhoneNumber,
			"universityId": strconv.FormatInt(st.UniversityID, 10),
		})
	}
	return data, nil
}

// resolveUniversity fails with NotFound unless the university exists.
func resolveUniversity(ctx context.Context, universities universityResolver, id int64) error {
	ok, err := universities.Exists(ctx, nil, id)
	if err != nil {
		return appErrors.Internal(err, "failed to resolve university")
	}
	if !ok {
		return notFound("university")
	}
	return nil
}

func studentFromDTO(req dto.StudentDTO) *models.Student {
	return &models.Student{
		StudentID:    req.StudentID,
		FullName:     req.FullName,
		Email:        req.Email,
		Major:        req.Major,
		Year:         req.Year,
		PhoneNumber:  req.PhoneNumber,
		UniversityID: req.UniversityID,
	}
}

func studentToDTO(st *models.Student) dto.StudentDTO {
	return dto.StudentDTO{
		ID:           st.ID,
		StudentID:    st.StudentID,
		FullName:     st.FullName,
		Email:        st.Email,
		Major:        st.Major,
		Year:         st.Year,
		PhoneNumber:  st.PhoneNumber,
		UniversityID: st.UniversityID,
	}
}
