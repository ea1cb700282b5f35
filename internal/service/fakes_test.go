package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/lms-api/internal/models"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
)

// memStore mimics the PostgreSQL schema: serial ids, unique student id and email,
// and a restricting foreign key from courses to universities.
type memStore struct {
	mu           sync.Mutex
	seq          map[string]int64
	universities map[int64]models.University
	students     map[int64]models.Student
	courses      map[int64]models.Course
	admins       map[int64]models.Admin
	failWith     error
}

func newMemStore() *memStore {
	return &memStore{
		seq:          map[string]int64{},
		universities: map[int64]models.University{},
		students:     map[int64]models.Student{},
		courses:      map[int64]models.Course{},
		admins:       map[int64]models.Admin{},
	}
}

// id hands out per-table serial ids starting at 1.
func (m *memStore) id(table string) int64 {
	m.seq[table]++
	return m.seq[table]
}

func (m *memStore) snapshot() *memStore {
	cp := newMemStore()
	for k, v := range m.seq {
		cp.seq[k] = v
	}
	for k, v := range m.universities {
		cp.universities[k] = v
	}
	for k, v := range m.students {
		cp.students[k] = v
	}
	for k, v := range m.courses {
		cp.courses[k] = v
	}
	for k, v := range m.admins {
		cp.admins[k] = v
	}
	return cp
}

func (m *memStore) restore(cp *memStore) {
	m.seq = cp.seq
	m.universities = cp.universities
	m.students = cp.students
	m.courses = cp.courses
	m.admins = cp.admins
}

func uniqueViolation(constraint string) error {
	return &pq.Error{Code: "23505", Constraint: constraint}
}

func fkViolation(constraint string) error {
	return &pq.Error{Code: "23503", Constraint: constraint}
}

type fakeTx struct {
	store *memStore
	calls int
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context, exec sqlx.ExtContext) error) error {
	f.calls++
	f.store.mu.Lock()
	cp := f.store.snapshot()
	f.store.mu.Unlock()
	if err := fn(ctx, nil); err != nil {
		f.store.mu.Lock()
		f.store.restore(cp)
		f.store.mu.Unlock()
		return err
	}
	return nil
}

type fakeUniversityRepo struct{ store *memStore }

func (r *fakeUniversityRepo) counted(u models.University) models.University {
	u.StudentCount, u.CourseCount = 0, 0
	for _, st := range r.store.students {
		if st.UniversityID == u.ID {
			u.StudentCount++
		}
	}
	for _, c := range r.store.courses {
		if c.UniversityID == u.ID {
			u.CourseCount++
		}
	}
	return u
}

func (r *fakeUniversityRepo) List(ctx context.Context, exec sqlx.ExtContext) ([]models.University, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.failWith != nil {
		return nil, r.store.failWith
	}
	out := make([]models.University, 0, len(r.store.universities))
	for id := int64(1); id <= r.store.seq["universities"]; id++ {
		if u, ok := r.store.universities[id]; ok {
			out = append(out, r.counted(u))
		}
	}
	return out, nil
}

func (r *fakeUniversityRepo) FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.University, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.universities[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	u = r.counted(u)
	return &u, nil
}

func (r *fakeUniversityRepo) Exists(ctx context.Context, exec sqlx.ExtContext, id int64) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	_, ok := r.store.universities[id]
	return ok, nil
}

func (r *fakeUniversityRepo) Lock(ctx context.Context, exec sqlx.ExtContext, id int64) error {
	_, err := r.FindByID(ctx, exec, id)
	return err
}

func (r *fakeUniversityRepo) Create(ctx context.Context, exec sqlx.ExtContext, u *models.University) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u.ID = r.store.id("universities")
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	r.store.universities[u.ID] = *u
	return nil
}

func (r *fakeUniversityRepo) Update(ctx context.Context, exec sqlx.ExtContext, u *models.University) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.universities[u.ID]; !ok {
		return sql.ErrNoRows
	}
	u.UpdatedAt = time.Now().UTC()
	r.store.universities[u.ID] = *u
	return nil
}

func (r *fakeUniversityRepo) Delete(ctx context.Context, exec sqlx.ExtContext, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.universities[id]; !ok {
		return sql.ErrNoRows
	}
	for _, st := range r.store.students {
		if st.UniversityID == id {
			return fkViolation("students_university_id_fkey")
		}
	}
	for _, c := range r.store.courses {
		if c.UniversityID == id {
			return fkViolation("courses_university_id_fkey")
		}
	}
	delete(r.store.universities, id)
	return nil
}

type fakeStudentRepo struct{ store *memStore }

func (r *fakeStudentRepo) List(ctx context.Context, exec sqlx.ExtContext) ([]models.Student, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]models.Student, 0, len(r.store.students))
	for id := int64(1); id <= r.store.seq["students"]; id++ {
		if st, ok := r.store.students[id]; ok {
			out = append(out, st)
		}
	}
	return out, nil
}

func (r *fakeStudentRepo) FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.Student, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	st, ok := r.store.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &st, nil
}

func (r *fakeStudentRepo) check(st *models.Student) error {
	if _, ok := r.store.universities[st.UniversityID]; !ok {
		return fkViolation("students_university_id_fkey")
	}
	for _, other := range r.store.students {
		if other.ID == st.ID {
			continue
		}
		if other.StudentID == st.StudentID {
			return uniqueViolation("students_student_id_key")
		}
		if st.Email != "" && strings.EqualFold(other.Email, st.Email) {
			return uniqueViolation("students_email_key")
		}
	}
	return nil
}

func (r *fakeStudentRepo) Create(ctx context.Context, exec sqlx.ExtContext, st *models.Student) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.check(st); err != nil {
		return err
	}
	st.ID = r.store.id("students")
	r.store.students[st.ID] = *st
	return nil
}

func (r *fakeStudentRepo) Update(ctx context.Context, exec sqlx.ExtContext, st *models.Student) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.students[st.ID]; !ok {
		return sql.ErrNoRows
	}
	if err := r.check(st); err != nil {
		return err
	}
	r.store.students[st.ID] = *st
	return nil
}

func (r *fakeStudentRepo) Delete(ctx context.Context, exec sqlx.ExtContext, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.students[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.store.students, id)
	return nil
}

func (r *fakeStudentRepo) DeleteByUniversity(ctx context.Context, exec sqlx.ExtContext, universityID int64) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var n int64
	for id, st := range r.store.students {
		if st.UniversityID == universityID {
			delete(r.store.students, id)
			n++
		}
	}
	return n, nil
}

type fakeCourseRepo struct{ store *memStore }

func (r *fakeCourseRepo) List(ctx context.Context, exec sqlx.ExtContext) ([]models.Course, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]models.Course, 0, len(r.store.courses))
	for id := int64(1); id <= r.store.seq["courses"]; id++ {
		if c, ok := r.store.courses[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCourseRepo) FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.Course, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c, ok := r.store.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &c, nil
}

func (r *fakeCourseRepo) Create(ctx context.Context, exec sqlx.ExtContext, c *models.Course) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.universities[c.UniversityID]; !ok {
		return fkViolation("courses_university_id_fkey")
	}
	c.ID = r.store.id("courses")
	r.store.courses[c.ID] = *c
	return nil
}

func (r *fakeCourseRepo) Update(ctx context.Context, exec sqlx.ExtContext, c *models.Course) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.courses[c.ID]; !ok {
		return sql.ErrNoRows
	}
	r.store.courses[c.ID] = *c
	return nil
}

func (r *fakeCourseRepo) Delete(ctx context.Context, exec sqlx.ExtContext, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.courses[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.store.courses, id)
	return nil
}

type fakeAdminRepo struct{ store *memStore }

func (r *fakeAdminRepo) List(ctx context.Context, exec sqlx.ExtContext) ([]models.Admin, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]models.Admin, 0, len(r.store.admins))
	for id := int64(1); id <= r.store.seq["admins"]; id++ {
		if a, ok := r.store.admins[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAdminRepo) FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.Admin, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	a, ok := r.store.admins[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &a, nil
}

func (r *fakeAdminRepo) Create(ctx context.Context, exec sqlx.ExtContext, a *models.Admin) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	a.ID = r.store.id("admins")
	r.store.admins[a.ID] = *a
	return nil
}

func (r *fakeAdminRepo) Update(ctx context.Context, exec sqlx.ExtContext, a *models.Admin) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.admins[a.ID]; !ok {
		return sql.ErrNoRows
	}
	r.store.admins[a.ID] = *a
	return nil
}

func (r *fakeAdminRepo) Delete(ctx context.Context, exec sqlx.ExtContext, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.admins[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.store.admins, id)
	return nil
}

// memCache stores JSON payloads the way the redis repository does.
type memCache struct {
	mu          sync.Mutex
	items       map[string][]byte
	invalidated []string
}

func newMemCache() *memCache {
	return &memCache{items: map[string][]byte{}}
}

func (c *memCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = raw
	return nil
}

func (c *memCache) DeleteByPattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
		}
	}
	return nil
}

// lms bundles the four services over one memStore.
type lms struct {
	store        *memStore
	tx           *fakeTx
	universities *UniversityService
	students     *StudentService
	courses      *CourseService
	admins       *AdminService
}

func newLMS(cache *CacheService) *lms {
	store := newMemStore()
	uniRepo := &fakeUniversityRepo{store: store}
	studentRepo := &fakeStudentRepo{store: store}
	tx := &fakeTx{store: store}
	return &lms{
		store:        store,
		tx:           tx,
		universities: NewUniversityService(uniRepo, studentRepo, tx, nil, cache, nil, nil),
		students:     NewStudentService(studentRepo, uniRepo, nil, cache, nil),
		courses:      NewCourseService(&fakeCourseRepo{store: store}, uniRepo, nil, cache, nil),
		admins:       NewAdminService(&fakeAdminRepo{store: store}, nil, cache, nil),
	}
}
