package repository

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ahmadqo/student-course-roster/internal/database"
	"github.com/ahmadqo/student-course-roster/internal/model"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sortedStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	sort.Strings(out)
	return out
}

func sameIDs(a, b []uuid.UUID) bool {
	as, bs := sortedStrings(a), sortedStrings(b)
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func createStudent(t *testing.T, repo StudentRepository, name string) *model.Student {
	t.Helper()
	s := &model.Student{
		ID:          uuid.New(),
		Name:        name,
		DateOfBirth: model.NewDate(2005, time.April, 9),
	}
	if err := repo.Create(context.Background(), s); err != nil {
		t.Fatalf("create student %s: %v", name, err)
	}
	return s
}

func TestStudentRepositoryCRUD(t *testing.T) {
	db := newTestDB(t)
	repo := NewStudentRepository(db)
	ctx := context.Background()

	s := createStudent(t, repo, "Budi")

	got, err := repo.FindByID(ctx, s.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got == nil || got.Name != "Budi" {
		t.Fatalf("unexpected student %+v", got)
	}
	if got.DateOfBirth.String() != "2005-04-09" {
		t.Errorf("DateOfBirth = %s", got.DateOfBirth)
	}
	if got.CourseIDs == nil || len(got.CourseIDs) != 0 {
		t.Errorf("CourseIDs should be empty non-nil, got %v", got.CourseIDs)
	}

	got.Name = "Budi Santoso"
	got.DateOfBirth = model.NewDate(2005, time.April, 10)
	if err := repo.Update(ctx, got, false); err != nil {
		t.Fatalf("Update: %v", err)
	}
	again, _ := repo.FindByID(ctx, s.ID)
	if again.Name != "Budi Santoso" || again.DateOfBirth.String() != "2005-04-10" {
		t.Errorf("update not persisted: %+v", again)
	}

	if err := repo.UpdatePhoto(ctx, s.ID, "http://minio/photo.jpg"); err != nil {
		t.Fatalf("UpdatePhoto: %v", err)
	}
	again, _ = repo.FindByID(ctx, s.ID)
	if again.PhotoURL == nil || *again.PhotoURL != "http://minio/photo.jpg" {
		t.Errorf("photo not stored: %v", again.PhotoURL)
	}

	if err := repo.Delete(ctx, s.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	gone, err := repo.FindByID(ctx, s.ID)
	if err != nil {
		t.Fatalf("FindByID after delete: %v", err)
	}
	if gone != nil {
		t.Error("student still exists after delete")
	}
}

func TestStudentRepositoryFindAll(t *testing.T) {
	db := newTestDB(t)
	repo := NewStudentRepository(db)
	courses := NewCourseRepository(db)
	ctx := context.Background()

	ani := createStudent(t, repo, "Ani")
	createStudent(t, repo, "Budi")
	cici := createStudent(t, repo, "Cici")

	course := &model.Course{ID: uuid.New(), CourseName: "Biologi", StudentIDs: []uuid.UUID{ani.ID, cici.ID}}
	if err := courses.Create(ctx, course); err != nil {
		t.Fatalf("create course: %v", err)
	}

	all, total, err := repo.FindAll(ctx, model.StudentFilter{PerPage: 2})
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if total != 3 || len(all) != 2 {
		t.Fatalf("total=%d len=%d, want 3/2", total, len(all))
	}
	if all[0].Name != "Ani" || all[1].Name != "Budi" {
		t.Errorf("unexpected order: %s, %s", all[0].Name, all[1].Name)
	}
	if !sameIDs(all[0].CourseIDs, []uuid.UUID{course.ID}) {
		t.Errorf("Ani courseIds = %v", all[0].CourseIDs)
	}

	page2, _, err := repo.FindAll(ctx, model.StudentFilter{Page: 2, PerPage: 2})
	if err != nil {
		t.Fatalf("FindAll page 2: %v", err)
	}
	if len(page2) != 1 || page2[0].Name != "Cici" {
		t.Errorf("page 2 = %+v", page2)
	}

	search, total, err := repo.FindAll(ctx, model.StudentFilter{Search: "CI"})
	if err != nil {
		t.Fatalf("FindAll search: %v", err)
	}
	if total != 1 || search[0].ID != cici.ID {
		t.Errorf("search result = %+v", search)
	}

	inCourse, total, err := repo.FindAll(ctx, model.StudentFilter{CourseID: &course.ID})
	if err != nil {
		t.Fatalf("FindAll by course: %v", err)
	}
	if total != 2 || len(inCourse) != 2 {
		t.Errorf("students in course = %d", total)
	}
}

func TestStudentUpdateSyncCourses(t *testing.T) {
	db := newTestDB(t)
	repo := NewStudentRepository(db)
	courses := NewCourseRepository(db)
	ctx := context.Background()

	s := createStudent(t, repo, "Dewi")
	c1 := &model.Course{ID: uuid.New(), CourseName: "Kimia"}
	c2 := &model.Course{ID: uuid.New(), CourseName: "Fisika"}
	for _, c := range []*model.Course{c1, c2} {
		if err := courses.Create(ctx, c); err != nil {
			t.Fatalf("create course: %v", err)
		}
	}

	s.CourseIDs = []uuid.UUID{c1.ID, c2.ID, c1.ID}
	if err := repo.Update(ctx, s, true); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, _ := repo.FindByID(ctx, s.ID)
	if !sameIDs(got.CourseIDs, []uuid.UUID{c1.ID, c2.ID}) {
		t.Errorf("courseIds = %v", got.CourseIDs)
	}

	// sisi course harus ikut konsisten
	course, _ := courses.FindByID(ctx, c2.ID)
	if !sameIDs(course.StudentIDs, []uuid.UUID{s.ID}) {
		t.Errorf("course roster = %v", course.StudentIDs)
	}

	// update tanpa sync tidak mengubah enrollment
	got.CourseIDs = nil
	got.Name = "Dewi K"
	if err := repo.Update(ctx, got, false); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ = repo.FindByID(ctx, s.ID)
	if len(got.CourseIDs) != 2 {
		t.Errorf("enrollments changed without sync: %v", got.CourseIDs)
	}
}

func TestDeleteStudentRemovesFromRosters(t *testing.T) {
	db := newTestDB(t)
	repo := NewStudentRepository(db)
	courses := NewCourseRepository(db)
	ctx := context.Background()

	a := createStudent(t, repo, "Eka")
	b := createStudent(t, repo, "Fajar")
	c := &model.Course{ID: uuid.New(), CourseName: "Sejarah", StudentIDs: []uuid.UUID{a.ID, b.ID}}
	if err := courses.Create(ctx, c); err != nil {
		t.Fatalf("create course: %v", err)
	}

	if err := repo.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	got, _ := courses.FindByID(ctx, c.ID)
	if !sameIDs(got.StudentIDs, []uuid.UUID{b.ID}) {
		t.Errorf("roster after delete = %v", got.StudentIDs)
	}
}

func TestCourseRepositoryCRUD(t *testing.T) {
	db := newTestDB(t)
	students := NewStudentRepository(db)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	a := createStudent(t, students, "Gita")
	b := createStudent(t, students, "Hadi")

	c := &model.Course{ID: uuid.New(), CourseName: "Matematika", StudentIDs: []uuid.UUID{a.ID, a.ID}}
	if err := repo.Create(ctx, c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(c.StudentIDs) != 1 {
		t.Errorf("duplicates not collapsed: %v", c.StudentIDs)
	}

	c.CourseName = "Matematika Lanjut"
	c.StudentIDs = []uuid.UUID{b.ID}
	if err := repo.Update(ctx, c); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := repo.FindByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.CourseName != "Matematika Lanjut" || !sameIDs(got.StudentIDs, []uuid.UUID{b.ID}) {
		t.Errorf("unexpected course %+v", got)
	}

	sa, _ := students.FindByID(ctx, a.ID)
	if len(sa.CourseIDs) != 0 {
		t.Errorf("removed student still lists course: %v", sa.CourseIDs)
	}

	list, total, err := repo.FindAll(ctx, model.CourseFilter{StudentID: &b.ID})
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if total != 1 || list[0].ID != c.ID {
		t.Errorf("FindAll by student = %+v", list)
	}

	if err := repo.Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	gone, _ := repo.FindByID(ctx, c.ID)
	if gone != nil {
		t.Error("course still exists")
	}
	sb, _ := students.FindByID(ctx, b.ID)
	if len(sb.CourseIDs) != 0 {
		t.Errorf("student still enrolled in deleted course: %v", sb.CourseIDs)
	}
}

func TestExistingIDsAndFindByIDs(t *testing.T) {
	db := newTestDB(t)
	students := NewStudentRepository(db)
	courses := NewCourseRepository(db)
	ctx := context.Background()

	s := createStudent(t, students, "Indah")
	c := &model.Course{ID: uuid.New(), CourseName: "Seni"}
	if err := courses.Create(ctx, c); err != nil {
		t.Fatalf("create: %v", err)
	}

	found, err := courses.ExistingIDs(ctx, []uuid.UUID{c.ID, uuid.New()})
	if err != nil {
		t.Fatalf("ExistingIDs: %v", err)
	}
	if len(found) != 1 || found[0] != c.ID {
		t.Errorf("ExistingIDs = %v", found)
	}

	byIDs, err := students.FindByIDs(ctx, []uuid.UUID{s.ID, uuid.New()})
	if err != nil {
		t.Fatalf("FindByIDs: %v", err)
	}
	if len(byIDs) != 1 || byIDs[0].ID != s.ID {
		t.Errorf("FindByIDs = %v", byIDs)
	}

	empty, err := students.FindByIDs(ctx, nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("FindByIDs(nil) = %v, %v", empty, err)
	}
}

func TestUserRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &model.User{
		ID: uuid.New(), Name: "Staf", Email: "staf@roster.local",
		Password: "hash", Role: model.RoleStaff, IsActive: true,
	}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.FindByEmail(ctx, "STAF@roster.local")
	if err != nil || got == nil {
		t.Fatalf("FindByEmail: %v %v", got, err)
	}
	if got.Role != model.RoleStaff {
		t.Errorf("role = %s", got.Role)
	}

	got.IsActive = false
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	inactive, err := repo.FindByEmail(ctx, "staf@roster.local")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if inactive == nil || inactive.IsActive {
		t.Errorf("inactive user = %+v", inactive)
	}

	byID, err := repo.FindByID(ctx, u.ID)
	if err != nil || byID == nil || byID.IsActive {
		t.Errorf("FindByID = %+v, %v", byID, err)
	}
}
