package http

import (
	"context"
	"sync"
	"time"

	"github.com/adityaghosh149/digievent/internal/crypto"
	"github.com/adityaghosh149/digievent/internal/model"
	"github.com/adityaghosh149/digievent/internal/repository"
)

// fakeStore is an in-memory Store used by the handler tests so they run
// without Postgres. It mirrors the repository contract: passwords are hashed
// on create, AccountByID never exposes the hash, and the single-root rule is
// enforced on insert.
type fakeStore struct {
	mu          sync.Mutex
	superAdmins map[string]*model.SuperAdmin
	admins      map[string]*model.Admin
	organizers  map[string]*model.Organizer
	students    map[string]*model.Student
	courses     []model.Course
	events      []model.Event
	refresh     map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		superAdmins: map[string]*model.SuperAdmin{},
		admins:      map[string]*model.Admin{},
		organizers:  map[string]*model.Organizer{},
		students:    map[string]*model.Student{},
		refresh:     map[string]string{},
	}
}

func refreshKey(role model.Role, id string) string {
	return string(role) + ":" + id
}

func (f *fakeStore) Ping(ctx context.Context) error { return nil }

func (f *fakeStore) AccountByEmail(ctx context.Context, role model.Role, email string) (model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch role {
	case model.RoleSuperAdmin:
		for _, sa := range f.superAdmins {
			if sa.Email == email {
				return sa.Account(), nil
			}
		}
	case model.RoleAdmin:
		for _, a := range f.admins {
			if a.Email == email {
				return a.Account(), nil
			}
		}
	case model.RoleOrganizer:
		for _, o := range f.organizers {
			if o.Email == email {
				return o.Account(), nil
			}
		}
	case model.RoleStudent:
		for _, st := range f.students {
			if st.Email == email {
				return st.Account(), nil
			}
		}
	}
	return model.Account{}, repository.ErrNotFound
}

func (f *fakeStore) AccountByID(ctx context.Context, role model.Role, id string) (model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var account model.Account
	switch role {
	case model.RoleSuperAdmin:
		sa, ok := f.superAdmins[id]
		if !ok {
			return model.Account{}, repository.ErrNotFound
		}
		account = sa.Account()
	case model.RoleAdmin:
		a, ok := f.admins[id]
		if !ok {
			return model.Account{}, repository.ErrNotFound
		}
		account = a.Account()
	case model.RoleOrganizer:
		o, ok := f.organizers[id]
		if !ok {
			return model.Account{}, repository.ErrNotFound
		}
		account = o.Account()
	case model.RoleStudent:
		st, ok := f.students[id]
		if !ok {
			return model.Account{}, repository.ErrNotFound
		}
		account = st.Account()
	default:
		return model.Account{}, repository.ErrNotFound
	}
	account.PasswordHash = ""
	return account, nil
}

func (f *fakeStore) StoredRefreshToken(ctx context.Context, role model.Role, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.exists(role, id); err != nil {
		return "", err
	}
	return f.refresh[refreshKey(role, id)], nil
}

func (f *fakeStore) SetRefreshToken(ctx context.Context, role model.Role, id, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.exists(role, id); err != nil {
		return err
	}
	f.refresh[refreshKey(role, id)] = token
	return nil
}

func (f *fakeStore) ClearRefreshToken(ctx context.Context, role model.Role, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.refresh, refreshKey(role, id))
	return nil
}

func (f *fakeStore) exists(role model.Role, id string) (bool, error) {
	switch role {
	case model.RoleSuperAdmin:
		if _, ok := f.superAdmins[id]; ok {
			return true, nil
		}
	case model.RoleAdmin:
		if _, ok := f.admins[id]; ok {
			return true, nil
		}
	case model.RoleOrganizer:
		if _, ok := f.organizers[id]; ok {
			return true, nil
		}
	case model.RoleStudent:
		if _, ok := f.students[id]; ok {
			return true, nil
		}
	}
	return false, repository.ErrNotFound
}

func (f *fakeStore) CreateSuperAdmin(ctx context.Context, sa model.SuperAdmin, password string) (model.SuperAdmin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.superAdmins {
		if existing.Email == sa.Email {
			return model.SuperAdmin{}, repository.ErrDuplicate
		}
		if sa.IsRoot && existing.IsRoot && !existing.IsDeleted {
			return model.SuperAdmin{}, repository.ErrRootConflict
		}
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return model.SuperAdmin{}, err
	}
	sa.PasswordHash = hash
	sa.CreatedAt = time.Now().UTC()
	sa.UpdatedAt = sa.CreatedAt

	stored := sa
	f.superAdmins[sa.ID] = &stored
	return sa, nil
}

func (f *fakeStore) SuperAdminByID(ctx context.Context, id string) (model.SuperAdmin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sa, ok := f.superAdmins[id]
	if !ok {
		return model.SuperAdmin{}, repository.ErrNotFound
	}
	return *sa, nil
}

func (f *fakeStore) UpdateSuperAdmin(ctx context.Context, id string, update repository.SuperAdminUpdate) (model.SuperAdmin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sa, ok := f.superAdmins[id]
	if !ok {
		return model.SuperAdmin{}, repository.ErrNotFound
	}
	if update.Name != nil {
		sa.Name = *update.Name
	}
	if update.PhoneNumber != nil {
		sa.PhoneNumber = *update.PhoneNumber
	}
	if update.Password != nil {
		hash, err := crypto.HashPassword(*update.Password)
		if err != nil {
			return model.SuperAdmin{}, err
		}
		sa.PasswordHash = hash
	}
	return *sa, nil
}

func (f *fakeStore) SoftDeleteSuperAdmin(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	sa, ok := f.superAdmins[id]
	if !ok {
		return repository.ErrNotFound
	}
	sa.IsDeleted = true
	delete(f.refresh, refreshKey(model.RoleSuperAdmin, id))
	return nil
}

func (f *fakeStore) SetAvatar(ctx context.Context, role model.Role, id, url, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch role {
	case model.RoleSuperAdmin:
		sa, ok := f.superAdmins[id]
		if !ok {
			return repository.ErrNotFound
		}
		sa.AvatarURL = &url
		sa.AvatarKey = &key
	case model.RoleAdmin:
		a, ok := f.admins[id]
		if !ok {
			return repository.ErrNotFound
		}
		a.AvatarURL = &url
		a.AvatarKey = &key
	default:
		return repository.ErrNotFound
	}
	return nil
}

func (f *fakeStore) CreateAdmin(ctx context.Context, admin model.Admin, password string) (model.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.admins {
		if existing.Email == admin.Email {
			return model.Admin{}, repository.ErrDuplicate
		}
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return model.Admin{}, err
	}
	admin.PasswordHash = hash
	admin.CreatedAt = time.Now().UTC()
	admin.UpdatedAt = admin.CreatedAt

	stored := admin
	f.admins[admin.ID] = &stored
	return admin, nil
}

func (f *fakeStore) AdminByID(ctx context.Context, id string) (model.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.admins[id]
	if !ok {
		return model.Admin{}, repository.ErrNotFound
	}
	return *a, nil
}

func (f *fakeStore) ListAdmins(ctx context.Context, superAdminID string, limit int) ([]model.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Admin
	for _, a := range f.admins {
		if a.SuperAdminID == superAdminID && len(out) < limit {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateAdmin(ctx context.Context, id string, update repository.AdminUpdate) (model.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.admins[id]
	if !ok {
		return model.Admin{}, repository.ErrNotFound
	}
	if update.UniversityName != nil {
		a.UniversityName = *update.UniversityName
	}
	if update.PhoneNumber != nil {
		a.PhoneNumber = *update.PhoneNumber
	}
	if update.Address != nil {
		a.Address = *update.Address
	}
	if update.State != nil {
		a.State = *update.State
	}
	if update.Country != nil {
		a.Country = *update.Country
	}
	if update.Password != nil {
		hash, err := crypto.HashPassword(*update.Password)
		if err != nil {
			return model.Admin{}, err
		}
		a.PasswordHash = hash
	}
	return *a, nil
}

func (f *fakeStore) SetAdminSuspended(ctx context.Context, id string, suspended bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.admins[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.IsDeleted = suspended
	if suspended {
		delete(f.refresh, refreshKey(model.RoleAdmin, id))
	}
	return nil
}

func (f *fakeStore) CreateOrganizer(ctx context.Context, organizer model.Organizer, password string) (model.Organizer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.organizers {
		if existing.Email == organizer.Email {
			return model.Organizer{}, repository.ErrDuplicate
		}
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return model.Organizer{}, err
	}
	organizer.PasswordHash = hash
	organizer.CreatedAt = time.Now().UTC()
	organizer.UpdatedAt = organizer.CreatedAt

	stored := organizer
	f.organizers[organizer.ID] = &stored
	return organizer, nil
}

func (f *fakeStore) OrganizerByID(ctx context.Context, id string) (model.Organizer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.organizers[id]
	if !ok {
		return model.Organizer{}, repository.ErrNotFound
	}
	return *o, nil
}

func (f *fakeStore) UpdateOrganizer(ctx context.Context, id string, update repository.OrganizerUpdate) (model.Organizer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.organizers[id]
	if !ok {
		return model.Organizer{}, repository.ErrNotFound
	}
	if update.OrganizerName != nil {
		o.OrganizerName = *update.OrganizerName
	}
	if update.PhoneNumber != nil {
		o.PhoneNumber = *update.PhoneNumber
	}
	if update.Password != nil {
		hash, err := crypto.HashPassword(*update.Password)
		if err != nil {
			return model.Organizer{}, err
		}
		o.PasswordHash = hash
	}
	return *o, nil
}

func (f *fakeStore) ListOrganizersByAdmin(ctx context.Context, adminID string, limit int) ([]model.Organizer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Organizer
	for _, o := range f.organizers {
		if o.AdminID == adminID && len(out) < limit {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateStudent(ctx context.Context, student model.Student, password string) (model.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.students {
		if existing.Email == student.Email {
			return model.Student{}, repository.ErrDuplicate
		}
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return model.Student{}, err
	}
	student.PasswordHash = hash
	student.CreatedAt = time.Now().UTC()
	student.UpdatedAt = student.CreatedAt

	stored := student
	f.students[student.ID] = &stored
	return student, nil
}

func (f *fakeStore) StudentByID(ctx context.Context, id string) (model.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.students[id]
	if !ok {
		return model.Student{}, repository.ErrNotFound
	}
	return *st, nil
}

func (f *fakeStore) UpdateStudent(ctx context.Context, id string, update repository.StudentUpdate) (model.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.students[id]
	if !ok {
		return model.Student{}, repository.ErrNotFound
	}
	if update.Name != nil {
		st.Name = *update.Name
	}
	if update.PhoneNumber != nil {
		st.PhoneNumber = *update.PhoneNumber
	}
	if update.Stream != nil {
		st.Stream = *update.Stream
	}
	if update.Section != nil {
		st.Section = *update.Section
	}
	if update.Semester != nil {
		st.Semester = *update.Semester
	}
	if update.Year != nil {
		st.Year = *update.Year
	}
	if update.Password != nil {
		hash, err := crypto.HashPassword(*update.Password)
		if err != nil {
			return model.Student{}, err
		}
		st.PasswordHash = hash
	}
	return *st, nil
}

func (f *fakeStore) ListStudentsByAdmin(ctx context.Context, adminID string, limit int) ([]model.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Student
	for _, st := range f.students {
		if st.AdminID == adminID && len(out) < limit {
			out = append(out, *st)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateCourse(ctx context.Context, course model.Course) (model.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	course.CreatedAt = time.Now().UTC()
	course.UpdatedAt = course.CreatedAt
	f.courses = append(f.courses, course)
	return course, nil
}

func (f *fakeStore) ListCoursesByAdmin(ctx context.Context, adminID string) ([]model.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Course
	for _, c := range f.courses {
		if c.AdminID == adminID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateEvent(ctx context.Context, event model.Event) (model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event.CreatedAt = time.Now().UTC()
	event.UpdatedAt = event.CreatedAt
	f.events = append(f.events, event)
	return event, nil
}

func (f *fakeStore) ListEventsByOrganizer(ctx context.Context, organizerID string, limit int) ([]model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Event
	for _, ev := range f.events {
		if ev.OrganizerID == organizerID && len(out) < limit {
			out = append(out, ev)
		}
	}
	return out, nil
}
