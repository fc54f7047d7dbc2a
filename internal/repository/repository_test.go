package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adityaghosh149/digievent/internal/crypto"
	"github.com/adityaghosh149/digievent/internal/model"
)

func openTestDB(t *testing.T) *pgxpool.Pool {
	url := os.Getenv("DIGIEVENT_TEST_DB")
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		t.Skip("DIGIEVENT_TEST_DB or DATABASE_URL not set")
		return nil
	}
	pool, err := NewPool(context.Background(), url)
	if err != nil {
		t.Skipf("db unavailable: %v", err)
		return nil
	}
	return pool
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	pool := openTestDB(t)
	if pool == nil {
		return nil
	}
	t.Cleanup(pool.Close)
	store := NewStore(pool)
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return store
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s.%s@example.local", prefix, uuid.NewString()[:8])
}

func uniquePhone() string {
	return "9" + fmt.Sprintf("%09d", time.Now().UnixNano()%1_000_000_000)
}

func TestSuperAdminLifecycle(t *testing.T) {
	store := openTestStore(t)
	if store == nil {
		return
	}
	ctx := context.Background()

	sa, err := store.CreateSuperAdmin(ctx, model.SuperAdmin{
		ID:          uuid.NewString(),
		Email:       uniqueEmail("sa"),
		Name:        "Lifecycle",
		PhoneNumber: uniquePhone(),
	}, "Sup3r$ecret")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if sa.PasswordHash == "Sup3r$ecret" {
		t.Fatal("password must be stored hashed")
	}
	if err := crypto.CheckPassword(sa.PasswordHash, "Sup3r$ecret"); err != nil {
		t.Fatalf("hash does not verify: %v", err)
	}

	// Duplicate email is rejected.
	_, err = store.CreateSuperAdmin(ctx, model.SuperAdmin{
		ID:          uuid.NewString(),
		Email:       sa.Email,
		Name:        "Dup",
		PhoneNumber: uniquePhone(),
	}, "Sup3r$ecret")
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// The account lookup by id never carries the hash.
	account, err := store.AccountByID(ctx, model.RoleSuperAdmin, sa.ID)
	if err != nil {
		t.Fatalf("account by id: %v", err)
	}
	if account.PasswordHash != "" {
		t.Fatal("AccountByID must not expose the password hash")
	}

	// The login lookup does.
	account, err = store.AccountByEmail(ctx, model.RoleSuperAdmin, sa.Email)
	if err != nil {
		t.Fatalf("account by email: %v", err)
	}
	if account.PasswordHash == "" {
		t.Fatal("AccountByEmail must expose the password hash")
	}

	// Refresh token round trip and clear.
	if err := store.SetRefreshToken(ctx, model.RoleSuperAdmin, sa.ID, "token-1"); err != nil {
		t.Fatalf("set refresh: %v", err)
	}
	stored, err := store.StoredRefreshToken(ctx, model.RoleSuperAdmin, sa.ID)
	if err != nil || stored != "token-1" {
		t.Fatalf("stored refresh = %q, err %v", stored, err)
	}
	if err := store.ClearRefreshToken(ctx, model.RoleSuperAdmin, sa.ID); err != nil {
		t.Fatalf("clear refresh: %v", err)
	}
	stored, err = store.StoredRefreshToken(ctx, model.RoleSuperAdmin, sa.ID)
	if err != nil || stored != "" {
		t.Fatalf("after clear stored = %q, err %v", stored, err)
	}

	// Soft delete flips the flag and drops the session.
	if err := store.SetRefreshToken(ctx, model.RoleSuperAdmin, sa.ID, "token-2"); err != nil {
		t.Fatalf("set refresh: %v", err)
	}
	if err := store.SoftDeleteSuperAdmin(ctx, sa.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	reloaded, err := store.SuperAdminByID(ctx, sa.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reloaded.IsDeleted || reloaded.RefreshToken != "" {
		t.Fatalf("expected deleted with no session, got %+v", reloaded)
	}
}

func TestRootUniqueness(t *testing.T) {
	store := openTestStore(t)
	if store == nil {
		return
	}
	ctx := context.Background()

	hasRoot, err := store.HasRootSuperAdmin(ctx)
	if err != nil {
		t.Fatalf("root check: %v", err)
	}
	if !hasRoot {
		_, err = store.CreateSuperAdmin(ctx, model.SuperAdmin{
			ID:          uuid.NewString(),
			Email:       uniqueEmail("root"),
			Name:        "Root",
			PhoneNumber: uniquePhone(),
			IsRoot:      true,
		}, "Sup3r$ecret")
		if err != nil {
			t.Fatalf("seed root: %v", err)
		}
	}

	_, err = store.CreateSuperAdmin(ctx, model.SuperAdmin{
		ID:          uuid.NewString(),
		Email:       uniqueEmail("root2"),
		Name:        "Second Root",
		PhoneNumber: uniquePhone(),
		IsRoot:      true,
	}, "Sup3r$ecret")
	if !errors.Is(err, ErrRootConflict) {
		t.Fatalf("expected ErrRootConflict, got %v", err)
	}
}

func TestUnknownRoleLookups(t *testing.T) {
	store := openTestStore(t)
	if store == nil {
		return
	}
	ctx := context.Background()

	if _, err := store.AccountByID(ctx, model.Role("Wizard"), uuid.NewString()); err == nil {
		t.Fatal("expected an error for an unknown role")
	}
	if _, err := store.AccountByEmail(ctx, model.RoleStudent, uniqueEmail("missing")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing email, got %v", err)
	}
	if err := store.SetRefreshToken(ctx, model.RoleAdmin, uuid.NewString(), "token"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing principal, got %v", err)
	}
}

func TestAdminSuspension(t *testing.T) {
	store := openTestStore(t)
	if store == nil {
		return
	}
	ctx := context.Background()

	sa, err := store.CreateSuperAdmin(ctx, model.SuperAdmin{
		ID:          uuid.NewString(),
		Email:       uniqueEmail("owner"),
		Name:        "Owner",
		PhoneNumber: uniquePhone(),
	}, "Sup3r$ecret")
	if err != nil {
		t.Fatalf("seed super admin: %v", err)
	}

	admin, err := store.CreateAdmin(ctx, model.Admin{
		ID:                 uuid.NewString(),
		SuperAdminID:       sa.ID,
		UniversityName:     "Suspension University",
		Email:              uniqueEmail("uni"),
		PhoneNumber:        uniquePhone(),
		Address:            "1 Campus Road",
		State:              "WB",
		Country:            "India",
		SubscriptionStatus: model.SubscriptionActive,
	}, "Sup3r$ecret")
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}

	if err := store.SetRefreshToken(ctx, model.RoleAdmin, admin.ID, "live-session"); err != nil {
		t.Fatalf("set refresh: %v", err)
	}
	if err := store.SetAdminSuspended(ctx, admin.ID, true); err != nil {
		t.Fatalf("suspend: %v", err)
	}

	reloaded, err := store.AdminByID(ctx, admin.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reloaded.IsDeleted || reloaded.RefreshToken != "" {
		t.Fatalf("expected suspended admin with no session, got deleted=%v token=%q", reloaded.IsDeleted, reloaded.RefreshToken)
	}

	if err := store.SetAdminSuspended(ctx, admin.ID, false); err != nil {
		t.Fatalf("resume: %v", err)
	}
	reloaded, err = store.AdminByID(ctx, admin.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.IsDeleted {
		t.Fatal("expected resumed admin to be live")
	}
}

func TestCourseDurationConstraint(t *testing.T) {
	store := openTestStore(t)
	if store == nil {
		return
	}
	ctx := context.Background()

	sa, err := store.CreateSuperAdmin(ctx, model.SuperAdmin{
		ID:          uuid.NewString(),
		Email:       uniqueEmail("owner"),
		Name:        "Owner",
		PhoneNumber: uniquePhone(),
	}, "Sup3r$ecret")
	if err != nil {
		t.Fatalf("seed super admin: %v", err)
	}
	admin, err := store.CreateAdmin(ctx, model.Admin{
		ID:                 uuid.NewString(),
		SuperAdminID:       sa.ID,
		UniversityName:     "Course University",
		Email:              uniqueEmail("uni"),
		PhoneNumber:        uniquePhone(),
		Address:            "1 Campus Road",
		State:              "WB",
		Country:            "India",
		SubscriptionStatus: model.SubscriptionActive,
	}, "Sup3r$ecret")
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}

	if _, err := store.CreateCourse(ctx, model.Course{
		ID:       uuid.NewString(),
		AdminID:  admin.ID,
		Name:     "BTech",
		Duration: 4,
	}); err != nil {
		t.Fatalf("create course: %v", err)
	}

	if _, err := store.CreateCourse(ctx, model.Course{
		ID:       uuid.NewString(),
		AdminID:  admin.ID,
		Name:     "Forever",
		Duration: 9,
	}); err == nil {
		t.Fatal("expected duration 9 to violate the check constraint")
	}
}

func TestRootReplacementAfterSoftDelete(t *testing.T) {
	store := openTestStore(t)
	if store == nil {
		return
	}
	ctx := context.Background()

	var rootID string
	err := store.pool.QueryRow(ctx,
		`SELECT id FROM super_admins WHERE is_root AND NOT is_deleted LIMIT 1`,
	).Scan(&rootID)
	if errors.Is(err, pgx.ErrNoRows) {
		seeded, seedErr := store.CreateSuperAdmin(ctx, model.SuperAdmin{
			ID:          uuid.NewString(),
			Email:       uniqueEmail("root"),
			Name:        "Root",
			PhoneNumber: uniquePhone(),
			IsRoot:      true,
		}, "Sup3r$ecret")
		if seedErr != nil {
			t.Fatalf("seed root: %v", seedErr)
		}
		rootID = seeded.ID
	} else if err != nil {
		t.Fatalf("find live root: %v", err)
	}

	if err := store.SoftDeleteSuperAdmin(ctx, rootID); err != nil {
		t.Fatalf("soft delete root: %v", err)
	}

	// A soft-deleted root no longer counts.
	hasRoot, err := store.HasRootSuperAdmin(ctx)
	if err != nil {
		t.Fatalf("root check: %v", err)
	}
	if hasRoot {
		t.Fatal("a soft-deleted root must not count as the live root")
	}

	// And it no longer blocks a replacement.
	replacement, err := store.CreateSuperAdmin(ctx, model.SuperAdmin{
		ID:          uuid.NewString(),
		Email:       uniqueEmail("root"),
		Name:        "Replacement Root",
		PhoneNumber: uniquePhone(),
		IsRoot:      true,
	}, "Sup3r$ecret")
	if err != nil {
		t.Fatalf("replace root: %v", err)
	}
	if !replacement.IsRoot {
		t.Fatal("replacement must keep its root flag")
	}
}

func TestAdminUpdateAppliesAllFields(t *testing.T) {
	store := openTestStore(t)
	if store == nil {
		return
	}
	ctx := context.Background()

	sa, err := store.CreateSuperAdmin(ctx, model.SuperAdmin{
		ID:          uuid.NewString(),
		Email:       uniqueEmail("owner"),
		Name:        "Owner",
		PhoneNumber: uniquePhone(),
	}, "Sup3r$ecret")
	if err != nil {
		t.Fatalf("seed super admin: %v", err)
	}
	admin, err := store.CreateAdmin(ctx, model.Admin{
		ID:                 uuid.NewString(),
		SuperAdminID:       sa.ID,
		UniversityName:     "Update University",
		Email:              uniqueEmail("uni"),
		PhoneNumber:        uniquePhone(),
		Address:            "1 Campus Road",
		State:              "WB",
		Country:            "India",
		SubscriptionStatus: model.SubscriptionActive,
	}, "Sup3r$ecret")
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}

	name := "Renamed University"
	phone := uniquePhone()
	state := "KA"
	password := "N3w$ecret!"
	updated, err := store.UpdateAdmin(ctx, admin.ID, AdminUpdate{
		UniversityName: &name,
		PhoneNumber:    &phone,
		State:          &state,
		Password:       &password,
	})
	if err != nil {
		t.Fatalf("update admin: %v", err)
	}
	if updated.UniversityName != name {
		t.Fatalf("university name = %q, want %q", updated.UniversityName, name)
	}
	if updated.PhoneNumber != phone {
		t.Fatalf("phone = %q, want %q", updated.PhoneNumber, phone)
	}
	if updated.State != state {
		t.Fatalf("state = %q, want %q", updated.State, state)
	}
	if updated.Address != "1 Campus Road" || updated.Country != "India" {
		t.Fatalf("untouched fields changed: %+v", updated)
	}

	reloaded, err := store.AccountByEmail(ctx, model.RoleAdmin, admin.Email)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if err := crypto.CheckPassword(reloaded.PasswordHash, password); err != nil {
		t.Fatalf("new password does not verify: %v", err)
	}
}
