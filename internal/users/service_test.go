package users

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/katzeapp/katze-backend/internal/notifications"
	"github.com/katzeapp/katze-backend/pkg/db/models"
	"github.com/katzeapp/katze-backend/pkg/enums"
	pkgerrors "github.com/katzeapp/katze-backend/pkg/errors"
)

type memRepo struct {
	users         map[uuid.UUID]*models.Usuario
	pets          map[uuid.UUID]*models.Mascota
	requests      map[uuid.UUID]*models.SolicitudAdopcion
	roleChanges   map[uuid.UUID]*models.SolicitudCambioRol
	notifications map[uuid.UUID]*models.Notificacion
}

func newMemRepo() *memRepo {
	return &memRepo{
		users:         map[uuid.UUID]*models.Usuario{},
		pets:          map[uuid.UUID]*models.Mascota{},
		requests:      map[uuid.UUID]*models.SolicitudAdopcion{},
		roleChanges:   map[uuid.UUID]*models.SolicitudCambioRol{},
		notifications: map[uuid.UUID]*models.Notificacion{},
	}
}

func (m *memRepo) WithTx(tx *gorm.DB) Repository { return m }

func (m *memRepo) List(ctx context.Context, filters Filters) ([]models.Usuario, error) {
	var out []models.Usuario
	for _, user := range m.users {
		if filters.TipoUsuario != nil && user.TipoUsuario != *filters.TipoUsuario {
			continue
		}
		if filters.EstadoCuenta != nil && user.EstadoCuenta != *filters.EstadoCuenta {
			continue
		}
		out = append(out, *user)
	}
	return out, nil
}

func (m *memRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Usuario, error) {
	if user, ok := m.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, nil
}

func (m *memRepo) SetAccountState(ctx context.Context, id uuid.UUID, estado enums.AccountState) error {
	if user, ok := m.users[id]; ok {
		user.EstadoCuenta = estado
	}
	return nil
}

func (m *memRepo) Update(ctx context.Context, user *models.Usuario) error {
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.users, id)
	return nil
}

func (m *memRepo) OrphanPetsOfRescatista(ctx context.Context, rescatistaID uuid.UUID) (int64, error) {
	var orphaned int64
	for _, pet := range m.pets {
		if pet.RescatistaID != nil && *pet.RescatistaID == rescatistaID {
			pet.RescatistaID = nil
			orphaned++
		}
	}
	return orphaned, nil
}

func (m *memRepo) DeleteRequestsNamingUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var removed int64
	for id, row := range m.requests {
		if row.AdoptanteID == userID || row.RescatistaID == userID {
			delete(m.requests, id)
			removed++
		}
	}
	return removed, nil
}

func (m *memRepo) DeleteAccountRequestsOfUser(ctx context.Context, userID uuid.UUID) error {
	for id, row := range m.roleChanges {
		if row.UsuarioID == userID {
			delete(m.roleChanges, id)
		}
	}
	return nil
}

func (m *memRepo) DeleteNotificationsOfUser(ctx context.Context, userID uuid.UUID) error {
	for id, row := range m.notifications {
		if row.UsuarioID == userID {
			delete(m.notifications, id)
		}
	}
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type captureSink struct {
	notes []notifications.Note
}

func (c *captureSink) RecordAndBroadcast(ctx context.Context, note notifications.Note) error {
	c.notes = append(c.notes, note)
	return nil
}

func seedUser(repo *memRepo, role enums.UserRole, estado enums.AccountState) *models.Usuario {
	user := &models.Usuario{
		ID:           uuid.New(),
		Nombre:       "Valeria",
		Correo:       uuid.NewString() + "@katze.app",
		TipoUsuario:  role,
		EstadoCuenta: estado,
		CreatedAt:    time.Now(),
	}
	repo.users[user.ID] = user
	return user
}

func newTestService(repo *memRepo) (Service, *captureSink) {
	sink := &captureSink{}
	svc, err := NewService(repo, stubTxRunner{}, sink, nil)
	if err != nil {
		panic(err)
	}
	return svc, sink
}

func adminActor(repo *memRepo) Actor {
	admin := seedUser(repo, enums.UserRoleAdministrador, enums.AccountStateAprobado)
	return Actor{ID: admin.ID, Role: admin.TipoUsuario}
}

func wantCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	if got := pkgerrors.As(err).Code(); got != code {
		t.Fatalf("expected code %s, got %s (%v)", code, got, err)
	}
}

func TestListRequiresAdmin(t *testing.T) {
	repo := newMemRepo()
	svc, _ := newTestService(repo)
	user := seedUser(repo, enums.UserRoleAdoptante, enums.AccountStateAprobado)

	_, err := svc.List(context.Background(), Actor{ID: user.ID, Role: user.TipoUsuario}, ListInput{})
	wantCode(t, err, pkgerrors.CodeForbidden)

	_, err = svc.List(context.Background(), adminActor(repo), ListInput{TipoUsuario: "Dios"})
	wantCode(t, err, pkgerrors.CodeValidation)
}

func TestApproveAccountNotifiesAndIsOneShot(t *testing.T) {
	repo := newMemRepo()
	svc, sink := newTestService(repo)
	admin := adminActor(repo)
	pending := seedUser(repo, enums.UserRoleRescatista, enums.AccountStatePendiente)

	dto, err := svc.ApproveAccount(context.Background(), admin, pending.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if dto.EstadoCuenta != enums.AccountStateAprobado {
		t.Fatalf("expected aprobado, got %s", dto.EstadoCuenta)
	}
	if len(sink.notes) != 1 || sink.notes[0].UsuarioID != pending.ID {
		t.Fatalf("expected one approval notification")
	}

	_, err = svc.ApproveAccount(context.Background(), admin, pending.ID)
	wantCode(t, err, pkgerrors.CodeStateConflict)
}

func TestRejectAccountDoesNotNotify(t *testing.T) {
	repo := newMemRepo()
	svc, sink := newTestService(repo)
	admin := adminActor(repo)
	pending := seedUser(repo, enums.UserRoleAdoptante, enums.AccountStatePendiente)

	dto, err := svc.RejectAccount(context.Background(), admin, pending.ID)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if dto.EstadoCuenta != enums.AccountStateRechazado {
		t.Fatalf("expected rechazado, got %s", dto.EstadoCuenta)
	}
	if len(sink.notes) != 0 {
		t.Fatalf("rejections should not notify")
	}
}

func TestAdminUpdateChangesRole(t *testing.T) {
	repo := newMemRepo()
	svc, _ := newTestService(repo)
	admin := adminActor(repo)
	user := seedUser(repo, enums.UserRoleAdoptante, enums.AccountStateAprobado)

	role := "Rescatista"
	dto, err := svc.Update(context.Background(), admin, user.ID, UpdateInput{TipoUsuario: &role})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.TipoUsuario != enums.UserRoleRescatista {
		t.Fatalf("expected Rescatista, got %s", dto.TipoUsuario)
	}

	bad := "SuperUsuario"
	_, err = svc.Update(context.Background(), admin, user.ID, UpdateInput{TipoUsuario: &bad})
	wantCode(t, err, pkgerrors.CodeValidation)
}

func TestDeleteCascades(t *testing.T) {
	repo := newMemRepo()
	svc, _ := newTestService(repo)
	admin := adminActor(repo)
	rescatista := seedUser(repo, enums.UserRoleRescatista, enums.AccountStateAprobado)

	petID := uuid.New()
	owner := rescatista.ID
	repo.pets[petID] = &models.Mascota{ID: petID, RescatistaID: &owner}

	asOwner := uuid.New()
	repo.requests[asOwner] = &models.SolicitudAdopcion{ID: asOwner, RescatistaID: rescatista.ID, AdoptanteID: uuid.New()}
	unrelated := uuid.New()
	repo.requests[unrelated] = &models.SolicitudAdopcion{ID: unrelated, RescatistaID: uuid.New(), AdoptanteID: uuid.New()}

	noteID := uuid.New()
	repo.notifications[noteID] = &models.Notificacion{ID: noteID, UsuarioID: rescatista.ID}

	if err := svc.Delete(context.Background(), admin, rescatista.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, ok := repo.users[rescatista.ID]; ok {
		t.Fatalf("user should be gone")
	}
	if repo.pets[petID].RescatistaID != nil {
		t.Fatalf("pet should be orphaned, not deleted")
	}
	if _, ok := repo.requests[asOwner]; ok {
		t.Fatalf("requests naming the user should be gone")
	}
	if _, ok := repo.requests[unrelated]; !ok {
		t.Fatalf("unrelated requests must survive")
	}
	if _, ok := repo.notifications[noteID]; ok {
		t.Fatalf("notifications of the user should be gone")
	}
}

func TestDeleteSelfIsConflict(t *testing.T) {
	repo := newMemRepo()
	svc, _ := newTestService(repo)
	admin := adminActor(repo)

	err := svc.Delete(context.Background(), admin, admin.ID)
	wantCode(t, err, pkgerrors.CodeConflict)
}
