package accounts

import (
	"context"
	"strings"
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
	roleChanges map[uuid.UUID]*models.SolicitudCambioRol
	deletions   map[uuid.UUID]*models.SolicitudEliminacionCuenta
	users       map[uuid.UUID]*models.Usuario
}

func newMemRepo() *memRepo {
	return &memRepo{
		roleChanges: map[uuid.UUID]*models.SolicitudCambioRol{},
		deletions:   map[uuid.UUID]*models.SolicitudEliminacionCuenta{},
		users:       map[uuid.UUID]*models.Usuario{},
	}
}

func (m *memRepo) WithTx(tx *gorm.DB) Repository { return m }

func (m *memRepo) CreateRoleChange(ctx context.Context, request *models.SolicitudCambioRol) error {
	request.ID = uuid.New()
	request.CreatedAt = time.Now()
	request.UpdatedAt = request.CreatedAt
	clone := *request
	m.roleChanges[request.ID] = &clone
	return nil
}

func (m *memRepo) GetRoleChange(ctx context.Context, id uuid.UUID) (*models.SolicitudCambioRol, error) {
	if row, ok := m.roleChanges[id]; ok {
		clone := *row
		return &clone, nil
	}
	return nil, nil
}

func (m *memRepo) PendingRoleChangeExists(ctx context.Context, usuarioID uuid.UUID) (bool, error) {
	for _, row := range m.roleChanges {
		if row.UsuarioID == usuarioID && row.Estado == enums.AccountRequestStatusPendiente {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) ListRoleChanges(ctx context.Context, estado *enums.AccountRequestStatus) ([]models.SolicitudCambioRol, error) {
	var out []models.SolicitudCambioRol
	for _, row := range m.roleChanges {
		if estado == nil || row.Estado == *estado {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (m *memRepo) ListRoleChangesByUser(ctx context.Context, usuarioID uuid.UUID) ([]models.SolicitudCambioRol, error) {
	var out []models.SolicitudCambioRol
	for _, row := range m.roleChanges {
		if row.UsuarioID == usuarioID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (m *memRepo) UpdateRoleChangeDecision(ctx context.Context, id uuid.UUID, estado enums.AccountRequestStatus, respuesta models.RespuestaAdmin) error {
	if row, ok := m.roleChanges[id]; ok {
		row.Estado = estado
		row.Respuesta = respuesta
		row.UpdatedAt = time.Now()
	}
	return nil
}

func (m *memRepo) DeleteRoleChange(ctx context.Context, id uuid.UUID) error {
	delete(m.roleChanges, id)
	return nil
}

func (m *memRepo) CreateDeletion(ctx context.Context, request *models.SolicitudEliminacionCuenta) error {
	request.ID = uuid.New()
	request.CreatedAt = time.Now()
	request.UpdatedAt = request.CreatedAt
	clone := *request
	m.deletions[request.ID] = &clone
	return nil
}

func (m *memRepo) GetDeletion(ctx context.Context, id uuid.UUID) (*models.SolicitudEliminacionCuenta, error) {
	if row, ok := m.deletions[id]; ok {
		clone := *row
		return &clone, nil
	}
	return nil, nil
}

func (m *memRepo) PendingDeletionExists(ctx context.Context, usuarioID uuid.UUID) (bool, error) {
	for _, row := range m.deletions {
		if row.UsuarioID == usuarioID && row.Estado == enums.AccountRequestStatusPendiente {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) ListDeletions(ctx context.Context, estado *enums.AccountRequestStatus) ([]models.SolicitudEliminacionCuenta, error) {
	var out []models.SolicitudEliminacionCuenta
	for _, row := range m.deletions {
		if estado == nil || row.Estado == *estado {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (m *memRepo) ListDeletionsByUser(ctx context.Context, usuarioID uuid.UUID) ([]models.SolicitudEliminacionCuenta, error) {
	var out []models.SolicitudEliminacionCuenta
	for _, row := range m.deletions {
		if row.UsuarioID == usuarioID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (m *memRepo) UpdateDeletionDecision(ctx context.Context, id uuid.UUID, estado enums.AccountRequestStatus, respuesta models.RespuestaAdmin) error {
	if row, ok := m.deletions[id]; ok {
		row.Estado = estado
		row.Respuesta = respuesta
		row.UpdatedAt = time.Now()
	}
	return nil
}

func (m *memRepo) DeleteDeletion(ctx context.Context, id uuid.UUID) error {
	delete(m.deletions, id)
	return nil
}

func (m *memRepo) GetUsuario(ctx context.Context, id uuid.UUID) (*models.Usuario, error) {
	if row, ok := m.users[id]; ok {
		clone := *row
		return &clone, nil
	}
	return nil, nil
}

func (m *memRepo) SetUserRole(ctx context.Context, usuarioID uuid.UUID, role enums.UserRole) error {
	if row, ok := m.users[usuarioID]; ok {
		row.TipoUsuario = role
	}
	return nil
}

func (m *memRepo) SoftDeleteUser(ctx context.Context, usuarioID uuid.UUID, at time.Time) error {
	if row, ok := m.users[usuarioID]; ok {
		when := at
		row.FechaEliminacion = &when
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

func newTestService(repo *memRepo) (Service, *captureSink) {
	sink := &captureSink{}
	svc, err := NewService(repo, stubTxRunner{}, sink, nil)
	if err != nil {
		panic(err)
	}
	return svc, sink
}

func seedUser(repo *memRepo, role enums.UserRole) *models.Usuario {
	user := &models.Usuario{
		ID:          uuid.New(),
		Nombre:      "Valeria",
		Correo:      uuid.NewString() + "@katze.app",
		TipoUsuario: role,
	}
	repo.users[user.ID] = user
	return user
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

func TestCreateRoleChangeHappyPath(t *testing.T) {
	repo := newMemRepo()
	user := seedUser(repo, enums.UserRoleAdoptante)
	svc, _ := newTestService(repo)

	actor := Actor{ID: user.ID, Role: user.TipoUsuario}
	dto, err := svc.CreateRoleChange(context.Background(), actor, CreateRoleChangeInput{
		Motivacion: "  Llevo años rescatando gatos de la calle.  ",
	})
	if err != nil {
		t.Fatalf("create role change: %v", err)
	}
	if dto.Estado != enums.AccountRequestStatusPendiente {
		t.Fatalf("expected Pendiente, got %s", dto.Estado)
	}
	if dto.NuevoRol != enums.UserRoleRescatista {
		t.Fatalf("expected target role Rescatista, got %s", dto.NuevoRol)
	}
	if dto.Motivacion != "Llevo años rescatando gatos de la calle." {
		t.Fatalf("motivacion not trimmed: %q", dto.Motivacion)
	}
}

func TestCreateRoleChangeRejectsRescatistaAndDuplicates(t *testing.T) {
	repo := newMemRepo()
	svc, _ := newTestService(repo)

	rescatista := seedUser(repo, enums.UserRoleRescatista)
	_, err := svc.CreateRoleChange(context.Background(), Actor{ID: rescatista.ID, Role: rescatista.TipoUsuario}, CreateRoleChangeInput{Motivacion: "quiero"})
	wantCode(t, err, pkgerrors.CodeConflict)

	adoptante := seedUser(repo, enums.UserRoleAdoptante)
	actor := Actor{ID: adoptante.ID, Role: adoptante.TipoUsuario}
	if _, err := svc.CreateRoleChange(context.Background(), actor, CreateRoleChangeInput{Motivacion: "primera"}); err != nil {
		t.Fatalf("first request: %v", err)
	}
	_, err = svc.CreateRoleChange(context.Background(), actor, CreateRoleChangeInput{Motivacion: "segunda"})
	wantCode(t, err, pkgerrors.CodeDuplicate)
}

func TestCreateRoleChangeValidation(t *testing.T) {
	repo := newMemRepo()
	user := seedUser(repo, enums.UserRoleAdoptante)
	svc, _ := newTestService(repo)
	actor := Actor{ID: user.ID, Role: user.TipoUsuario}

	_, err := svc.CreateRoleChange(context.Background(), actor, CreateRoleChangeInput{Motivacion: "   "})
	wantCode(t, err, pkgerrors.CodeValidation)

	long := strings.Repeat("a", maxMotivacionLen+1)
	_, err = svc.CreateRoleChange(context.Background(), actor, CreateRoleChangeInput{Motivacion: long})
	wantCode(t, err, pkgerrors.CodeValidation)
}

func TestDecideRoleChangeApprovePromotesUser(t *testing.T) {
	repo := newMemRepo()
	user := seedUser(repo, enums.UserRoleAdoptante)
	admin := seedUser(repo, enums.UserRoleAdministrador)
	svc, sink := newTestService(repo)

	dto, err := svc.CreateRoleChange(context.Background(), Actor{ID: user.ID, Role: user.TipoUsuario}, CreateRoleChangeInput{Motivacion: "rescato gatos"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	comentario := "Bienvenida al equipo"
	decided, err := svc.DecideRoleChange(context.Background(), Actor{ID: admin.ID, Role: admin.TipoUsuario}, DecisionInput{
		RequestID:  dto.ID,
		Approve:    true,
		Comentario: &comentario,
	})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}

	if decided.Estado != enums.AccountRequestStatusAprobada {
		t.Fatalf("expected Aprobada, got %s", decided.Estado)
	}
	if decided.Respuesta == nil || decided.Respuesta.RespondidoPor == nil || *decided.Respuesta.RespondidoPor != admin.ID {
		t.Fatalf("decision stamp missing admin id")
	}
	if repo.users[user.ID].TipoUsuario != enums.UserRoleRescatista {
		t.Fatalf("user role should be Rescatista after approval")
	}
	if len(sink.notes) != 1 || sink.notes[0].UsuarioID != user.ID {
		t.Fatalf("expected one notification to the requester")
	}
	if sink.notes[0].Tipo != enums.NotificationTypeSolicitudAprobada {
		t.Fatalf("unexpected notification type %s", sink.notes[0].Tipo)
	}
}

func TestDecideRoleChangeTerminalIsStateConflict(t *testing.T) {
	repo := newMemRepo()
	user := seedUser(repo, enums.UserRoleAdoptante)
	admin := seedUser(repo, enums.UserRoleAdministrador)
	svc, _ := newTestService(repo)
	adminActor := Actor{ID: admin.ID, Role: admin.TipoUsuario}

	dto, _ := svc.CreateRoleChange(context.Background(), Actor{ID: user.ID, Role: user.TipoUsuario}, CreateRoleChangeInput{Motivacion: "rescato"})
	if _, err := svc.DecideRoleChange(context.Background(), adminActor, DecisionInput{RequestID: dto.ID, Approve: false}); err != nil {
		t.Fatalf("first decision: %v", err)
	}

	_, err := svc.DecideRoleChange(context.Background(), adminActor, DecisionInput{RequestID: dto.ID, Approve: true})
	wantCode(t, err, pkgerrors.CodeStateConflict)
}

func TestDecideRoleChangeRequiresAdmin(t *testing.T) {
	repo := newMemRepo()
	user := seedUser(repo, enums.UserRoleAdoptante)
	svc, _ := newTestService(repo)

	dto, _ := svc.CreateRoleChange(context.Background(), Actor{ID: user.ID, Role: user.TipoUsuario}, CreateRoleChangeInput{Motivacion: "rescato"})
	_, err := svc.DecideRoleChange(context.Background(), Actor{ID: user.ID, Role: user.TipoUsuario}, DecisionInput{RequestID: dto.ID, Approve: true})
	wantCode(t, err, pkgerrors.CodeForbidden)
}

func TestResubmitAfterRejectionAllowed(t *testing.T) {
	repo := newMemRepo()
	user := seedUser(repo, enums.UserRoleAdoptante)
	admin := seedUser(repo, enums.UserRoleAdministrador)
	svc, _ := newTestService(repo)
	actor := Actor{ID: user.ID, Role: user.TipoUsuario}

	dto, _ := svc.CreateRoleChange(context.Background(), actor, CreateRoleChangeInput{Motivacion: "primera"})
	if _, err := svc.DecideRoleChange(context.Background(), Actor{ID: admin.ID, Role: admin.TipoUsuario}, DecisionInput{RequestID: dto.ID, Approve: false}); err != nil {
		t.Fatalf("reject: %v", err)
	}

	if _, err := svc.CreateRoleChange(context.Background(), actor, CreateRoleChangeInput{Motivacion: "segunda, con más contexto"}); err != nil {
		t.Fatalf("resubmission after rejection should be allowed: %v", err)
	}
}

func TestCancelRoleChange(t *testing.T) {
	repo := newMemRepo()
	user := seedUser(repo, enums.UserRoleAdoptante)
	stranger := seedUser(repo, enums.UserRoleAdoptante)
	svc, _ := newTestService(repo)
	actor := Actor{ID: user.ID, Role: user.TipoUsuario}

	dto, _ := svc.CreateRoleChange(context.Background(), actor, CreateRoleChangeInput{Motivacion: "rescato"})

	err := svc.CancelRoleChange(context.Background(), Actor{ID: stranger.ID, Role: stranger.TipoUsuario}, dto.ID)
	wantCode(t, err, pkgerrors.CodeForbidden)

	if err := svc.CancelRoleChange(context.Background(), actor, dto.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, ok := repo.roleChanges[dto.ID]; ok {
		t.Fatalf("cancel should hard delete the pending request")
	}
}

func TestCreateDeletionValidatesReason(t *testing.T) {
	repo := newMemRepo()
	user := seedUser(repo, enums.UserRoleAdoptante)
	svc, _ := newTestService(repo)
	actor := Actor{ID: user.ID, Role: user.TipoUsuario}

	_, err := svc.CreateDeletion(context.Background(), actor, CreateDeletionInput{Razon: "Me mudo a Marte"})
	wantCode(t, err, pkgerrors.CodeValidation)

	dto, err := svc.CreateDeletion(context.Background(), actor, CreateDeletionInput{Razon: string(enums.DeletionReasonPrivacy)})
	if err != nil {
		t.Fatalf("create deletion: %v", err)
	}
	if dto.RazonEliminacion != enums.DeletionReasonPrivacy {
		t.Fatalf("unexpected razon %s", dto.RazonEliminacion)
	}

	_, err = svc.CreateDeletion(context.Background(), actor, CreateDeletionInput{Razon: string(enums.DeletionReasonOther)})
	wantCode(t, err, pkgerrors.CodeDuplicate)
}

func TestDecideDeletionApproveSoftDeletesUser(t *testing.T) {
	repo := newMemRepo()
	user := seedUser(repo, enums.UserRoleAdoptante)
	admin := seedUser(repo, enums.UserRoleAdministrador)
	svc, sink := newTestService(repo)

	dto, _ := svc.CreateDeletion(context.Background(), Actor{ID: user.ID, Role: user.TipoUsuario}, CreateDeletionInput{Razon: string(enums.DeletionReasonPersonal)})
	decided, err := svc.DecideDeletion(context.Background(), Actor{ID: admin.ID, Role: admin.TipoUsuario}, DecisionInput{RequestID: dto.ID, Approve: true})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}

	if decided.Estado != enums.AccountRequestStatusAprobada {
		t.Fatalf("expected Aprobada, got %s", decided.Estado)
	}
	if repo.users[user.ID].FechaEliminacion == nil {
		t.Fatalf("user should carry fecha_eliminacion after approval")
	}
	if len(sink.notes) != 0 {
		t.Fatalf("approved deletions must not notify the removed account")
	}
}

func TestDecideDeletionRejectNotifiesRequester(t *testing.T) {
	repo := newMemRepo()
	user := seedUser(repo, enums.UserRoleAdoptante)
	admin := seedUser(repo, enums.UserRoleAdministrador)
	svc, sink := newTestService(repo)

	dto, _ := svc.CreateDeletion(context.Background(), Actor{ID: user.ID, Role: user.TipoUsuario}, CreateDeletionInput{Razon: string(enums.DeletionReasonDisuse)})
	decided, err := svc.DecideDeletion(context.Background(), Actor{ID: admin.ID, Role: admin.TipoUsuario}, DecisionInput{RequestID: dto.ID, Approve: false})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}

	if decided.Estado != enums.AccountRequestStatusRechazada {
		t.Fatalf("expected Rechazada, got %s", decided.Estado)
	}
	if repo.users[user.ID].FechaEliminacion != nil {
		t.Fatalf("rejected deletion must not touch the account")
	}
	if len(sink.notes) != 1 || sink.notes[0].Tipo != enums.NotificationTypeSolicitudRechazada {
		t.Fatalf("expected one rejection notification, got %v", sink.notes)
	}
}

func TestListRoleChangesFilterAndAccess(t *testing.T) {
	repo := newMemRepo()
	user := seedUser(repo, enums.UserRoleAdoptante)
	admin := seedUser(repo, enums.UserRoleAdministrador)
	svc, _ := newTestService(repo)
	adminActor := Actor{ID: admin.ID, Role: admin.TipoUsuario}

	dto, _ := svc.CreateRoleChange(context.Background(), Actor{ID: user.ID, Role: user.TipoUsuario}, CreateRoleChangeInput{Motivacion: "rescato"})

	_, err := svc.ListRoleChanges(context.Background(), Actor{ID: user.ID, Role: user.TipoUsuario}, "")
	wantCode(t, err, pkgerrors.CodeForbidden)

	_, err = svc.ListRoleChanges(context.Background(), adminActor, "EnRevision")
	wantCode(t, err, pkgerrors.CodeValidation)

	pending, err := svc.ListRoleChanges(context.Background(), adminActor, "Pendiente")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != dto.ID {
		t.Fatalf("expected the pending request in the filtered list")
	}

	approved, err := svc.ListRoleChanges(context.Background(), adminActor, "Aprobada")
	if err != nil {
		t.Fatalf("list approved: %v", err)
	}
	if len(approved) != 0 {
		t.Fatalf("expected no approved requests yet")
	}
}
