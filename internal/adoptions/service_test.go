package adoptions

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
	requests map[uuid.UUID]*models.SolicitudAdopcion
	pets     map[uuid.UUID]*models.Mascota
	admins   []*models.Usuario
}

func newMemRepo() *memRepo {
	return &memRepo{
		requests: map[uuid.UUID]*models.SolicitudAdopcion{},
		pets:     map[uuid.UUID]*models.Mascota{},
	}
}

func (m *memRepo) WithTx(tx *gorm.DB) Repository { return m }

func (m *memRepo) Create(ctx context.Context, request *models.SolicitudAdopcion) error {
	request.ID = uuid.New()
	request.CreatedAt = time.Now()
	request.UpdatedAt = request.CreatedAt
	clone := *request
	m.requests[request.ID] = &clone
	return nil
}

func (m *memRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.SolicitudAdopcion, error) {
	if row, ok := m.requests[id]; ok {
		clone := *row
		return &clone, nil
	}
	return nil, nil
}

func isNonTerminal(s enums.RequestStatus) bool {
	return s == enums.RequestStatusEnviada || s == enums.RequestStatusRevisando
}

func (m *memRepo) ExistsNonTerminal(ctx context.Context, adoptanteID, mascotaID uuid.UUID) (bool, error) {
	for _, row := range m.requests {
		if row.AdoptanteID == adoptanteID && row.MascotaID == mascotaID && isNonTerminal(row.EstadoSolicitud) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) ListNonTerminalForPet(ctx context.Context, mascotaID uuid.UUID, excludeID uuid.UUID) ([]models.SolicitudAdopcion, error) {
	var out []models.SolicitudAdopcion
	for _, row := range m.requests {
		if row.MascotaID == mascotaID && row.ID != excludeID && isNonTerminal(row.EstadoSolicitud) {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (m *memRepo) CountNonTerminalForPet(ctx context.Context, mascotaID uuid.UUID, excludeID uuid.UUID) (int64, error) {
	rows, _ := m.ListNonTerminalForPet(ctx, mascotaID, excludeID)
	return int64(len(rows)), nil
}

func (m *memRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.RequestStatus) error {
	if row, ok := m.requests[id]; ok {
		row.EstadoSolicitud = status
		row.UpdatedAt = time.Now()
	}
	return nil
}

func (m *memRepo) SweepNonTerminalForPet(ctx context.Context, mascotaID uuid.UUID, excludeID uuid.UUID, to enums.RequestStatus) (int64, error) {
	var swept int64
	for _, row := range m.requests {
		if row.MascotaID == mascotaID && row.ID != excludeID && isNonTerminal(row.EstadoSolicitud) {
			row.EstadoSolicitud = to
			swept++
		}
	}
	return swept, nil
}

func (m *memRepo) ListByAdoptante(ctx context.Context, adoptanteID uuid.UUID) ([]models.SolicitudAdopcion, error) {
	var out []models.SolicitudAdopcion
	for _, row := range m.requests {
		if row.AdoptanteID == adoptanteID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (m *memRepo) ListByRescatista(ctx context.Context, rescatistaID uuid.UUID) ([]models.SolicitudAdopcion, error) {
	var out []models.SolicitudAdopcion
	for _, row := range m.requests {
		if row.RescatistaID == rescatistaID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (m *memRepo) ListAll(ctx context.Context) ([]models.SolicitudAdopcion, error) {
	var out []models.SolicitudAdopcion
	for _, row := range m.requests {
		out = append(out, *row)
	}
	return out, nil
}

func (m *memRepo) GetPet(ctx context.Context, mascotaID uuid.UUID) (*models.Mascota, error) {
	if pet, ok := m.pets[mascotaID]; ok {
		clone := *pet
		return &clone, nil
	}
	return nil, nil
}

func (m *memRepo) ClaimPetPending(ctx context.Context, mascotaID uuid.UUID) (bool, error) {
	pet, ok := m.pets[mascotaID]
	if !ok || pet.EstadoAdopcion != enums.AdoptionStateDisponible {
		return false, nil
	}
	pet.EstadoAdopcion = enums.AdoptionStatePendiente
	return true, nil
}

func (m *memRepo) SetPetState(ctx context.Context, mascotaID uuid.UUID, state enums.AdoptionState) error {
	if pet, ok := m.pets[mascotaID]; ok {
		pet.EstadoAdopcion = state
	}
	return nil
}

func (m *memRepo) SetPetOwner(ctx context.Context, mascotaID, ownerID uuid.UUID) error {
	if pet, ok := m.pets[mascotaID]; ok {
		owner := ownerID
		pet.RescatistaID = &owner
	}
	return nil
}

func (m *memRepo) FirstAdministrador(ctx context.Context) (*models.Usuario, error) {
	if len(m.admins) == 0 {
		return nil, nil
	}
	clone := *m.admins[0]
	return &clone, nil
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

type captureMetrics struct {
	transitions []string
}

func (c *captureMetrics) IncTransition(transition string) {
	c.transitions = append(c.transitions, transition)
}

func seedPet(repo *memRepo, ownerID uuid.UUID, state enums.AdoptionState) *models.Mascota {
	owner := ownerID
	pet := &models.Mascota{
		ID:             uuid.New(),
		Nombre:         "Rocco",
		TipoAnimal:     enums.AnimalTypePerro,
		EstadoAdopcion: state,
		RescatistaID:   &owner,
	}
	repo.pets[pet.ID] = pet
	return pet
}

func newTestService(repo *memRepo) (Service, *captureSink, *captureMetrics) {
	sink := &captureSink{}
	met := &captureMetrics{}
	svc, err := NewService(repo, stubTxRunner{}, sink, met, nil)
	if err != nil {
		panic(err)
	}
	return svc, sink, met
}

func TestSubmitClaimsPetAndNotifiesOwner(t *testing.T) {
	repo := newMemRepo()
	rescatista := uuid.New()
	pet := seedPet(repo, rescatista, enums.AdoptionStateDisponible)
	svc, sink, met := newTestService(repo)

	adoptante := Actor{ID: uuid.New(), Role: enums.UserRoleAdoptante}
	dto, err := svc.Submit(context.Background(), SubmitInput{Adoptante: adoptante, MascotaID: pet.ID})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if dto.EstadoSolicitud != enums.RequestStatusEnviada {
		t.Fatalf("expected Enviada, got %s", dto.EstadoSolicitud)
	}
	if dto.PreguntasAdicionales != DefaultPreguntas {
		t.Fatalf("expected default preguntas, got %q", dto.PreguntasAdicionales)
	}
	if dto.RescatistaID != rescatista {
		t.Fatalf("expected owner %s, got %s", rescatista, dto.RescatistaID)
	}
	if repo.pets[pet.ID].EstadoAdopcion != enums.AdoptionStatePendiente {
		t.Fatalf("pet should be Pendiente after submit")
	}
	if len(sink.notes) != 1 || sink.notes[0].UsuarioID != rescatista {
		t.Fatalf("expected one notification to the owner")
	}
	if len(met.transitions) != 1 || met.transitions[0] != "enviada" {
		t.Fatalf("unexpected transitions %v", met.transitions)
	}
}

func TestSubmitDuplicateRejected(t *testing.T) {
	repo := newMemRepo()
	pet := seedPet(repo, uuid.New(), enums.AdoptionStateDisponible)
	svc, _, _ := newTestService(repo)

	adoptante := Actor{ID: uuid.New(), Role: enums.UserRoleAdoptante}
	if _, err := svc.Submit(context.Background(), SubmitInput{Adoptante: adoptante, MascotaID: pet.ID}); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	_, err := svc.Submit(context.Background(), SubmitInput{Adoptante: adoptante, MascotaID: pet.ID})
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeDuplicate {
		t.Fatalf("expected DUPLICATE_REQUEST, got %v", err)
	}
}

func TestSubmitUnavailablePetConflicts(t *testing.T) {
	repo := newMemRepo()
	pet := seedPet(repo, uuid.New(), enums.AdoptionStateAdoptado)
	svc, _, _ := newTestService(repo)

	_, err := svc.Submit(context.Background(), SubmitInput{
		Adoptante: Actor{ID: uuid.New(), Role: enums.UserRoleAdoptante},
		MascotaID: pet.ID,
	})
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestSubmitMissingPetNotFound(t *testing.T) {
	repo := newMemRepo()
	svc, _, _ := newTestService(repo)

	_, err := svc.Submit(context.Background(), SubmitInput{
		Adoptante: Actor{ID: uuid.New(), Role: enums.UserRoleAdoptante},
		MascotaID: uuid.New(),
	})
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestSubmitOrphanPetFallsBackToAdmin(t *testing.T) {
	repo := newMemRepo()
	pet := &models.Mascota{ID: uuid.New(), Nombre: "Luna", EstadoAdopcion: enums.AdoptionStateDisponible}
	repo.pets[pet.ID] = pet
	admin := &models.Usuario{ID: uuid.New(), TipoUsuario: enums.UserRoleAdministrador}
	repo.admins = append(repo.admins, admin)
	svc, sink, _ := newTestService(repo)

	dto, err := svc.Submit(context.Background(), SubmitInput{
		Adoptante: Actor{ID: uuid.New(), Role: enums.UserRoleAdoptante},
		MascotaID: pet.ID,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if dto.RescatistaID != admin.ID {
		t.Fatalf("expected admin fallback owner")
	}
	if repo.pets[pet.ID].RescatistaID == nil || *repo.pets[pet.ID].RescatistaID != admin.ID {
		t.Fatalf("pet owner should be repaired in the same transaction")
	}
	if len(sink.notes) != 1 || sink.notes[0].UsuarioID != admin.ID {
		t.Fatalf("expected notification to fallback admin")
	}
}

func TestSubmitOrphanPetWithoutAdminFails(t *testing.T) {
	repo := newMemRepo()
	pet := &models.Mascota{ID: uuid.New(), EstadoAdopcion: enums.AdoptionStateDisponible}
	repo.pets[pet.ID] = pet
	svc, _, _ := newTestService(repo)

	_, err := svc.Submit(context.Background(), SubmitInput{
		Adoptante: Actor{ID: uuid.New(), Role: enums.UserRoleAdoptante},
		MascotaID: pet.ID,
	})
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected DEPENDENCY_ERROR, got %v", err)
	}
}

// Approving one request must adopt the pet and force-reject every other
// non-terminal request over the same pet.
func TestDecideApproveSweepsCompetitors(t *testing.T) {
	repo := newMemRepo()
	rescatista := uuid.New()
	pet := seedPet(repo, rescatista, enums.AdoptionStateDisponible)
	svc, sink, met := newTestService(repo)

	first := Actor{ID: uuid.New(), Role: enums.UserRoleAdoptante}
	winner, err := svc.Submit(context.Background(), SubmitInput{Adoptante: first, MascotaID: pet.ID})
	if err != nil {
		t.Fatalf("submit winner: %v", err)
	}

	// a second adopter raced in while the pet was still Disponible; emulate
	// by recording the request directly with the pet already Pendiente
	loser := &models.SolicitudAdopcion{
		AdoptanteID:     uuid.New(),
		MascotaID:       pet.ID,
		RescatistaID:    rescatista,
		EstadoSolicitud: enums.RequestStatusRevisando,
	}
	if err := repo.Create(context.Background(), loser); err != nil {
		t.Fatalf("seed loser: %v", err)
	}

	sink.notes = nil
	met.transitions = nil

	// decision text arrives lowercase; normalization must accept it
	dto, err := svc.Decide(context.Background(), DecideInput{
		RequestID: winner.ID,
		Decision:  "aprobada",
		Actor:     Actor{ID: rescatista, Role: enums.UserRoleRescatista},
	})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}

	if dto.EstadoSolicitud != enums.RequestStatusAprobada {
		t.Fatalf("expected Aprobada, got %s", dto.EstadoSolicitud)
	}
	if repo.pets[pet.ID].EstadoAdopcion != enums.AdoptionStateAdoptado {
		t.Fatalf("pet should be Adoptado")
	}
	if got := repo.requests[loser.ID].EstadoSolicitud; got != enums.RequestStatusRechazada {
		t.Fatalf("competing request should be Rechazada, got %s", got)
	}

	if len(sink.notes) != 2 {
		t.Fatalf("expected approval + sweep notifications, got %d", len(sink.notes))
	}
	if sink.notes[0].Tipo != enums.NotificationTypeSolicitudAprobada {
		t.Fatalf("first note should be approval, got %s", sink.notes[0].Tipo)
	}
	if sink.notes[1].Tipo != enums.NotificationTypeSolicitudRechazada {
		t.Fatalf("sweep note should be rejection, got %s", sink.notes[1].Tipo)
	}
	if len(met.transitions) != 1 || met.transitions[0] != "aprobada" {
		t.Fatalf("unexpected transitions %v", met.transitions)
	}
}

func TestDecideInvalidDecisionRejectedBeforeStateLogic(t *testing.T) {
	repo := newMemRepo()
	svc, _, _ := newTestService(repo)

	_, err := svc.Decide(context.Background(), DecideInput{
		RequestID: uuid.New(),
		Decision:  "Aceptada",
		Actor:     Actor{ID: uuid.New(), Role: enums.UserRoleAdministrador},
	})
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestDecideTerminalRequestConflicts(t *testing.T) {
	repo := newMemRepo()
	rescatista := uuid.New()
	pet := seedPet(repo, rescatista, enums.AdoptionStateDisponible)
	svc, _, _ := newTestService(repo)

	dto, err := svc.Submit(context.Background(), SubmitInput{
		Adoptante: Actor{ID: uuid.New(), Role: enums.UserRoleAdoptante},
		MascotaID: pet.ID,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	actor := Actor{ID: rescatista, Role: enums.UserRoleRescatista}
	if _, err := svc.Decide(context.Background(), DecideInput{RequestID: dto.ID, Decision: "Rechazada", Actor: actor}); err != nil {
		t.Fatalf("first decide: %v", err)
	}

	_, err = svc.Decide(context.Background(), DecideInput{RequestID: dto.ID, Decision: "Aprobada", Actor: actor})
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected STATE_CONFLICT, got %v", err)
	}
}

func TestDecideForbiddenForStrangers(t *testing.T) {
	repo := newMemRepo()
	pet := seedPet(repo, uuid.New(), enums.AdoptionStateDisponible)
	svc, _, _ := newTestService(repo)

	dto, err := svc.Submit(context.Background(), SubmitInput{
		Adoptante: Actor{ID: uuid.New(), Role: enums.UserRoleAdoptante},
		MascotaID: pet.ID,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	_, err = svc.Decide(context.Background(), DecideInput{
		RequestID: dto.ID,
		Decision:  "Aprobada",
		Actor:     Actor{ID: uuid.New(), Role: enums.UserRoleRescatista},
	})
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
}

// A pet goes back to Disponible only when no request over it remains
// non-terminal. Revisando counts as non-terminal.
func TestRejectKeepsPetPendingWhileReviewingCompetitorRemains(t *testing.T) {
	repo := newMemRepo()
	rescatista := uuid.New()
	pet := seedPet(repo, rescatista, enums.AdoptionStateDisponible)
	svc, _, _ := newTestService(repo)

	first, err := svc.Submit(context.Background(), SubmitInput{
		Adoptante: Actor{ID: uuid.New(), Role: enums.UserRoleAdoptante},
		MascotaID: pet.ID,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	competitor := &models.SolicitudAdopcion{
		AdoptanteID:     uuid.New(),
		MascotaID:       pet.ID,
		RescatistaID:    rescatista,
		EstadoSolicitud: enums.RequestStatusRevisando,
	}
	if err := repo.Create(context.Background(), competitor); err != nil {
		t.Fatalf("seed competitor: %v", err)
	}

	actor := Actor{ID: rescatista, Role: enums.UserRoleRescatista}
	if _, err := svc.Decide(context.Background(), DecideInput{RequestID: first.ID, Decision: "Rechazada", Actor: actor}); err != nil {
		t.Fatalf("reject first: %v", err)
	}
	if repo.pets[pet.ID].EstadoAdopcion != enums.AdoptionStatePendiente {
		t.Fatalf("pet must stay Pendiente while Revisando competitor remains")
	}

	if _, err := svc.Decide(context.Background(), DecideInput{RequestID: competitor.ID, Decision: "Rechazada", Actor: actor}); err != nil {
		t.Fatalf("reject competitor: %v", err)
	}
	if repo.pets[pet.ID].EstadoAdopcion != enums.AdoptionStateDisponible {
		t.Fatalf("pet should recover to Disponible after last rejection")
	}
}

func TestCancelByAdoptanteRecoversPet(t *testing.T) {
	repo := newMemRepo()
	rescatista := uuid.New()
	pet := seedPet(repo, rescatista, enums.AdoptionStateDisponible)
	svc, sink, _ := newTestService(repo)

	adoptante := Actor{ID: uuid.New(), Role: enums.UserRoleAdoptante}
	dto, err := svc.Submit(context.Background(), SubmitInput{Adoptante: adoptante, MascotaID: pet.ID})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	sink.notes = nil

	result, err := svc.Decide(context.Background(), DecideInput{RequestID: dto.ID, Decision: "cancelada", Actor: adoptante})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if result.EstadoSolicitud != enums.RequestStatusCancelada {
		t.Fatalf("expected Cancelada, got %s", result.EstadoSolicitud)
	}
	if repo.pets[pet.ID].EstadoAdopcion != enums.AdoptionStateDisponible {
		t.Fatalf("pet should be Disponible after cancel")
	}
	if len(sink.notes) != 1 || sink.notes[0].UsuarioID != rescatista {
		t.Fatalf("expected cancel notification to the owner")
	}

	// a third party holds no cancel rights on the request
	second, err := svc.Submit(context.Background(), SubmitInput{Adoptante: adoptante, MascotaID: pet.ID})
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	_, err = svc.Decide(context.Background(), DecideInput{
		RequestID: second.ID,
		Decision:  "Cancelada",
		Actor:     Actor{ID: uuid.New(), Role: enums.UserRoleRescatista},
	})
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected FORBIDDEN for a stranger cancel, got %v", err)
	}
}

func TestCancelByOwningRescatistaRecoversPet(t *testing.T) {
	repo := newMemRepo()
	rescatista := uuid.New()
	pet := seedPet(repo, rescatista, enums.AdoptionStateDisponible)
	svc, sink, _ := newTestService(repo)

	adoptante := Actor{ID: uuid.New(), Role: enums.UserRoleAdoptante}
	dto, err := svc.Submit(context.Background(), SubmitInput{Adoptante: adoptante, MascotaID: pet.ID})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	sink.notes = nil

	owner := Actor{ID: rescatista, Role: enums.UserRoleRescatista}
	result, err := svc.Decide(context.Background(), DecideInput{RequestID: dto.ID, Decision: "Cancelada", Actor: owner})
	if err != nil {
		t.Fatalf("owner cancel: %v", err)
	}
	if result.EstadoSolicitud != enums.RequestStatusCancelada {
		t.Fatalf("expected Cancelada, got %s", result.EstadoSolicitud)
	}
	if repo.pets[pet.ID].EstadoAdopcion != enums.AdoptionStateDisponible {
		t.Fatalf("pet should be Disponible after owner cancel")
	}
	if len(sink.notes) != 1 || sink.notes[0].UsuarioID != adoptante.ID {
		t.Fatalf("expected cancel notification to the adoptante")
	}
}

func TestReviewTransitionsOnlyFromEnviada(t *testing.T) {
	repo := newMemRepo()
	rescatista := uuid.New()
	pet := seedPet(repo, rescatista, enums.AdoptionStateDisponible)
	svc, sink, _ := newTestService(repo)

	dto, err := svc.Submit(context.Background(), SubmitInput{
		Adoptante: Actor{ID: uuid.New(), Role: enums.UserRoleAdoptante},
		MascotaID: pet.ID,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	sink.notes = nil

	actor := Actor{ID: rescatista, Role: enums.UserRoleRescatista}
	reviewed, err := svc.Review(context.Background(), actor, dto.ID)
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if reviewed.EstadoSolicitud != enums.RequestStatusRevisando {
		t.Fatalf("expected Revisando, got %s", reviewed.EstadoSolicitud)
	}
	if len(sink.notes) != 1 || sink.notes[0].Tipo != enums.NotificationTypeSolicitudPendiente {
		t.Fatalf("expected review notification to the adopter")
	}

	_, err = svc.Review(context.Background(), actor, dto.ID)
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected STATE_CONFLICT on double review, got %v", err)
	}
}

func TestListReceivedAdminSeesAll(t *testing.T) {
	repo := newMemRepo()
	petA := seedPet(repo, uuid.New(), enums.AdoptionStateDisponible)
	petB := seedPet(repo, uuid.New(), enums.AdoptionStateDisponible)
	svc, _, _ := newTestService(repo)

	for _, pet := range []*models.Mascota{petA, petB} {
		if _, err := svc.Submit(context.Background(), SubmitInput{
			Adoptante: Actor{ID: uuid.New(), Role: enums.UserRoleAdoptante},
			MascotaID: pet.ID,
		}); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	all, err := svc.ListReceived(context.Background(), Actor{ID: uuid.New(), Role: enums.UserRoleAdministrador})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("admin should see all requests, got %d", len(all))
	}

	owner, err := svc.ListReceived(context.Background(), Actor{ID: *petA.RescatistaID, Role: enums.UserRoleRescatista})
	if err != nil {
		t.Fatalf("list owner: %v", err)
	}
	if len(owner) != 1 {
		t.Fatalf("owner should see only their requests, got %d", len(owner))
	}
}
