package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/katzeapp/katze-backend/pkg/migrate"
)

func TestMigrationDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func TestAdoptionRequestMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_solicitudes_adopcion.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no adoption request migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS solicitudes_adopcion",
		"FOREIGN KEY (mascota_id) REFERENCES mascotas(id) ON DELETE CASCADE",
		"CHECK (estado_solicitud IN ('Enviada', 'Revisando', 'Aprobada', 'Rechazada', 'Cancelada'))",
		"DROP TABLE IF EXISTS solicitudes_adopcion",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestPetMigrationEnforcesStateEnum(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_mascotas.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no pet migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CHECK (estado_adopcion IN ('Disponible', 'Pendiente', 'Adoptado'))",
		"rescatista_id UUID REFERENCES usuarios(id) ON DELETE SET NULL",
		"DROP TABLE IF EXISTS mascotas",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
