package enums

import "fmt"

// AnimalType is the species of a listed pet.
type AnimalType string

const (
	AnimalTypePerro AnimalType = "Perro"
	AnimalTypeGato  AnimalType = "Gato"
	AnimalTypeOtro  AnimalType = "Otro"
)

var validAnimalTypes = []AnimalType{AnimalTypePerro, AnimalTypeGato, AnimalTypeOtro}

// IsValid reports whether the value is a known AnimalType.
func (a AnimalType) IsValid() bool {
	for _, candidate := range validAnimalTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAnimalType converts raw input into an AnimalType.
func ParseAnimalType(value string) (AnimalType, error) {
	for _, candidate := range validAnimalTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid animal type %q", value)
}

// AgeUnit qualifies the edad field of a pet.
type AgeUnit string

const (
	AgeUnitMeses AgeUnit = "meses"
	AgeUnitAnios AgeUnit = "años"
)

// IsValid reports whether the value is a known AgeUnit.
func (a AgeUnit) IsValid() bool {
	return a == AgeUnitMeses || a == AgeUnitAnios
}

// PetSize buckets pets by size.
type PetSize string

const (
	PetSizeChico   PetSize = "Chico"
	PetSizeMediano PetSize = "Mediano"
	PetSizeGrande  PetSize = "Grande"
)

var validPetSizes = []PetSize{PetSizeChico, PetSizeMediano, PetSizeGrande}

// IsValid reports whether the value is a known PetSize.
func (p PetSize) IsValid() bool {
	for _, candidate := range validPetSizes {
		if candidate == p {
			return true
		}
	}
	return false
}

// PetGender is the declared gender of a pet.
type PetGender string

const (
	PetGenderMacho       PetGender = "Macho"
	PetGenderHembra      PetGender = "Hembra"
	PetGenderDesconocido PetGender = "Desconocido"
)

var validPetGenders = []PetGender{PetGenderMacho, PetGenderHembra, PetGenderDesconocido}

// IsValid reports whether the value is a known PetGender.
func (p PetGender) IsValid() bool {
	for _, candidate := range validPetGenders {
		if candidate == p {
			return true
		}
	}
	return false
}
