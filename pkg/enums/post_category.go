package enums

import "fmt"

// PostCategory groups community posts.
type PostCategory string

const (
	PostCategoryGeneral   PostCategory = "General"
	PostCategoryHistorias PostCategory = "Historias"
	PostCategoryConsejos  PostCategory = "Consejos"
	PostCategoryPreguntas PostCategory = "Preguntas"
	PostCategoryEventos   PostCategory = "Eventos"
)

var validPostCategories = []PostCategory{
	PostCategoryGeneral,
	PostCategoryHistorias,
	PostCategoryConsejos,
	PostCategoryPreguntas,
	PostCategoryEventos,
}

// IsValid reports whether the value is a known PostCategory.
func (p PostCategory) IsValid() bool {
	for _, candidate := range validPostCategories {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePostCategory converts raw input into a PostCategory.
func ParsePostCategory(value string) (PostCategory, error) {
	for _, candidate := range validPostCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid post category %q", value)
}
