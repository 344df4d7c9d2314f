package domain

import "strings"

type UserRole string

const (
	UserRoleProfessor UserRole = "professor"
	UserRoleAdmin     UserRole = "admin"
)

// FileFormat is the lower-cased extension of an uploaded file.
type FileFormat string

const (
	FormatTXT  FileFormat = "txt"
	FormatPDF  FileFormat = "pdf"
	FormatDOCX FileFormat = "docx"
)

func (f FileFormat) IsValid() bool {
	switch f {
	case FormatTXT, FormatPDF, FormatDOCX:
		return true
	default:
		return false
	}
}

// FormatOf returns the format tag of filename, taken from the text after the last dot.
// A name without a dot yields an empty, invalid format.
func FormatOf(filename string) FileFormat {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return ""
	}
	return FileFormat(strings.ToLower(filename[i+1:]))
}

// Identity is the authenticated caller as reported by the identity provider.
type Identity struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

func (i *Identity) HasRole(roles ...UserRole) bool {
	for _, have := range i.Roles {
		for _, want := range roles {
			if strings.EqualFold(have, string(want)) {
				return true
			}
		}
	}
	return false
}
