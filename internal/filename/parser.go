// Package filename infers submission identity from uploaded file names.
//
// The expected convention is "<Submission Title> - <Student Name>.<ext>".
// Underscores count as spaces, so "Lab_1 - Jane_Doe.pdf" parses the same as
// "Lab 1 - Jane Doe.pdf".
package filename

import "strings"

const delimiter = " - "

// Parse splits a raw upload name into a submission title and a student name.
// The split happens on the last delimiter so titles that contain " - " survive
// intact. A name without the delimiter yields the whole stem as the title and
// an empty student name; that is not an error.
func Parse(raw string) (title, student string) {
	stem := normalize(stripExtension(baseName(raw)))

	i := strings.LastIndex(stem, delimiter)
	if i < 0 {
		return stem, ""
	}
	return strings.TrimSpace(stem[:i]), strings.TrimSpace(stem[i+len(delimiter):])
}

// baseName drops any directory component, accepting both slash styles since
// browsers on Windows may send full client paths.
func baseName(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		return name[i+1:]
	}
	return name
}

// stripExtension removes the text after the last dot. A leading dot
// (".profile") is part of the stem, not an extension.
func stripExtension(name string) string {
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[:i]
	}
	return name
}

func normalize(stem string) string {
	stem = strings.ReplaceAll(stem, "_", " ")
	return strings.Join(strings.Fields(stem), " ")
}
