package storage

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var ErrInvalidPath = errors.New("path outside storage root")

// Storage saves and reads uploaded files by name. Save returns the location
// to persist on the submission record; Read and Delete accept that location.
// Saving under an existing name overwrites the previous file.
type Storage interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
	Read(ctx context.Context, location string) ([]byte, error)
	Delete(ctx context.Context, location string) error
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

var windowsDeviceNames = map[string]bool{
	"CON": true, "AUX": true, "COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "PRN": true, "NUL": true,
}

// SafeName reduces an uploaded filename to a flat ASCII name that cannot
// escape the storage root: accents are folded, path separators and whitespace
// become underscores, anything outside [A-Za-z0-9_.-] is dropped and leading
// or trailing dots and underscores are trimmed. The result may be empty.
func SafeName(name string) string {
	folded := norm.NFKD.String(name)
	ascii := make([]rune, 0, len(folded))
	for _, r := range folded {
		if r < 128 {
			ascii = append(ascii, r)
		}
	}
	name = string(ascii)

	name = strings.NewReplacer("/", " ", `\`, " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")

	stem, _, _ := strings.Cut(name, ".")
	if windowsDeviceNames[strings.ToUpper(stem)] {
		name = "_" + name
	}
	return name
}
