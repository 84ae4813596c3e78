package sound

import (
	"errors"
	"fmt"
	"os/exec"
)

// ErrNoBackend is returned when no audio player is installed.
var ErrNoBackend = errors.New("no audio player found")

// AutoBackend selects the first installed known player.
const AutoBackend = "auto"

// Backend is an external program that plays a WAV file given as its last
// argument.
type Backend struct {
	// Name is the program name.
	Name string
	// Path is the resolved executable.
	Path string
	// Args precede the file path.
	Args []string
}

// knownBackends are tried in order.
var knownBackends = []Backend{
	{Name: "paplay"},
	{Name: "pw-play"},
	{Name: "aplay", Args: []string{"-q"}},
	{Name: "afplay"},
	{Name: "ffplay", Args: []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}},
}

// DetectBackend resolves the named player, or the first known player when
// name is empty or "auto". Unknown names are run without extra arguments.
func DetectBackend(name string) (Backend, error) {
	return detectBackend(name, exec.LookPath)
}

func detectBackend(name string, lookPath func(string) (string, error)) (Backend, error) {
	if name != "" && name != AutoBackend {
		backend := Backend{Name: name}

		for _, known := range knownBackends {
			if known.Name == name {
				backend = known
			}
		}

		path, err := lookPath(name)
		if err != nil {
			return Backend{}, fmt.Errorf("%w: %s: %w", ErrNoBackend, name, err)
		}

		backend.Path = path

		return backend, nil
	}

	for _, known := range knownBackends {
		if path, err := lookPath(known.Name); err == nil {
			known.Path = path

			return known, nil
		}
	}

	return Backend{}, ErrNoBackend
}

// command builds the argument list for playing file.
func (b Backend) command(file string) []string {
	args := make([]string, 0, len(b.Args)+1)
	args = append(args, b.Args...)

	return append(args, file)
}
