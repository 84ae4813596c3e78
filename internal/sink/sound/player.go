package sound

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/gopxl/beep/wav"
)

// Player renders the alarm tone once per volume and plays the cached file.
type Player struct {
	// backend plays the file.
	backend Backend
	// toneHz is the pitch.
	toneHz float64
	// dir holds rendered files.
	dir string

	// mu guards files.
	mu sync.Mutex
	// files maps a volume key to its rendered file.
	files map[string]string
}

// NewPlayer creates a player. An empty dir uses a directory under the OS
// cache dir, falling back to the temp dir.
func NewPlayer(backend Backend, toneHz float64, dir string) (*Player, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = os.TempDir()
		}

		dir = filepath.Join(base, "burner-alarm")
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create sound cache dir: %w", err)
	}

	if toneHz <= 0 {
		toneHz = DefaultToneHz
	}

	return &Player{
		backend: backend,
		toneHz:  toneHz,
		dir:     dir,
		files:   make(map[string]string),
	}, nil
}

// Play renders the tone at volume decibels if needed and runs the backend.
func (p *Player) Play(ctx context.Context, volume float64) error {
	file, err := p.render(volume)
	if err != nil {
		return err
	}

	//nolint:gosec // The backend is resolved from a fixed list or the config file.
	cmd := exec.CommandContext(ctx, p.backend.Path, p.backend.command(file)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("run %s: %w: %s", p.backend.Name, err, out)
	}

	return nil
}

// render returns the WAV file for volume, writing it on first use.
func (p *Player) render(volume float64) (string, error) {
	key := strconv.FormatFloat(p.toneHz, 'f', 1, 64) + "hz_" + strconv.FormatFloat(volume, 'f', 2, 64) + "db"

	p.mu.Lock()
	defer p.mu.Unlock()

	if file, ok := p.files[key]; ok {
		return file, nil
	}

	file := filepath.Join(p.dir, "alarm_"+key+".wav")

	if err := writeWAV(file, p.toneHz, volume); err != nil {
		return "", err
	}

	p.files[key] = file

	return file, nil
}

// writeWAV encodes the tone into file.
func writeWAV(file string, toneHz, volume float64) error {
	f, err := os.Create(file) //nolint:gosec // Path is built from the cache dir.
	if err != nil {
		return fmt.Errorf("create sound file: %w", err)
	}

	if err = wav.Encode(f, Tone(toneHz, volume), Format); err != nil {
		_ = f.Close()

		return fmt.Errorf("encode sound file: %w", err)
	}

	if err = f.Close(); err != nil {
		return fmt.Errorf("close sound file: %w", err)
	}

	return nil
}
