package sound

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sandeepkv93/nova/internal/log"
)

var ErrNoPlayer = errors.New("sound: no audio player found")

// candidates are tried in order when no command is configured.
var candidates = [][]string{
	{"mpv", "--no-video", "--really-quiet"},
	{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
	{"paplay"},
	{"afplay"},
}

// streamers can open an http(s) URL directly. paplay and afplay only read
// local files.
var streamers = map[string]bool{
	"mpv":    true,
	"ffplay": true,
	"vlc":    true,
	"cvlc":   true,
}

// maxDownload caps a fetched clip; catalog clips are well under 1MB.
const maxDownload = 8 << 20

// ExecBackend runs an external audio player with the source as its last
// argument. Inline audio, and URLs the player cannot stream, are written to
// a temp file first. Downloads are cached per URL for the process lifetime.
type ExecBackend struct {
	command []string
	tempDir string
	run     func(ctx context.Context, name string, args ...string) error
	fetch   func(ctx context.Context, url string) ([]byte, error)

	mu    sync.Mutex
	cache map[string][]byte
}

// NewExecBackend uses configured (split on spaces) when set, otherwise the
// first candidate found on PATH.
func NewExecBackend(configured string) (*ExecBackend, error) {
	command, err := detect(configured, exec.LookPath)
	if err != nil {
		return nil, err
	}
	return &ExecBackend{
		command: command,
		run: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Run()
		},
		fetch: httpFetch,
	}, nil
}

var httpClient = &http.Client{Timeout: 30 * time.Second}

func httpFetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: %s", url, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownload+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxDownload {
		return nil, fmt.Errorf("fetch %s: larger than %d bytes", url, maxDownload)
	}
	return data, nil
}

func detect(configured string, lookPath func(string) (string, error)) ([]string, error) {
	if fields := strings.Fields(configured); len(fields) > 0 {
		if _, err := lookPath(fields[0]); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrNoPlayer, fields[0])
		}
		return fields, nil
	}
	for _, c := range candidates {
		if _, err := lookPath(c[0]); err == nil {
			return c, nil
		}
	}
	return nil, ErrNoPlayer
}

func (b *ExecBackend) Command() string {
	return strings.Join(b.command, " ")
}

// Streams reports whether the player is handed URLs as-is.
func (b *ExecBackend) Streams() bool {
	return streamers[filepath.Base(b.command[0])]
}

func (b *ExecBackend) Play(ctx context.Context, src Source) error {
	if !src.Inline() && !b.Streams() {
		local, err := b.download(ctx, src)
		if err != nil {
			return err
		}
		src = local
	}
	target := src.URL
	if src.Inline() {
		path, err := b.writeTemp(src)
		if err != nil {
			return err
		}
		defer os.Remove(path)
		target = path
	}
	args := append(append([]string{}, b.command[1:]...), target)
	return b.run(ctx, b.command[0], args...)
}

// download turns a URL source into an inline one.
func (b *ExecBackend) download(ctx context.Context, src Source) (Source, error) {
	b.mu.Lock()
	data, ok := b.cache[src.URL]
	b.mu.Unlock()
	if !ok {
		if b.fetch == nil {
			return Source{}, fmt.Errorf("sound %s: %s cannot play URLs", src.ID, b.command[0])
		}
		fetched, err := b.fetch(ctx, src.URL)
		if err != nil {
			return Source{}, fmt.Errorf("download sound %s: %w", src.ID, err)
		}
		if len(fetched) == 0 {
			return Source{}, fmt.Errorf("download sound %s: empty clip", src.ID)
		}
		b.mu.Lock()
		if b.cache == nil {
			b.cache = map[string][]byte{}
		}
		b.cache[src.URL] = fetched
		b.mu.Unlock()
		data = fetched
	}
	mime := "audio/bin"
	if ext := strings.TrimPrefix(path.Ext(src.URL), "."); ext != "" {
		mime = "audio/" + ext
	}
	return Source{ID: src.ID, MIME: mime, Data: data}, nil
}

func (b *ExecBackend) writeTemp(src Source) (string, error) {
	ext := strings.TrimPrefix(src.MIME, "audio/")
	if ext == "" || strings.ContainsAny(ext, `/\`) {
		ext = "bin"
	}
	f, err := os.CreateTemp(b.tempDir, "nova-sound-*."+ext)
	if err != nil {
		return "", fmt.Errorf("create sound temp file: %w", err)
	}
	if _, err := f.Write(src.Data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write sound temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// SilentBackend is used when no audio player is available.
type SilentBackend struct{}

func (SilentBackend) Play(_ context.Context, src Source) error {
	log.Info("no audio player, skipping sound", "sound", src.ID)
	return nil
}

// Detect returns an ExecBackend, or SilentBackend when none can be found.
func Detect(configured string) Backend {
	b, err := NewExecBackend(configured)
	if err != nil {
		log.Warn("audio disabled", "reason", err)
		return SilentBackend{}
	}
	log.Debug("audio player selected", "command", b.Command())
	return b
}
