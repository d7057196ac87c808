package sound

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeBackend struct {
	mu      sync.Mutex
	played  []Source
	stopped int
	started chan string
	block   bool
	err     error
}

func newFakeBackend(block bool) *fakeBackend {
	return &fakeBackend{block: block, started: make(chan string, 8)}
}

func (f *fakeBackend) Play(ctx context.Context, src Source) error {
	f.mu.Lock()
	f.played = append(f.played, src)
	f.mu.Unlock()
	f.started <- src.ID
	if !f.block {
		return f.err
	}
	<-ctx.Done()
	f.mu.Lock()
	f.stopped++
	f.mu.Unlock()
	return ctx.Err()
}

func (f *fakeBackend) snapshot() ([]Source, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Source(nil), f.played...), f.stopped
}

func waitStarted(t *testing.T, f *fakeBackend) string {
	t.Helper()
	select {
	case id := <-f.started:
		return id
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for playback")
		return ""
	}
}

func TestResolveCatalog(t *testing.T) {
	for _, id := range IDs() {
		src := Resolve(id)
		if src.ID != id || src.URL != Catalog[id] {
			t.Fatalf("unexpected source for %s: %+v", id, src)
		}
	}
}

func TestResolveUnknownUsesDefault(t *testing.T) {
	for _, id := range []string{"", "ocean", "data:audio/wav;base64,@@@", "data:audio/;base64,AAAA", "data:video/mp4;base64,AAAA"} {
		src := Resolve(id)
		if src.ID != DefaultID || src.URL != Catalog[DefaultID] {
			t.Fatalf("expected default for %q, got %+v", id, src)
		}
		if IsValid(id) {
			t.Fatalf("expected %q to be invalid", id)
		}
	}
}

func TestResolveInline(t *testing.T) {
	payload := []byte("RIFF fake wav")
	id := "data:audio/wav;base64," + base64.StdEncoding.EncodeToString(payload)
	src := Resolve(id)
	if !src.Inline() || src.ID != InlineID || src.MIME != "audio/wav" {
		t.Fatalf("unexpected inline source: %+v", src)
	}
	if string(src.Data) != string(payload) {
		t.Fatalf("unexpected payload %q", src.Data)
	}
	if !IsValid(id) {
		t.Fatal("expected inline id valid")
	}
}

func TestPlayerUnknownSoundPlaysDefault(t *testing.T) {
	backend := newFakeBackend(false)
	p := NewPlayer(backend, time.Second)
	p.Play("nonexistent")
	if got := waitStarted(t, backend); got != DefaultID {
		t.Fatalf("expected default sound, got %s", got)
	}
	p.Stop()
}

func TestPlayerStopsPreviousPlayback(t *testing.T) {
	backend := newFakeBackend(true)
	p := NewPlayer(backend, time.Minute)

	p.Play("zen")
	waitStarted(t, backend)
	if p.Playing() != "zen" {
		t.Fatalf("expected zen playing, got %q", p.Playing())
	}

	p.Play("forest")
	waitStarted(t, backend)

	played, stopped := backend.snapshot()
	if len(played) != 2 || played[0].ID != "zen" || played[1].ID != "forest" {
		t.Fatalf("unexpected playback order: %+v", played)
	}
	if stopped != 1 {
		t.Fatalf("expected first playback stopped before second, got %d stops", stopped)
	}
	if p.Playing() != "forest" {
		t.Fatalf("expected forest playing, got %q", p.Playing())
	}

	p.Stop()
	if _, stopped := backend.snapshot(); stopped != 2 {
		t.Fatalf("expected both playbacks stopped, got %d", stopped)
	}
	if p.Playing() != "" {
		t.Fatalf("expected nothing playing, got %q", p.Playing())
	}
}

func TestPlayerCeilingStopsPlayback(t *testing.T) {
	backend := newFakeBackend(true)
	p := NewPlayer(backend, 50*time.Millisecond)
	p.Play("aurora")
	waitStarted(t, backend)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, stopped := backend.snapshot(); stopped == 1 && p.Playing() == "" {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("expected playback to stop at the ceiling")
}

func TestPlayerSwallowsBackendErrors(t *testing.T) {
	backend := newFakeBackend(false)
	backend.err = errors.New("device busy")
	p := NewPlayer(backend, time.Second)
	p.Play("digital")
	waitStarted(t, backend)
	p.Stop()
}

func TestStopWithoutPlaybackIsNoop(t *testing.T) {
	NewPlayer(newFakeBackend(false), 0).Stop()
}

func TestDetectPrefersConfiguredCommand(t *testing.T) {
	look := func(name string) (string, error) {
		if name == "cvlc" || name == "ffplay" {
			return "/usr/bin/" + name, nil
		}
		return "", errors.New("missing")
	}
	cmd, err := detect("cvlc --play-and-exit", look)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if strings.Join(cmd, " ") != "cvlc --play-and-exit" {
		t.Fatalf("unexpected command %v", cmd)
	}

	cmd, err = detect("", look)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if cmd[0] != "ffplay" {
		t.Fatalf("expected ffplay fallback, got %v", cmd)
	}

	if _, err := detect("missing-player", look); !errors.Is(err, ErrNoPlayer) {
		t.Fatalf("expected ErrNoPlayer, got %v", err)
	}
	none := func(string) (string, error) { return "", errors.New("missing") }
	if _, err := detect("", none); !errors.Is(err, ErrNoPlayer) {
		t.Fatalf("expected ErrNoPlayer, got %v", err)
	}
}

func TestExecBackendWritesInlineToTempFile(t *testing.T) {
	var gotName string
	var gotArgs []string
	var contents []byte
	b := &ExecBackend{
		command: []string{"mpv", "--no-video"},
		tempDir: t.TempDir(),
		run: func(_ context.Context, name string, args ...string) error {
			gotName = name
			gotArgs = args
			data, err := os.ReadFile(args[len(args)-1])
			if err != nil {
				return err
			}
			contents = data
			return nil
		},
	}
	src := Source{ID: InlineID, MIME: "audio/ogg", Data: []byte("OggS")}
	if err := b.Play(context.Background(), src); err != nil {
		t.Fatalf("play: %v", err)
	}
	if gotName != "mpv" || gotArgs[0] != "--no-video" || !strings.HasSuffix(gotArgs[1], ".ogg") {
		t.Fatalf("unexpected invocation %s %v", gotName, gotArgs)
	}
	if string(contents) != "OggS" {
		t.Fatalf("unexpected temp contents %q", contents)
	}
	if _, err := os.Stat(gotArgs[1]); !os.IsNotExist(err) {
		t.Fatalf("expected temp file removed, stat err=%v", err)
	}
}

func TestExecBackendArgsPerCandidate(t *testing.T) {
	for _, c := range candidates {
		t.Run(c[0], func(t *testing.T) {
			var gotName string
			var gotArgs []string
			var contents []byte
			fetches := 0
			b := &ExecBackend{
				command: c,
				tempDir: t.TempDir(),
				run: func(_ context.Context, name string, args ...string) error {
					gotName = name
					gotArgs = args
					contents, _ = os.ReadFile(args[len(args)-1])
					return nil
				},
				fetch: func(_ context.Context, url string) ([]byte, error) {
					fetches++
					if url != Catalog["zen"] {
						t.Fatalf("unexpected fetch %s", url)
					}
					return []byte("OggS-zen"), nil
				},
			}
			for i := 0; i < 2; i++ {
				if err := b.Play(context.Background(), Resolve("zen")); err != nil {
					t.Fatalf("play: %v", err)
				}
			}
			if gotName != c[0] || strings.Join(gotArgs[:len(gotArgs)-1], " ") != strings.Join(c[1:], " ") {
				t.Fatalf("unexpected invocation %s %v", gotName, gotArgs)
			}
			target := gotArgs[len(gotArgs)-1]
			if streamers[c[0]] {
				if target != Catalog["zen"] || fetches != 0 {
					t.Fatalf("expected the URL passed through, got %q after %d fetches", target, fetches)
				}
				return
			}
			if !strings.HasSuffix(target, ".ogg") || string(contents) != "OggS-zen" {
				t.Fatalf("expected a local .ogg with the clip, got %q holding %q", target, contents)
			}
			if fetches != 1 {
				t.Fatalf("expected one cached download, got %d", fetches)
			}
		})
	}
}

func TestExecBackendDownloadFailureIsReported(t *testing.T) {
	ran := false
	b := &ExecBackend{
		command: []string{"/usr/bin/paplay"},
		tempDir: t.TempDir(),
		run: func(context.Context, string, ...string) error {
			ran = true
			return nil
		},
		fetch: func(context.Context, string) ([]byte, error) {
			return nil, errors.New("offline")
		},
	}
	if err := b.Play(context.Background(), Resolve("forest")); err == nil {
		t.Fatal("expected download error")
	}
	if ran {
		t.Fatal("expected the player not to run without a clip")
	}
}

func TestHTTPFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.ogg" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("OggS"))
	}))
	defer srv.Close()

	data, err := httpFetch(context.Background(), srv.URL+"/clip.ogg")
	if err != nil || string(data) != "OggS" {
		t.Fatalf("unexpected fetch result %q, %v", data, err)
	}
	if _, err := httpFetch(context.Background(), srv.URL+"/missing.ogg"); err == nil {
		t.Fatal("expected error for 404")
	}
}
