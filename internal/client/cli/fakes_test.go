package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/tyrekeeper/internal/client/api"
)

type fakeAPI struct {
	mu sync.Mutex

	regUser string
	regPass []byte
	regErr  error

	loginUser string
	loginPass []byte
	loginErr  error
	token     bool

	created  []api.TyreInput
	updated  map[int64]api.TyreInput
	deleted  []int64
	tyres    []api.Tyre
	tyreErr  error
	pingErrs []error
	pings    int
}

func (f *fakeAPI) Register(_ context.Context, user string, pass []byte) error {
	f.regUser, f.regPass = user, append([]byte(nil), pass...)
	return f.regErr
}

func (f *fakeAPI) Login(_ context.Context, user string, pass []byte) error {
	f.loginUser, f.loginPass = user, append([]byte(nil), pass...)
	if f.loginErr != nil {
		return f.loginErr
	}
	f.token = true
	return nil
}

func (f *fakeAPI) Logout()        { f.token = false }
func (f *fakeAPI) LoggedIn() bool { return f.token }

func (f *fakeAPI) CreateTyre(_ context.Context, in api.TyreInput) (*api.Tyre, error) {
	if f.tyreErr != nil {
		return nil, f.tyreErr
	}
	f.created = append(f.created, in)
	return &api.Tyre{ID: int64(len(f.created)), Brand: in.Brand, Model: in.Model, Size: in.Size}, nil
}

func (f *fakeAPI) ListTyres(context.Context) ([]api.Tyre, error) {
	if f.tyreErr != nil {
		return nil, f.tyreErr
	}
	return f.tyres, nil
}

func (f *fakeAPI) UpdateTyre(_ context.Context, id int64, in api.TyreInput) (*api.Tyre, error) {
	if f.tyreErr != nil {
		return nil, f.tyreErr
	}
	if f.updated == nil {
		f.updated = map[int64]api.TyreInput{}
	}
	f.updated[id] = in
	return &api.Tyre{ID: id, Brand: in.Brand, Model: in.Model, Size: in.Size}, nil
}

func (f *fakeAPI) DeleteTyre(_ context.Context, id int64) error {
	if f.tyreErr != nil {
		return f.tyreErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

// Ping returns queued errors in order, then nil.
func (f *fakeAPI) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pings++
	if len(f.pingErrs) == 0 {
		return nil
	}
	err := f.pingErrs[0]
	f.pingErrs = f.pingErrs[1:]
	return err
}

func (f *fakeAPI) pingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pings
}

// stubInputs answers getSimpleText prompts from texts in order and
// getPassword with password.
func stubInputs(t *testing.T, password []byte, texts ...string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, prompt string, _ io.Writer) (string, error) {
		if len(texts) == 0 {
			return "", io.EOF
		}
		s := texts[0]
		texts = texts[1:]
		return s, nil
	}
	getPassword = func(_ io.Writer) ([]byte, error) { return password, nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

// capturePrintln collects printlnFn output for the duration of the test.
func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var mu sync.Mutex
	lines := []string{}
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		s := strings.TrimSuffix(fmt.Sprintln(a...), "\n")
		mu.Lock()
		lines = append(lines, s)
		mu.Unlock()
		return len(s), nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func newTestApp(f *fakeAPI) (*App, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &App{api: f, out: out, reader: bufio.NewReader(strings.NewReader(""))}, out
}
