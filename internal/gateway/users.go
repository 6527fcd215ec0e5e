package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"money-tracker/internal/domain"
	"money-tracker/internal/logger"
)

var (
	// ErrUserExists is returned when registering a name that is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrUnknownUser is returned when opening a session for an unregistered name.
	ErrUnknownUser = errors.New("unknown user")
	// ErrInvalidUsername is returned for names that cannot be used as a directory.
	ErrInvalidUsername = errors.New("invalid username")
)

// UserInfo is one registry entry.
type UserInfo struct {
	Name      string `json:"name,omitempty"`
	CreatedAt string `json:"created_at"`
	DataDir   string `json:"data_dir"`
}

type registryFile struct {
	Users map[string]UserInfo `json:"users"`
}

// UserRegistry keeps the list of users in <root>/users.json and gives each
// one a data directory under <root>/users/<name>.
type UserRegistry struct {
	root string
	now  func() time.Time
}

// NewUserRegistry creates a registry rooted at root.
func NewUserRegistry(root string) *UserRegistry {
	return &UserRegistry{root: root, now: time.Now}
}

func (u *UserRegistry) path() string {
	return filepath.Join(u.root, "users.json")
}

func (u *UserRegistry) load() (registryFile, error) {
	reg := registryFile{Users: map[string]UserInfo{}}
	data, err := os.ReadFile(u.path())
	if errors.Is(err, os.ErrNotExist) {
		return reg, nil
	}
	if err != nil {
		return reg, fmt.Errorf("failed to read user registry: %w", err)
	}
	if err := json.Unmarshal(data, &reg); err != nil {
		return reg, fmt.Errorf("failed to parse user registry %s: %w", u.path(), err)
	}
	if reg.Users == nil {
		reg.Users = map[string]UserInfo{}
	}
	return reg, nil
}

func validUsername(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

// Add registers name and creates its data directory.
func (u *UserRegistry) Add(ctx context.Context, name string) (domain.Session, error) {
	name = strings.TrimSpace(name)
	if !validUsername(name) {
		return domain.Session{}, fmt.Errorf("%q: %w", name, ErrInvalidUsername)
	}
	reg, err := u.load()
	if err != nil {
		return domain.Session{}, err
	}
	if _, ok := reg.Users[name]; ok {
		return domain.Session{}, fmt.Errorf("%s: %w", name, ErrUserExists)
	}

	dir := filepath.Join(u.root, "users", name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.Session{}, fmt.Errorf("failed to create data directory for %s: %w", name, err)
	}
	reg.Users[name] = UserInfo{CreatedAt: u.now().UTC().Format(time.RFC3339), DataDir: dir}

	err = writeFileAtomic(u.path(), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reg)
	})
	if err != nil {
		return domain.Session{}, err
	}
	log := logger.FromContext(ctx)
	log.Info().Str("user", name).Msg("user registered")
	return domain.Session{User: name, DataDir: dir}, nil
}

// List returns the registered users sorted by name.
func (u *UserRegistry) List(ctx context.Context) ([]UserInfo, error) {
	reg, err := u.load()
	if err != nil {
		return nil, err
	}
	users := make([]UserInfo, 0, len(reg.Users))
	for name, info := range reg.Users {
		info.Name = name
		users = append(users, info)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

// Open returns the session of a registered user.
func (u *UserRegistry) Open(ctx context.Context, name string) (domain.Session, error) {
	name = strings.TrimSpace(name)
	reg, err := u.load()
	if err != nil {
		return domain.Session{}, err
	}
	info, ok := reg.Users[name]
	if !ok {
		return domain.Session{}, fmt.Errorf("%s: %w", name, ErrUnknownUser)
	}
	dir := info.DataDir
	if dir == "" {
		dir = filepath.Join(u.root, "users", name)
	}
	return domain.Session{User: name, DataDir: dir}, nil
}
