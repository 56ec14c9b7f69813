// Package bootstrap crea el primer admin global cuando el sistema está vacío.
package bootstrap

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/dropDatabas3/syndik/internal/domain/repository"
	"github.com/dropDatabas3/syndik/internal/security/password"
	"github.com/dropDatabas3/syndik/internal/store"
)

// ErrAdminExists ya hay al menos un admin.
var ErrAdminExists = errors.New("an admin already exists")

// AdminBootstrapConfig configuración del bootstrap.
type AdminBootstrapConfig struct {
	Store  store.Store
	Hasher password.Hasher
	Policy password.Policy

	SkipPrompt    bool // sin prompts (CI / tests)
	AdminEmail    string
	AdminPassword string
	AdminName     string

	Out io.Writer // default os.Stdout
	In  io.Reader // default os.Stdin
}

// CheckAndCreateAdmin crea el admin si no existe ninguno.
// Con credenciales completas no pregunta nada.
func CheckAndCreateAdmin(ctx context.Context, cfg AdminBootstrapConfig) (*repository.Profile, error) {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.In == nil {
		cfg.In = os.Stdin
	}

	has, err := HasAdmin(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("check existing admins: %w", err)
	}
	if has {
		fmt.Fprintln(cfg.Out, "Admin user detected. Skipping bootstrap.")
		return nil, ErrAdminExists
	}

	email, plain := cfg.AdminEmail, cfg.AdminPassword
	if email == "" || plain == "" {
		if cfg.SkipPrompt {
			return nil, fmt.Errorf("SkipPrompt=true requires AdminEmail and AdminPassword")
		}
		fmt.Fprintln(cfg.Out, "No admin users found. Let's create the first one.")
		email, plain, err = promptAdminCredentials(cfg.In, cfg.Out, cfg.Policy)
		if err != nil {
			return nil, fmt.Errorf("prompt admin credentials: %w", err)
		}
	}

	p, err := createAdmin(ctx, cfg, email, plain)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(cfg.Out, "Admin created with ID: %s (%s)\n", p.ID, p.Email)
	fmt.Fprintln(cfg.Out, "You can now login at: /v1/auth/login")
	return p, nil
}

// HasAdmin indica si existe al menos un perfil admin.
func HasAdmin(ctx context.Context, st store.Store) (bool, error) {
	admins, err := st.Profiles().List(ctx, repository.ListProfilesFilter{Role: repository.RoleAdmin, Limit: 1})
	if err != nil {
		return false, err
	}
	return len(admins) > 0, nil
}

func createAdmin(ctx context.Context, cfg AdminBootstrapConfig, email, plain string) (*repository.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("invalid email %q", email)
	}
	if reasons := cfg.Policy.Validate(plain); len(reasons) > 0 {
		return nil, fmt.Errorf("password rejected: %s", strings.Join(reasons, ","))
	}
	hash, err := cfg.Hasher.Hash(plain)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// Un perfil existente con ese email se promueve en vez de fallar.
	if existing, err := cfg.Store.Profiles().GetByEmail(ctx, email); err == nil {
		err = cfg.Store.InTx(ctx, func(tx store.Repositories) error {
			if err := tx.Profiles().SetRole(ctx, existing.ID, repository.RoleAdmin); err != nil {
				return err
			}
			if err := tx.Profiles().UpdatePasswordHash(ctx, existing.ID, hash); err != nil {
				return err
			}
			return tx.Profiles().SetEmailVerified(ctx, existing.ID, true)
		})
		if err != nil {
			return nil, fmt.Errorf("promote existing profile: %w", err)
		}
		existing.Role = repository.RoleAdmin
		existing.EmailVerified = true
		return existing, nil
	} else if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("check existing profile: %w", err)
	}

	name := strings.TrimSpace(cfg.AdminName)
	if name == "" {
		name = "Administrator"
	}
	p, err := cfg.Store.Profiles().Create(ctx, repository.CreateProfileInput{
		Email:         email,
		PasswordHash:  hash,
		FullName:      name,
		Role:          repository.RoleAdmin,
		EmailVerified: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return p, nil
}

// promptAdminCredentials pide email y password (oculto si stdin es una terminal).
func promptAdminCredentials(in io.Reader, out io.Writer, policy password.Policy) (string, string, error) {
	reader := bufio.NewReader(in)
	tty := in == os.Stdin && term.IsTerminal(int(syscall.Stdin))

	fmt.Fprint(out, "Admin Email: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		return "", "", err
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return "", "", fmt.Errorf("email cannot be empty")
	}

	fmt.Fprintf(out, "Admin Password (min %d chars): ", policy.MinLength)
	plain, err := readSecret(reader, out, tty)
	if err != nil {
		return "", "", err
	}
	fmt.Fprint(out, "Confirm Password: ")
	confirm, err := readSecret(reader, out, tty)
	if err != nil {
		return "", "", err
	}
	if plain != confirm {
		return "", "", fmt.Errorf("passwords do not match")
	}
	return email, plain, nil
}

func readSecret(reader *bufio.Reader, out io.Writer, tty bool) (string, error) {
	if tty {
		b, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(out)
		return string(b), err
	}
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
