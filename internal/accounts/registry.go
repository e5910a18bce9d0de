package accounts

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cleared-dev/tally/internal/model"
)

// DefaultPath is the account table location relative to the repository root.
const DefaultPath = "accounts/accounts.csv"

// identifyChars is how much of a statement's leading content is searched for
// an account's id pattern.
const identifyChars = 400

// Registry provides in-memory lookup over the account table.
type Registry struct {
	accounts []model.Account
	byName   map[string]model.Account
	patterns []*regexp.Regexp
}

// NewRegistry creates a Registry from a slice of accounts. Account names must
// be unique and every id pattern must compile.
func NewRegistry(accounts []model.Account) (*Registry, error) {
	r := &Registry{
		accounts: accounts,
		byName:   make(map[string]model.Account, len(accounts)),
		patterns: make([]*regexp.Regexp, len(accounts)),
	}
	for i, a := range accounts {
		if _, dup := r.byName[a.Name]; dup {
			return nil, fmt.Errorf("duplicate account %q", a.Name)
		}
		r.byName[a.Name] = a

		re, err := regexp.Compile("(?i)" + a.IDPattern)
		if err != nil {
			return nil, fmt.Errorf("account %q: compiling id_pattern: %w", a.Name, err)
		}
		r.patterns[i] = re
	}
	return r, nil
}

// Load reads accounts.csv at path and returns a Registry.
func Load(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading accounts %s: %w", path, err)
	}
	return NewRegistry(accts)
}

// All returns all accounts.
func (r *Registry) All() []model.Account {
	return r.accounts
}

// Exists reports whether an account name exists.
func (r *Registry) Exists(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Lookup returns an account by name, or ErrUnknownAccount.
func (r *Registry) Lookup(name string) (model.Account, error) {
	a, ok := r.byName[name]
	if !ok {
		return model.Account{}, fmt.Errorf("%w: %q", model.ErrUnknownAccount, name)
	}
	return a, nil
}

// Identify attributes a statement to exactly one account by matching every
// id pattern against the statement's leading content. Zero or several
// matches yield an AmbiguousSourceError.
func (r *Registry) Identify(source, content string) (model.Account, error) {
	head := Leading(content)

	var matches []model.Account
	for i, re := range r.patterns {
		if re.MatchString(head) {
			matches = append(matches, r.accounts[i])
		}
	}
	if len(matches) != 1 {
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Name
		}
		return model.Account{}, &model.AmbiguousSourceError{Source: source, Matches: names}
	}
	return matches[0], nil
}

// Leading returns the identification window of content: the first
// characters, upper-cased with runs of whitespace collapsed to one space.
func Leading(content string) string {
	runes := []rune(content)
	if len(runes) > identifyChars {
		runes = runes[:identifyChars]
	}
	return strings.Join(strings.Fields(strings.ToUpper(string(runes))), " ")
}

// Save writes the account table to path.
func (r *Registry) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, r.accounts); err != nil {
		return fmt.Errorf("writing accounts: %w", err)
	}
	return nil
}
