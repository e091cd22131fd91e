package emma

import (
	"context"
	"fmt"
	"net/url"
	"sort"

	"github.com/myemma/emma-go/pkg/emma/api"
	"github.com/myemma/emma-go/pkg/emma/errors"
)

// Account is the root of the object model. It owns the transport adapter and
// the account level collections, and it supplies the custom field shortcut
// names that extraction relies on.
type Account struct {
	adapter api.Adapter

	Members  *Collection[int64, *Member]
	Groups   *Collection[string, *Group]
	Mailings *Collection[int64, *Mailing]
	Imports  *Collection[int64, *Import]
	Fields   *Collection[string, *Field]
}

// New creates an Account with an http adapter for the given credentials.
func New(accountID, publicKey, privateKey string) *Account {
	return NewWithAdapter(api.New(accountID, publicKey, privateKey))
}

// NewWithAdapter creates an Account on top of an existing adapter. Use this
// together with api.New when the adapter needs options, or in tests.
func NewWithAdapter(adapter api.Adapter) *Account {
	a := &Account{adapter: adapter}

	a.Members = newCollection(a.fetchMembers)
	a.Groups = newCollection(a.fetchGroups)
	a.Mailings = newCollection(a.fetchMailings)
	a.Imports = newCollection(a.fetchImports)
	a.Fields = newCollection(a.fetchFields)

	return a
}

// NewMember returns a fresh member that is not yet known to the platform.
// Saving it will take the create path.
func (a *Account) NewMember(email string) *Member {
	m := newMember(a)
	m.email = email
	return m
}

// MemberByID retrieves a single member. A 404 from the platform surfaces as
// ErrNotFound.
func (a *Account) MemberByID(ctx context.Context, memberID int64) (*Member, error) {
	raw, err := a.adapter.Get(ctx, fmt.Sprintf("/members/%d", memberID), nil)
	if err != nil {
		return nil, err
	}

	if raw == nil {
		return nil, errors.NewNotFoundError(fmt.Sprintf("member %d does not exist", memberID))
	}

	contents, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	return NewMemberFromRaw(a, contents)
}

// MemberByEmail retrieves a single member by email address.
func (a *Account) MemberByEmail(ctx context.Context, email string) (*Member, error) {
	raw, err := a.adapter.Get(ctx, "/members/email/"+url.PathEscape(email), nil)
	if err != nil {
		return nil, err
	}

	if raw == nil {
		return nil, errors.NewNotFoundError(fmt.Sprintf("no member with email %s", email))
	}

	contents, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	return NewMemberFromRaw(a, contents)
}

// ImportByID retrieves the details of a single import.
func (a *Account) ImportByID(ctx context.Context, importID int64) (*Import, error) {
	raw, err := a.adapter.Get(ctx, fmt.Sprintf("/members/imports/%d", importID), nil)
	if err != nil {
		return nil, err
	}

	if raw == nil {
		return nil, errors.NewNotFoundError(fmt.Sprintf("import %d does not exist", importID))
	}

	contents, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	return NewImportFromRaw(a, contents)
}

// ExportShortcuts returns the custom field shortcut names that the account
// recognizes in write bodies. The underlying field collection is fetched once
// and memoized.
func (a *Account) ExportShortcuts(ctx context.Context) ([]string, error) {
	fields, err := a.Fields.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	shortcuts := make([]string, 0, len(fields))
	for name := range fields {
		shortcuts = append(shortcuts, name)
	}

	sort.Strings(shortcuts)

	return shortcuts, nil
}

func (a *Account) fetchMembers(ctx context.Context) (map[int64]*Member, error) {
	raw, err := a.adapter.Get(ctx, "/members", nil)
	if err != nil {
		return nil, err
	}

	entries, err := decodeList(raw)
	if err != nil {
		return nil, err
	}

	members := map[int64]*Member{}
	for _, entry := range entries {
		m, err := NewMemberFromRaw(a, entry)
		if err != nil {
			return nil, err
		}

		id, ok := m.ID()
		if !ok {
			return nil, errors.NewMissingIdentifierError("member record without a member_id")
		}

		members[id] = m
	}

	return members, nil
}

func (a *Account) fetchGroups(ctx context.Context) (map[string]*Group, error) {
	raw, err := a.adapter.Get(ctx, "/groups", nil)
	if err != nil {
		return nil, err
	}

	entries, err := decodeList(raw)
	if err != nil {
		return nil, err
	}

	groups := map[string]*Group{}
	for _, entry := range entries {
		g, err := NewGroupFromRaw(a, entry)
		if err != nil {
			return nil, err
		}

		groups[g.Name()] = g
	}

	return groups, nil
}

func (a *Account) fetchMailings(ctx context.Context) (map[int64]*Mailing, error) {
	raw, err := a.adapter.Get(ctx, "/mailings", nil)
	if err != nil {
		return nil, err
	}

	entries, err := decodeList(raw)
	if err != nil {
		return nil, err
	}

	mailings := map[int64]*Mailing{}
	for _, entry := range entries {
		m, err := NewMailingFromRaw(a, entry)
		if err != nil {
			return nil, err
		}

		id, _ := m.ID()
		mailings[id] = m
	}

	return mailings, nil
}

func (a *Account) fetchImports(ctx context.Context) (map[int64]*Import, error) {
	raw, err := a.adapter.Get(ctx, "/members/imports", nil)
	if err != nil {
		return nil, err
	}

	entries, err := decodeList(raw)
	if err != nil {
		return nil, err
	}

	imports := map[int64]*Import{}
	for _, entry := range entries {
		imp, err := NewImportFromRaw(a, entry)
		if err != nil {
			return nil, err
		}

		id, _ := imp.ID()
		imports[id] = imp
	}

	return imports, nil
}

func (a *Account) fetchFields(ctx context.Context) (map[string]*Field, error) {
	raw, err := a.adapter.Get(ctx, "/fields", nil)
	if err != nil {
		return nil, err
	}

	entries, err := decodeList(raw)
	if err != nil {
		return nil, err
	}

	fields := map[string]*Field{}
	for _, entry := range entries {
		f, err := NewFieldFromRaw(a, entry)
		if err != nil {
			return nil, err
		}

		fields[f.ShortcutName()] = f
	}

	return fields, nil
}
