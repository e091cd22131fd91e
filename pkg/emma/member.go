package emma

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"sort"
	"time"

	"github.com/myemma/emma-go/pkg/emma/errors"
)

// Member is a single audience member on an account. A member hydrated from
// the wire carries its server assigned member_id; a fresh member does not,
// and the absence of that id is what routes Save to the create path.
//
// Members are plain mutable state and are not safe for concurrent use.
type Member struct {
	account *Account

	memberID    int64
	hasMemberID bool
	email       string
	status      Status
	memberSince time.Time

	fields map[string]any

	Groups   *Collection[string, *Group]
	Mailings *Collection[int64, *Mailing]
}

func newMember(account *Account) *Member {
	m := &Member{
		account: account,
		fields:  map[string]any{},
	}

	m.Groups = newCollection(m.fetchGroups)
	m.Mailings = newCollection(m.fetchMailings)

	return m
}

// NewMemberFromRaw hydrates a member from a raw wire record. Enumeration and
// date fields are fully resolved, so no raw codes survive into the typed
// state.
func NewMemberFromRaw(account *Account, raw map[string]any) (*Member, error) {
	m := newMember(account)
	if err := m.parse(raw); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Member) parse(raw map[string]any) error {
	for key, value := range raw {
		switch key {
		case "member_id":
			id, ok := asInt64(value)
			if !ok {
				return fmt.Errorf("member_id is not numeric")
			}
			m.memberID = id
			m.hasMemberID = true
		case "email":
			email, _ := asString(value)
			m.email = email
		case "status":
			code, ok := asString(value)
			if !ok {
				return fmt.Errorf("status is not a string code")
			}
			status, err := StatusFromCode(code)
			if err != nil {
				return err
			}
			m.status = status
		case "member_status_id":
			// superseded by the resolved status
		case "member_since":
			if value == nil {
				continue
			}
			str, _ := asString(value)
			ts, err := ParseTimestamp(str)
			if err != nil {
				return err
			}
			m.memberSince = ts
		case "fields":
			nested, ok := value.(map[string]any)
			if !ok {
				return fmt.Errorf("fields is not an object")
			}
			for name, fieldValue := range nested {
				m.fields[name] = fieldValue
			}
		default:
			m.fields[key] = value
		}
	}

	return nil
}

// ID returns the server assigned identity, and whether the member has one.
func (m *Member) ID() (int64, bool) {
	return m.memberID, m.hasMemberID
}

func (m *Member) Email() string {
	return m.email
}

func (m *Member) SetEmail(email string) {
	m.email = email
}

func (m *Member) Status() Status {
	return m.status
}

func (m *Member) MemberSince() time.Time {
	return m.memberSince
}

// Field returns a custom field by name.
func (m *Member) Field(name string) (any, bool) {
	value, ok := m.fields[name]
	return value, ok
}

func (m *Member) SetField(name string, value any) {
	m.fields[name] = value
}

// DefaultTopLevelKeys are the keys that stay at the top of an extracted wire
// body unless the caller overrides them.
var DefaultTopLevelKeys = []string{"member_id", "email"}

// Extract projects the member's current state into the wire shape for a
// write. Keys in topLevel stay at the top of the body; any other field that
// the account recognizes as an export shortcut is nested under "fields";
// everything else is silently omitted.
func (m *Member) Extract(ctx context.Context, topLevel ...string) (map[string]any, error) {
	if m.email == "" {
		return nil, errors.NewMissingEmailError("cannot extract a member without an email")
	}

	if len(topLevel) == 0 {
		topLevel = DefaultTopLevelKeys
	}

	shortcuts, err := m.account.ExportShortcuts(ctx)
	if err != nil {
		return nil, err
	}

	view := map[string]any{"email": m.email}
	if m.hasMemberID {
		view["member_id"] = m.memberID
	}
	for name, value := range m.fields {
		view[name] = value
	}

	body := map[string]any{}
	for key, value := range view {
		if slices.Contains(topLevel, key) {
			body[key] = value
			continue
		}

		if slices.Contains(shortcuts, key) {
			nested, ok := body["fields"].(map[string]any)
			if !ok {
				nested = map[string]any{}
				body["fields"] = nested
			}
			nested[key] = value
		}
	}

	return body, nil
}

type saveOptions struct {
	signupFormID int64
}

type SaveOption func(*saveOptions)

// WithSignupForm attributes the signup to a form when a member is created.
func WithSignupForm(signupFormID int64) SaveOption {
	return func(o *saveOptions) {
		o.signupFormID = signupFormID
	}
}

// Save reconciles the member with the platform: members without an identity
// are created, everyone else is updated.
func (m *Member) Save(ctx context.Context, options ...SaveOption) error {
	if !m.hasMemberID {
		return m.add(ctx, options...)
	}

	return m.update(ctx)
}

func (m *Member) add(ctx context.Context, options ...SaveOption) error {
	opts := &saveOptions{}
	for _, option := range options {
		option(opts)
	}

	body, err := m.Extract(ctx)
	if err != nil {
		return err
	}

	if m.Groups.Len() > 0 {
		groups, err := m.Groups.FetchAll(ctx)
		if err != nil {
			return err
		}

		groupIDs := make([]int64, 0, len(groups))
		for _, g := range groups {
			if id, ok := g.ID(); ok {
				groupIDs = append(groupIDs, id)
			}
		}
		sort.Slice(groupIDs, func(i, j int) bool { return groupIDs[i] < groupIDs[j] })

		body["group_ids"] = groupIDs
	}

	if opts.signupFormID != 0 {
		body["signup_form_id"] = opts.signupFormID
	}

	raw, err := m.account.adapter.Post(ctx, "/members/add", body)
	if err != nil {
		return err
	}

	if raw == nil {
		return errors.NewNotFoundError("member add endpoint returned no result")
	}

	outcome := struct {
		Added    bool   `json:"added"`
		MemberID int64  `json:"member_id"`
		Status   string `json:"status"`
	}{}

	if err := json.Unmarshal(raw, &outcome); err != nil {
		return fmt.Errorf("failed to decode add member response: %w", err)
	}

	status, err := StatusFromCode(outcome.Status)
	if err != nil {
		return err
	}

	m.status = status

	if outcome.Added {
		m.memberID = outcome.MemberID
		m.hasMemberID = true
	}

	return nil
}

// allowed targets for a status transition on the update path
var statusTransitionTargets = []Status{StatusActive, StatusError, StatusOptOut}

func (m *Member) update(ctx context.Context) error {
	body, err := m.Extract(ctx)
	if err != nil {
		return err
	}

	if slices.Contains(statusTransitionTargets, m.status) {
		body["status_to"] = m.status.Code()
	}

	raw, err := m.account.adapter.Put(ctx, fmt.Sprintf("/members/%d", m.memberID), body)
	if err != nil {
		return err
	}

	if !truthy(raw) {
		return errors.NewMemberUpdateError(fmt.Sprintf("update of member %d was rejected", m.memberID))
	}

	return nil
}

// OptOut opts the member out of future mailings on this account. The local
// status only transitions once the platform confirms; a failed call leaves
// the member untouched.
func (m *Member) OptOut(ctx context.Context) error {
	if m.email == "" {
		return errors.NewMissingEmailError("cannot opt out a member without an email")
	}

	raw, err := m.account.adapter.Put(ctx, "/members/email/optout/"+url.PathEscape(m.email), nil)
	if err != nil {
		return err
	}

	if truthy(raw) {
		m.status = StatusOptOut
	}

	return nil
}

// HasOptedOut reports whether the member's resolved status is opt-out.
func (m *Member) HasOptedOut() (bool, error) {
	if m.status == StatusUnset {
		return false, errors.NewMissingStatusError("member status has not been resolved")
	}

	return m.status == StatusOptOut, nil
}

// OptOutDetail returns the member's opt-out history, decoded as is. Members
// whose status is not opt-out have no history, so no request is made for
// them.
func (m *Member) OptOutDetail(ctx context.Context) ([]map[string]any, error) {
	if !m.hasMemberID {
		return nil, errors.NewMissingIdentifierError("cannot fetch opt-out detail for an unsaved member")
	}

	if m.status != StatusOptOut {
		return []map[string]any{}, nil
	}

	raw, err := m.account.adapter.Get(ctx, fmt.Sprintf("/members/%d/optout", m.memberID), nil)
	if err != nil {
		return nil, err
	}

	if raw == nil {
		return []map[string]any{}, nil
	}

	return decodeList(raw)
}

func (m *Member) fetchGroups(ctx context.Context) (map[string]*Group, error) {
	if !m.hasMemberID {
		return nil, errors.NewMissingIdentifierError("cannot fetch groups for an unsaved member")
	}

	raw, err := m.account.adapter.Get(ctx, fmt.Sprintf("/members/%d/groups", m.memberID), nil)
	if err != nil {
		return nil, err
	}

	entries, err := decodeList(raw)
	if err != nil {
		return nil, err
	}

	groups := map[string]*Group{}
	for _, entry := range entries {
		g, err := NewGroupFromRaw(m.account, entry)
		if err != nil {
			return nil, err
		}

		groups[g.Name()] = g
	}

	return groups, nil
}

func (m *Member) fetchMailings(ctx context.Context) (map[int64]*Mailing, error) {
	if !m.hasMemberID {
		return nil, errors.NewMissingIdentifierError("cannot fetch mailings for an unsaved member")
	}

	raw, err := m.account.adapter.Get(ctx, fmt.Sprintf("/members/%d/mailings", m.memberID), nil)
	if err != nil {
		return nil, err
	}

	entries, err := decodeList(raw)
	if err != nil {
		return nil, err
	}

	mailings := map[int64]*Mailing{}
	for _, entry := range entries {
		mailing, err := NewMailingFromRaw(m.account, entry)
		if err != nil {
			return nil, err
		}

		id, ok := mailing.ID()
		if !ok {
			return nil, fmt.Errorf("mailing record without a mailing_id")
		}

		mailings[id] = mailing
	}

	return mailings, nil
}
