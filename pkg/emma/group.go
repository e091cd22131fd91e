package emma

import (
	"context"
	"fmt"

	"github.com/myemma/emma-go/pkg/emma/errors"
)

// Group is a named audience segment on an account.
type Group struct {
	account *Account

	groupID    int64
	hasGroupID bool
	name       string
	groupType  string

	fields map[string]any
}

func NewGroupFromRaw(account *Account, raw map[string]any) (*Group, error) {
	g := &Group{
		account: account,
		fields:  map[string]any{},
	}

	for key, value := range raw {
		switch key {
		case "group_id", "member_group_id":
			id, ok := asInt64(value)
			if !ok {
				return nil, fmt.Errorf("group id is not numeric")
			}
			g.groupID = id
			g.hasGroupID = true
		case "group_name":
			name, _ := asString(value)
			g.name = name
		case "group_type":
			groupType, _ := asString(value)
			g.groupType = groupType
		default:
			g.fields[key] = value
		}
	}

	return g, nil
}

func (g *Group) ID() (int64, bool) {
	return g.groupID, g.hasGroupID
}

func (g *Group) Name() string {
	return g.name
}

func (g *Group) Type() string {
	return g.groupType
}

func (g *Group) Field(name string) (any, bool) {
	value, ok := g.fields[name]
	return value, ok
}

// Members fetches the members of this group, keyed by member id.
func (g *Group) Members(ctx context.Context) (map[int64]*Member, error) {
	if !g.hasGroupID {
		return nil, errors.NewMissingIdentifierError("cannot fetch members of an unsaved group")
	}

	raw, err := g.account.adapter.Get(ctx, fmt.Sprintf("/groups/%d/members", g.groupID), nil)
	if err != nil {
		return nil, err
	}

	entries, err := decodeList(raw)
	if err != nil {
		return nil, err
	}

	members := map[int64]*Member{}
	for _, entry := range entries {
		m, err := NewMemberFromRaw(g.account, entry)
		if err != nil {
			return nil, err
		}

		if id, ok := m.ID(); ok {
			members[id] = m
		}
	}

	return members, nil
}
