package emma

import (
	"fmt"
)

// Mailing is a single mailing on an account.
type Mailing struct {
	account *Account

	mailingID    int64
	hasMailingID bool
	name         string
	subject      string
	mailingType  string
	status       string

	fields map[string]any
}

func NewMailingFromRaw(account *Account, raw map[string]any) (*Mailing, error) {
	m := &Mailing{
		account: account,
		fields:  map[string]any{},
	}

	if err := coerceTimestamps(raw, "delivery_ts", "send_started", "send_finished", "archived_ts"); err != nil {
		return nil, err
	}

	for key, value := range raw {
		switch key {
		case "mailing_id":
			id, ok := asInt64(value)
			if !ok {
				return nil, fmt.Errorf("mailing_id is not numeric")
			}
			m.mailingID = id
			m.hasMailingID = true
		case "name":
			name, _ := asString(value)
			m.name = name
		case "subject":
			subject, _ := asString(value)
			m.subject = subject
		case "mailing_type":
			mailingType, _ := asString(value)
			m.mailingType = mailingType
		case "mailing_status":
			status, _ := asString(value)
			m.status = status
		default:
			m.fields[key] = value
		}
	}

	return m, nil
}

func (m *Mailing) ID() (int64, bool) {
	return m.mailingID, m.hasMailingID
}

func (m *Mailing) Name() string {
	return m.name
}

func (m *Mailing) Subject() string {
	return m.subject
}

func (m *Mailing) Type() string {
	return m.mailingType
}

func (m *Mailing) Status() string {
	return m.status
}

func (m *Mailing) Field(name string) (any, bool) {
	value, ok := m.fields[name]
	return value, ok
}
