package emma

import (
	"fmt"
)

// Field describes one custom member field that the account has defined. The
// shortcut name is the key the platform accepts for the field in write
// bodies.
type Field struct {
	account *Account

	fieldID      int64
	hasFieldID   bool
	shortcutName string
	displayName  string
	fieldType    string

	fields map[string]any
}

func NewFieldFromRaw(account *Account, raw map[string]any) (*Field, error) {
	f := &Field{
		account: account,
		fields:  map[string]any{},
	}

	for key, value := range raw {
		switch key {
		case "field_id":
			id, ok := asInt64(value)
			if !ok {
				return nil, fmt.Errorf("field_id is not numeric")
			}
			f.fieldID = id
			f.hasFieldID = true
		case "shortcut_name":
			name, _ := asString(value)
			f.shortcutName = name
		case "display_name":
			name, _ := asString(value)
			f.displayName = name
		case "field_type":
			fieldType, _ := asString(value)
			f.fieldType = fieldType
		default:
			f.fields[key] = value
		}
	}

	if f.shortcutName == "" {
		return nil, fmt.Errorf("field record without a shortcut_name")
	}

	return f, nil
}

func (f *Field) ID() (int64, bool) {
	return f.fieldID, f.hasFieldID
}

func (f *Field) ShortcutName() string {
	return f.shortcutName
}

func (f *Field) DisplayName() string {
	return f.displayName
}

func (f *Field) Type() string {
	return f.fieldType
}

func (f *Field) Field(name string) (any, bool) {
	value, ok := f.fields[name]
	return value, ok
}
