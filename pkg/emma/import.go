package emma

import (
	"fmt"
	"time"
)

// Import is one member import run on an account.
type Import struct {
	account *Account

	importID    int64
	hasImportID bool
	status      ImportStatus
	style       ImportStyle
	started     time.Time
	finished    time.Time

	fields map[string]any
}

func NewImportFromRaw(account *Account, raw map[string]any) (*Import, error) {
	imp := &Import{
		account: account,
		fields:  map[string]any{},
	}

	if err := coerceTimestamps(raw, "import_started", "import_finished"); err != nil {
		return nil, err
	}

	for key, value := range raw {
		switch key {
		case "import_id":
			id, ok := asInt64(value)
			if !ok {
				return nil, fmt.Errorf("import_id is not numeric")
			}
			imp.importID = id
			imp.hasImportID = true
		case "status":
			code, ok := asString(value)
			if !ok {
				return nil, fmt.Errorf("status is not a string code")
			}
			status, err := ImportStatusFromCode(code)
			if err != nil {
				return nil, err
			}
			imp.status = status
		case "style":
			code, ok := asString(value)
			if !ok {
				return nil, fmt.Errorf("style is not a string code")
			}
			style, err := ImportStyleFromCode(code)
			if err != nil {
				return nil, err
			}
			imp.style = style
		case "import_started":
			if ts, ok := value.(time.Time); ok {
				imp.started = ts
			}
		case "import_finished":
			if ts, ok := value.(time.Time); ok {
				imp.finished = ts
			}
		default:
			imp.fields[key] = value
		}
	}

	return imp, nil
}

func (i *Import) ID() (int64, bool) {
	return i.importID, i.hasImportID
}

func (i *Import) Status() ImportStatus {
	return i.status
}

func (i *Import) Style() ImportStyle {
	return i.style
}

func (i *Import) Started() time.Time {
	return i.started
}

func (i *Import) Finished() time.Time {
	return i.finished
}

func (i *Import) Field(name string) (any, bool) {
	value, ok := i.fields[name]
	return value, ok
}
