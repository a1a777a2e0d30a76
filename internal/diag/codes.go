package diag

import (
	"fmt"
)

// Code is a stable numeric identifier; ID renders it as "FSnnn".
type Code uint16

const (
	UnknownCode Code = 0

	// Генератор: ошибки, которые подавляют синтез для своей группы
	GenMissingBaseType Code = 1
	GenDuplicateKey    Code = 2
	GenInternalError   Code = 99

	// Хост: ошибки загрузки деклараций, до запуска движка
	HostParseError      Code = 101
	HostBadAnnotation   Code = 102
	HostInvalidManifest Code = 103
)

var (
	codeDescription = map[Code]string{
		UnknownCode:         "Unknown error",
		GenMissingBaseType:  "Type must embed the settings base type",
		GenDuplicateKey:     "Duplicate settings key",
		GenInternalError:    "Internal generator failure",
		HostParseError:      "Source file failed to parse",
		HostBadAnnotation:   "Malformed annotation",
		HostInvalidManifest: "Invalid declaration manifest",
	}

	// шаблоны сообщений с позиционными аргументами (%[n]s)
	codeTemplate = map[Code]string{
		GenMissingBaseType:  "type '%[1]s' must embed '%[2]s' to use the settings generator",
		GenDuplicateKey:     "settings key '%[1]s' is used by more than one member: %[2]s",
		GenInternalError:    "settings generation for '%[1]s' failed: %[2]s",
		HostParseError:      "%[1]s",
		HostBadAnnotation:   "malformed annotation '%[1]s': %[2]s",
		HostInvalidManifest: "%[1]s",
	}
)

// ID returns the stable external identifier, e.g. "FS001".
func (c Code) ID() string {
	return fmt.Sprintf("FS%03d", int(c))
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

// Template returns the positional message template of the code.
func (c Code) Template() string {
	if tmpl, ok := codeTemplate[c]; ok {
		return tmpl
	}
	return "%[1]s"
}

// Format applies args to the code's template.
func (c Code) Format(args ...string) string {
	vals := make([]any, len(args))
	for i, a := range args {
		vals[i] = a
	}
	return fmt.Sprintf(c.Template(), vals...)
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
