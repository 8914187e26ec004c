package records

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/jwebster45206/calamity-forge/pkg/compileerr"
)

// FormKey identifies a record: the container that defines it plus its local id.
type FormKey struct {
	Mod string
	ID  uint32
}

// String renders "Skyrim.esm|0009AF0A".
func (k FormKey) String() string {
	return fmt.Sprintf("%s|%08X", k.Mod, k.ID)
}

// Less orders by container name (case-insensitive), then id.
func (k FormKey) Less(o FormKey) bool {
	a, b := FoldName(k.Mod), FoldName(o.Mod)
	if a != b {
		return a < b
	}
	return k.ID < o.ID
}

// Same compares container names case-insensitively.
func (k FormKey) Same(o FormKey) bool {
	return k.ID == o.ID && FoldName(k.Mod) == FoldName(o.Mod)
}

func (k FormKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *FormKey) UnmarshalText(text []byte) error {
	parsed, err := ParseFormKey(string(text), "formKey")
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseFormKey parses "Mod.esm|00ABCDEF"; the hex part may carry 0x.
// field names the source of the value in error messages.
func ParseFormKey(value, field string) (FormKey, error) {
	value = strings.TrimSpace(value)
	mod, hex, ok := strings.Cut(value, "|")
	mod, hex = strings.TrimSpace(mod), strings.TrimSpace(hex)
	if !ok || mod == "" || hex == "" {
		return FormKey{}, compileerr.Schema(field, "%s entry must be 'ModName.esm|00ABCDEF' (got: %s).", field, value)
	}

	if len(hex) > 2 && (hex[:2] == "0x" || hex[:2] == "0X") {
		hex = hex[2:]
	}
	id, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return FormKey{}, compileerr.Schema(field, "%s entry has invalid FormID hex value: %s", field, value)
	}
	return FormKey{Mod: mod, ID: uint32(id)}, nil
}

// FoldName case-folds an editor id or container name for comparisons.
func FoldName(s string) string {
	return cases.Fold().String(s)
}
