package query

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// Param is a named statement argument. Values are in the form database/sql
// accepts, as produced by record.Bind.
type Param struct {
	Name  string
	Value any
}

// Params is an ordered list of named arguments.
type Params []Param

// Lookup returns the value bound to name.
func (p Params) Lookup(name string) (any, bool) {
	for _, param := range p {
		if param.Name == name {
			return param.Value, true
		}
	}
	return nil, false
}

// Duplicate returns the first name bound twice.
func (p Params) Duplicate() (string, bool) {
	seen := make(map[string]bool, len(p))
	for _, param := range p {
		if seen[param.Name] {
			return param.Name, true
		}
		seen[param.Name] = true
	}
	return "", false
}

// Names returns the parameter names in binding order.
func (p Params) Names() []string {
	names := make([]string, len(p))
	for i, param := range p {
		names[i] = param.Name
	}
	return names
}

func (p Params) String() string {
	parts := make([]string, len(p))
	for i, param := range p {
		parts[i] = fmt.Sprintf("@%s=%v", param.Name, param.Value)
	}
	return strings.Join(parts, " ")
}

// QuoteIdent quotes a table or column name with backticks, which both MySQL
// and SQLite accept.
func QuoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// paramName builds a parameter name out of its parts, e.g.
// F_Person_Age_4. A part holding anything but ASCII letters and digits keeps
// its letters and digits followed by "x" and the FNV-1a hash of the whole
// part, so Person_A with B and Person with A_B get different names.
func paramName(parts ...string) string {
	var sb strings.Builder
	for i, part := range parts {
		if i > 0 {
			sb.WriteByte('_')
		}
		plain := true
		for _, c := range part {
			if c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' {
				sb.WriteRune(c)
			} else {
				plain = false
			}
		}
		if !plain {
			h := fnv.New32a()
			h.Write([]byte(part))
			fmt.Fprintf(&sb, "x%08x", h.Sum32())
		}
	}
	return sb.String()
}
