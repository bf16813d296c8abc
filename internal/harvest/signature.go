package harvest

import (
	"regexp"
)

// TypeScript declaration patterns. Boundary heuristics only — no parser.
var (
	exportContainerRE   = regexp.MustCompile(`^\s*export\s+(interface|class|enum)\s+([A-Za-z_]\w*)\b`)
	exportConstObjectRE = regexp.MustCompile(`^\s*export\s+const\s+([A-Za-z_]\w*)\s*=\s*\{\s*$`)
	exportNamedRE       = regexp.MustCompile(`^\s*export\s+(?:interface|class|enum|type)\s+([A-Za-z_]\w*)\b`)
	exportConstRE       = regexp.MustCompile(`^\s*export\s+const\s+([A-Za-z_]\w*)\b`)
	memberRE            = regexp.MustCompile(`^\s*(?:public\s+|protected\s+|private\s+)?(?:readonly\s+)?([A-Za-z_]\w*)\s*\??\s*[:(]`)
	enumMemberRE        = regexp.MustCompile(`^\s*([A-Za-z_]\w*)\s*[=,]`)
)

// container is one exported declaration that can own members.
type container struct {
	line int
	name string
	kind string // interface | class | enum | const
}

// scanContainers indexes container declarations by line so member docs can be
// attributed to the enclosing symbol.
func scanContainers(lines []string) []container {
	var out []container
	for i, line := range lines {
		if m := exportContainerRE.FindStringSubmatch(line); m != nil {
			out = append(out, container{line: i, name: m[2], kind: m[1]})
			continue
		}
		if m := exportConstObjectRE.FindStringSubmatch(line); m != nil {
			out = append(out, container{line: i, name: m[1], kind: "const"})
		}
	}
	return out
}

// containerFor returns the last container declared at or above sigLine.
func containerFor(containers []container, sigLine int) (string, string) {
	if sigLine < 0 {
		return "", ""
	}
	name, kind := "", ""
	for _, c := range containers {
		if c.line > sigLine {
			break
		}
		name, kind = c.name, c.kind
	}
	return name, kind
}

// Aliases maps hidden or mixin container names to the public name their
// members should be documented under. Resolution is a plain lookup: harvest
// first builds the container index, then every member id is prefixed through
// this table.
type Aliases map[string]string

// Resolve maps a container name through the alias table.
func (a Aliases) Resolve(name string) string {
	if alias, ok := a[name]; ok {
		return alias
	}
	return name
}

// inferID derives the documentation identifier for a signature line, given
// its enclosing container. Returns "" when the line does not document an
// identifiable symbol.
func inferID(signature string, containerName, containerKind string, aliases Aliases) string {
	containerName = aliases.Resolve(containerName)

	if m := exportConstRE.FindStringSubmatch(signature); m != nil {
		return m[1]
	}
	if m := exportNamedRE.FindStringSubmatch(signature); m != nil {
		return m[1]
	}

	if containerName == "" {
		return ""
	}
	if containerKind == "enum" {
		if m := enumMemberRE.FindStringSubmatch(signature); m != nil {
			return containerName + "." + m[1]
		}
	}
	if m := memberRE.FindStringSubmatch(signature); m != nil {
		return containerName + "." + m[1]
	}
	return ""
}
