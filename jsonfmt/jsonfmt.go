// Package jsonfmt re-indents JSON documents pasted from logs or the
// command line.
package jsonfmt

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/pretty"
)

// Captures of LSP traffic tend to carry literal \n sequences mid-document.
const escapedNewline = `\n`

var indentOpts = &pretty.Options{
	// Width 1 expands every non-empty array and object onto its own lines
	Width:  1,
	Indent: "    ",
}

// Format strips literal \n sequences from input, then returns it
// re-serialized with 4-space indentation and key order preserved. The
// error carries the decoder's diagnosis for malformed input.
func Format(input string) (string, error) {
	cleaned := strings.ReplaceAll(input, escapedNewline, "")

	var doc any
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return "", err
	}

	formatted := pretty.PrettyOptions([]byte(cleaned), indentOpts)

	return strings.TrimSuffix(string(formatted), "\n"), nil
}
