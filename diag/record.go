package diag

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Entry is one diagnostic: a code whose first letter is its severity (E, W
// or I) followed by a name such as "ENotFound", a short overview,
// and an arbitrary structured payload (typically a map[string]any) that
// gets pretty-printed under the overview line.
type Entry struct {
	Code     string
	Overview string
	Payload  any
}

// Severity returns the entry's leading severity letter: 'E', 'W', or 'I'.
func (e Entry) Severity() byte {
	if e.Code == "" {
		return 'I'
	}
	return e.Code[0]
}

// Record is an accumulating, composable result. A Record carries zero or
// more Entries and a Success flag; appending an Entry whose code begins
// with 'E' flips Success to false permanently. Records compose by
// concatenation: composition fails iff either operand has failed.
type Record struct {
	Entries []Entry
	Success bool
}

// New returns an empty, successful Record.
func New() *Record {
	return &Record{Success: true}
}

// Add appends a diagnostic entry. code must start with 'E', 'W', or 'I'.
func (r *Record) Add(code, overview string, payload any) {
	if code == "" || (code[0] != 'E' && code[0] != 'W' && code[0] != 'I') {
		panic(fmt.Sprintf("diag: invalid entry code %q", code))
	}
	r.Entries = append(r.Entries, Entry{Code: code, Overview: overview, Payload: payload})
	if code[0] == 'E' {
		r.Success = false
	}
}

// AddErrorf is a convenience that builds an E-coded entry from a format string.
func (r *Record) AddErrorf(code, format string, args ...any) {
	r.Add(code, fmt.Sprintf(format, args...), nil)
}

// Merge appends rhs's entries onto r in place and conjoins Success.
func (r *Record) Merge(rhs *Record) {
	if rhs == nil {
		return
	}
	r.Entries = append(r.Entries, rhs.Entries...)
	r.Success = r.Success && rhs.Success
}

// Combine returns a new Record that is the concatenation of the given
// records, in order. Combine(a, b).Success == a.Success && b.Success,
// matching the composition law in spec §8.
func Combine(records ...*Record) *Record {
	out := New()
	for _, rec := range records {
		out.Merge(rec)
	}
	return out
}

// Bool reports Success, mirroring the teacher's boolean-convertible Result.
func (r *Record) Bool() bool { return r.Success }

var (
	codeStyle = lipgloss.NewStyle().Bold(true)
	errStyle  = codeStyle.Foreground(lipgloss.Color("9"))
	warnStyle = codeStyle.Foreground(lipgloss.Color("11"))
	infoStyle = codeStyle.Foreground(lipgloss.Color("12"))
)

// String renders the record as a plain-text tree: one "code: overview" line
// per entry, followed by an indented dump of its payload when present.
func (r *Record) String() string {
	var b strings.Builder
	for _, e := range r.Entries {
		style := infoStyle
		switch e.Severity() {
		case 'E':
			style = errStyle
		case 'W':
			style = warnStyle
		}
		fmt.Fprintf(&b, "%s: %s\n", style.Render(e.Code), e.Overview)
		if e.Payload != nil {
			for _, line := range strings.Split(fmt.Sprintf("%+v", e.Payload), "\n") {
				fmt.Fprintf(&b, "    %s\n", line)
			}
		}
	}
	return b.String()
}
